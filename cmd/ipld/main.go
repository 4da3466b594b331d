// Command ipld inspects, converts, lowers and stores universal values.
//
// Usage:
//
//	ipld inspect [file]                       Print the kind tree of a document
//	ipld lower --as <type> [--path p] [file]  Lower one field to a native type
//	ipld cid [file]                           Print the DAG-JSON cid of a document
//	ipld put [file]                           Store a document in the block store
//	ipld get <cid>                            Print a stored document
//	ipld stat <cid>                           Describe a stored block
//	ipld convert --to json|yaml [file]        Re-encode a document
//	ipld version                              Print version info
//
// If no file is given, or the file is "-", input is read from stdin.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries a non-default exit code. A silent exitError has already
// reported itself.
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// sysErr marks err as an environment failure rather than bad input.
func sysErr(err error) error {
	return &exitError{code: exitSysError, err: err}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.silent {
			fmt.Fprintln(stderr, "Error:", ee)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitUserError
}
