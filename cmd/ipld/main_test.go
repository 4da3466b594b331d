package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neumenon/ipld/cid"
	"github.com/Neumenon/ipld/codec/dagjson"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// runCLI runs the command with an isolated config directory.
func runCLI(t *testing.T, configDir, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", configDir}, args...)
	code := run(full, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestVersion(t *testing.T) {
	r := runCLI(t, t.TempDir(), "", "version")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Equal(t, "ipld "+version+"\n", r.stdout)
}

func TestConfig_WritesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	r := runCLI(t, dir, "", "version")
	require.Equal(t, exitSuccess, r.code, r.stderr)

	data, err := os.ReadFile(filepath.Join(dir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "compression: zstd")
}

func TestInspect(t *testing.T) {
	r := runCLI(t, t.TempDir(), `{"b":"x","a":[1,null]}`, "inspect")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	want := `map (2)
  "a": list (2)
    [0]: integer 1
    [1]: null
  "b": string "x"
`
	assert.Equal(t, want, r.stdout)
}

func TestInspect_YAMLFromStdin(t *testing.T) {
	r := runCLI(t, t.TempDir(), "name: Ada\nraw: !!binary aGk=\n", "inspect")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, `"raw": bytes x'6869'`)
}

func TestInspect_BadFormatFlag(t *testing.T) {
	r := runCLI(t, t.TempDir(), `{}`, "--format", "toml", "inspect")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "unknown input format")
}

func TestLower(t *testing.T) {
	doc := `{"a":[{"b":300}],"name":"Ada","nick":null,"ratio":0.1}`
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"wraps narrow ints", []string{"--as", "uint8", "--path", "a/0/b"}, "44"},
		{"wide int", []string{"--as", "int64", "--path", "/a/0/b/"}, "300"},
		{"string", []string{"--as", "string", "--path", "name"}, "Ada"},
		{"float32", []string{"--as", "float32", "--path", "ratio"}, "0.1"},
		{"optional null", []string{"--as", "string", "--path", "nick", "--optional"}, "none"},
		{"optional missing", []string{"--as", "string", "--path", "gone", "--optional"}, "none"},
		{"optional present", []string{"--as", "string", "--path", "name", "--optional"}, "Ada"},
		{"unit", []string{"--as", "unit", "--path", "nick"}, "()"},
		{"list", []string{"--as", "list", "--path", "a"}, `[{"b": 300}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"lower"}, tt.args...)
			r := runCLI(t, t.TempDir(), doc, args...)
			require.Equal(t, exitSuccess, r.code, r.stderr)
			assert.Equal(t, tt.want+"\n", r.stdout)
		})
	}
}

func TestLower_MismatchJSON(t *testing.T) {
	r := runCLI(t, t.TempDir(), `{"name":"Ada"}`, "lower", "--as", "int", "--path", "name", "--json")
	assert.Equal(t, exitUserError, r.code)
	assert.Equal(t, `{"expected":"integer","found":"string"}`+"\n", r.stdout)
	assert.Empty(t, r.stderr)
}

func TestLower_MismatchText(t *testing.T) {
	r := runCLI(t, t.TempDir(), `{"flag":true}`, "lower", "--as", "string", "--path", "flag")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "expected string, found bool")
	assert.Empty(t, r.stdout)
}

func TestLower_NullIsMismatchWithoutOptional(t *testing.T) {
	r := runCLI(t, t.TempDir(), `{"nick":null}`, "lower", "--as", "string", "--path", "nick", "--json")
	assert.Equal(t, exitUserError, r.code)
	assert.Equal(t, `{"expected":"string","found":"null"}`+"\n", r.stdout)
}

func TestLower_BadPath(t *testing.T) {
	dir := t.TempDir()
	r := runCLI(t, dir, `{"a":[1]}`, "lower", "--as", "int", "--path", "a/5")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "out of range")

	r = runCLI(t, dir, `{"a":[1]}`, "lower", "--as", "int", "--path", "a/x")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "not a list index")

	r = runCLI(t, dir, `{"a":1}`, "lower", "--as", "int", "--path", "a/b")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "cannot descend into integer")

	r = runCLI(t, dir, `1`, "lower", "--as", "complex128")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "unknown type")
}

func TestCid(t *testing.T) {
	doc := `{"hello":"world"}`
	v, err := dagjson.Decode([]byte(doc))
	require.NoError(t, err)
	want, _, err := dagjson.Sum(v, cid.SHA2_256)
	require.NoError(t, err)

	r := runCLI(t, t.TempDir(), doc, "cid")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Equal(t, want.String()+"\n", r.stdout)

	r = runCLI(t, t.TempDir(), doc, "cid", "--hash", "blake3")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	got, err := cid.Parse(strings.TrimSpace(r.stdout))
	require.NoError(t, err)
	assert.Equal(t, cid.BLAKE3, got.HashCode())
}

func TestCid_HashFromConfigAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("hash: blake3\n"), 0o644))

	r := runCLI(t, dir, `1`, "cid")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	got, err := cid.Parse(strings.TrimSpace(r.stdout))
	require.NoError(t, err)
	assert.Equal(t, cid.BLAKE3, got.HashCode())

	t.Setenv("IPLD_HASH", "sha2-256")
	r = runCLI(t, dir, `1`, "cid")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	got, err = cid.Parse(strings.TrimSpace(r.stdout))
	require.NoError(t, err)
	assert.Equal(t, cid.SHA2_256, got.HashCode())
}

func TestPutGetStat(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(input, []byte("name: block\ncount: 3\nraw: !!binary AAEC\n"), 0o644))

	r := runCLI(t, dir, "", "put", input)
	require.Equal(t, exitSuccess, r.code, r.stderr)
	c := strings.TrimSpace(r.stdout)
	_, err := cid.Parse(c)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, defaultStoreDB))

	r = runCLI(t, dir, "", "get", c)
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Equal(t, `{"count":3,"name":"block","raw":{"/":{"bytes":"AAEC"}}}`+"\n", r.stdout)

	r = runCLI(t, dir, "", "get", c, "--to", "yaml")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "raw: !!binary AAEC")

	r = runCLI(t, dir, "", "stat", c)
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, c)
	assert.Contains(t, r.stdout, "(zstd)")
	assert.Contains(t, r.stdout, " B")
}

func TestPut_StoreFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "elsewhere", "custom.db")

	r := runCLI(t, dir, `{"a":1}`, "--store", store, "put")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.FileExists(t, store)
	assert.NoFileExists(t, filepath.Join(dir, defaultStoreDB))
}

func TestGet_Errors(t *testing.T) {
	dir := t.TempDir()
	missing, err := cid.Sum([]byte("absent"), cid.DagJSON, cid.SHA2_256)
	require.NoError(t, err)

	r := runCLI(t, dir, "", "get", missing.String())
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "not found")

	r = runCLI(t, dir, "", "get", "not-a-cid")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "invalid")

	r = runCLI(t, dir, "", "stat", missing.String())
	assert.Equal(t, exitUserError, r.code)
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	doc := `{"bytes":{"/":{"bytes":"aGk"}},"f":2.0,"n":-5}`

	r := runCLI(t, dir, doc, "convert", "--to", "yaml")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	yamlOut := r.stdout
	assert.Contains(t, yamlOut, "bytes: !!binary aGk=")

	r = runCLI(t, dir, yamlOut, "--format", "yaml", "convert", "--to", "json")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Equal(t, doc+"\n", r.stdout)

	r = runCLI(t, dir, doc, "convert", "--to", "xml")
	assert.Equal(t, exitUserError, r.code)
}

func TestMissingFile(t *testing.T) {
	r := runCLI(t, t.TempDir(), "", "inspect", filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "read input")
}
