// Package cid provides content identifiers for blocks.
//
// A Cid is a CIDv1: multicodec of the content, multihash of its bytes. The
// text form is multibase base32 lower case ("b" prefix). The type wraps
// github.com/ipfs/go-cid and stays comparable, so it can key a map.
package cid

import (
	"errors"
	"fmt"
	"strings"

	gocid "github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

// Multicodec codes used by this module.
const (
	Raw     uint64 = 0x55
	DagJSON uint64 = 0x0129

	SHA2_256 uint64 = mh.SHA2_256
	BLAKE3   uint64 = mh.BLAKE3
)

var (
	// ErrInvalid wraps every parse failure.
	ErrInvalid = errors.New("cid: invalid")
	// ErrUndefined is returned when an undefined Cid must be serialized.
	ErrUndefined = errors.New("cid: undefined")
)

// Undef is the zero Cid.
var Undef = Cid{}

// Cid is an immutable content identifier.
type Cid struct {
	c gocid.Cid
}

// New assembles a CIDv1 from a codec, a hash function code and its digest.
func New(codec, hash uint64, digest []byte) (Cid, error) {
	h, err := mh.Encode(digest, hash)
	if err != nil {
		return Undef, fmt.Errorf("cid: %w", err)
	}
	return Cid{gocid.NewCidV1(codec, h)}, nil
}

// Sum hashes data and returns the Cid for the given codec.
func Sum(data []byte, codec, hash uint64) (Cid, error) {
	switch hash {
	case SHA2_256, BLAKE3:
	default:
		return Undef, fmt.Errorf("cid: unsupported hash 0x%x", hash)
	}
	h, err := mh.Sum(data, hash, -1)
	if err != nil {
		return Undef, fmt.Errorf("cid: %w", err)
	}
	return Cid{gocid.NewCidV1(codec, h)}, nil
}

// HashByName resolves a configured hash function name.
func HashByName(name string) (uint64, error) {
	switch strings.ToLower(name) {
	case "sha2-256", "sha256":
		return SHA2_256, nil
	case "blake3":
		return BLAKE3, nil
	default:
		return 0, fmt.Errorf("cid: unknown hash %q", name)
	}
}

// Cast validates the binary form of a Cid.
func Cast(b []byte) (Cid, error) {
	c, err := gocid.Cast(b)
	if err != nil {
		return Undef, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return Cid{c}, nil
}

// Parse decodes the text form of a Cid.
func Parse(s string) (Cid, error) {
	if s == "" {
		return Undef, fmt.Errorf("%w: empty string", ErrInvalid)
	}
	c, err := gocid.Decode(s)
	if err != nil {
		return Undef, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return Cid{c}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Cid {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Defined reports whether c is not Undef.
func (c Cid) Defined() bool { return c.c.Defined() }

// Equals reports whether two Cids are identical.
func (c Cid) Equals(o Cid) bool { return c.c.Equals(o.c) }

// Bytes returns the binary form.
func (c Cid) Bytes() []byte { return c.c.Bytes() }

// String returns the base32 text form, or "" for Undef.
func (c Cid) String() string {
	if !c.Defined() {
		return ""
	}
	return c.c.String()
}

// Codec returns the multicodec of the content.
func (c Cid) Codec() uint64 {
	if !c.Defined() {
		return 0
	}
	return c.c.Type()
}

// HashCode returns the multihash function code.
func (c Cid) HashCode() uint64 {
	if !c.Defined() {
		return 0
	}
	return c.c.Prefix().MhType
}

// Digest returns the raw hash digest.
func (c Cid) Digest() []byte {
	if !c.Defined() {
		return nil
	}
	dec, err := mh.Decode(c.c.Hash())
	if err != nil {
		return nil
	}
	return dec.Digest
}

// MarshalText implements encoding.TextMarshaler.
func (c Cid) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text is Undef.
func (c *Cid) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = Undef
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
