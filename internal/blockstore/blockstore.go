// Package blockstore stores universal values addressed by the Cid of their
// DAG-JSON encoding.
package blockstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Neumenon/ipld/cid"
	"github.com/Neumenon/ipld/codec/dagjson"
	"github.com/Neumenon/ipld/ipld"
)

var (
	// ErrNotFound is returned when no block is stored under a Cid.
	ErrNotFound = errors.New("blockstore: block not found")
	// ErrCorrupt is returned when stored bytes no longer hash to their Cid.
	ErrCorrupt = errors.New("blockstore: block does not match its cid")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("blockstore: store is closed")
)

// Store is a content-addressed value store.
type Store interface {
	// Put encodes v, stores it and returns its Cid. Storing the same value
	// twice is a no-op.
	Put(ctx context.Context, v *ipld.Value) (cid.Cid, error)
	// Get returns the value stored under c.
	Get(ctx context.Context, c cid.Cid) (*ipld.Value, error)
	// Has reports whether c is stored.
	Has(ctx context.Context, c cid.Cid) (bool, error)
	// Delete removes c. Deleting an absent block is not an error.
	Delete(ctx context.Context, c cid.Cid) error
	// Stat describes a stored block without decoding it.
	Stat(ctx context.Context, c cid.Cid) (BlockInfo, error)
	Close() error
}

// BlockInfo describes one stored block.
type BlockInfo struct {
	Cid         cid.Cid
	Size        int64 // encoded size
	Stored      int64 // size at rest, after compression
	Compression Compression
}

// Options configures a store.
type Options struct {
	// Hash is the multihash code used for new blocks. Zero means SHA2_256.
	Hash uint64
	// Compression applies to blocks at rest. Memory stores ignore it.
	Compression Compression
}

func (o Options) hash() uint64 {
	if o.Hash == 0 {
		return cid.SHA2_256
	}
	return o.Hash
}

// encode returns the Cid and canonical bytes of v.
func encode(v *ipld.Value, hash uint64) (cid.Cid, []byte, error) {
	c, data, err := dagjson.Sum(v, hash)
	if err != nil {
		return cid.Undef, nil, fmt.Errorf("blockstore: encode: %w", err)
	}
	return c, data, nil
}

// decode checks data against c before decoding it.
func decode(c cid.Cid, data []byte) (*ipld.Value, error) {
	got, err := cid.Sum(data, c.Codec(), c.HashCode())
	if err != nil {
		return nil, fmt.Errorf("blockstore: %s: %w", c, err)
	}
	if !got.Equals(c) {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, c)
	}
	v, err := dagjson.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("blockstore: %s: %w", c, err)
	}
	return v, nil
}
