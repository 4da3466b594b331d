package blockstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/Neumenon/ipld/cid"
	"github.com/Neumenon/ipld/internal/logging"
	"github.com/Neumenon/ipld/ipld"
)

// Memory is an in-memory block store.
// It is thread-safe for concurrent access.
type Memory struct {
	hash   uint64
	mu     sync.RWMutex
	blocks map[cid.Cid][]byte
	closed bool
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory(opts Options) *Memory {
	return &Memory{
		hash:   opts.hash(),
		blocks: make(map[cid.Cid][]byte),
	}
}

// Put stores v and returns its Cid.
func (m *Memory) Put(ctx context.Context, v *ipld.Value) (cid.Cid, error) {
	c, data, err := encode(v, m.hash)
	if err != nil {
		return cid.Undef, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return cid.Undef, ErrClosed
	}
	m.blocks[c] = data
	logging.BlockEvent(ctx, "put", c.String(), len(data), "store", "memory")
	return c, nil
}

// Get retrieves a value by Cid.
func (m *Memory) Get(ctx context.Context, c cid.Cid) (*ipld.Value, error) {
	data, err := m.load(c)
	if err != nil {
		return nil, err
	}
	logging.BlockEvent(ctx, "get", c.String(), len(data), "store", "memory")
	return decode(c, data)
}

// Has checks if a block exists.
func (m *Memory) Has(_ context.Context, c cid.Cid) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false, ErrClosed
	}
	_, ok := m.blocks[c]
	return ok, nil
}

// Delete removes a block.
func (m *Memory) Delete(ctx context.Context, c cid.Cid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.blocks, c)
	logging.BlockEvent(ctx, "delete", c.String(), 0, "store", "memory")
	return nil
}

// Stat returns metadata without decoding the block.
func (m *Memory) Stat(_ context.Context, c cid.Cid) (BlockInfo, error) {
	data, err := m.load(c)
	if err != nil {
		return BlockInfo{}, err
	}
	n := int64(len(data))
	return BlockInfo{Cid: c, Size: n, Stored: n, Compression: CompressionNone}, nil
}

// Close drops all blocks.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.blocks = nil
	return nil
}

func (m *Memory) load(c cid.Cid) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	data, ok := m.blocks[c]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, c)
	}
	return data, nil
}
