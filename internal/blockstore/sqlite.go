package blockstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/Neumenon/ipld/cid"
	"github.com/Neumenon/ipld/internal/logging"
	"github.com/Neumenon/ipld/ipld"
)

// Schema DDL. Each block records the compression it was written with, so
// changing the configured compression never strands older blocks.
const createBlocks = `CREATE TABLE IF NOT EXISTS blocks (
    cid TEXT PRIMARY KEY,
    codec INTEGER NOT NULL,
    compression TEXT NOT NULL,
    size INTEGER NOT NULL,
    data BLOB NOT NULL
);`

// SQLite is a block store backed by a single SQLite database file.
type SQLite struct {
	mu          sync.RWMutex
	db          *sql.DB
	path        string
	hash        uint64
	compression Compression
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens or creates the database at path, creating parent
// directories as needed.
func OpenSQLite(ctx context.Context, path string, opts Options) (*SQLite, error) {
	comp := opts.Compression
	if comp == "" {
		comp = CompressionZstd
	}
	if _, err := ParseCompression(string(comp)); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("blockstore: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("blockstore: open %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, createBlocks); err != nil {
		db.Close()
		return nil, fmt.Errorf("blockstore: schema: %w", err)
	}
	logging.DebugContext(ctx, "block store opened", "path", path, "compression", string(comp))

	return &SQLite{
		db:          db,
		path:        path,
		hash:        opts.hash(),
		compression: comp,
	}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Put stores v and returns its Cid.
func (s *SQLite) Put(ctx context.Context, v *ipld.Value) (cid.Cid, error) {
	c, data, err := encode(v, s.hash)
	if err != nil {
		return cid.Undef, err
	}
	packed, err := compress(s.compression, data)
	if err != nil {
		return cid.Undef, fmt.Errorf("blockstore: compress: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return cid.Undef, ErrClosed
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO blocks (cid, codec, compression, size, data) VALUES (?, ?, ?, ?, ?)",
		c.String(), int64(c.Codec()), string(s.compression), len(data), packed,
	)
	if err != nil {
		return cid.Undef, fmt.Errorf("blockstore: put %s: %w", c, err)
	}
	logging.BlockEvent(ctx, "put", c.String(), len(data), "stored", len(packed), "compression", string(s.compression))
	return c, nil
}

// Get retrieves and verifies a value by Cid.
func (s *SQLite) Get(ctx context.Context, c cid.Cid) (*ipld.Value, error) {
	var (
		comp   string
		packed []byte
	)
	err := s.queryRow(ctx, c, "SELECT compression, data FROM blocks WHERE cid = ?", &comp, &packed)
	if err != nil {
		return nil, err
	}
	data, err := decompress(Compression(comp), packed)
	if err != nil {
		return nil, fmt.Errorf("blockstore: %s: decompress: %w", c, err)
	}
	logging.BlockEvent(ctx, "get", c.String(), len(data), "stored", len(packed))
	return decode(c, data)
}

// Has checks if a block exists.
func (s *SQLite) Has(ctx context.Context, c cid.Cid) (bool, error) {
	var one int
	err := s.queryRow(ctx, c, "SELECT 1 FROM blocks WHERE cid = ?", &one)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes a block.
func (s *SQLite) Delete(ctx context.Context, c cid.Cid) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM blocks WHERE cid = ?", c.String()); err != nil {
		return fmt.Errorf("blockstore: delete %s: %w", c, err)
	}
	logging.BlockEvent(ctx, "delete", c.String(), 0)
	return nil
}

// Stat returns block metadata without reading the payload.
func (s *SQLite) Stat(ctx context.Context, c cid.Cid) (BlockInfo, error) {
	var (
		comp   string
		size   int64
		stored int64
	)
	err := s.queryRow(ctx, c, "SELECT compression, size, length(data) FROM blocks WHERE cid = ?", &comp, &size, &stored)
	if err != nil {
		return BlockInfo{}, err
	}
	return BlockInfo{Cid: c, Size: size, Stored: stored, Compression: Compression(comp)}, nil
}

// Close closes the database. Further calls return ErrClosed.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLite) queryRow(ctx context.Context, c cid.Cid, query string, dest ...any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.QueryRowContext(ctx, query, c.String()).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, c)
	}
	if err != nil {
		return fmt.Errorf("blockstore: %s: %w", c, err)
	}
	return nil
}
