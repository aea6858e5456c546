package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/pawnpush/internal/board"
)

// Storage keys
const (
	keyWhitePushes = "pushes/white"
	keyBlackPushes = "pushes/black"
	keyMeta        = "pushes/meta"
)

// TableVersion is bumped whenever the table layout or square mapping changes.
const TableVersion = 1

var (
	// ErrTableNotFound means no push table has been saved yet.
	ErrTableNotFound = errors.New("push table not found")
	// ErrTableCorrupt means the stored table failed its checksum or rules.
	ErrTableCorrupt = errors.New("push table corrupt")
)

// TableMeta describes a stored push table.
type TableMeta struct {
	Version     int       `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
	Checksum    uint64    `json:"checksum"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Checksum hashes both rows of the table in square order.
func Checksum(t *board.PushTable) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, c := range board.Colors {
		for _, v := range t.Row(c) {
			binary.LittleEndian.PutUint64(buf[:], v)
			h.Write(buf[:])
		}
	}
	return h.Sum64()
}

// SavePushTable stores both rows and their metadata in one transaction.
func (s *Storage) SavePushTable(t board.PushTable) error {
	white, err := json.Marshal(t.Row(board.White))
	if err != nil {
		return err
	}
	black, err := json.Marshal(t.Row(board.Black))
	if err != nil {
		return err
	}
	meta, err := json.Marshal(TableMeta{
		Version:     TableVersion,
		GeneratedAt: time.Now().UTC(),
		Checksum:    Checksum(&t),
	})
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyWhitePushes), white); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyBlackPushes), black); err != nil {
			return err
		}
		return txn.Set([]byte(keyMeta), meta)
	})
}

// LoadPushTable reads back a table saved by SavePushTable. The table is
// checked against its checksum and the push rules before it is returned.
func (s *Storage) LoadPushTable() (board.PushTable, *TableMeta, error) {
	var (
		white, black [board.NumSquares]uint64
		meta         TableMeta
	)

	err := s.db.View(func(txn *badger.Txn) error {
		if err := getJSON(txn, keyMeta, &meta); err != nil {
			return err
		}
		if err := getJSON(txn, keyWhitePushes, &white); err != nil {
			return err
		}
		return getJSON(txn, keyBlackPushes, &black)
	})
	if err != nil {
		return board.PushTable{}, nil, err
	}

	if meta.Version != TableVersion {
		return board.PushTable{}, nil, fmt.Errorf("%w: version %d, want %d", ErrTableCorrupt, meta.Version, TableVersion)
	}

	t := board.PushTableFromRows(white, black)
	if sum := Checksum(&t); sum != meta.Checksum {
		return board.PushTable{}, nil, fmt.Errorf("%w: checksum %#x, want %#x", ErrTableCorrupt, sum, meta.Checksum)
	}
	if err := t.Validate(); err != nil {
		return board.PushTable{}, nil, fmt.Errorf("%w: %v", ErrTableCorrupt, err)
	}

	return t, &meta, nil
}

// DeletePushTable removes any stored table.
func (s *Storage) DeletePushTable() error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range []string{keyWhitePushes, keyBlackPushes, keyMeta} {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return ErrTableNotFound
	}
	if err != nil {
		return err
	}

	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTableCorrupt, key, err)
		}
		return nil
	})
}
