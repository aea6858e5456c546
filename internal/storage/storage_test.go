package storage

import (
	"encoding/binary"
	"errors"
	"os"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/pawnpush/internal/board"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "pawnpush-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPushTableRoundTrip(t *testing.T) {
	s := openTemp(t)

	if _, _, err := s.LoadPushTable(); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound on empty db, got %v", err)
	}

	want := board.MustBuildPushTable()
	if err := s.SavePushTable(want); err != nil {
		t.Fatalf("SavePushTable failed: %v", err)
	}

	got, meta, err := s.LoadPushTable()
	if err != nil {
		t.Fatalf("LoadPushTable failed: %v", err)
	}
	if !got.Equal(&want) {
		t.Error("loaded table differs from saved table")
	}
	if meta.Version != TableVersion {
		t.Errorf("expected version %d, got %d", TableVersion, meta.Version)
	}
	if meta.Checksum != Checksum(&want) {
		t.Errorf("checksum mismatch: %#x vs %#x", meta.Checksum, Checksum(&want))
	}
	if meta.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}

	if err := s.DeletePushTable(); err != nil {
		t.Fatalf("DeletePushTable failed: %v", err)
	}
	if _, _, err := s.LoadPushTable(); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound after delete, got %v", err)
	}
}

func TestLoadRejectsCorruptTable(t *testing.T) {
	t.Run("BadChecksum", func(t *testing.T) {
		s := openTemp(t)
		if err := s.SavePushTable(board.MustBuildPushTable()); err != nil {
			t.Fatal(err)
		}
		err := s.db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(keyWhitePushes), []byte("[0]"))
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := s.LoadPushTable(); !errors.Is(err, ErrTableCorrupt) {
			t.Errorf("expected ErrTableCorrupt, got %v", err)
		}
	})

	t.Run("BadJSON", func(t *testing.T) {
		s := openTemp(t)
		if err := s.SavePushTable(board.MustBuildPushTable()); err != nil {
			t.Fatal(err)
		}
		err := s.db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(keyBlackPushes), []byte("not json"))
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := s.LoadPushTable(); !errors.Is(err, ErrTableCorrupt) {
			t.Errorf("expected ErrTableCorrupt, got %v", err)
		}
	})

	t.Run("RuleViolation", func(t *testing.T) {
		// A table with a consistent checksum that still breaks the push rules.
		s := openTemp(t)
		table := board.MustBuildPushTable()
		table[board.White][board.E3] |= board.SquareBB(board.E5)
		if err := s.SavePushTable(table); err != nil {
			t.Fatal(err)
		}
		if _, _, err := s.LoadPushTable(); !errors.Is(err, ErrTableCorrupt) {
			t.Errorf("expected ErrTableCorrupt, got %v", err)
		}
	})
}

func TestChecksum(t *testing.T) {
	table := board.MustBuildPushTable()

	packed := make([]byte, 0, 2*board.NumSquares*8)
	for _, c := range board.Colors {
		for _, v := range table.Row(c) {
			packed = binary.LittleEndian.AppendUint64(packed, v)
		}
	}
	if got, want := Checksum(&table), xxhash.Sum64(packed); got != want {
		t.Errorf("Checksum = %#x, want xxhash of packed rows %#x", got, want)
	}

	other := table
	other[board.Black][board.H7] = board.SquareBB(board.H6)
	if Checksum(&other) == Checksum(&table) {
		t.Error("checksum did not change when an entry changed")
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	t.Logf("Data directory: %s", dataDir)
}
