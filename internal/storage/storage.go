package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyCheckableRange = "checkable_range"
)

// ErrNotFound is returned when nothing has been stored yet.
var ErrNotFound = errors.New("storage: not found")

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens (or creates) the database in dir. A nil logger keeps
// Badger quiet.
func NewStorage(dir string, logger badger.Logger) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = logger

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

// LoadRanges reads the stored checkable-range table.
func (s *Storage) LoadRanges() ([][]int, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyCheckableRange))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ParseRanges(data)
}

// SaveRanges stores the checkable-range table in the text format.
func (s *Storage) SaveRanges(rows [][]int) error {
	data := FormatRanges(rows)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyCheckableRange), data)
	})
}
