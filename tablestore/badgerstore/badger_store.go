package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/hupe1980/cayleygo/algebra"
	"github.com/hupe1980/cayleygo/tablestore"
)

const keyPrefix = "table/"

// Options configures the Badger store.
type Options struct {
	// InMemory enables in-memory mode (no disk persistence). Useful for
	// testing. Path is ignored when set.
	InMemory bool

	// SyncWrites forces an fsync per write. Slower but durable across
	// power loss; table records are cheap to recompute, so this defaults
	// to off.
	SyncWrites bool
}

// Store implements tablestore.Store on an embedded BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a Badger-backed store at path.
func Open(path string, optFns ...func(*Options)) (*Store, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	badgerOpts := badger.DefaultOptions(path).
		WithInMemory(opts.InMemory).
		WithSyncWrites(opts.SyncWrites).
		WithLogger(nil)
	if opts.InMemory {
		badgerOpts = badgerOpts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database. The store is unusable afterwards.
func (s *Store) Close() error {
	return s.db.Close()
}

func storeKey(key string) []byte {
	return []byte(keyPrefix + key)
}

// Put upserts a record in a single transaction.
func (s *Store) Put(ctx context.Context, rec *tablestore.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := tablestore.MarshalRecord(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storeKey(rec.Key()), data)
	})
}

// Get returns the record for a signature, or ErrNotFound.
func (s *Store) Get(ctx context.Context, sig algebra.Signature) (*tablestore.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storeKey(sig.Key()))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, tablestore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tablestore.UnmarshalRecord(data)
}

// Delete removes the record for a signature.
func (s *Store) Delete(ctx context.Context, sig algebra.Signature) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(storeKey(sig.Key()))
	})
}

// List returns all stored records.
func (s *Store) List(ctx context.Context) ([]*tablestore.Record, error) {
	var records []*tablestore.Record

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			if !strings.HasPrefix(string(item.Key()), keyPrefix) {
				continue
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			rec, err := tablestore.UnmarshalRecord(data)
			if err != nil {
				return fmt.Errorf("record %s: %w", item.Key(), err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
