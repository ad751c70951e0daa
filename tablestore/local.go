package tablestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/cayleygo/algebra"
)

const recordFileExt = ".table"

// LocalStore implements Store using the local file system: one file per
// signature under the root directory, written atomically via temp file and
// rename so readers never observe a partial record.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at the given directory, creating
// it if necessary.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, key+recordFileExt)
}

// Put upserts a record atomically.
func (s *LocalStore) Put(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := MarshalRecord(rec)
	if err != nil {
		return err
	}

	target := s.path(rec.Key())

	// Write to a temp file in the same directory so the rename is atomic.
	tmp, err := os.CreateTemp(s.root, rec.Key()+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0644)

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(s.root); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = "" // prevent deferred cleanup from removing the final file
	return nil
}

// Get returns the record for a signature, or ErrNotFound.
func (s *LocalStore) Get(ctx context.Context, sig algebra.Signature) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(sig.Key()))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalRecord(data)
}

// Delete removes the record file for a signature.
func (s *LocalStore) Delete(ctx context.Context, sig algebra.Signature) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.path(sig.Key()))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// List returns all stored records.
func (s *LocalStore) List(ctx context.Context) ([]*Record, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	var records []*Record
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordFileExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.root, entry.Name()))
		if err != nil {
			return nil, err
		}
		rec, err := UnmarshalRecord(data)
		if err != nil {
			// A structurally broken file is reported, not skipped; the
			// caller decides whether to recompute or fail the listing.
			return nil, fmt.Errorf("record %s: %w", entry.Name(), err)
		}
		records = append(records, rec)
	}
	return records, nil
}
