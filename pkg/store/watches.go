package store

import (
	badger "github.com/dgraph-io/badger/v4"

	"github.com/syncr-go/syncr/pkg/syncerr"
)

// AddWatch records path as watched. Idempotent.
func (s *Store) AddWatch(path string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyWatch(path), []byte{1})
	})
}

// RemoveWatch removes path from the watch set, reporting whether it was
// present beforehand.
func (s *Store) RemoveWatch(path string) (bool, error) {
	existed := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(keyWatch(path))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		existed = true
		return txn.Delete(keyWatch(path))
	})
	if err != nil {
		return false, syncerr.Wrap(syncerr.StorageCorruption, path, err)
	}
	return existed, nil
}

// ListWatches returns every currently watched path.
func (s *Store) ListWatches() ([]string, error) {
	var paths []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = watchPrefix()

		it := txn.NewIterator(opts)
		defer it.Close()

		prefixLen := len(nsWatch)
		for it.Seek(watchPrefix()); it.ValidForPrefix(watchPrefix()); it.Next() {
			key := it.Item().KeyCopy(nil)
			paths = append(paths, string(key[prefixLen:]))
		}
		return nil
	})
	if err != nil {
		return nil, syncerr.Wrap(syncerr.StorageCorruption, "", err)
	}
	return paths, nil
}
