package store

import (
	badger "github.com/dgraph-io/badger/v4"

	"github.com/syncr-go/syncr/pkg/peer"
	"github.com/syncr-go/syncr/pkg/syncerr"
)

// Allow grants p the right to request StartSync on path. Idempotent:
// calling it twice leaves a single occurrence of p in Permissions(path).
func (s *Store) Allow(path string, p peer.ID) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyPermission(path, p.String()), []byte{1})
	})
	if err != nil {
		return syncerr.Wrap(syncerr.StorageCorruption, path, err)
	}
	return nil
}

// Disallow revokes p's permission on path. A no-op if p was never allowed.
func (s *Store) Disallow(path string, p peer.ID) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		key := keyPermission(path, p.String())
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return syncerr.Wrap(syncerr.StorageCorruption, path, err)
	}
	return nil
}

// Permissions returns every peer currently allowed on path.
func (s *Store) Permissions(path string) ([]peer.ID, error) {
	var peers []peer.ID
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := permissionPrefix(path)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			hexPeer := string(key[len(prefix):])
			id, err := peer.Parse(hexPeer)
			if err != nil {
				return err
			}
			peers = append(peers, id)
		}
		return nil
	})
	if err != nil {
		return nil, syncerr.Wrap(syncerr.StorageCorruption, path, err)
	}
	return peers, nil
}

// IsAllowed reports whether p is currently permitted on path.
func (s *Store) IsAllowed(path string, p peer.ID) (bool, error) {
	allowed := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(keyPermission(path, p.String()))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		allowed = true
		return nil
	})
	if err != nil {
		return false, syncerr.Wrap(syncerr.StorageCorruption, path, err)
	}
	return allowed, nil
}
