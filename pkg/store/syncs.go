package store

import (
	"bytes"

	"github.com/google/uuid"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/syncr-go/syncr/pkg/peer"
	"github.com/syncr-go/syncr/pkg/syncerr"
)

// SyncConfig is one registered propagation target for a local root: when
// the root (or a descendant) changes, Peer is notified about the
// corresponding subpath rooted at RemotePath.
type SyncConfig struct {
	Peer       peer.ID
	RemotePath string
}

// LocalSyncs groups every SyncConfig registered for one local root.
type LocalSyncs struct {
	LocalPath string
	Configs   []SyncConfig
}

// AddSync appends a new SyncConfig to localPath's sequence. Duplicates are
// permitted: the sequence is a multiset, matching the data model's invariant
// that sync registrations are independent of permission state.
func (s *Store) AddSync(p peer.ID, remotePath, localPath string) error {
	entryID := uuid.NewString()
	value := make([]byte, 0, peer.IDLen+len(remotePath))
	value = append(value, p[:]...)
	value = append(value, []byte(remotePath)...)

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keySync(localPath, entryID), value)
	})
	if err != nil {
		return syncerr.Wrap(syncerr.StorageCorruption, localPath, err)
	}
	return nil
}

// ListSyncs returns every registered sync grouped by local root.
func (s *Store) ListSyncs() ([]LocalSyncs, error) {
	var groups []LocalSyncs
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := syncPrefix()
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		prefixLen := len(nsSync)
		var current *LocalSyncs

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			rest := key[prefixLen:]

			sep := bytes.IndexByte(rest, 0)
			if sep < 0 {
				return syncerr.New(syncerr.StorageCorruption, "malformed sync key: missing separator")
			}
			localPath := string(rest[:sep])

			cfg, err := decodeSyncValue(item)
			if err != nil {
				return err
			}

			if current == nil || current.LocalPath != localPath {
				if current != nil {
					groups = append(groups, *current)
				}
				current = &LocalSyncs{LocalPath: localPath}
			}
			current.Configs = append(current.Configs, cfg)
		}
		if current != nil {
			groups = append(groups, *current)
		}
		return nil
	})
	if err != nil {
		return nil, syncerr.Wrap(syncerr.StorageCorruption, "", err)
	}
	return groups, nil
}

func decodeSyncValue(item *badger.Item) (SyncConfig, error) {
	var cfg SyncConfig
	err := item.Value(func(val []byte) error {
		if len(val) < peer.IDLen {
			return syncerr.New(syncerr.StorageCorruption, "sync entry shorter than a peer identity")
		}
		id, err := peer.FromBytes(val[:peer.IDLen])
		if err != nil {
			return err
		}
		cfg = SyncConfig{Peer: id, RemotePath: string(val[peer.IDLen:])}
		return nil
	})
	return cfg, err
}
