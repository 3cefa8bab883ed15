// Package store provides durable persistence for the three pieces of
// daemon state that must survive a restart: watched paths, per-path peer
// permissions, and sync registrations. It is grounded on the teacher's
// embedded-Badger metadata store (pkg/store/metadata/badger): one
// *badger.DB, key-building helper functions per logical namespace, and
// db.View/db.Update closures for reads and writes. Every write commits
// before the call returns, satisfying the durability requirement.
package store

import (
	badger "github.com/dgraph-io/badger/v4"

	"github.com/syncr-go/syncr/internal/logger"
	"github.com/syncr-go/syncr/pkg/syncerr"
)

// Store is a durable, embedded key-value store partitioned into the
// watches, permissions, and syncs namespaces described in the data model.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) a Badger database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithSyncWrites(true).WithLogger(&badgerLogAdapter{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.StorageCorruption, dir, err)
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return syncerr.Wrap(syncerr.StorageCorruption, "", err)
	}
	return nil
}

// badgerLogAdapter routes Badger's internal logging through the daemon's
// structured logger instead of Badger's default stderr writer.
type badgerLogAdapter struct{}

func (badgerLogAdapter) Errorf(format string, args ...any)   { logger.Errorf("badger: "+format, args...) }
func (badgerLogAdapter) Warningf(format string, args ...any) { logger.Warnf("badger: "+format, args...) }
func (badgerLogAdapter) Infof(format string, args ...any)    { logger.Infof("badger: "+format, args...) }
func (badgerLogAdapter) Debugf(format string, args ...any)   { logger.Debugf("badger: "+format, args...) }
