package session

import (
	"os"
	"path/filepath"

	"github.com/syncr-go/syncr/pkg/syncerr"
)

// atomicWrite replaces path's contents with data without ever exposing a
// partially-written file to a concurrent reader or a watcher that might be
// racing this same write: the data lands in a temp file on the same
// filesystem first, then a single rename publishes it. A cancelled pull
// leaves at most a stray temp file behind, never a truncated target.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return syncerr.Wrap(syncerr.FilesystemIO, path, err)
	}

	tmp, err := os.CreateTemp(dir, ".syncr-tmp-*")
	if err != nil {
		return syncerr.Wrap(syncerr.FilesystemIO, path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return syncerr.Wrap(syncerr.FilesystemIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		return syncerr.Wrap(syncerr.FilesystemIO, path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return syncerr.Wrap(syncerr.FilesystemIO, path, err)
	}
	return nil
}
