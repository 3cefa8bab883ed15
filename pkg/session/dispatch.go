package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/syncr-go/syncr/internal/logger"
	"github.com/syncr-go/syncr/pkg/deltaengine"
	"github.com/syncr-go/syncr/pkg/peer"
	"github.com/syncr-go/syncr/pkg/store"
	"github.com/syncr-go/syncr/pkg/syncerr"
	"github.com/syncr-go/syncr/pkg/wireformat"
)

const errNotADirectory = "not a directory"

func sendError(conn Conn, message string) error {
	return wireformat.WriteFrame(conn, &wireformat.ErrorMsg{Message: message})
}

func handleFileRequest(conn Conn, deps Deps, msg *wireformat.FileRequest) error {
	info, err := os.Stat(msg.Path)
	if err != nil || info.IsDir() {
		return sendError(conn, "not found")
	}
	data, err := os.ReadFile(msg.Path)
	if err != nil {
		return sendError(conn, "read failed")
	}
	deps.Metrics.BytesTransferredFull(len(data))
	return wireformat.WriteFrame(conn, &wireformat.FileData{Path: msg.Path, Data: data, Offset: 0, IsLast: true})
}

func handleFileSignature(conn Conn, deps Deps, msg *wireformat.FileSignature) error {
	info, err := os.Stat(msg.Path)
	if err != nil || info.IsDir() {
		return sendError(conn, "not found")
	}
	data, err := os.ReadFile(msg.Path)
	if err != nil {
		return sendError(conn, "read failed")
	}
	delta, err := deltaengine.Delta(msg.Signature, data)
	if err != nil {
		return sendError(conn, "delta computation failed")
	}
	deps.Metrics.BytesTransferredDelta(len(delta))
	return wireformat.WriteFrame(conn, &wireformat.FileDelta{Path: msg.Path, Delta: delta})
}

func handleListRequest(conn Conn, msg *wireformat.ListRequest) error {
	info, err := os.Stat(msg.Path)
	if err != nil || !info.IsDir() {
		return sendError(conn, errNotADirectory)
	}

	var files []wireformat.FileMetadata
	walkErr := filepath.WalkDir(msg.Path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == msg.Path {
			return nil
		}
		rel, relErr := filepath.Rel(msg.Path, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		entryInfo, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		files = append(files, wireformat.FileMetadata{
			Path:     rel,
			Len:      uint64(entryInfo.Size()),
			Modified: uint64(entryInfo.ModTime().Unix()),
			IsDir:    d.IsDir(),
		})
		return nil
	})
	if walkErr != nil {
		return sendError(conn, "list failed")
	}
	return wireformat.WriteFrame(conn, &wireformat.ListResponse{Files: files})
}

func handleStartSync(conn Conn, remote peer.ID, deps Deps, msg *wireformat.StartSync) error {
	canonical, err := canonicalize(msg.Path)
	if err != nil {
		return sendError(conn, "Access denied or path not allowed")
	}

	allowed, err := deps.Store.IsAllowed(canonical, remote)
	if err != nil || !allowed {
		return sendError(conn, "Access denied or path not allowed")
	}

	if err := deps.Store.AddSync(remote, msg.Path, canonical); err != nil {
		return syncerr.Wrap(syncerr.StorageCorruption, canonical, err)
	}
	if err := deps.Store.AddWatch(canonical); err != nil {
		return syncerr.Wrap(syncerr.StorageCorruption, canonical, err)
	}
	if deps.Watcher != nil {
		if err := deps.Watcher.Watch(canonical); err != nil {
			return syncerr.Wrap(syncerr.FilesystemIO, canonical, err)
		}
	}
	return nil
}

// handleFileUpdateNotification implements the reverse-propagation rule: a
// notified path is matched against every sync this responder has
// registered with the sender, exactly or by directory prefix, and each
// match triggers a fresh outbound pull of the notified path. Matching is
// best-effort; a failed pull is logged and does not affect the others.
func handleFileUpdateNotification(ctx context.Context, remote peer.ID, deps Deps, msg *wireformat.FileUpdateNotification) {
	syncs, err := deps.Store.ListSyncs()
	if err != nil {
		logger.ErrorCtx(ctx, "failed to list syncs for notification", "error", err.Error())
		return
	}

	for _, ls := range syncs {
		for _, cfg := range ls.Configs {
			if cfg.Peer != remote {
				continue
			}
			if !pathMatches(cfg.RemotePath, msg.Path) {
				continue
			}
			go pullNotifiedPath(ctx, remote, deps, cfg, ls.LocalPath, msg.Path)
		}
	}
}

// pathMatches reports whether notifiedPath is syncRoot itself or lives
// underneath it.
func pathMatches(syncRoot, notifiedPath string) bool {
	if syncRoot == notifiedPath {
		return true
	}
	return strings.HasPrefix(notifiedPath, strings.TrimRight(syncRoot, "/")+"/")
}

func pullNotifiedPath(ctx context.Context, remote peer.ID, deps Deps, cfg store.SyncConfig, localRoot, notifiedPath string) {
	if deps.Dialer == nil {
		return
	}
	conn, err := deps.Dialer.DialByID(ctx, remote)
	if err != nil {
		logger.WarnCtx(ctx, "follow-up dial failed", "error", err.Error())
		return
	}
	defer conn.Close()

	rel := strings.TrimPrefix(notifiedPath, cfg.RemotePath)
	rel = strings.TrimPrefix(rel, "/")
	localPath := filepath.Join(localRoot, filepath.FromSlash(rel))

	if err := Pull(ctx, conn, notifiedPath, localPath); err != nil {
		logger.WarnCtx(ctx, "follow-up pull failed", "path", notifiedPath, "error", err.Error())
	}
}
