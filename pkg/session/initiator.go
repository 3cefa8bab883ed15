package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/syncr-go/syncr/pkg/deltaengine"
	"github.com/syncr-go/syncr/pkg/syncerr"
	"github.com/syncr-go/syncr/pkg/wireformat"
)

// Pull drives the initiator side of the protocol over an already-connected
// conn: it completes the handshake (reading the responder's first, per the
// canonical ordering), then copies remotePath into localPath, auto-
// detecting whether remotePath names a file or a directory.
func Pull(ctx context.Context, conn Conn, remotePath, localPath string) error {
	if err := readHandshake(conn); err != nil {
		return err
	}
	if err := writeHandshake(conn); err != nil {
		return err
	}
	return pullPath(conn, remotePath, localPath)
}

func pullPath(conn Conn, remotePath, localPath string) error {
	info, statErr := os.Stat(localPath)
	switch {
	case statErr == nil && info.IsDir():
		return pullDirectory(conn, remotePath, localPath)
	case statErr == nil:
		return pullExistingFile(conn, remotePath, localPath)
	default:
		return pullUnknownPath(conn, remotePath, localPath)
	}
}

// pullUnknownPath handles a local_path that does not exist yet: it issues a
// ListRequest trial, since there is no local evidence of whether the
// remote path is a file or a directory. A responder that rejects the
// request with "not a directory" tells us to fall back to a single-file
// pull instead.
func pullUnknownPath(conn Conn, remotePath, localPath string) error {
	if err := wireformat.WriteFrame(conn, &wireformat.ListRequest{Path: remotePath}); err != nil {
		return err
	}
	msg, err := wireformat.ReadFrame(conn)
	if err != nil {
		return err
	}

	switch m := msg.(type) {
	case *wireformat.ListResponse:
		if err := os.MkdirAll(localPath, 0o755); err != nil {
			return syncerr.Wrap(syncerr.FilesystemIO, localPath, err)
		}
		return pullListEntries(conn, remotePath, localPath, m.Files)
	case *wireformat.ErrorMsg:
		if strings.Contains(m.Message, errNotADirectory) {
			return pullNewFile(conn, remotePath, localPath)
		}
		return syncerr.New(syncerr.NotFound, m.Message)
	default:
		return protocolUnexpected("expected ListResponse or Error, got %s", msg.Tag())
	}
}

func pullDirectory(conn Conn, remotePath, localPath string) error {
	if err := wireformat.WriteFrame(conn, &wireformat.ListRequest{Path: remotePath}); err != nil {
		return err
	}
	msg, err := wireformat.ReadFrame(conn)
	if err != nil {
		return err
	}
	lr, ok := msg.(*wireformat.ListResponse)
	if !ok {
		if em, ok := msg.(*wireformat.ErrorMsg); ok {
			return syncerr.New(syncerr.NotFound, em.Message)
		}
		return protocolUnexpected("expected ListResponse, got %s", msg.Tag())
	}
	return pullListEntries(conn, remotePath, localPath, lr.Files)
}

// pullListEntries walks a directory listing sequentially over the shared
// stream: only one request is ever outstanding on a session at a time, so
// entries cannot be fetched concurrently without opening separate streams.
// A failed entry is reported but does not abort the rest of the listing.
func pullListEntries(conn Conn, remoteRoot, localRoot string, files []wireformat.FileMetadata) error {
	var firstErr error
	for _, fm := range files {
		remoteChild := joinRemote(remoteRoot, fm.Path)
		localChild := filepath.Join(localRoot, filepath.FromSlash(fm.Path))

		if fm.IsDir {
			if err := os.MkdirAll(localChild, 0o755); err != nil && firstErr == nil {
				firstErr = syncerr.Wrap(syncerr.FilesystemIO, localChild, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(localChild), 0o755); err != nil {
			if firstErr == nil {
				firstErr = syncerr.Wrap(syncerr.FilesystemIO, localChild, err)
			}
			continue
		}
		if err := pullPath(conn, remoteChild, localChild); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// pullExistingFile uses the delta path: the local file already exists, so
// its signature is sent and only the difference travels the wire.
func pullExistingFile(conn Conn, remotePath, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return syncerr.Wrap(syncerr.FilesystemIO, localPath, err)
	}
	sig := deltaengine.Signature(data)
	if err := wireformat.WriteFrame(conn, &wireformat.FileSignature{Path: remotePath, Signature: sig}); err != nil {
		return err
	}

	msg, err := wireformat.ReadFrame(conn)
	if err != nil {
		return err
	}
	switch m := msg.(type) {
	case *wireformat.FileDelta:
		newData, err := deltaengine.Apply(data, m.Delta)
		if err != nil {
			return err
		}
		return atomicWrite(localPath, newData)
	case *wireformat.ErrorMsg:
		return syncerr.New(syncerr.NotFound, m.Message)
	default:
		return protocolUnexpected("expected FileDelta, got %s", msg.Tag())
	}
}

// pullNewFile fetches remotePath whole, since there is no local copy to
// diff against.
func pullNewFile(conn Conn, remotePath, localPath string) error {
	if err := wireformat.WriteFrame(conn, &wireformat.FileRequest{Path: remotePath}); err != nil {
		return err
	}
	msg, err := wireformat.ReadFrame(conn)
	if err != nil {
		return err
	}
	switch m := msg.(type) {
	case *wireformat.FileData:
		return atomicWrite(localPath, m.Data)
	case *wireformat.ErrorMsg:
		return syncerr.New(syncerr.NotFound, m.Message)
	default:
		return protocolUnexpected("expected FileData, got %s", msg.Tag())
	}
}

// Notify completes the handshake and fires a one-shot
// FileUpdateNotification; the caller is expected to close conn immediately
// after, since no reply is expected.
func Notify(ctx context.Context, conn Conn, path string) error {
	if err := readHandshake(conn); err != nil {
		return err
	}
	if err := writeHandshake(conn); err != nil {
		return err
	}
	return wireformat.WriteFrame(conn, &wireformat.FileUpdateNotification{Path: path})
}

// RequestStartSync completes the handshake and asks the remote to register
// path for reverse-propagation notifications. The responder only replies
// on denial; ctx's deadline bounds how long this waits for that optional
// reply before treating silence as success.
func RequestStartSync(ctx context.Context, conn Conn, path string) error {
	if err := readHandshake(conn); err != nil {
		return err
	}
	if err := writeHandshake(conn); err != nil {
		return err
	}
	if err := wireformat.WriteFrame(conn, &wireformat.StartSync{Path: path}); err != nil {
		return err
	}

	type result struct {
		msg wireformat.Message
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		msg, err := wireformat.ReadFrame(conn)
		resultCh <- result{msg, err}
	}()

	select {
	case <-ctx.Done():
		return nil
	case res := <-resultCh:
		if res.err != nil {
			return nil
		}
		if em, ok := res.msg.(*wireformat.ErrorMsg); ok {
			return syncerr.New(syncerr.PermissionDenied, em.Message)
		}
		return nil
	}
}
