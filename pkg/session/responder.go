package session

import (
	"context"
	"errors"
	"io"

	"github.com/syncr-go/syncr/internal/logger"
	"github.com/syncr-go/syncr/pkg/metrics"
	"github.com/syncr-go/syncr/pkg/peer"
	"github.com/syncr-go/syncr/pkg/store"
	"github.com/syncr-go/syncr/pkg/watcher"
	"github.com/syncr-go/syncr/pkg/wireformat"
)

// Dialer opens an outbound stream to an already-known peer, used by the
// FileUpdateNotification handler to pull the changed path back. Satisfied
// by the endpoint package's adapter around *transport.Transport (whose own
// DialByID returns *transport.Stream); declared locally to keep this
// package from depending on the transport package's libp2p plumbing.
type Dialer interface {
	DialByID(ctx context.Context, id peer.ID) (Conn, error)
}

// Deps collects everything a responder needs to service requests: the
// metadata store for permission and sync-registration lookups, the live
// watcher to arm newly registered paths, and a dialer for the follow-up
// pulls a FileUpdateNotification triggers.
type Deps struct {
	Store   *store.Store
	Watcher *watcher.Watcher
	Dialer  Dialer
	Metrics *metrics.Metrics
}

// Serve runs the responder side of the protocol to completion: it speaks
// the canonical Handshake first, then dispatches frames until the remote
// closes the connection or sends something the responder cannot parse.
// Normal peer disconnects (EOF) are not reported as errors.
func Serve(ctx context.Context, conn Conn, remote peer.ID, deps Deps) error {
	ctx = logger.WithContext(ctx, &logger.LogContext{Operation: "session.serve", PeerID: remote.Short(), Role: "responder"})

	if err := writeHandshake(conn); err != nil {
		return err
	}
	if err := readHandshake(conn); err != nil {
		return err
	}

	for {
		msg, err := wireformat.ReadFrame(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := dispatch(ctx, conn, remote, deps, msg); err != nil {
			logger.WarnCtx(ctx, "session dispatch error", "error", err.Error())
		}
	}
}

func dispatch(ctx context.Context, conn Conn, remote peer.ID, deps Deps, msg wireformat.Message) error {
	deps.Metrics.FrameServed(msg.Tag().String())

	switch m := msg.(type) {
	case *wireformat.FileRequest:
		return handleFileRequest(conn, deps, m)
	case *wireformat.FileSignature:
		return handleFileSignature(conn, deps, m)
	case *wireformat.ListRequest:
		return handleListRequest(conn, m)
	case *wireformat.StartSync:
		return handleStartSync(conn, remote, deps, m)
	case *wireformat.FileUpdateNotification:
		handleFileUpdateNotification(ctx, remote, deps, m)
		return nil
	default:
		logger.WarnCtx(ctx, "ignoring unexpected message", "tag", msg.Tag().String())
		return nil
	}
}
