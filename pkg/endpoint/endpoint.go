// Package endpoint wires the transport, the session responder, and the
// sync manager together into the daemon's long-running server loop: bind,
// arm watches, accept connections, spawn sessions, and shut down with
// bounded grace.
package endpoint

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/syncr-go/syncr/internal/logger"
	"github.com/syncr-go/syncr/pkg/metrics"
	"github.com/syncr-go/syncr/pkg/peer"
	"github.com/syncr-go/syncr/pkg/session"
	"github.com/syncr-go/syncr/pkg/store"
	"github.com/syncr-go/syncr/pkg/syncmanager"
	"github.com/syncr-go/syncr/pkg/transport"
	"github.com/syncr-go/syncr/pkg/watcher"
)

// DefaultShutdownGrace bounds how long Run waits for in-flight sessions to
// finish once its context is cancelled.
const DefaultShutdownGrace = 10 * time.Second

// transportDialer adapts *transport.Transport's concretely-typed DialByID
// to the session.Dialer / syncmanager.Dialer interfaces, which both return
// the abstract Conn the upper layers depend on instead of *transport.Stream.
type transportDialer struct {
	t *transport.Transport
}

func (d *transportDialer) DialByID(ctx context.Context, id peer.ID) (session.Conn, error) {
	s, err := d.t.DialByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Endpoint is one running daemon instance: a bound transport plus the
// store and watcher it shares between the session responder and the sync
// manager.
type Endpoint struct {
	transport     *transport.Transport
	store         *store.Store
	watcher       *watcher.Watcher
	syncMgr       *syncmanager.Manager
	localID       peer.ID
	shutdownGrace time.Duration
	metrics       *metrics.Metrics

	wg sync.WaitGroup
}

// New binds an Endpoint around an already-constructed transport, store,
// and watcher. shutdownGrace of zero uses DefaultShutdownGrace. m may be
// nil, in which case metrics recording is a no-op throughout the endpoint
// and the sync manager it owns.
func New(t *transport.Transport, s *store.Store, w *watcher.Watcher, shutdownGrace time.Duration, m *metrics.Metrics) (*Endpoint, error) {
	localID, err := t.LocalID()
	if err != nil {
		return nil, err
	}
	if shutdownGrace <= 0 {
		shutdownGrace = DefaultShutdownGrace
	}

	dialer := &transportDialer{t: t}
	mgr := syncmanager.New(s, w, dialer, 0, m)

	return &Endpoint{
		transport:     t,
		store:         s,
		watcher:       w,
		syncMgr:       mgr,
		localID:       localID,
		shutdownGrace: shutdownGrace,
		metrics:       m,
	}, nil
}

// LocalID returns this endpoint's own peer identity.
func (e *Endpoint) LocalID() peer.ID { return e.localID }

// Run arms every recorded watch, then runs the accept loop and the sync
// manager concurrently until ctx is cancelled. It returns once both have
// stopped and in-flight sessions have either finished or the shutdown
// grace period has elapsed.
func (e *Endpoint) Run(ctx context.Context) error {
	if err := e.syncMgr.ArmWatches(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.syncMgr.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return e.acceptLoop(gctx)
	})

	// The watcher's blocking receive (NextEvent) doesn't observe ctx
	// mid-block; closing the watcher as soon as ctx is cancelled is what
	// unblocks the sync manager's loop. Accept returns on ctx cancellation
	// by itself; the transport is closed here as well.
	go func() {
		<-ctx.Done()
		_ = e.watcher.Close()
		_ = e.transport.Close()
	}()

	err := g.Wait()
	e.awaitSessions(ctx)
	return err
}

func (e *Endpoint) acceptLoop(ctx context.Context) error {
	for {
		stream, err := e.transport.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.WarnCtx(ctx, "accept failed", "error", err.Error())
			continue
		}

		e.metrics.SessionAccepted()
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.serveSession(ctx, stream)
		}()
	}
}

func (e *Endpoint) serveSession(ctx context.Context, stream *transport.Stream) {
	defer stream.Close()

	remote, err := stream.RemotePeer()
	if err != nil {
		logger.WarnCtx(ctx, "accepted stream has no authenticated remote identity", "error", err.Error())
		return
	}

	deps := session.Deps{
		Store:   e.store,
		Watcher: e.watcher,
		Dialer:  &transportDialer{t: e.transport},
		Metrics: e.metrics,
	}
	if err := session.Serve(ctx, stream, remote, deps); err != nil {
		logger.WarnCtx(ctx, "session ended with error", "peer", remote.Short(), "error", err.Error())
	}
}

// awaitSessions waits up to shutdownGrace for in-flight sessions to finish
// on their own once the accept and watcher loops have already stopped.
func (e *Endpoint) awaitSessions(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(e.shutdownGrace):
		logger.WarnCtx(ctx, "shutdown grace period elapsed with sessions still in flight")
	}
}
