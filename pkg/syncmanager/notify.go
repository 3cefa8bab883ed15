package syncmanager

import (
	"context"

	"github.com/syncr-go/syncr/internal/logger"
	"github.com/syncr-go/syncr/pkg/peer"
	"github.com/syncr-go/syncr/pkg/session"
)

// handleLocalChange fans changedPath out to every peer that registered a
// sync on it or an ancestor of it. Each notification is a fresh connection
// (connection reuse is left as a future optimization); one peer's failure
// never blocks another's.
func (m *Manager) handleLocalChange(ctx context.Context, changedPath string) {
	syncs, err := m.store.ListSyncs()
	if err != nil {
		logger.ErrorCtx(ctx, "failed to list syncs for local change", "error", err.Error())
		return
	}

	for _, ls := range syncs {
		rel, ok := underRoot(ls.LocalPath, changedPath)
		if !ok {
			continue
		}
		for _, cfg := range ls.Configs {
			target := joinRemote(cfg.RemotePath, rel)
			go m.notify(ctx, cfg.Peer, target)
		}
	}
}

func (m *Manager) notify(ctx context.Context, p peer.ID, targetRemotePath string) {
	dialCtx, cancel := context.WithTimeout(ctx, m.dialTimeout)
	defer cancel()

	conn, err := m.dialer.DialByID(dialCtx, p)
	if err != nil {
		logger.WarnCtx(ctx, "notification dial failed, dropping", "peer", p.Short(), "path", targetRemotePath, "error", err.Error())
		m.metrics.NotificationFailed()
		return
	}
	defer conn.Close()
	m.metrics.SessionDialed()

	if err := session.Notify(dialCtx, conn, targetRemotePath); err != nil {
		logger.WarnCtx(ctx, "notification failed, dropping", "peer", p.Short(), "path", targetRemotePath, "error", err.Error())
		m.metrics.NotificationFailed()
		return
	}
	m.metrics.NotificationSent()
}
