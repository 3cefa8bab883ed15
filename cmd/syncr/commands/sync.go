package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syncr-go/syncr/pkg/config"
	"github.com/syncr-go/syncr/pkg/peer"
	"github.com/syncr-go/syncr/pkg/session"
	"github.com/syncr-go/syncr/pkg/transport"
)

var syncCmd = &cobra.Command{
	Use:   "sync <peer> <remote_path> <local_path>",
	Short: "One-shot pull, then register bidirectional sync",
	Long: `Pulls remote_path into local_path, then registers a bidirectional
sync: this host records a local sync pointing back at the peer (so future
local changes are pushed to remote_path) and asks the peer to register a
sync for remote_path on its side (so future changes the peer makes to
remote_path are pulled back here automatically).`,
	Args: cobra.ExactArgs(3),
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	p, err := parsePeerArg(args[0])
	if err != nil {
		return err
	}
	remotePath, localPath := args[1], args[2]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, err := newTransport(cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	if err := dialAndPull(cmd.Context(), t, cfg, p, remotePath, localPath); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	canonicalLocal, err := canonicalizePath(localPath)
	if err != nil {
		return fmt.Errorf("cannot register sync for %q: %w", localPath, err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.AddSync(p, remotePath, canonicalLocal); err != nil {
		return fmt.Errorf("failed to register local sync: %w", err)
	}
	if err := s.AddWatch(canonicalLocal); err != nil {
		return fmt.Errorf("failed to watch %s: %w", canonicalLocal, err)
	}

	if err := dialAndRequestStartSync(cmd.Context(), t, cfg, p, remotePath); err != nil {
		return fmt.Errorf("peer rejected sync registration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Synced %s with %s (local path %s)\n", remotePath, p.Short(), canonicalLocal)
	return nil
}

func dialAndPull(ctx context.Context, t *transport.Transport, cfg *config.Config, p peer.ID, remotePath, localPath string) error {
	dialCtx, cancel := context.WithTimeout(ctx, cfg.Session.DialTimeout)
	defer cancel()

	conn, err := t.DialByID(dialCtx, p)
	if err != nil {
		return err
	}
	defer conn.Close()

	return session.Pull(dialCtx, conn, remotePath, localPath)
}

func dialAndRequestStartSync(ctx context.Context, t *transport.Transport, cfg *config.Config, p peer.ID, remotePath string) error {
	dialCtx, cancel := context.WithTimeout(ctx, cfg.Session.DialTimeout)
	defer cancel()

	conn, err := t.DialByID(dialCtx, p)
	if err != nil {
		return err
	}
	defer conn.Close()

	return session.RequestStartSync(dialCtx, conn, remotePath)
}
