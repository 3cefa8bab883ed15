package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syncr-go/syncr/pkg/session"
)

var copyCmd = &cobra.Command{
	Use:   "copy <peer> <remote_path> <local_path>",
	Short: "One-shot pull of remote_path into local_path",
	Args:  cobra.ExactArgs(3),
	RunE:  runCopy,
}

func runCopy(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Session.DialTimeout)
	defer cancel()

	conn, err := t.DialByID(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", p.Short(), err)
	}
	defer conn.Close()

	if err := session.Pull(ctx, conn, remotePath, localPath); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Copied %s from %s into %s\n", remotePath, p.Short(), localPath)
	return nil
}
