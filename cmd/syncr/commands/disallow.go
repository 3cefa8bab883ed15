package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var disallowCmd = &cobra.Command{
	Use:   "disallow [peer] [path]",
	Short: "Revoke a peer's access to path",
	Long: `Revoke a peer's access to path. Both arguments may be omitted and
will be prompted for interactively.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runDisallow,
}

func runDisallow(cmd *cobra.Command, args []string) error {
	peerArg, pathArg, err := peerAndPathArgs(args)
	if err != nil {
		return err
	}

	p, err := parsePeerArg(peerArg)
	if err != nil {
		return err
	}
	canonical, err := canonicalizePath(pathArg)
	if err != nil {
		return fmt.Errorf("cannot disallow %q: %w", pathArg, err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Disallow(canonical, p); err != nil {
		return fmt.Errorf("failed to revoke access: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Revoked %s access to %s\n", p.Short(), canonical)
	return nil
}
