package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syncr-go/syncr/internal/cli/prompt"
)

var allowCmd = &cobra.Command{
	Use:   "allow [peer] [path]",
	Short: "Grant peer access to path",
	Long: `Grant peer access to path. Both arguments may be omitted and will
be prompted for interactively.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runAllow,
}

func runAllow(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("cannot allow %q: %w", pathArg, err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Allow(canonical, p); err != nil {
		return fmt.Errorf("failed to grant access: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Granted %s access to %s\n", p.Short(), canonical)
	return nil
}

// peerAndPathArgs returns args[0]/args[1], prompting for whichever one is
// missing, so "allow" and "disallow" work both scripted (full args) and
// interactively (no args).
func peerAndPathArgs(args []string) (peerArg, pathArg string, err error) {
	switch len(args) {
	case 2:
		return args[0], args[1], nil
	case 1:
		peerArg = args[0]
	case 0:
		if peerArg, err = prompt.InputRequired("Peer"); err != nil {
			return "", "", err
		}
	}
	if pathArg, err = prompt.InputRequired("Path"); err != nil {
		return "", "", err
	}
	return peerArg, pathArg, nil
}
