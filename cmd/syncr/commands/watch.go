package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/syncr-go/syncr/internal/cli/output"
	"github.com/syncr-go/syncr/internal/cli/prompt"
	"github.com/syncr-go/syncr/pkg/syncerr"
)

var (
	watchDelete bool
	watchForce  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "List, add, or remove a watch",
	Long: `With no arguments, lists every watched path.

With a path and no flags, arms a new watch on that path (it must exist).

With --delete, removes the watch on that path after confirming, unless
--force is also given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDelete, "delete", false, "remove the watch on path instead of adding it")
	watchCmd.Flags().BoolVar(&watchForce, "force", false, "skip the confirmation prompt when removing a watch")
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) == 0 {
		return listWatches(cmd, s)
	}

	canonical, err := canonicalizePath(args[0])
	if err != nil {
		return fmt.Errorf("cannot watch %q: %w", args[0], err)
	}

	if watchDelete {
		return removeWatch(cmd, s, canonical)
	}
	return addWatch(cmd, s, canonical)
}

func listWatches(cmd *cobra.Command, s storeLister) error {
	paths, err := s.ListWatches()
	if err != nil {
		return fmt.Errorf("failed to list watches: %w", err)
	}

	table := output.NewTableData("PATH")
	for _, p := range paths {
		table.AddRow(p)
	}
	return output.PrintTable(cmd.OutOrStdout(), table)
}

func addWatch(cmd *cobra.Command, s storeAdder, path string) error {
	if err := s.AddWatch(path); err != nil {
		return fmt.Errorf("failed to add watch: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", path)
	return nil
}

func removeWatch(cmd *cobra.Command, s storeRemover, path string) error {
	if !watchForce {
		ok, err := prompt.Confirm(fmt.Sprintf("Remove watch on %s?", path), false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	removed, err := s.RemoveWatch(path)
	if err != nil {
		return fmt.Errorf("failed to remove watch: %w", err)
	}
	if !removed {
		return syncerr.Newf(syncerr.NotFound, "no watch registered on %s", path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed watch on %s\n", path)
	return nil
}

// canonicalizePath resolves path to an absolute, symlink-free form, the
// same rule the responder applies to StartSync and allow/disallow targets.
func canonicalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", syncerr.Wrap(syncerr.CanonicalizationFailure, path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", syncerr.Wrap(syncerr.CanonicalizationFailure, path, err)
	}
	return resolved, nil
}

// storeLister, storeAdder, and storeRemover narrow *store.Store to what
// each watch subcommand needs, so the small helpers above are easy to
// exercise in isolation.
type storeLister interface {
	ListWatches() ([]string, error)
}

type storeAdder interface {
	AddWatch(path string) error
}

type storeRemover interface {
	RemoveWatch(path string) (bool, error)
}
