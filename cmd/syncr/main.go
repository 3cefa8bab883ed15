// Command syncr is the peer-to-peer file sync daemon and its own CLI:
// info, watch, allow, disallow, serve, copy, and sync.
package main

import (
	"fmt"
	"os"

	"github.com/syncr-go/syncr/cmd/syncr/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
