// Package commands implements the syncr CLI: info, watch, allow, disallow,
// serve, copy, and sync.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "syncr",
	Short: "syncr - a peer-to-peer file sync daemon",
	Long: `syncr watches local directories, dials peers directly over an
authenticated transport, and keeps files in sync by signature-based delta
transfer instead of sending whole files on every change.

Use "syncr [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/syncr/config.yaml)")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(allowCmd)
	rootCmd.AddCommand(disallowCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
}

// GetConfigFile returns the config file path from the global --config flag.
func GetConfigFile() string {
	return cfgFile
}

// Exit prints a formatted error to stderr and exits with status 1.
func Exit(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
	os.Exit(1)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("syncr %s (commit: %s, built: %s)\n", Version, Commit, Date)
		return nil
	},
}
