package commands

import (
	"github.com/spf13/cobra"

	"github.com/syncr-go/syncr/internal/cli/output"
	"github.com/syncr-go/syncr/pkg/config"
)

var infoOutput string

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print version and local public key",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

// Info is this host's identity and runtime location, printable as a table,
// JSON, or YAML.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	PublicKey string `json:"public_key" yaml:"public_key"`
	ConfigDir string `json:"config_dir" yaml:"config_dir"`
}

// Headers implements output.TableRenderer.
func (Info) Headers() []string { return []string{"FIELD", "VALUE"} }

// Rows implements output.TableRenderer.
func (i Info) Rows() [][]string {
	return [][]string{
		{"version", i.Version},
		{"public key", i.PublicKey},
		{"config dir", i.ConfigDir},
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(infoOutput)
	if err != nil {
		return err
	}

	priv, err := loadIdentity()
	if err != nil {
		return err
	}
	localID, err := localPeerID(priv)
	if err != nil {
		return err
	}

	info := Info{
		Version:   Version,
		PublicKey: localID.String(),
		ConfigDir: config.ConfigDir(),
	}

	w := cmd.OutOrStdout()
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, info)
	case output.FormatYAML:
		return output.PrintYAML(w, info)
	default:
		return output.PrintTable(w, info)
	}
}
