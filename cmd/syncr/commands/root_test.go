package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootRegistersEveryCommand(t *testing.T) {
	want := []string{"info", "watch", "allow", "disallow", "serve", "copy", "sync", "version"}

	var got []string
	for _, c := range rootCmd.Commands() {
		got = append(got, c.Name())
	}

	for _, name := range want {
		assert.Contains(t, got, name)
	}
}

func TestGetConfigFileReflectsFlag(t *testing.T) {
	old := cfgFile
	defer func() { cfgFile = old }()

	cfgFile = "/tmp/example.yaml"
	assert.Equal(t, "/tmp/example.yaml", GetConfigFile())
}
