package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoRowsMatchFields(t *testing.T) {
	info := Info{Version: "1.2.3", PublicKey: "deadbeef", ConfigDir: "/home/u/.config/syncr"}

	assert.Equal(t, []string{"FIELD", "VALUE"}, info.Headers())
	assert.Equal(t, [][]string{
		{"version", "1.2.3"},
		{"public key", "deadbeef"},
		{"config dir", "/home/u/.config/syncr"},
	}, info.Rows())
}
