package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	out, _, err := execCommand(t, NewVersionCommand("1.2.3"), "")

	require.NoError(t, err)
	assert.Contains(t, out, "kqlens v1.2.3")
	assert.Contains(t, out, "autocompletion")
}
