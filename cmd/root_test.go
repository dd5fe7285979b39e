package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

func TestParsePaths(t *testing.T) {
	assert.Empty(t, parsePaths(nil))
	assert.Equal(t, []m.Path{"src", "tests"}, parsePaths([]string{"src", "tests"}))
}

func TestRootCommandShowsHelp(t *testing.T) {
	out := &bytes.Buffer{}

	cmd := baseRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "rustmin")
}

func TestVersionCommand(t *testing.T) {
	out := &bytes.Buffer{}

	cmd := newVersionCmd()
	cmd.SetOut(out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "rustmin version")
}
