package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quarry-search/quarry/internal/core/domain"
)

func TestIndexCompactCmd(t *testing.T) {
	index := &mockIndex{}
	restore := installTestIndex(index)
	defer restore()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "compact"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.True(t, index.compacted)
	assert.Contains(t, buf.String(), "Index compacted")
}

func TestIndexCompactCmd_Error(t *testing.T) {
	restore := installTestIndex(&mockIndex{compactErr: domain.ErrIndexCorruption})
	defer restore()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "compact"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrIndexCorruption)
}

func TestIndexClearCmd(t *testing.T) {
	index := &mockIndex{}
	restore := installTestIndex(index)
	defer restore()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "clear"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.True(t, index.cleared)
	assert.Contains(t, buf.String(), "Index cleared")
}

func TestIndexCmd_NotConfigured(t *testing.T) {
	old := vectorIndex
	vectorIndex = nil
	defer func() { vectorIndex = old }()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"index", "compact"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.EqualError(t, err, "vector index not configured")
}
