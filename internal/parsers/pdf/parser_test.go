package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensions(t *testing.T) {
	p := New()
	assert.Equal(t, []string{".pdf"}, p.Extensions())
}

func TestParse_NotAPDF(t *testing.T) {
	p := New()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0600))

	blocks, err := p.Parse(ctx, path)
	assert.Error(t, err)
	assert.Nil(t, blocks)
}

func TestParse_MissingFile(t *testing.T) {
	p := New()
	ctx := context.Background()

	blocks, err := p.Parse(ctx, filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
	assert.Nil(t, blocks)
}
