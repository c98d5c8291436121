package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [file]", ingestCmd.Use)
}

func TestIngestCmd_Success(t *testing.T) {
	mock := &mockRetrievalService{ingestCount: 4}
	cleanup := setupTestServices(mock)
	defer cleanup()

	path := writeTempFile(t, "notes.txt", "Some document content.")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Chunks:      4")
	assert.Contains(t, buf.String(), "Title:       notes")

	// Document must be registered
	docs, err := documentStore.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "notes", docs[0].Title)
	assert.Equal(t, "text/plain", docs[0].MIMEType)
}

func TestIngestCmd_TitleFlag(t *testing.T) {
	mock := &mockRetrievalService{ingestCount: 1}
	cleanup := setupTestServices(mock)
	defer cleanup()

	path := writeTempFile(t, "hb.md", "# Handbook")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--title", "Employee Handbook", path})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestTitle = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)

	docs, err := documentStore.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Employee Handbook", docs[0].Title)
	assert.Equal(t, "text/markdown", docs[0].MIMEType)
}

func TestIngestCmd_UnsupportedExtension(t *testing.T) {
	mock := &mockRetrievalService{}
	cleanup := setupTestServices(mock)
	defer cleanup()

	path := writeTempFile(t, "image.png", "not text")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	// Nothing registered
	docs, listErr := documentStore.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, docs)
}

func TestIngestCmd_MissingFile(t *testing.T) {
	mock := &mockRetrievalService{}
	cleanup := setupTestServices(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "/does/not/exist.txt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestIngestCmd_ServiceNotConfigured(t *testing.T) {
	oldService := retrievalService
	retrievalService = nil
	defer func() {
		retrievalService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "whatever.txt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval service not configured")
}
