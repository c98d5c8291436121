package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-search/quarry/internal/core/domain"
)

// mockIndex records maintenance calls made through the index commands.
type mockIndex struct {
	deleted    []string
	compacted  bool
	cleared    bool
	deleteErr  error
	compactErr error
	clearErr   error
}

func (m *mockIndex) Insert(_ context.Context, _ string, _ []domain.Chunk, _ [][]float32) error {
	return nil
}

func (m *mockIndex) Search(_ context.Context, _ []float32, _ int, _ string) ([]domain.IndexHit, error) {
	return nil, nil
}

func (m *mockIndex) DeleteDocument(_ context.Context, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}

func (m *mockIndex) Compact(_ context.Context) error {
	if m.compactErr != nil {
		return m.compactErr
	}
	m.compacted = true
	return nil
}

func (m *mockIndex) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	return nil
}

func (m *mockIndex) Close() error { return nil }

func installTestIndex(mock *mockIndex) func() {
	old := vectorIndex
	vectorIndex = mock
	return func() { vectorIndex = old }
}

func TestDocumentCmd_Use(t *testing.T) {
	assert.Equal(t, "document", documentCmd.Use)
}

func TestDocumentListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices(&mockRetrievalService{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"document", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No documents registered")
}

func TestDocumentListCmd_ShowsDocuments(t *testing.T) {
	cleanup := setupTestServices(&mockRetrievalService{})
	defer cleanup()

	ingested := time.Now().UTC()
	require.NoError(t, documentStore.Save(context.Background(), &domain.Document{
		ID:         "doc-1",
		Title:      "Handbook",
		SourcePath: "/docs/handbook.pdf",
		MIMEType:   "application/pdf",
		CreatedAt:  time.Now().UTC(),
		IngestedAt: &ingested,
	}))
	require.NoError(t, documentStore.Save(context.Background(), &domain.Document{
		ID:        "doc-2",
		Title:     "Draft",
		CreatedAt: time.Now().UTC(),
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"document", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Handbook")
	assert.Contains(t, buf.String(), "/docs/handbook.pdf")
	assert.Contains(t, buf.String(), "Ingested: never")
	assert.Contains(t, buf.String(), "Total: 2 documents")
}

func TestDocumentDeleteCmd_RemovesFromIndexAndStore(t *testing.T) {
	cleanup := setupTestServices(&mockRetrievalService{})
	defer cleanup()
	index := &mockIndex{}
	restore := installTestIndex(index)
	defer restore()

	ctx := context.Background()
	require.NoError(t, documentStore.Save(ctx, &domain.Document{
		ID: "doc-1", Title: "Handbook", CreatedAt: time.Now().UTC(),
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"document", "delete", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, index.deleted)

	_, getErr := documentStore.Get(ctx, "doc-1")
	assert.ErrorIs(t, getErr, domain.ErrNotFound)
}

func TestDocumentDeleteCmd_WorksWithoutRetrievalService(t *testing.T) {
	cleanup := setupTestServices(&mockRetrievalService{})
	defer cleanup()
	retrievalService = nil
	index := &mockIndex{}
	restore := installTestIndex(index)
	defer restore()

	ctx := context.Background()
	require.NoError(t, documentStore.Save(ctx, &domain.Document{
		ID: "doc-1", Title: "Handbook", CreatedAt: time.Now().UTC(),
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"document", "delete", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, index.deleted)
}

func TestDocumentDeleteCmd_IndexErrorKeepsRegistration(t *testing.T) {
	cleanup := setupTestServices(&mockRetrievalService{})
	defer cleanup()
	restore := installTestIndex(&mockIndex{deleteErr: domain.ErrIndexCorruption})
	defer restore()

	ctx := context.Background()
	require.NoError(t, documentStore.Save(ctx, &domain.Document{
		ID: "doc-1", Title: "Handbook", CreatedAt: time.Now().UTC(),
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"document", "delete", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)

	// The registration must survive a failed index delete
	_, getErr := documentStore.Get(ctx, "doc-1")
	assert.NoError(t, getErr)
}
