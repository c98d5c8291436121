package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-search/quarry/internal/adapters/driven/storage/memory"
	"github.com/quarry-search/quarry/internal/core/domain"
	"github.com/quarry-search/quarry/internal/core/ports/driving"
)

// mockRetrievalService implements driving.RetrievalService for CLI tests.
type mockRetrievalService struct {
	passages    []domain.RetrievedPassage
	ingestCount int
	ingestErr   error
	queryErr    error
	deleteErr   error
	deleted     []string
	lastOpts    driving.QueryOptions
}

func (m *mockRetrievalService) Ingest(_ context.Context, _, _ string) (int, error) {
	if m.ingestErr != nil {
		return 0, m.ingestErr
	}
	return m.ingestCount, nil
}

func (m *mockRetrievalService) Query(
	_ context.Context, _ string, opts driving.QueryOptions,
) ([]domain.RetrievedPassage, error) {
	m.lastOpts = opts
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.passages, nil
}

func (m *mockRetrievalService) DeleteDocument(_ context.Context, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}

// setupTestServices wires mock services and returns a cleanup function.
func setupTestServices(mock *mockRetrievalService) func() {
	oldService := retrievalService
	oldStore := documentStore

	retrievalService = mock
	documentStore = memory.NewDocumentStore()

	return func() {
		retrievalService = oldService
		documentStore = oldStore
	}
}

func testPassage() domain.RetrievedPassage {
	page := 2
	return domain.RetrievedPassage{
		Text:          "Employees accrue vacation monthly.",
		Score:         0.42,
		DocumentID:    "doc-1",
		DocumentTitle: "Employee Handbook",
		ChunkIndex:    3,
		Page:          &page,
		Citation:      "[doc:Employee Handbook#page2]",
	}
}

func TestQueryCmd_Use(t *testing.T) {
	assert.Equal(t, "query [text]", queryCmd.Use)
}

func TestQueryCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"query"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestQueryCmd_HasTopKFlag(t *testing.T) {
	flag := queryCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag, "top-k flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
}

func TestQueryCmd_PrintsPassages(t *testing.T) {
	mock := &mockRetrievalService{passages: []domain.RetrievedPassage{testPassage()}}
	cleanup := setupTestServices(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "vacation policy"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[doc:Employee Handbook#page2]")
	assert.Contains(t, buf.String(), "Employees accrue vacation monthly.")
	assert.Contains(t, buf.String(), "Total: 1 passages")
}

func TestQueryCmd_PassesFlagsThrough(t *testing.T) {
	mock := &mockRetrievalService{}
	cleanup := setupTestServices(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "-n", "3", "--doc", "doc-9", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
		queryTopK = 0
		queryDocument = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 3, mock.lastOpts.TopK)
	assert.Equal(t, "doc-9", mock.lastOpts.DocumentID)
}

func TestQueryCmd_ConfiguredDefaultTopK(t *testing.T) {
	mock := &mockRetrievalService{}
	cleanup := setupTestServices(mock)
	defer cleanup()

	defaultTopK = 8
	defer func() { defaultTopK = 0 }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "anything"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 8, mock.lastOpts.TopK)
}

func TestQueryCmd_JSONOutput(t *testing.T) {
	mock := &mockRetrievalService{passages: []domain.RetrievedPassage{testPassage()}}
	cleanup := setupTestServices(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "--json", "vacation policy"})
	defer func() {
		rootCmd.SetArgs(nil)
		queryJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "\"citation\"")
	assert.Contains(t, buf.String(), "\"document_title\"")
	assert.Contains(t, buf.String(), "\"page\": 2")
}

func TestQueryCmd_NoResults(t *testing.T) {
	mock := &mockRetrievalService{}
	cleanup := setupTestServices(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "nothing matches"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No passages found")
}

func TestQueryCmd_ServiceNotConfigured(t *testing.T) {
	oldService := retrievalService
	retrievalService = nil
	defer func() {
		retrievalService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"query", "test"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval service not configured")
}

func TestQueryCmd_ServiceError(t *testing.T) {
	mock := &mockRetrievalService{queryErr: domain.ErrEmbeddingBackend}
	cleanup := setupTestServices(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"query", "test"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")
}
