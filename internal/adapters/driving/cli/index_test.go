package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCmd_Use(t *testing.T) {
	assert.Equal(t, "create [name]", createCmd.Use)
}

func TestCreateCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"create"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestCreateCmd_CreatesIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"create", "notes"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `Created index "notes"`)
	assert.Contains(t, buf.String(), "rag-notes")
}

func TestCreateCmd_ServiceNotConfigured(t *testing.T) {
	oldService := indexService
	indexService = nil
	defer func() {
		indexService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"create", "notes"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "index service not configured")
}

func TestListCmd_Table(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "notes")
	assert.Contains(t, buf.String(), "rag-notes")
	assert.Contains(t, buf.String(), "2025-06-01")
}

func TestListCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"list", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		listJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"name": "notes"`)
	assert.Contains(t, buf.String(), `"collection_id": "rag-notes"`)
}

func TestListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexService = &mockIndexService{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No indexes found")
}

func TestStatsCmd_Table(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats", "notes"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Chunks:     42")
	assert.Contains(t, buf.String(), "Dimensions: 768")
}

func TestStatsCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats", "notes", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		statsJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"point_count": 42`)
	assert.Contains(t, buf.String(), `"dimensions": 768`)
}

func TestDeleteCmd_Force(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockIndexService{}
	indexService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"delete", "notes", "--force"})
	defer func() {
		rootCmd.SetArgs(nil)
		deleteForce = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `Deleted index "notes"`)
	assert.Equal(t, []string{"notes"}, mock.deleted)
}

func TestDeleteCmd_ConfirmationYes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockIndexService{}
	indexService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("y\n"))
	rootCmd.SetArgs([]string{"delete", "notes"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, []string{"notes"}, mock.deleted)
}

func TestDeleteCmd_ConfirmationDeclined(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockIndexService{}
	indexService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("n\n"))
	rootCmd.SetArgs([]string{"delete", "notes"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Aborted")
	assert.Empty(t, mock.deleted)
}
