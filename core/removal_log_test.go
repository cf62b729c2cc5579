package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"rmcom/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRemovalLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "removed_comments.json")

	records := []models.RemovalRecord{
		{FilePath: "/src/a.py", LineNumber: 3, CommentText: "# first"},
		{FilePath: "/src/b.py", LineNumber: 10, CommentText: "# second"},
	}
	require.NoError(t, WriteRemovalLog(records, logPath))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "/src/a.py", decoded[0]["file_path"])
	assert.Equal(t, float64(3), decoded[0]["line_number"])
	assert.Equal(t, "# first", decoded[0]["comment_text"])
	assert.Equal(t, "# second", decoded[1]["comment_text"])
}

func TestWriteRemovalLogEmptyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "removed_comments.json")

	require.NoError(t, WriteRemovalLog(nil, logPath))
	_, err := os.Stat(logPath)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteRemovalLogEmptyDeletesStaleLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "removed_comments.json")
	require.NoError(t, os.WriteFile(logPath, []byte("[]"), 0644))

	require.NoError(t, WriteRemovalLog(nil, logPath))
	_, err := os.Stat(logPath)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteRemovalLogCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "removed_comments.json")

	records := []models.RemovalRecord{{FilePath: "a.py", LineNumber: 1, CommentText: "# x"}}
	require.NoError(t, WriteRemovalLog(records, logPath))

	_, err := os.Stat(logPath)
	assert.NoError(t, err)
}
