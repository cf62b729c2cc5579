package database

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"rmcom/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestDB(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "rmcom_test.db")
	require.NoError(t, InitDB(dbPath))
	t.Cleanup(CloseDB)
}

func sampleRun(records int) (models.Run, []models.RemovalRecord) {
	run := models.Run{
		ID:              uuid.New().String(),
		RootPath:        "/src/project",
		Mode:            "dir",
		StartedAt:       time.Now().UTC().Truncate(time.Second),
		FilesScanned:    5,
		FilesFailed:     1,
		CommentsRemoved: records,
	}
	var recs []models.RemovalRecord
	for i := 0; i < records; i++ {
		recs = append(recs, models.RemovalRecord{
			FilePath:    "/src/project/a.py",
			LineNumber:  i + 1,
			CommentText: "# comment",
		})
	}
	return run, recs
}

func TestSaveAndGetRun(t *testing.T) {
	initTestDB(t)

	run, recs := sampleRun(3)
	require.NoError(t, SaveRun(run, recs))

	got, err := GetRunByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.RootPath, got.RootPath)
	assert.Equal(t, run.Mode, got.Mode)
	assert.Equal(t, run.FilesScanned, got.FilesScanned)
	assert.Equal(t, run.FilesFailed, got.FilesFailed)
	assert.Equal(t, run.CommentsRemoved, got.CommentsRemoved)

	removals, err := GetRemovalsForRun(run.ID)
	require.NoError(t, err)
	require.Len(t, removals, 3)
	assert.Equal(t, 1, removals[0].LineNumber)
	assert.Equal(t, "# comment", removals[0].CommentText)
}

func TestGetRunByIDNotFound(t *testing.T) {
	initTestDB(t)

	_, err := GetRunByID("does-not-exist")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListRunsNewestFirst(t *testing.T) {
	initTestDB(t)

	older, _ := sampleRun(0)
	older.StartedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	newer, _ := sampleRun(0)
	require.NoError(t, SaveRun(older, nil))
	require.NoError(t, SaveRun(newer, nil))

	runs, err := ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)

	limited, err := ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCountRemovalsByFile(t *testing.T) {
	initTestDB(t)

	run, _ := sampleRun(0)
	recs := []models.RemovalRecord{
		{FilePath: "/src/a.py", LineNumber: 1, CommentText: "# a1"},
		{FilePath: "/src/b.py", LineNumber: 2, CommentText: "# b1"},
		{FilePath: "/src/a.py", LineNumber: 7, CommentText: "# a2"},
	}
	run.CommentsRemoved = len(recs)
	require.NoError(t, SaveRun(run, recs))

	counts, err := CountRemovalsByFile(run.ID)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, models.FileRemovalCount{FilePath: "/src/a.py", Count: 2}, counts[0])
	assert.Equal(t, models.FileRemovalCount{FilePath: "/src/b.py", Count: 1}, counts[1])
}

func TestInitDBIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rmcom_test.db")
	require.NoError(t, InitDB(dbPath))
	CloseDB()

	// Re-opening an already-migrated database must succeed (ErrNoChange).
	require.NoError(t, InitDB(dbPath))
	CloseDB()
}
