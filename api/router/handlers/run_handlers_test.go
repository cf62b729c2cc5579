package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"rmcom/database"
	"rmcom/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) chi.Router {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "rmcom_test.db")
	require.NoError(t, database.InitDB(dbPath))
	t.Cleanup(database.CloseDB)

	r := chi.NewRouter()
	RegisterHealthRoutes(r)
	RegisterRunRoutes(r)
	return r
}

func seedRun(t *testing.T, records []models.RemovalRecord) models.Run {
	t.Helper()
	run := models.Run{
		ID:              uuid.New().String(),
		RootPath:        "/src/project",
		Mode:            "dir",
		StartedAt:       time.Now().UTC().Truncate(time.Second),
		FilesScanned:    2,
		CommentsRemoved: len(records),
	}
	require.NoError(t, database.SaveRun(run, records))
	return run
}

func doRequest(t *testing.T, r chi.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoute(t *testing.T) {
	r := setupTestRouter(t)

	rec := doRequest(t, r, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true}`, rec.Body.String())
}

func TestListRunsHandler(t *testing.T) {
	r := setupTestRouter(t)
	run := seedRun(t, nil)

	rec := doRequest(t, r, "/runs")
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []models.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestListRunsHandlerEmpty(t *testing.T) {
	r := setupTestRouter(t)

	rec := doRequest(t, r, "/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListRunsHandlerInvalidLimit(t *testing.T) {
	r := setupTestRouter(t)

	rec := doRequest(t, r, "/runs?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRunHandler(t *testing.T) {
	r := setupTestRouter(t)
	run := seedRun(t, nil)

	rec := doRequest(t, r, "/runs/"+run.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.RootPath, got.RootPath)

	rec = doRequest(t, r, "/runs/unknown-id")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRunCommentsHandler(t *testing.T) {
	r := setupTestRouter(t)
	records := []models.RemovalRecord{
		{FilePath: "/src/a.py", LineNumber: 4, CommentText: "# gone"},
	}
	run := seedRun(t, records)

	rec := doRequest(t, r, "/runs/"+run.ID+"/comments")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.RemovalRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "# gone", got[0].CommentText)
	assert.Equal(t, 4, got[0].LineNumber)

	rec = doRequest(t, r, "/runs/unknown-id/comments")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRunCommentsHandlerEmpty(t *testing.T) {
	r := setupTestRouter(t)
	run := seedRun(t, nil)

	rec := doRequest(t, r, "/runs/"+run.ID+"/comments")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
