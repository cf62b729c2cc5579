package database

import (
	"database/sql"
	"fmt"

	"rmcom/models"
)

// SaveRun persists a run and its removal records in one transaction.
func SaveRun(run models.Run, records []models.RemovalRecord) error {
	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction for run %s: %w", run.ID, err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (id, root_path, mode, started_at, files_scanned, files_failed, comments_removed)
	                  VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.RootPath, run.Mode, run.StartedAt, run.FilesScanned, run.FilesFailed, run.CommentsRemoved)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO removed_comments (run_id, file_path, line_number, comment_text)
	                         VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing removal insert for run %s: %w", run.ID, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(run.ID, rec.FilePath, rec.LineNumber, rec.CommentText); err != nil {
			return fmt.Errorf("inserting removal %s:%d for run %s: %w", rec.FilePath, rec.LineNumber, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func ListRuns(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := DB.Query(`SELECT id, root_path, mode, started_at, files_scanned, files_failed, comments_removed
	                       FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var r models.Run
		if err := rows.Scan(&r.ID, &r.RootPath, &r.Mode, &r.StartedAt, &r.FilesScanned, &r.FilesFailed, &r.CommentsRemoved); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		runs = append(runs, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run rows: %w", err)
	}
	return runs, nil
}

// GetRunByID fetches a single run. sql.ErrNoRows is returned unchanged
// so callers can distinguish "not found" from real failures.
func GetRunByID(id string) (models.Run, error) {
	var r models.Run
	err := DB.QueryRow(`SELECT id, root_path, mode, started_at, files_scanned, files_failed, comments_removed
	                    FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.RootPath, &r.Mode, &r.StartedAt, &r.FilesScanned, &r.FilesFailed, &r.CommentsRemoved)
	if err != nil {
		if err == sql.ErrNoRows {
			return r, err
		}
		return r, fmt.Errorf("querying run %s: %w", id, err)
	}
	return r, nil
}

// GetRemovalsForRun returns every removal recorded for a run in file
// then line order.
func GetRemovalsForRun(runID string) ([]models.RemovalRecord, error) {
	rows, err := DB.Query(`SELECT file_path, line_number, comment_text
	                       FROM removed_comments WHERE run_id = ?
	                       ORDER BY file_path ASC, line_number ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying removals for run %s: %w", runID, err)
	}
	defer rows.Close()

	var records []models.RemovalRecord
	for rows.Next() {
		var rec models.RemovalRecord
		if err := rows.Scan(&rec.FilePath, &rec.LineNumber, &rec.CommentText); err != nil {
			return nil, fmt.Errorf("scanning removal row for run %s: %w", runID, err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating removal rows for run %s: %w", runID, err)
	}
	return records, nil
}

// CountRemovalsByFile aggregates a run's removals per file, most
// affected files first.
func CountRemovalsByFile(runID string) ([]models.FileRemovalCount, error) {
	rows, err := DB.Query(`SELECT file_path, COUNT(*) AS cnt
	                       FROM removed_comments WHERE run_id = ?
	                       GROUP BY file_path ORDER BY cnt DESC, file_path ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("counting removals for run %s: %w", runID, err)
	}
	defer rows.Close()

	var counts []models.FileRemovalCount
	for rows.Next() {
		var c models.FileRemovalCount
		if err := rows.Scan(&c.FilePath, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning removal count row for run %s: %w", runID, err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
