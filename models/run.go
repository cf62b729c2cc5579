package models

import "time"

// Run records one invocation of the stripper for the history database.
type Run struct {
	ID              string    `json:"id" format:"uuid" readOnly:"true"`       // UUID identifying the run.
	RootPath        string    `json:"root_path" example:"/src/project"`       // File or directory the run was pointed at.
	Mode            string    `json:"mode" example:"dir" enum:"file,dir"`     // Whether the run targeted a single file or a directory.
	StartedAt       time.Time `json:"started_at"`                             // When the run began.
	FilesScanned    int       `json:"files_scanned" example:"42"`             // Number of .py files considered.
	FilesFailed     int       `json:"files_failed" example:"0"`               // Files skipped due to read/write/encoding errors.
	CommentsRemoved int       `json:"comments_removed" example:"17"`          // Total RemovalRecords produced.
}
