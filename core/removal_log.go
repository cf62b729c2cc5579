package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"rmcom/logger"
	"rmcom/models"
)

// WriteRemovalLog serializes the run's removal records to a JSON array
// at path. An empty record set writes nothing and deletes any stale log
// left by a previous run, so the log's existence always means comments
// were removed.
func WriteRemovalLog(records []models.RemovalRecord, path string) error {
	if len(records) == 0 {
		if _, err := os.Stat(path); err == nil {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("removing stale removal log %s: %w", path, err)
			}
			logger.Info("No comments were removed; deleted outdated log file: %s", path)
		}
		return nil
	}

	logDir := filepath.Dir(path)
	if logDir != "." && logDir != "" {
		if err := os.MkdirAll(logDir, 0750); err != nil {
			return fmt.Errorf("creating log directory %s: %w", logDir, err)
		}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshalling removal records: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing removal log %s: %w", path, err)
	}
	logger.Info("Removed comment details logged to %s", path)
	return nil
}
