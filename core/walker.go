package core

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"rmcom/logger"
	"rmcom/models"
)

// Accumulator collects the results of a run as the walk progresses.
// It is passed explicitly through the walk instead of living in a
// package-level variable so tests can run independent strips.
type Accumulator struct {
	Records      []models.RemovalRecord
	FilesScanned int
	FilesFailed  int
}

// ProcessFile strips comments from a single file and rewrites it in
// place. Read, decode and write failures are logged, counted on the
// accumulator and otherwise swallowed so a batch can continue.
func ProcessFile(path string, s *Stripper, acc *Accumulator) {
	acc.FilesScanned++

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Could not read file %s: %v. Skipping.", path, err)
		acc.FilesFailed++
		return
	}
	if !utf8.Valid(data) {
		logger.Error("File %s is not valid UTF-8. Skipping.", path)
		acc.FilesFailed++
		return
	}

	original := string(data)
	lines := strings.Split(original, "\n")
	cleaned, records := s.StripLines(lines)
	if len(records) == 0 {
		logger.Debug("No comments removed from %s", path)
		return
	}
	for i := range records {
		records[i].FilePath = path
	}
	// Removals are recorded even if the rewrite below fails: the comments
	// were found, and the original file is left untouched on failure.
	acc.Records = append(acc.Records, records...)

	newContent := strings.Join(cleaned, "\n")
	if newContent == original {
		logger.Warn("Comments logged for %s but cleaned content is identical to original. File not modified.", path)
		return
	}

	if err := writeFileAtomic(path, []byte(newContent)); err != nil {
		logger.Error("Could not write cleaned code to %s: %v. Original file kept.", path, err)
		acc.FilesFailed++
		return
	}
	logger.Info("Removed %d comment(s) from %s", len(records), path)
}

// ProcessDirectory recursively strips every .py file under dir. Each
// file is processed independently; only a failure to walk the root
// itself is returned as an error.
func ProcessDirectory(dir string, s *Stripper, acc *Accumulator) error {
	logger.Info("Scanning directory: %s", dir)

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("walking directory %s: %w", dir, err)
			}
			logger.Error("Could not access %s: %v. Skipping.", path, err)
			acc.FilesFailed++
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".py") {
			return nil
		}
		ProcessFile(path, s, acc)
		return nil
	})
}

// writeFileAtomic replaces path by writing a temp file in the same
// directory and renaming it over the original, so a failure mid-write
// never leaves a truncated source file behind.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".rmcom-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
