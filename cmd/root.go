package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rmcom/config"
	"rmcom/core"
	"rmcom/database"
	"rmcom/logger"
	"rmcom/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	cfgFile        string
	dbPathFlag     string // Bound to --dbpath flag
	appLogPathFlag string
	logLevelFlag   string

	// Strip flags on the root command
	fileFlag       string
	dirFlag        string
	removalLogFlag string
)

// Helper function to expand tilde in this package too
func expandTildeCmd(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// resolveDBPath picks the SQLite path from the --dbpath flag, then the
// config, with tilde expansion applied either way.
func resolveDBPath() string {
	finalDBPath := dbPathFlag
	if finalDBPath == "" {
		finalDBPath = config.AppConfig.Database.Path
	}
	expandedPath, err := expandTildeCmd(finalDBPath)
	if err != nil {
		logger.Error("Error expanding tilde in database path '%s': %v. Using original.", finalDBPath, err)
	} else {
		finalDBPath = expandedPath
	}
	if finalDBPath == "" {
		logger.Error("Database path is empty after checking flag and config! Falling back to 'rmcom.db' in CWD.")
		finalDBPath = "rmcom.db"
	}
	return finalDBPath
}

var rootCmd = &cobra.Command{
	Use:   "rmcom",
	Short: "Remove hash comments from Python source files",
	Long: `rmcom strips inline '#' comments from Python files while leaving
string literals (including triple-quoted docstrings) untouched.

Shebang lines, encoding declarations, '# type:' directives and '# noqa'
markers are preserved. Every removed comment is written to a JSON log,
and each run is recorded in a local history database that can be
inspected with 'rmcom history', 'rmcom report' or 'rmcom server'.

Examples:
  rmcom --file /path/to/script.py
  rmcom --dir /path/to/project --log custom_removed_comments.json`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile, appLogPathFlag, logLevelFlag); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return nil
	},
	RunE: runStrip,
}

func runStrip(cmd *cobra.Command, args []string) error {
	if fileFlag == "" && dirFlag == "" {
		return fmt.Errorf("one of --file or --dir is required")
	}
	if fileFlag != "" && dirFlag != "" {
		return fmt.Errorf("--file and --dir are mutually exclusive")
	}

	removalLogPath := removalLogFlag
	if removalLogPath == "" {
		removalLogPath = config.AppConfig.Log.Path
	}
	expandedLogPath, err := expandTildeCmd(removalLogPath)
	if err != nil {
		logger.Error("Error expanding tilde in --log path '%s': %v. Using original.", removalLogPath, err)
	} else {
		removalLogPath = expandedLogPath
	}

	stripper := core.NewStripper(config.AppConfig.Strip.PreserveDirectives)
	acc := &core.Accumulator{}

	run := models.Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}

	if fileFlag != "" {
		target, err := filepath.Abs(fileFlag)
		if err != nil {
			return fmt.Errorf("resolving file path %s: %w", fileFlag, err)
		}
		info, err := os.Stat(target)
		if err != nil || info.IsDir() {
			return fmt.Errorf("specified file path '%s' is not a valid file", target)
		}
		if !strings.HasSuffix(strings.ToLower(target), ".py") {
			return fmt.Errorf("specified file '%s' is not a Python (.py) file", target)
		}
		run.RootPath = target
		run.Mode = "file"
		fmt.Printf("Processing single file: %s\n", target)
		core.ProcessFile(target, stripper, acc)
	} else {
		target, err := filepath.Abs(dirFlag)
		if err != nil {
			return fmt.Errorf("resolving directory path %s: %w", dirFlag, err)
		}
		info, err := os.Stat(target)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("specified directory path '%s' is not a valid directory", target)
		}
		run.RootPath = target
		run.Mode = "dir"
		fmt.Printf("Scanning directory: %s\n", target)
		if err := core.ProcessDirectory(target, stripper, acc); err != nil {
			return err
		}
	}

	run.FilesScanned = acc.FilesScanned
	run.FilesFailed = acc.FilesFailed
	run.CommentsRemoved = len(acc.Records)

	fmt.Printf("Scanned %d Python file(s), removed %d comment(s), %d file(s) failed.\n",
		acc.FilesScanned, len(acc.Records), acc.FilesFailed)

	logWriteFailed := false
	if err := core.WriteRemovalLog(acc.Records, removalLogPath); err != nil {
		logger.Error("Failed to write removal log: %v", err)
		fmt.Fprintf(os.Stderr, "Error: could not write removal log %s: %v\n", removalLogPath, err)
		logWriteFailed = true
	} else if len(acc.Records) > 0 {
		fmt.Printf("Removed comment details logged to %s\n", removalLogPath)
	}

	// History is best effort: a broken history DB must not fail a strip
	// that already rewrote files successfully.
	if config.AppConfig.History.Enabled {
		if err := database.InitDB(resolveDBPath()); err != nil {
			logger.Warn("Run history unavailable: %v", err)
		} else {
			defer database.CloseDB()
			if err := database.SaveRun(run, acc.Records); err != nil {
				logger.Warn("Could not record run %s in history: %v", run.ID, err)
			} else {
				logger.Info("Run %s recorded in history database.", run.ID)
			}
		}
	}

	if acc.FilesFailed > 0 || logWriteFailed {
		return fmt.Errorf("processing finished with errors: %d file(s) failed", acc.FilesFailed)
	}
	fmt.Println("Processing finished successfully.")
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/rmcom/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "dbpath", "", "path to SQLite history database file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&appLogPathFlag, "app-log", "", "path for the application log file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR (overrides config/default)")

	rootCmd.Flags().StringVar(&fileFlag, "file", "", "path to a single Python file to process")
	rootCmd.Flags().StringVar(&dirFlag, "dir", "", "path to a directory to process recursively (all .py files)")
	rootCmd.Flags().StringVar(&removalLogFlag, "log", "", fmt.Sprintf("path for the removed-comments log (default %s)", config.DefaultRemovalLogName))
}
