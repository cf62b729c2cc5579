package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"text/tabwriter" // For aligned table output

	"rmcom/database"
	"rmcom/logger"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyRunID string
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "List past strip runs from the history database",
	Long:    `Shows previous rmcom runs recorded in the local SQLite history database. Use --run to show every comment removed during one run.`,
	Aliases: []string{"hist"},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Executing 'history' command")
		if err := database.InitDB(resolveDBPath()); err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer database.CloseDB()

		if historyRunID != "" {
			return showRunDetails(historyRunID)
		}
		return listRuns(historyLimit)
	},
}

func listRuns(limit int) error {
	runs, err := database.ListRuns(limit)
	if err != nil {
		logger.Error("Failed to list runs: %v", err)
		return fmt.Errorf("error retrieving runs from history database: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded in the history database.")
		return nil
	}

	fmt.Println("Recorded Runs:")
	writer := new(tabwriter.Writer)
	writer.Init(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tSTARTED\tMODE\tPATH\tSCANNED\tFAILED\tREMOVED")
	for _, r := range runs {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Mode, r.RootPath,
			r.FilesScanned, r.FilesFailed, r.CommentsRemoved)
	}
	return writer.Flush()
}

func showRunDetails(runID string) error {
	run, err := database.GetRunByID(runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("run '%s' not found in history database", runID)
		}
		logger.Error("Failed to fetch run %s: %v", runID, err)
		return fmt.Errorf("error retrieving run from history database: %w", err)
	}

	fmt.Printf("Run Details (ID: %s):\n", run.ID)
	fmt.Printf("  Started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Mode:     %s\n", run.Mode)
	fmt.Printf("  Path:     %s\n", run.RootPath)
	fmt.Printf("  Scanned:  %d file(s)\n", run.FilesScanned)
	fmt.Printf("  Failed:   %d file(s)\n", run.FilesFailed)
	fmt.Printf("  Removed:  %d comment(s)\n", run.CommentsRemoved)

	records, err := database.GetRemovalsForRun(run.ID)
	if err != nil {
		logger.Error("Failed to fetch removals for run %s: %v", run.ID, err)
		return fmt.Errorf("error retrieving removed comments: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No comments were removed during this run.")
		return nil
	}

	fmt.Println("Removed Comments:")
	writer := new(tabwriter.Writer)
	writer.Init(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "FILE\tLINE\tCOMMENT")
	for _, rec := range records {
		fmt.Fprintf(writer, "%s\t%d\t%s\n", rec.FilePath, rec.LineNumber, rec.CommentText)
	}
	return writer.Flush()
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "show the removed comments for a single run ID")
	rootCmd.AddCommand(historyCmd)
}
