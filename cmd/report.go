package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"rmcom/config"
	"rmcom/logger"
	"rmcom/models"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var (
	reportLogPath string
	reportTop     int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize an existing removed-comments log",
	Long:  `Reads a removal log produced by a previous run and prints the total number of removed comments plus per-file counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Executing 'report' command")

		logPath := reportLogPath
		if logPath == "" {
			logPath = config.AppConfig.Log.Path
		}
		expandedPath, err := expandTildeCmd(logPath)
		if err != nil {
			logger.Error("Error expanding tilde in --log path '%s': %v. Using original.", logPath, err)
		} else {
			logPath = expandedPath
		}

		data, err := os.ReadFile(logPath)
		if err != nil {
			return fmt.Errorf("could not read removal log %s: %w", logPath, err)
		}
		if !gjson.ValidBytes(data) {
			return fmt.Errorf("removal log %s is not valid JSON", logPath)
		}
		root := gjson.ParseBytes(data)
		if !root.IsArray() {
			return fmt.Errorf("removal log %s is not a JSON array", logPath)
		}

		total := int(gjson.GetBytes(data, "#").Int())
		fmt.Printf("Removal log: %s\n", logPath)
		fmt.Printf("Total comments removed: %d\n", total)
		if total == 0 {
			return nil
		}

		counts := map[string]int{}
		root.ForEach(func(_, rec gjson.Result) bool {
			counts[rec.Get("file_path").String()]++
			return true
		})

		perFile := make([]models.FileRemovalCount, 0, len(counts))
		for path, count := range counts {
			perFile = append(perFile, models.FileRemovalCount{FilePath: path, Count: count})
		}
		sort.Slice(perFile, func(i, j int) bool {
			if perFile[i].Count != perFile[j].Count {
				return perFile[i].Count > perFile[j].Count
			}
			return perFile[i].FilePath < perFile[j].FilePath
		})
		if reportTop > 0 && len(perFile) > reportTop {
			perFile = perFile[:reportTop]
		}

		fmt.Println("Comments removed per file:")
		writer := new(tabwriter.Writer)
		writer.Init(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(writer, "FILE\tREMOVED")
		for _, fc := range perFile {
			fmt.Fprintf(writer, "%s\t%d\n", fc.FilePath, fc.Count)
		}
		return writer.Flush()
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportLogPath, "log", "", "path to the removal log to summarize (default from config)")
	reportCmd.Flags().IntVar(&reportTop, "top", 0, "only show the N most affected files (0 = all)")
	rootCmd.AddCommand(reportCmd)
}
