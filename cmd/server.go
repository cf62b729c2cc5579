package cmd

import (
	"net/http"

	"rmcom/api"
	"rmcom/config"
	"rmcom/database"
	"rmcom/logger"

	"github.com/spf13/cobra"
)

var standaloneServerPort string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the run history as a JSON API",
	Long:  `Starts a small HTTP server exposing the history database: GET /api/runs, GET /api/runs/{runID}, GET /api/runs/{runID}/comments and GET /api/health.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		portToUse := standaloneServerPort
		if portToUse == "" {
			portToUse = config.AppConfig.Server.Port
		}

		if err := database.InitDB(resolveDBPath()); err != nil {
			return err
		}
		defer database.CloseDB()

		logger.Info("Attempting to start history API server on port %s...", portToUse)

		apiRouter := api.NewRouter()

		mainMux := http.NewServeMux()
		mainMux.Handle("/api/", http.StripPrefix("/api", apiRouter))

		logger.Info("Registered API router under /api/ prefix. Listening on :%s...", portToUse)
		if err := http.ListenAndServe(":"+portToUse, mainMux); err != nil {
			logger.Error("Could not start server: %v", err)
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().StringVarP(&standaloneServerPort, "port", "p", "", "port for the history API server (overrides config/default)")
	rootCmd.AddCommand(serverCmd)
}
