package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jobeer1/agedfix/api"
)

var (
	servePort      string
	serveMaxUpload int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server",
	Long:  `Starts the HTTP API server that accepts report uploads and returns normalized records as JSON, CSV or XLSX.`,
	Run: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stdout)
		log.SetFlags(log.Ltime | log.Lmsgprefix)

		cfg := api.DefaultConfig()
		if servePort != "" {
			cfg.Port = ":" + servePort
		}
		if serveMaxUpload > 0 {
			cfg.MaxUploadSize = serveMaxUpload << 20
		}
		cfg.LogPrefix = "SERVER: "

		server := api.New(cfg, loadPipeline())
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "Port to run the API server on")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload-mb", 32, "Maximum upload size in MiB")
}
