package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configFile string

// rootCmd 는 인자 없이 실행하면 serve 와 동일하게 HTTP 서버를 띄운다.
var rootCmd = &cobra.Command{
	Use:   "aidocs-ingest",
	Short: "AI docs visitor ingestion and query server",
	Long: `aidocs-ingest classifies documentation site visitors (bots, browsing agents,
coding agents, humans), records every page view to the raw and visits datasets,
and serves a fixed catalog of analytics queries.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml/json/toml); env vars override it")

	rootCmd.AddCommand(serveCmd, classifyCmd, renderQueryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
