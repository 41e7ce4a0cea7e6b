package commands

import (
	"github.com/spf13/cobra"
)

// Version and Commit are set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "none"

	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "opsradar",
	Short: "opsradar is an IT incident analytics dashboard",
	Long: `opsradar ingests ITSM spreadsheet exports (XLSX/CSV), normalizes their
noisy state and priority labels, and serves SLA compliance, grouping and
trend analytics over a JSON API.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd)
}
