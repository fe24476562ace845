package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "followup",
	Short:         "Fish delivery order follow-up system",
	Long:          "Storefront API, WhatsApp follow-up automation and admin dashboard for the fish delivery shop.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dashboardCmd)
}

// Execute runs the CLI. A missing .env file is fine; real deployments use
// environment variables.
func Execute() error {
	_ = godotenv.Load()
	return rootCmd.Execute()
}
