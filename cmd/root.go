package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zl90/agentic-grants-assessment/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "grants-assessment",
	Short: "Agentic grants assessment pipeline",
	Long: `Grants assessment processes uploaded grant application documents:
it resolves an upload back to its registered asset, extracts the document
text with Textract, and has an LLM agent adjudicate the application,
recording every step as durable, queryable records.

In production the pipeline runs as a Lambda handler on S3 upload events.
This CLI drives the same pipeline locally: replay a saved event with
"process", or inspect the records for an asset with "status".`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
