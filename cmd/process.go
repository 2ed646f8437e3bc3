package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zl90/agentic-grants-assessment/internal/config"
	"github.com/zl90/agentic-grants-assessment/internal/logger"
	"github.com/zl90/agentic-grants-assessment/internal/trigger"
)

var processCmd = &cobra.Command{
	Use:   "process [event-file]",
	Short: "Run a saved S3 upload event through the assessment pipeline",
	Long: `Replay a saved S3 event notification (JSON, as delivered to the
Lambda handler) through the full pipeline with real AWS clients.

Useful for reprocessing an upload whose pipeline run was lost, and for
exercising the pipeline from a workstation.`,
	Example: `  # Reprocess a captured upload event
  grants-assessment process event.json

  # Allow a long-running Textract job to finish
  grants-assessment process event.json --timeout 1200`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().Int("timeout", 900, "Processing timeout in seconds")
}

func runProcess(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("process")

	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	eventPath := args[0]

	data, err := os.ReadFile(eventPath)
	if err != nil {
		return fmt.Errorf("failed to read event file: %w", err)
	}

	var event events.S3Event
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to parse event file %s: %w", eventPath, err)
	}
	if len(event.Records) == 0 {
		return fmt.Errorf("event file %s contains no notification records", eventPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := signalContext(timeoutSecs, log)
	defer cancel()

	handler, err := trigger.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to wire pipeline: %w", err)
	}

	log.Info().
		Str("event_file", eventPath).
		Int("records", len(event.Records)).
		Msg("Replaying upload event")

	if err := handler.Handle(ctx, event); err != nil {
		return fmt.Errorf("event processing aborted: %w", err)
	}
	return nil
}

// signalContext returns a context bounded by the timeout flag and canceled on
// SIGINT/SIGTERM.
func signalContext(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
