package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zl90/agentic-grants-assessment/internal/config"
	"github.com/zl90/agentic-grants-assessment/internal/logger"
	"github.com/zl90/agentic-grants-assessment/internal/store"
	"github.com/zl90/agentic-grants-assessment/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status [asset-id]",
	Short: "Show the pipeline records for an asset",
	Long: `Query the text-detection job records and agent decision records for
one asset and print them. An asset re-uploaded to the same key produces a new
record pair per upload, so multiple rows per asset are normal.`,
	Example: `  grants-assessment status 7f9d5c1e-aa01-4b7e-9c80-2f1f6f4e2d35`,
	Args:    cobra.ExactArgs(1),
	RunE:    runStatus,
}

// assetStatus is the JSON shape printed by the status command.
type assetStatus struct {
	AssetID   string                  `json:"assetId"`
	Jobs      []models.TextractJob    `json:"jobs"`
	Decisions []models.DecisionRecord `json:"decisions"`
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("status")
	assetID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := store.NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	jobStore := store.NewTextractJobStore(db, cfg.TextractJobTable, cfg.AssetIDIndexName)
	decisionStore := store.NewDecisionStore(db, cfg.DecisionTable, cfg.AssetIDIndexName)

	jobs, err := jobStore.QueryByAssetID(ctx, assetID)
	if err != nil {
		return fmt.Errorf("failed to query job records: %w", err)
	}
	decisions, err := decisionStore.QueryByAssetID(ctx, assetID)
	if err != nil {
		return fmt.Errorf("failed to query decision records: %w", err)
	}

	log.Debug().
		Str("asset_id", assetID).
		Int("jobs", len(jobs)).
		Int("decisions", len(decisions)).
		Msg("Fetched pipeline records")

	out, err := json.MarshalIndent(assetStatus{
		AssetID:   assetID,
		Jobs:      jobs,
		Decisions: decisions,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status output: %w", err)
	}

	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
