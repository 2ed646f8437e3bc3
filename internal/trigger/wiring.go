package trigger

import (
	"context"
	"fmt"

	"github.com/zl90/agentic-grants-assessment/internal/asset"
	"github.com/zl90/agentic-grants-assessment/internal/config"
	"github.com/zl90/agentic-grants-assessment/internal/decision"
	"github.com/zl90/agentic-grants-assessment/internal/ocr"
	"github.com/zl90/agentic-grants-assessment/internal/store"
)

// NewFromConfig wires a production handler: DynamoDB-backed stores, the
// Textract engine and the configured LLM provider.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Handler, error) {
	db, err := store.NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	assetStore := store.NewAssetStore(db, cfg.AssetTable, cfg.AssetKeyIndexName)
	jobStore := store.NewTextractJobStore(db, cfg.TextractJobTable, cfg.AssetIDIndexName)
	decisionStore := store.NewDecisionStore(db, cfg.DecisionTable, cfg.AssetIDIndexName)

	textractClient, err := ocr.NewTextractClient(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create Textract client: %w", err)
	}
	driver := ocr.NewDriver(ocr.NewTextractEngine(textractClient), jobStore, ocr.DriverConfig{
		PollInterval: cfg.OCRPollInterval,
		MaxWait:      cfg.OCRMaxWait,
	})

	var invoker decision.Invoker
	switch cfg.LLMProvider {
	case "openai":
		invoker = decision.NewOpenAIInvoker(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		bedrockClient, err := decision.NewBedrockClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to create Bedrock client: %w", err)
		}
		invoker = decision.NewBedrockInvoker(bedrockClient, cfg.BedrockModelID)
	}
	recorder := decision.NewRecorder(invoker, decisionStore, cfg.MaxOutputTokens)

	return NewHandler(asset.NewResolver(assetStore), driver, recorder), nil
}
