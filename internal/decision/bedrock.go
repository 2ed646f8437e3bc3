package decision

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/rs/zerolog"

	"github.com/zl90/agentic-grants-assessment/internal/logger"
)

// BedrockAPI is the subset of the Bedrock runtime client the invoker uses.
type BedrockAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockInvoker implements Invoker over the Bedrock runtime InvokeModel API
// with an Anthropic messages payload.
type BedrockInvoker struct {
	client  BedrockAPI
	modelID string
	log     zerolog.Logger
}

// NewBedrockInvoker creates an invoker for the given foundation model.
func NewBedrockInvoker(client BedrockAPI, modelID string) *BedrockInvoker {
	return &BedrockInvoker{
		client:  client,
		modelID: modelID,
		log:     logger.WithComponent("bedrock-invoker"),
	}
}

// NewBedrockClient builds a Bedrock runtime client from the default AWS
// credential chain for the given region.
func NewBedrockClient(ctx context.Context, region string) (*bedrockruntime.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return bedrockruntime.NewFromConfig(awsCfg), nil
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content    []anthropicContent `json:"content"`
	Completion string             `json:"completion"`
}

// Invoke sends the prompt as a single user message and returns the model's
// text completion verbatim.
func (b *BedrockInvoker) Invoke(ctx context.Context, prompt string, maxTokens int) (string, error) {
	const op = "Invoke"

	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        maxTokens,
		Messages: []anthropicMessage{
			{
				Role:    "user",
				Content: []anthropicContent{{Type: "text", Text: prompt}},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: failed to marshal request body: %w", op, err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, ErrInvocationFailed, err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("%s: %w: undecodable response body: %v", op, ErrInvocationFailed, err)
	}

	completion := resp.Completion
	if len(resp.Content) > 0 {
		completion = resp.Content[0].Text
	}

	b.log.Debug().
		Str("model_id", b.modelID).
		Int("completion_length", len(completion)).
		Msg("Received model completion")

	return completion, nil
}
