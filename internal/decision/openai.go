package decision

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/zl90/agentic-grants-assessment/internal/logger"
)

// OpenAIInvoker implements Invoker over the OpenAI chat completion API. It is
// the alternative to Bedrock for deployments without AWS model access,
// selected with LLM_PROVIDER=openai.
type OpenAIInvoker struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

// NewOpenAIInvoker creates an invoker for the given chat model.
func NewOpenAIInvoker(apiKey, model string) *OpenAIInvoker {
	return &OpenAIInvoker{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    logger.WithComponent("openai-invoker"),
	}
}

// Invoke sends the prompt as a single user message and returns the model's
// text completion verbatim.
func (o *OpenAIInvoker) Invoke(ctx context.Context, prompt string, maxTokens int) (string, error) {
	const op = "Invoke"

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, ErrInvocationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w: no response choices", op, ErrInvocationFailed)
	}

	completion := resp.Choices[0].Message.Content

	o.log.Debug().
		Str("model", o.model).
		Int("completion_length", len(completion)).
		Msg("Received model completion")

	return completion, nil
}
