package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/PabloGalante/tripmate/internal/domain"
)

const (
	defaultAnthropicModel     = "claude-3-5-haiku-latest"
	defaultAnthropicMaxTokens = 2048
)

type AnthropicConfig struct {
	Model     string
	MaxTokens int64
}

type AnthropicClient struct {
	cfg AnthropicConfig
}

func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	cfg.Model = modelOrDefault(cfg.Model, defaultAnthropicModel)
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultAnthropicMaxTokens
	}
	return &AnthropicClient{cfg: cfg}
}

func (a *AnthropicClient) Name() string {
	return "anthropic"
}

// Complete implements domain.CompletionProvider with the streaming Messages API.
func (a *AnthropicClient) Complete(ctx context.Context, req domain.CompletionRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := requireCredential(a.Name(), req); err != nil {
			yield("", err)
			return
		}

		client := anthropic.NewClient(option.WithAPIKey(req.Credential))

		system, turns := splitSystem(req.Messages)
		params := anthropic.MessageNewParams{
			Model:       anthropic.Model(modelOrDefault(req.Model, a.cfg.Model)),
			MaxTokens:   a.cfg.MaxTokens,
			Messages:    toAnthropicMessages(turns),
			Temperature: anthropic.Float(req.Temperature),
		}
		if system != "" {
			params.System = []anthropic.TextBlockParam{{Text: system}}
		}

		stream := client.Messages.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
			if !ok {
				continue
			}
			text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
			if !ok {
				continue
			}
			if !yield(text.Text, nil) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			yield("", describeAnthropicError(err))
		}
	}
}

func toAnthropicMessages(turns []domain.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(turns))
	for _, m := range turns {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == domain.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
			continue
		}
		out = append(out, anthropic.NewUserMessage(block))
	}
	return out
}

func describeAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("anthropic api error (status %d): %w", apiErr.StatusCode, err)
	}
	return fmt.Errorf("anthropic stream: %w", err)
}
