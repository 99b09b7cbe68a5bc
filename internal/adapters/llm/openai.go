package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/PabloGalante/tripmate/internal/domain"
)

const defaultOpenAIModel = "gpt-4o-mini"

type OpenAIConfig struct {
	Model string
	// BaseURL points the client at an OpenAI-compatible gateway. Optional.
	BaseURL string
}

type OpenAIClient struct {
	cfg OpenAIConfig
}

func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	cfg.Model = modelOrDefault(cfg.Model, defaultOpenAIModel)
	return &OpenAIClient{cfg: cfg}
}

func (o *OpenAIClient) Name() string {
	return "openai"
}

// Complete implements domain.CompletionProvider with a streaming chat completion.
func (o *OpenAIClient) Complete(ctx context.Context, req domain.CompletionRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := requireCredential(o.Name(), req); err != nil {
			yield("", err)
			return
		}

		opts := []option.RequestOption{option.WithAPIKey(req.Credential)}
		if o.cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(o.cfg.BaseURL))
		}
		client := openai.NewClient(opts...)

		params := openai.ChatCompletionNewParams{
			Model:       openai.ChatModel(modelOrDefault(req.Model, o.cfg.Model)),
			Messages:    toOpenAIMessages(req.Messages),
			Temperature: openai.Float(req.Temperature),
		}

		stream := client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			yield("", describeOpenAIError(err))
		}
	}
}

func toOpenAIMessages(msgs domain.Conversation) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case domain.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// describeOpenAIError keeps the API status visible in the user-facing message.
func describeOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai api error (status %d): %w", apiErr.StatusCode, err)
	}
	return fmt.Errorf("openai stream: %w", err)
}
