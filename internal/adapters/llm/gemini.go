package llm

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"

	"github.com/PabloGalante/tripmate/internal/domain"
)

const defaultGeminiModel = "gemini-2.5-flash"

type GeminiConfig struct {
	Model string

	// When Project is set the client talks to Vertex AI with application
	// default credentials and the request credential is only a dispatch gate.
	Project  string
	Location string
}

type GeminiClient struct {
	cfg    GeminiConfig
	vertex *genai.Client
}

// NewGeminiClient creates a CompletionProvider based on Gemini.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cfg.Model = modelOrDefault(cfg.Model, defaultGeminiModel)
	g := &GeminiClient{cfg: cfg}

	if cfg.Project == "" {
		return g, nil
	}
	if cfg.Location == "" {
		cfg.Location = "us-central1"
		g.cfg.Location = cfg.Location
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}
	g.vertex = client
	return g, nil
}

func (g *GeminiClient) Name() string {
	return "gemini"
}

func (g *GeminiClient) client(ctx context.Context, credential string) (*genai.Client, error) {
	if g.vertex != nil {
		return g.vertex, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  credential,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return client, nil
}

// Complete implements domain.CompletionProvider using GenerateContentStream.
func (g *GeminiClient) Complete(ctx context.Context, req domain.CompletionRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := requireCredential(g.Name(), req); err != nil {
			yield("", err)
			return
		}

		client, err := g.client(ctx, req.Credential)
		if err != nil {
			yield("", err)
			return
		}

		// 1) System instruction goes out of band, the rest as conversation
		system, turns := splitSystem(req.Messages)

		var contents []*genai.Content
		for _, m := range turns {
			var role genai.Role
			switch m.Role {
			case domain.RoleAssistant:
				role = genai.RoleModel
			default:
				role = genai.RoleUser
			}
			contents = append(contents, genai.NewContentFromText(m.Content, role))
		}

		temp := float32(req.Temperature)
		cfg := &genai.GenerateContentConfig{
			Temperature: &temp,
		}
		if system != "" {
			cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
		}

		// 2) Stream, forwarding only the text of each chunk
		model := modelOrDefault(req.Model, g.cfg.Model)
		for res, err := range client.Models.GenerateContentStream(ctx, model, contents, cfg) {
			if err != nil {
				yield("", fmt.Errorf("gemini generate content: %w", err))
				return
			}
			if !yield(res.Text(), nil) {
				return
			}
		}
	}
}
