package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PabloGalante/tripmate/internal/domain"
)

func conversation() domain.Conversation {
	return domain.Conversation{
		{Role: domain.RoleSystem, Content: "be helpful"},
		{Role: domain.RoleUser, Content: "recommend a destination"},
		{Role: domain.RoleAssistant, Content: "Jeju Island"},
		{Role: domain.RoleUser, Content: "how many days?"},
	}
}

func collect(t *testing.T, p domain.CompletionProvider, req domain.CompletionRequest) (string, error) {
	t.Helper()
	var b strings.Builder
	for fragment, err := range p.Complete(context.Background(), req) {
		if err != nil {
			return b.String(), err
		}
		b.WriteString(fragment)
	}
	return b.String(), nil
}

func TestMockLLM_StreamsWholeReply(t *testing.T) {
	reply, err := collect(t, NewMockLLM(), domain.CompletionRequest{Messages: conversation()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, `"how many days?"`) {
		t.Errorf("reply %q does not echo the last user message", reply)
	}
}

func TestMockLLM_StopsWhenConsumerStops(t *testing.T) {
	n := 0
	for range NewMockLLM().Complete(context.Background(), domain.CompletionRequest{Messages: conversation()}) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("consumed %d fragments, want 2", n)
	}
}

func TestMockLLM_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotErr error
	for _, err := range NewMockLLM().Complete(ctx, domain.CompletionRequest{Messages: conversation()}) {
		if err != nil {
			gotErr = err
			break
		}
	}
	if !errors.Is(gotErr, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", gotErr)
	}
}

func TestSplitSystem(t *testing.T) {
	system, turns := splitSystem(conversation())
	if system != "be helpful" {
		t.Errorf("system = %q", system)
	}
	if len(turns) != 3 || turns[0].Role != domain.RoleUser {
		t.Errorf("turns = %+v", turns)
	}

	system, turns = splitSystem(conversation()[1:])
	if system != "" || len(turns) != 3 {
		t.Errorf("without system: system=%q turns=%d", system, len(turns))
	}
}

func TestToOpenAIMessages_KeepsOrder(t *testing.T) {
	msgs := toOpenAIMessages(conversation())
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}
	if msgs[0].OfSystem == nil || msgs[1].OfUser == nil || msgs[2].OfAssistant == nil || msgs[3].OfUser == nil {
		t.Errorf("unexpected role mapping: %+v", msgs)
	}
}

func TestToAnthropicMessages_DropsNothing(t *testing.T) {
	_, turns := splitSystem(conversation())
	msgs := toAnthropicMessages(turns)
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[1].Role != "assistant" {
		t.Errorf("msgs[1].Role = %q, want assistant", msgs[1].Role)
	}
}

func TestProviders_RequireCredential(t *testing.T) {
	providers := []domain.CompletionProvider{
		NewOpenAIClient(OpenAIConfig{}),
		NewAnthropicClient(AnthropicConfig{}),
		&GeminiClient{cfg: GeminiConfig{Model: defaultGeminiModel}},
	}
	for _, p := range providers {
		t.Run(p.Name(), func(t *testing.T) {
			_, err := collect(t, p, domain.CompletionRequest{Messages: conversation()})
			if !errors.Is(err, domain.ErrNotConfigured) {
				t.Errorf("error = %v, want ErrNotConfigured", err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		wantErr  bool
	}{
		{provider: "", want: "openai"},
		{provider: "OpenAI", want: "openai"},
		{provider: "gemini", want: "gemini"},
		{provider: "claude", want: "anthropic"},
		{provider: "mock", want: "mock"},
		{provider: "watson", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := New(context.Background(), Config{Provider: tt.provider})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.want)
			}
		})
	}
}

func TestOpenAIClient_StreamsChunks(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "text/event-stream")
		for _, piece := range []string{"Jeju", " Island"} {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"gpt-4o-mini\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q},\"finish_reason\":null}]}\n\n", piece)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{BaseURL: srv.URL + "/"})
	reply, err := collect(t, client, domain.CompletionRequest{
		Credential:  "sk-test",
		Temperature: 0.7,
		Messages:    conversation(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Jeju Island" {
		t.Errorf("reply = %q, want %q", reply, "Jeju Island")
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestOpenAIClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{BaseURL: srv.URL + "/"})
	_, err := collect(t, client, domain.CompletionRequest{Credential: "bad", Messages: conversation()})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q does not mention the status", err)
	}
}
