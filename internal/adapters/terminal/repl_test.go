package terminal

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PabloGalante/tripmate/internal/adapters/llm"
	"github.com/PabloGalante/tripmate/internal/adapters/storage/memory"
	"github.com/PabloGalante/tripmate/internal/app/conversation"
	"github.com/PabloGalante/tripmate/internal/domain"
)

func newService(credential string) *conversation.Service {
	return conversation.NewService(
		llm.NewMockLLM(),
		memory.NewSessionStore[*conversation.Session](0),
		conversation.Settings{Credential: credential},
	)
}

func runScript(t *testing.T, svc *conversation.Service, script string, opts ...Option) string {
	t.Helper()

	var out bytes.Buffer
	repl := NewREPL(svc, strings.NewReader(script), &out, opts...)
	if err := repl.Run(context.Background(), domain.DefaultTravelConfig()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestREPL_ChatAndQuit(t *testing.T) {
	svc := newService("dev-key")

	out := runScript(t, svc, "hello there\n/quit\n")

	if !strings.Contains(out, "Tripmate travel planner") {
		t.Errorf("missing banner:\n%s", out)
	}
	if !strings.Contains(out, "tripmate> ") || !strings.Contains(out, "Jeju Island") {
		t.Errorf("missing streamed reply:\n%s", out)
	}
	if !strings.Contains(out, "Have a great trip!") {
		t.Errorf("missing goodbye:\n%s", out)
	}
	if svc.ActiveSessions() != 0 {
		t.Errorf("session not ended, active = %d", svc.ActiveSessions())
	}
}

func TestREPL_EOFEndsCleanly(t *testing.T) {
	out := runScript(t, newService("dev-key"), "")
	if !strings.Contains(out, "you> ") {
		t.Errorf("expected a prompt before EOF:\n%s", out)
	}
}

func TestREPL_NotConfigured(t *testing.T) {
	out := runScript(t, newService(""), "hi\n/quit\n")

	if !strings.Contains(out, "No API key configured") {
		t.Errorf("missing configuration notice:\n%s", out)
	}
	if !strings.Contains(out, "error: ") || !strings.Contains(out, "not configured") {
		t.Errorf("expected a configuration error:\n%s", out)
	}
}

func TestREPL_QuickQuestions(t *testing.T) {
	out := runScript(t, newService("dev-key"), "/questions\n/q 1\n/q 99\n/q x\n/quit\n")

	if !strings.Contains(out, "[0] Recommend a destination") {
		t.Errorf("questions not listed:\n%s", out)
	}
	if !strings.Contains(out, "Plan a day-by-day itinerary for 5 days") {
		t.Errorf("quick question not submitted:\n%s", out)
	}
	if strings.Count(out, "error: ") != 2 {
		t.Errorf("expected two errors for bad indexes:\n%s", out)
	}
}

func TestREPL_ConfigAndReset(t *testing.T) {
	svc := newService("dev-key")

	out := runScript(t, svc, "/config style=culture days=9\n/config days=99\n/config mood=happy\nhello\n/reset\n/show\n/quit\n")

	if !strings.Contains(out, "culture trip • 9 days") {
		t.Errorf("config not applied:\n%s", out)
	}
	if strings.Count(out, "error: ") != 2 {
		t.Errorf("expected two config errors:\n%s", out)
	}
	if !strings.Contains(out, "Conversation cleared.") {
		t.Errorf("reset not acknowledged:\n%s", out)
	}
	show := out[strings.LastIndex(out, "Conversation cleared."):]
	if strings.Contains(show, "user:") {
		t.Errorf("/show after reset still lists user messages:\n%s", show)
	}
	if !strings.Contains(show, "(system instruction active)") {
		t.Errorf("/reset should keep the system instruction:\n%s", show)
	}
}

func TestREPL_Export(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "chat.json")

	out := runScript(t, newService("dev-key"),
		"plan a beach week\n/export md\n/export json "+explicit+"\n/export pdf\n/quit\n",
		WithExportDir(dir))

	matches, _ := filepath.Glob(filepath.Join(dir, "tripmate-chat-*.md"))
	if len(matches) != 1 {
		t.Fatalf("expected one markdown export, got %v\n%s", matches, out)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "plan a beach week") {
		t.Errorf("export missing message:\n%s", data)
	}

	if _, err := os.Stat(explicit); err != nil {
		t.Errorf("explicit export path not written: %v", err)
	}
	if !strings.Contains(out, "unsupported format") {
		t.Errorf("expected unsupported format error:\n%s", out)
	}
}

func TestREPL_Convert(t *testing.T) {
	out := runScript(t, newService("dev-key"), "/convert 10 USD JPY\n/convert 1 USD\n/quit\n")

	if !strings.Contains(out, "1,500") {
		t.Errorf("conversion not printed:\n%s", out)
	}
	if !strings.Contains(out, "usage: /convert") {
		t.Errorf("missing usage error:\n%s", out)
	}
}

func TestApplySetting(t *testing.T) {
	cfg := domain.DefaultTravelConfig()

	if err := applySetting(&cfg, "Budget", "1000"); err != nil || cfg.BudgetPerPerson != 1000 {
		t.Errorf("budget: err=%v cfg=%+v", err, cfg)
	}
	if err := applySetting(&cfg, "companions", "3"); err != nil || cfg.Companions != 3 {
		t.Errorf("companions: err=%v cfg=%+v", err, cfg)
	}
	if err := applySetting(&cfg, "days", "ten"); err == nil {
		t.Error("expected error for non-numeric days")
	}
	if err := applySetting(&cfg, "style", "ADVENTURE"); err != nil || cfg.Style != domain.StyleAdventure {
		t.Errorf("style: err=%v cfg=%+v", err, cfg)
	}
}

// failOnceProvider fails its first call and then answers.
type failOnceProvider struct {
	failed bool
}

func (p *failOnceProvider) Name() string { return "fail-once" }

func (p *failOnceProvider) Complete(ctx context.Context, req domain.CompletionRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !p.failed {
			p.failed = true
			yield("", errors.New("upstream unavailable"))
			return
		}
		yield("back online", nil)
	}
}

func TestREPL_Retry(t *testing.T) {
	svc := conversation.NewService(
		&failOnceProvider{},
		memory.NewSessionStore[*conversation.Session](0),
		conversation.Settings{Credential: "dev-key", Temperature: 0.7},
	)

	out := runScript(t, svc, "/retry\nwhere to?\n/retry\n/show\n/quit\n")

	if !strings.Contains(out, "no unanswered message to retry") {
		t.Errorf("expected nothing-to-retry error:\n%s", out)
	}
	if !strings.Contains(out, "upstream unavailable") {
		t.Errorf("expected the provider failure:\n%s", out)
	}
	if !strings.Contains(out, "tripmate> back online") {
		t.Errorf("retry reply not streamed:\n%s", out)
	}
	show := out[strings.LastIndex(out, "tripmate> back online"):]
	if strings.Count(show, "user:") != 1 || strings.Count(show, "assistant:") != 1 {
		t.Errorf("/show should list one user and one assistant message:\n%s", show)
	}
}
