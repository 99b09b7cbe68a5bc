package llm

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/tripmate/internal/domain"
)

// splitSystem separates the system instruction from the dialogue turns.
// Providers that take the instruction out of band (Gemini, Anthropic) use it.
func splitSystem(msgs domain.Conversation) (string, []domain.Message) {
	sys, ok := msgs.System()
	if !ok {
		return "", msgs.Turns()
	}
	return sys.Content, msgs.Turns()
}

// requireCredential rejects a request whose credential is blank.
func requireCredential(provider string, req domain.CompletionRequest) error {
	if strings.TrimSpace(req.Credential) == "" {
		return fmt.Errorf("%s: %w", provider, domain.ErrNotConfigured)
	}
	return nil
}

func modelOrDefault(model, def string) string {
	if strings.TrimSpace(model) == "" {
		return def
	}
	return model
}
