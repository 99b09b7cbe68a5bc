package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PabloGalante/tripmate/internal/domain"
	"github.com/PabloGalante/tripmate/internal/observability"
)

// DefaultTemperature matches the sampling temperature of the hosted chat UI.
const DefaultTemperature = 0.7

// FragmentFunc receives reply fragments as they arrive from the provider.
type FragmentFunc func(fragment string)

// Manager owns the conversation of a single session and mediates every turn
// between user intent and the completion provider.
type Manager struct {
	provider    domain.CompletionProvider
	model       string
	temperature float64
	now         func() time.Time

	mu         sync.Mutex
	messages   domain.Conversation
	config     domain.TravelConfig
	credential string
	pending    *string
	generation uint64 // bumped by Reset

	inFlight atomic.Bool
}

// ManagerOption customises a Manager.
type ManagerOption func(*Manager)

func WithModel(model string) ManagerOption {
	return func(m *Manager) { m.model = model }
}

func WithTemperature(t float64) ManagerOption {
	return func(m *Manager) { m.temperature = t }
}

func WithCredential(credential string) ManagerOption {
	return func(m *Manager) { m.credential = strings.TrimSpace(credential) }
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(provider domain.CompletionProvider, opts ...ManagerOption) *Manager {
	m := &Manager{
		provider:    provider,
		temperature: DefaultTemperature,
		now:         time.Now,
		config:      domain.DefaultTravelConfig(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize creates the system message from cfg if the conversation is empty.
// It is a no-op on an existing conversation.
func (m *Manager) Initialize(cfg domain.TravelConfig) domain.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.messages) == 0 {
		m.config = cfg
		m.messages = domain.Conversation{m.systemMessage()}
	}
	return m.messages.Clone()
}

// RefreshSystemInstruction re-renders the system instruction with cfg and
// replaces index 0 in place. History is kept.
func (m *Manager) RefreshSystemInstruction(cfg domain.TravelConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = cfg
	m.refreshLocked()
}

func (m *Manager) refreshLocked() {
	sys := m.systemMessage()
	if _, ok := m.messages.System(); ok {
		m.messages[0] = sys
		return
	}
	m.messages = append(domain.Conversation{sys}, m.messages...)
}

func (m *Manager) systemMessage() domain.Message {
	return domain.Message{
		Role:      domain.RoleSystem,
		Content:   RenderSystemInstruction(m.config),
		CreatedAt: m.now(),
	}
}

// SetCredential supplies the secret passed to the provider on every call.
func (m *Manager) SetCredential(credential string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = strings.TrimSpace(credential)
}

// Configured reports whether a credential is available for dispatch.
func (m *Manager) Configured() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credential != ""
}

// Config returns the configuration used for the current system instruction.
func (m *Manager) Config() domain.TravelConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Conversation returns a read-only copy of the message log.
func (m *Manager) Conversation() domain.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages.Clone()
}

// SubmitTurn appends a user message, performs exactly one provider call with
// the full conversation and appends the assistant reply.
//
// Whitespace-only text yields a ValidationError and a missing credential a
// ConfigurationError; in both cases nothing is appended. On a ProviderError
// the user message stays as the unanswered tail and no assistant message is
// appended. A later SubmitTurn replaces that unanswered message with the new
// text, so a user message is never left without a reply in the middle of the
// log; RetryTurn re-dispatches it unchanged.
func (m *Manager) SubmitTurn(ctx context.Context, text string, onFragment FragmentFunc) (domain.Conversation, error) {
	if strings.TrimSpace(text) == "" {
		return m.Conversation(), &domain.ValidationError{Field: "text", Err: domain.ErrEmptyTurn}
	}

	return m.dispatch(ctx, onFragment, func() error {
		msg := domain.Message{
			Role:      domain.RoleUser,
			Content:   text,
			CreatedAt: m.now(),
		}
		if m.unansweredLocked() {
			m.messages[len(m.messages)-1] = msg
			return nil
		}
		m.messages = append(m.messages, msg)
		return nil
	})
}

// RetryTurn re-dispatches the unanswered user message left by a failed turn.
// It fails with ErrNothingToRetry when the conversation does not end with a
// user message.
func (m *Manager) RetryTurn(ctx context.Context, onFragment FragmentFunc) (domain.Conversation, error) {
	return m.dispatch(ctx, onFragment, func() error {
		if !m.unansweredLocked() {
			return &domain.ValidationError{Field: "turn", Err: domain.ErrNothingToRetry}
		}
		return nil
	})
}

// unansweredLocked reports whether the log ends with a user message.
func (m *Manager) unansweredLocked() bool {
	last, ok := m.messages.Last()
	return ok && last.Role == domain.RoleUser
}

// dispatch runs one turn: prepare places the user message at the tail, then
// the system instruction is refreshed, the provider is called once and the
// reply is appended.
func (m *Manager) dispatch(ctx context.Context, onFragment FragmentFunc, prepare func() error) (domain.Conversation, error) {
	if !m.inFlight.CompareAndSwap(false, true) {
		return m.Conversation(), domain.ErrTurnInProgress
	}
	defer m.inFlight.Store(false)

	log := observability.LoggerFromContext(ctx).With("provider", m.provider.Name())

	m.mu.Lock()
	if m.credential == "" {
		m.mu.Unlock()
		log.Warn("dispatch blocked, credential missing")
		return m.Conversation(), &domain.ConfigurationError{Setting: "credential", Err: domain.ErrNotConfigured}
	}

	m.refreshLocked()
	if err := prepare(); err != nil {
		out := m.messages.Clone()
		m.mu.Unlock()
		return out, err
	}
	req := domain.CompletionRequest{
		Credential:  m.credential,
		Model:       m.model,
		Temperature: m.temperature,
		Messages:    m.messages.Clone(),
	}
	gen := m.generation
	m.mu.Unlock()

	start := m.now()
	log.Info("dispatching turn", "messages", len(req.Messages))

	reply, err := m.drain(ctx, req, onFragment)
	if err != nil {
		log.Error("provider call failed", "error", err)
		return m.Conversation(), &domain.ProviderError{Provider: m.provider.Name(), Err: err}
	}

	m.mu.Lock()
	if m.generation != gen {
		out := m.messages.Clone()
		m.mu.Unlock()
		log.Warn("conversation reset during dispatch, reply dropped")
		return out, domain.ErrConversationReset
	}
	m.messages = append(m.messages, domain.Message{
		Role:      domain.RoleAssistant,
		Content:   reply,
		CreatedAt: m.now(),
	})
	out := m.messages.Clone()
	m.mu.Unlock()

	log.Info("turn completed",
		"reply_chars", len(reply),
		"elapsed_ms", m.now().Sub(start).Milliseconds())

	return out, nil
}

// drain consumes the whole fragment sequence before returning the reply.
func (m *Manager) drain(ctx context.Context, req domain.CompletionRequest, onFragment FragmentFunc) (string, error) {
	var b strings.Builder
	for fragment, err := range m.provider.Complete(ctx, req) {
		if err != nil {
			return "", err
		}
		if fragment == "" {
			continue
		}
		b.WriteString(fragment)
		if onFragment != nil {
			onFragment(fragment)
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reply := b.String()
	if strings.TrimSpace(reply) == "" {
		return "", errors.New("provider returned an empty reply")
	}
	return reply, nil
}

// StageIntent stores a quick question for the next dispatch cycle,
// replacing any intent that was not consumed yet.
func (m *Manager) StageIntent(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = &text
}

// ConsumePendingIntent reads and clears the staged quick question.
func (m *Manager) ConsumePendingIntent() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending == nil {
		return "", false
	}
	text := *m.pending
	m.pending = nil
	return text, true
}

// Reset truncates the conversation to empty, or to the system message only.
func (m *Manager) Reset(keepSystem bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	sys, ok := m.messages.System()
	if keepSystem && ok {
		m.messages = domain.Conversation{sys}
		return
	}
	m.messages = domain.Conversation{}
}

// Export renders all non-system messages as "<role>: <content>\n\n".
func (m *Manager) Export() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages.Transcript()
}
