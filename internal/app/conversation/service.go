package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/tripmate/internal/app/catalog"
	"github.com/PabloGalante/tripmate/internal/domain"
	"github.com/PabloGalante/tripmate/internal/observability"
)

// Session pairs a session key with the Manager that owns its conversation.
type Session struct {
	ID        domain.SessionID
	CreatedAt time.Time

	mu        sync.Mutex
	updatedAt time.Time

	Manager *Manager
}

func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	s.updatedAt = t
	s.mu.Unlock()
}

// SessionStore keeps one Session per key. Sessions are never shared.
type SessionStore interface {
	Put(id domain.SessionID, s *Session) error
	Get(id domain.SessionID) (*Session, error)
	Delete(id domain.SessionID) error
	Count() int
}

// Settings are the defaults applied to every new session. Temperature is
// passed to the provider unchanged; 0 means deterministic sampling.
type Settings struct {
	Credential  string
	Model       string
	Temperature float64
}

// Service routes presentation-layer events to the Manager of each session.
type Service struct {
	provider domain.CompletionProvider
	store    SessionStore
	settings Settings
	now      func() time.Time
}

func NewService(provider domain.CompletionProvider, store SessionStore, settings Settings) *Service {
	return &Service{
		provider: provider,
		store:    store,
		settings: settings,
		now:      time.Now,
	}
}

// ProviderName is the name of the configured completion provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

type StartSessionInput struct {
	Config     domain.TravelConfig
	Credential string // overrides the server default when set
}

type StartSessionOutput struct {
	Session      *Session
	Conversation domain.Conversation
}

func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	if err := in.Config.Validate(); err != nil {
		return nil, err
	}

	credential := strings.TrimSpace(in.Credential)
	if credential == "" {
		credential = s.settings.Credential
	}

	now := s.now()
	session := &Session{
		ID:        domain.SessionID(uuid.NewString()),
		CreatedAt: now,
		updatedAt: now,
		Manager: NewManager(s.provider,
			WithModel(s.settings.Model),
			WithTemperature(s.settings.Temperature),
			WithCredential(credential),
			WithClock(s.now),
		),
	}

	ctx = observability.WithSessionID(ctx, string(session.ID))
	log := observability.LoggerFromContext(ctx).With("style", in.Config.Style)
	log.Info("starting new session")

	conv := session.Manager.Initialize(in.Config)

	if err := s.store.Put(session.ID, session); err != nil {
		log.Error("failed to store session", "error", err)
		return nil, err
	}

	log.Info("session started", "configured", session.Manager.Configured())

	return &StartSessionOutput{
		Session:      session,
		Conversation: conv,
	}, nil
}

type SendMessageInput struct {
	SessionID  domain.SessionID
	Text       string
	Credential string // optional, replaces the session credential
	OnFragment FragmentFunc
}

type SendMessageOutput struct {
	UserMessage      domain.Message
	AssistantMessage domain.Message
	Conversation     domain.Conversation
}

// SendMessage is the onSubmit handler.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	session, err := s.store.Get(in.SessionID)
	if err != nil {
		return nil, err
	}

	ctx = observability.WithSessionID(ctx, string(session.ID))
	observability.LoggerFromContext(ctx).Info("sending message", "chars", len(in.Text))

	return s.runTurn(ctx, session, in.Credential, func(m *Manager) (domain.Conversation, error) {
		return m.SubmitTurn(ctx, in.Text, in.OnFragment)
	})
}

type RetryInput struct {
	SessionID  domain.SessionID
	Credential string
	OnFragment FragmentFunc
}

// RetryTurn re-dispatches the unanswered user message left by a failed turn.
func (s *Service) RetryTurn(ctx context.Context, in RetryInput) (*SendMessageOutput, error) {
	session, err := s.store.Get(in.SessionID)
	if err != nil {
		return nil, err
	}

	ctx = observability.WithSessionID(ctx, string(session.ID))
	observability.LoggerFromContext(ctx).Info("retrying turn")

	return s.runTurn(ctx, session, in.Credential, func(m *Manager) (domain.Conversation, error) {
		return m.RetryTurn(ctx, in.OnFragment)
	})
}

func (s *Service) runTurn(ctx context.Context, session *Session, credential string, turn func(*Manager) (domain.Conversation, error)) (*SendMessageOutput, error) {
	if c := strings.TrimSpace(credential); c != "" {
		session.Manager.SetCredential(c)
	}

	conv, err := turn(session.Manager)
	session.touch(s.now())
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("turn not completed", "error", err)
		return nil, err
	}

	n := len(conv)
	return &SendMessageOutput{
		UserMessage:      conv[n-2],
		AssistantMessage: conv[n-1],
		Conversation:     conv,
	}, nil
}

type QuickQuestionInput struct {
	SessionID  domain.SessionID
	Index      int
	Credential string
	OnFragment FragmentFunc
}

// AskQuickQuestion is the onQuickQuestion handler: the rendered question is
// staged as the pending intent, drained, and submitted like typed input.
func (s *Service) AskQuickQuestion(ctx context.Context, in QuickQuestionInput) (*SendMessageOutput, error) {
	session, err := s.store.Get(in.SessionID)
	if err != nil {
		return nil, err
	}

	text, err := catalog.QuickQuestionText(in.Index, session.Manager.Config())
	if err != nil {
		return nil, &domain.ValidationError{Field: "index", Err: err}
	}

	session.Manager.StageIntent(text)
	staged, ok := session.Manager.ConsumePendingIntent()
	if !ok {
		return nil, &domain.ValidationError{Field: "index", Err: domain.ErrUnknownQuickQuestion}
	}

	observability.LoggerFromContext(observability.WithSessionID(ctx, string(session.ID))).Info("quick question selected",
		"index", in.Index)

	return s.SendMessage(ctx, SendMessageInput{
		SessionID:  in.SessionID,
		Text:       staged,
		Credential: in.Credential,
		OnFragment: in.OnFragment,
	})
}

// UpdateConfig is the onConfigChange handler.
func (s *Service) UpdateConfig(ctx context.Context, id domain.SessionID, cfg domain.TravelConfig) (domain.Conversation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	session.Manager.RefreshSystemInstruction(cfg)
	session.touch(s.now())

	observability.LoggerFromContext(observability.WithSessionID(ctx, string(id))).Info("session config updated",
		"style", cfg.Style,
		"days", cfg.Days)

	return session.Manager.Conversation(), nil
}

// ResetSession is the onReset handler.
func (s *Service) ResetSession(ctx context.Context, id domain.SessionID, keepSystem bool) (domain.Conversation, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	session.Manager.Reset(keepSystem)
	session.touch(s.now())

	observability.LoggerFromContext(observability.WithSessionID(ctx, string(id))).Info("session reset",
		"keep_system", keepSystem)

	return session.Manager.Conversation(), nil
}

func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (*Session, error) {
	session, err := s.store.Get(id)
	if err != nil {
		observability.LoggerFromContext(observability.WithSessionID(ctx, string(id))).Warn("session lookup failed", "error", err)
		return nil, err
	}
	return session, nil
}

func (s *Service) EndSession(ctx context.Context, id domain.SessionID) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	observability.LoggerFromContext(observability.WithSessionID(ctx, string(id))).Info("session ended")
	return nil
}

// ActiveSessions is the number of sessions currently held in memory.
func (s *Service) ActiveSessions() int {
	return s.store.Count()
}
