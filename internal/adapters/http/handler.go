package httpadapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PabloGalante/tripmate/internal/app/catalog"
	"github.com/PabloGalante/tripmate/internal/app/conversation"
	"github.com/PabloGalante/tripmate/internal/domain"
	"github.com/PabloGalante/tripmate/internal/export"
	"github.com/PabloGalante/tripmate/internal/observability"
)

// credentialHeader carries a caller-supplied provider key.
const credentialHeader = "X-Provider-Key"

type Server struct {
	svc *conversation.Service
	now func() time.Time
}

func NewServer(svc *conversation.Service) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{svc: svc, now: time.Now}

	router := gin.New()
	router.Use(gin.Recovery(), withRequestID(), withLogging(), withCORS())

	router.GET("/healthz", s.handleHealthz)

	router.GET("/catalog/options", s.handleOptions)
	router.GET("/catalog/quick-questions", s.handleQuickQuestionCatalog)
	router.GET("/currency/convert", s.handleConvert)

	sessions := router.Group("/sessions")
	sessions.POST("", s.handleCreateSession)
	sessions.GET("/:id", s.handleGetSession)
	sessions.DELETE("/:id", s.handleDeleteSession)
	sessions.PUT("/:id/config", s.handleUpdateConfig)
	sessions.POST("/:id/messages", s.handleSendMessage)
	sessions.POST("/:id/retry", s.handleRetry)
	sessions.POST("/:id/quick-questions/:index", s.handleQuickQuestion)
	sessions.POST("/:id/reset", s.handleReset)
	sessions.GET("/:id/export", s.handleExport)

	return router
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type travelConfigRequest struct {
	Style           string `json:"style"`
	BudgetPerPerson int    `json:"budget_per_person"`
	Days            int    `json:"days"`
	Companions      int    `json:"companions"`
}

type createSessionRequest struct {
	Config *travelConfigRequest `json:"config,omitempty"`
}

type sessionResponse struct {
	ID         string              `json:"id"`
	Provider   string              `json:"provider"`
	Configured bool                `json:"configured"`
	Config     domain.TravelConfig `json:"config"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

type messageResponse struct {
	Role      string    `json:"role"`
	Label     string    `json:"label"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type getSessionResponse struct {
	Session  sessionResponse   `json:"session"`
	Messages []messageResponse `json:"messages"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage      messageResponse `json:"user_message"`
	AssistantMessage messageResponse `json:"assistant_message"`
}

type resetRequest struct {
	KeepSystem bool `json:"keep_system"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"provider":        s.svc.ProviderName(),
		"active_sessions": s.svc.ActiveSessions(),
	})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	cfg := domain.DefaultTravelConfig()
	if req.Config != nil {
		cfg = toTravelConfig(*req.Config)
	}

	out, err := s.svc.StartSession(c.Request.Context(), conversation.StartSessionInput{
		Config:     cfg,
		Credential: c.GetHeader(credentialHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, getSessionResponse{
		Session:  s.toSessionResponse(out.Session),
		Messages: toMessagesResponse(out.Conversation),
	})
}

func (s *Server) handleGetSession(c *gin.Context) {
	session, ok := s.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, getSessionResponse{
		Session:  s.toSessionResponse(session),
		Messages: toMessagesResponse(session.Manager.Conversation()),
	})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if err := s.svc.EndSession(c.Request.Context(), sessionID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleUpdateConfig(c *gin.Context) {
	var req travelConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	conv, err := s.svc.UpdateConfig(c.Request.Context(), sessionID(c), toTravelConfig(req))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": toMessagesResponse(conv)})
}

func (s *Server) handleSendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	s.runTurn(c, func(ctx context.Context, onFragment conversation.FragmentFunc) (*conversation.SendMessageOutput, error) {
		return s.svc.SendMessage(ctx, conversation.SendMessageInput{
			SessionID:  sessionID(c),
			Text:       req.Text,
			Credential: c.GetHeader(credentialHeader),
			OnFragment: onFragment,
		})
	})
}

func (s *Server) handleRetry(c *gin.Context) {
	s.runTurn(c, func(ctx context.Context, onFragment conversation.FragmentFunc) (*conversation.SendMessageOutput, error) {
		return s.svc.RetryTurn(ctx, conversation.RetryInput{
			SessionID:  sessionID(c),
			Credential: c.GetHeader(credentialHeader),
			OnFragment: onFragment,
		})
	})
}

func (s *Server) handleQuickQuestion(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "index must be an integer")
		return
	}

	s.runTurn(c, func(ctx context.Context, onFragment conversation.FragmentFunc) (*conversation.SendMessageOutput, error) {
		return s.svc.AskQuickQuestion(ctx, conversation.QuickQuestionInput{
			SessionID:  sessionID(c),
			Index:      index,
			Credential: c.GetHeader(credentialHeader),
			OnFragment: onFragment,
		})
	})
}

// runTurn answers with a single JSON body, or with an SSE stream of
// fragment events when the client asked for one.
func (s *Server) runTurn(c *gin.Context, turn func(context.Context, conversation.FragmentFunc) (*conversation.SendMessageOutput, error)) {
	ctx := c.Request.Context()

	if !wantsStream(c) {
		out, err := turn(ctx, nil)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toSendMessageResponse(out))
		return
	}

	stream := &sseStream{c: c}
	out, err := turn(ctx, stream.fragment)
	if err != nil {
		if !stream.started {
			// Nothing streamed yet, so a plain status code still fits.
			writeError(c, err)
			return
		}
		stream.send("error", gin.H{"error": err.Error(), "status": statusFor(err)})
		return
	}
	stream.send("done", toSendMessageResponse(out))
}

func (s *Server) handleReset(c *gin.Context) {
	var req resetRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	conv, err := s.svc.ResetSession(c.Request.Context(), sessionID(c), req.KeepSystem)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": toMessagesResponse(conv)})
}

func (s *Server) handleExport(c *gin.Context) {
	exporter, err := export.NewExporter(c.Query("format"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	session, ok := s.lookup(c)
	if !ok {
		return
	}

	at := s.now()
	doc := export.NewDocument(session.ID, session.Manager.Config(), session.Manager.Conversation(), at)

	c.Header("Content-Type", exporter.ContentType())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(exporter, at)))
	c.Status(http.StatusOK)
	if err := exporter.Export(doc, c.Writer); err != nil {
		ctx := observability.WithSessionID(c.Request.Context(), string(session.ID))
		observability.LoggerFromContext(ctx).Error("export failed", "error", err)
	}
}

func (s *Server) handleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.TravelOptions())
}

func (s *Server) handleQuickQuestionCatalog(c *gin.Context) {
	cfg := domain.DefaultTravelConfig()
	if id := c.Query("session_id"); id != "" {
		session, err := s.svc.GetSession(c.Request.Context(), domain.SessionID(id))
		if err != nil {
			writeError(c, err)
			return
		}
		cfg = session.Manager.Config()
	}
	c.JSON(http.StatusOK, gin.H{"questions": catalog.QuickQuestions(cfg)})
}

func (s *Server) handleConvert(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.DefaultQuery("amount", "0"), 64)
	if err != nil {
		badRequest(c, "amount must be a number")
		return
	}

	conv, err := catalog.Convert(amount, c.DefaultQuery("from", "USD"), c.Query("to"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, conv)
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func (s *Server) lookup(c *gin.Context) (*conversation.Session, bool) {
	session, err := s.svc.GetSession(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return session, true
}

func (s *Server) toSessionResponse(session *conversation.Session) sessionResponse {
	return sessionResponse{
		ID:         string(session.ID),
		Provider:   s.svc.ProviderName(),
		Configured: session.Manager.Configured(),
		Config:     session.Manager.Config(),
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt(),
	}
}

func sessionID(c *gin.Context) domain.SessionID {
	return domain.SessionID(c.Param("id"))
}

func toTravelConfig(req travelConfigRequest) domain.TravelConfig {
	return domain.TravelConfig{
		Style:           domain.TravelStyle(strings.ToLower(strings.TrimSpace(req.Style))),
		BudgetPerPerson: req.BudgetPerPerson,
		Days:            req.Days,
		Companions:      req.Companions,
	}
}

func toMessageResponse(m domain.Message) messageResponse {
	return messageResponse{
		Role:      string(m.Role),
		Label:     m.Role.Label(),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func toMessagesResponse(conv domain.Conversation) []messageResponse {
	out := make([]messageResponse, 0, len(conv))
	for _, m := range conv {
		out = append(out, toMessageResponse(m))
	}
	return out
}

func toSendMessageResponse(out *conversation.SendMessageOutput) sendMessageResponse {
	return sendMessageResponse{
		UserMessage:      toMessageResponse(out.UserMessage),
		AssistantMessage: toMessageResponse(out.AssistantMessage),
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		verr *domain.ValidationError
		cerr *domain.ConfigurationError
		perr *domain.ProviderError
	)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTurnInProgress), errors.Is(err, domain.ErrConversationReset):
		return http.StatusConflict
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &cerr):
		return http.StatusServiceUnavailable
	case errors.As(err, &perr):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		observability.LoggerFromContext(c.Request.Context()).Error("request failed", "error", err)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

// bindOptionalJSON decodes the body into v; an empty body keeps v's zero value.
func bindOptionalJSON(c *gin.Context, v any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid JSON body")
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg})
}
