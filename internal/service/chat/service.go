package chat

import (
	"context"
	"log"
	"strings"

	chatmodel "github.com/cistcor/cistbot/backend/internal/model/chat"
	"github.com/cistcor/cistbot/backend/internal/service/ai"
	"github.com/cistcor/cistbot/backend/internal/service/faq"
	"github.com/cistcor/cistbot/backend/internal/service/session"
)

// Completer is the upstream call the orchestrator depends on.
type Completer interface {
	Complete(ctx context.Context, model string, messages []chatmodel.Message) (string, error)
}

// Service drives a single chat turn: validate, record, try the FAQ
// short-circuit, otherwise assemble context and call the upstream model.
// It holds no per-request state of its own; sessions are the only shared
// state and live in the store.
type Service struct {
	sessions *session.Store
	matcher  *faq.Matcher
	prompts  *ai.PromptBuilder
	gateway  Completer

	threshold     float64
	historyWindow int
	maxMessageLen int
}

// Options carries the conversation tunables.
type Options struct {
	FAQThreshold     float64
	HistoryWindow    int
	MaxMessageLength int
}

// NewService wires the orchestrator.
func NewService(sessions *session.Store, matcher *faq.Matcher, prompts *ai.PromptBuilder, gateway Completer, opts Options) *Service {
	return &Service{
		sessions:      sessions,
		matcher:       matcher,
		prompts:       prompts,
		gateway:       gateway,
		threshold:     opts.FAQThreshold,
		historyWindow: opts.HistoryWindow,
		maxMessageLen: opts.MaxMessageLength,
	}
}

// Handle processes one inbound message and returns the reply. A failed
// upstream call is propagated as-is and the failed turn is not recorded
// as an assistant message.
func (s *Service) Handle(ctx context.Context, userID, message, model string) (string, error) {
	if err := s.validate(userID, message); err != nil {
		return "", err
	}

	s.sessions.Append(userID, chatmodel.RoleUser, message)

	if res, ok := s.matcher.Match(message); ok && res.Score < s.threshold {
		log.Printf("[chat] faq hit for user=%s score=%.2f", userID, res.Score)
		s.sessions.Append(userID, chatmodel.RoleAssistant, res.Entry.Answer)
		return res.Entry.Answer, nil
	}

	history := s.sessions.RecentHistory(userID, s.historyWindow)
	messages := s.prompts.Build(history, message)

	reply, err := s.gateway.Complete(ctx, model, messages)
	if err != nil {
		return "", err
	}

	s.sessions.Append(userID, chatmodel.RoleAssistant, reply)
	return reply, nil
}

func (s *Service) validate(userID, message string) error {
	if strings.TrimSpace(userID) == "" {
		return &ValidationError{Reason: "Falta el identificador de usuario"}
	}
	if message == "" || len([]rune(message)) > s.maxMessageLen {
		return &ValidationError{Reason: "Mensaje inválido o demasiado largo"}
	}
	return nil
}
