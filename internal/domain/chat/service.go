package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rpggio/shutterboard/internal/domain/activity"
	"github.com/rpggio/shutterboard/internal/domain/dashboard"
)

// DefaultTranscriptLimit caps transcripts that do not ask for a limit.
const DefaultTranscriptLimit = 100

// Service relays user messages to the webhook and keeps the transcript.
type Service struct {
	webhook   Webhook
	messages  Repository
	refresher Refresher
	activity  ActivityRecorder
	metrics   Metrics
	now       func() time.Time
	startedAt time.Time
	logger    *slog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new chat service. activityRec and metrics may be nil.
func NewService(
	webhook Webhook,
	messages Repository,
	refresher Refresher,
	activityRec ActivityRecorder,
	metrics Metrics,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if activityRec == nil {
		activityRec = noopRecorder{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	s := &Service{
		webhook:   webhook,
		messages:  messages,
		refresher: refresher,
		activity:  activityRec,
		metrics:   metrics,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s
}

// Send relays text to the webhook and returns both sides of the exchange.
//
// A webhook failure is not an error: the reply becomes ApologyText and Failed
// is set. When the reply flags a data change the dashboard is refreshed; a
// failed refresh is reported in RefreshError.
func (s *Service) Send(ctx context.Context, text string) (*Exchange, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if n := utf8.RuneCountInString(text); n > MaxMessageLength {
		return nil, fmt.Errorf("%w: %d characters, limit %d", ErrMessageTooLong, n, MaxMessageLength)
	}
	actor := activity.ActorFromContext(ctx)

	ex := &Exchange{UserMessage: s.newMessage(text, true)}
	s.store(ctx, &ex.UserMessage)

	reply, err := s.webhook.Send(ctx, text, ex.UserMessage.CreatedAt)
	if err != nil {
		s.logger.Error("chat webhook failed", "actor", actor, "error", err)
		s.metrics.ObserveChat(false)
		s.activity.Record(ctx, activity.TypeChatFailed, actor,
			"Failed to reach the AI assistant", map[string]string{"error": err.Error()})

		ex.Failed = true
		ex.Reply = s.newMessage(ApologyText, false)
		s.store(ctx, &ex.Reply)
		return ex, nil
	}

	replyText := reply.Text()
	if replyText == "" {
		replyText = FallbackReplyText
	}
	ex.Reply = s.newMessage(replyText, false)
	s.store(ctx, &ex.Reply)
	s.metrics.ObserveChat(true)

	if reply.WantsRefresh() && s.refresher != nil {
		if _, err := s.refresher.Refresh(ctx); err != nil {
			ex.RefreshError = err.Error()
			s.logger.Warn("refresh requested by assistant failed", "error", err)
		} else {
			ex.DataRefreshed = true
		}
	}

	s.activity.Record(ctx, activity.TypeChatExchanged, actor, "Chat message answered", map[string]any{
		"refresh_requested": reply.WantsRefresh(),
		"data_refreshed":    ex.DataRefreshed,
	})
	return ex, nil
}

// Transcript returns the greeting followed by up to limit stored messages,
// oldest first.
func (s *Service) Transcript(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DefaultTranscriptLimit
	}
	stored, err := s.messages.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	out := make([]Message, 0, len(stored)+1)
	out = append(out, Message{
		ID:        greetingID,
		Text:      GreetingText,
		CreatedAt: s.startedAt,
	})
	return append(out, stored...), nil
}

func (s *Service) newMessage(text string, fromUser bool) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		FromUser:  fromUser,
		CreatedAt: s.now().UTC(),
	}
}

func (s *Service) store(ctx context.Context, msg *Message) {
	if err := s.messages.Append(ctx, msg); err != nil {
		s.logger.Warn("failed to store chat message", "id", msg.ID, "error", err)
	}
}

var _ Refresher = (*dashboard.Service)(nil)

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, activity.ActivityType, string, string, any) {}

type noopMetrics struct{}

func (noopMetrics) ObserveChat(bool) {}
