package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/vibetrip/vibetrip/internal/events"
	"github.com/vibetrip/vibetrip/internal/gamification"
	"github.com/vibetrip/vibetrip/internal/media"
	"github.com/vibetrip/vibetrip/internal/model"
	"github.com/vibetrip/vibetrip/internal/rank"
	"github.com/vibetrip/vibetrip/internal/store"
)

// Server holds the HTTP API's dependencies.
type Server struct {
	store     store.Store
	publisher events.Publisher
	ranks     *rank.Assigner
	awarder   *gamification.Awarder
	uploader  *media.Uploader
	logger    *slog.Logger
}

// NewServer returns a Server backed by the given store and publisher.
// uploader may be nil, in which case the upload endpoint reports unavailable.
func NewServer(s store.Store, p events.Publisher, uploader *media.Uploader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:     s,
		publisher: p,
		ranks:     rank.NewAssigner(s),
		awarder:   gamification.NewAwarder(s, p, logger),
		uploader:  uploader,
		logger:    logger,
	}
}

// recordActivity persists a feed entry, stamping it with the current time.
// Best-effort; failures are logged but do not block the caller.
func (s *Server) recordActivity(ctx context.Context, activity *model.Activity) {
	activity.CreatedAt = time.Now().UTC()
	if err := s.store.RecordActivity(ctx, activity); err != nil {
		s.logger.Warn("failed to record activity",
			"type", activity.Type, "user_id", activity.UserID, "error", err)
	}
}

// publish emits an event to the bus. Best-effort; failures are logged but do
// not block the caller.
func (s *Server) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// inputError indicates invalid user input.
// The HTTP layer maps this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
