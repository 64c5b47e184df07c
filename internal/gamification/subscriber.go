package gamification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vibetrip/vibetrip/internal/events"
	"github.com/vibetrip/vibetrip/internal/model"
)

// award is a decoded points grant extracted from an event payload.
type award struct {
	UserID      string
	Action      model.ActionType
	ReferenceID string
}

// decoder turns a raw event payload into an award. Returning false means the
// payload carries no points (e.g. an unlike or an RSVP status change).
type decoder func(raw []byte) (award, bool, error)

// topicDecoders maps each points-carrying topic to its payload decoder.
var topicDecoders = map[string]decoder{
	events.TopicPostCreated: func(raw []byte) (award, bool, error) {
		var e events.PostCreated
		if err := json.Unmarshal(raw, &e); err != nil {
			return award{}, false, err
		}
		if e.Post == nil {
			return award{}, false, nil
		}
		return award{e.Post.UserID, model.ActionPostCreate, e.Post.ID}, true, nil
	},
	events.TopicPostLiked: func(raw []byte) (award, bool, error) {
		var e events.PostLiked
		if err := json.Unmarshal(raw, &e); err != nil {
			return award{}, false, err
		}
		if !e.Liked {
			return award{}, false, nil
		}
		return award{e.ActorID, model.ActionPostLike, e.PostID}, true, nil
	},
	events.TopicEventCreated: func(raw []byte) (award, bool, error) {
		var e events.EventCreated
		if err := json.Unmarshal(raw, &e); err != nil {
			return award{}, false, err
		}
		if e.Event == nil {
			return award{}, false, nil
		}
		return award{e.Event.CreatorID, model.ActionEventCreate, e.Event.ID}, true, nil
	},
	events.TopicEventJoined: func(raw []byte) (award, bool, error) {
		var e events.EventJoined
		if err := json.Unmarshal(raw, &e); err != nil {
			return award{}, false, err
		}
		if !e.Joined {
			return award{}, false, nil
		}
		return award{e.ActorID, model.ActionEventJoin, e.EventID}, true, nil
	},
	events.TopicFollowCreated: func(raw []byte) (award, bool, error) {
		var e events.FollowCreated
		if err := json.Unmarshal(raw, &e); err != nil {
			return award{}, false, err
		}
		return award{e.FollowerID, model.ActionFollow, ""}, true, nil
	},
	events.TopicCheckIn: func(raw []byte) (award, bool, error) {
		var e events.CheckIn
		if err := json.Unmarshal(raw, &e); err != nil {
			return award{}, false, err
		}
		if e.Action == string(model.ActionLocationVisit) {
			return award{e.UserID, model.ActionLocationVisit, e.PlaceID}, true, nil
		}
		return award{e.UserID, model.ActionDailyLogin, ""}, true, nil
	},
}

// Handler consumes social activity events from the bus and awards points
// asynchronously so the social handlers never block on gamification.
type Handler struct {
	awarder *Awarder
	logger  *slog.Logger
}

// NewHandler creates a subscriber handler wrapping the given awarder.
func NewHandler(a *Awarder, logger *slog.Logger) *Handler {
	return &Handler{awarder: a, logger: logger}
}

// StartSubscriber subscribes to every points-carrying topic and awards points
// for each received event. It blocks until ctx is cancelled.
func (h *Handler) StartSubscriber(ctx context.Context, sub events.Subscriber) error {
	var (
		wg      sync.WaitGroup
		cancels []func()
	)
	for topic, decode := range topicDecoders {
		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			for _, c := range cancels {
				c()
			}
			return fmt.Errorf("gamification: subscribe %s: %w", topic, err)
		}
		cancels = append(cancels, cancel)

		wg.Add(1)
		go func(topic string, decode decoder, ch <-chan []byte) {
			defer wg.Done()
			for raw := range ch {
				h.handle(ctx, topic, decode, raw)
			}
		}(topic, decode, ch)
	}

	h.logger.Info("gamification: subscriber started", "topics", len(topicDecoders))

	<-ctx.Done()
	h.logger.Info("gamification: subscriber stopping")
	for _, c := range cancels {
		c()
	}
	wg.Wait()
	return nil
}

func (h *Handler) handle(ctx context.Context, topic string, decode decoder, raw []byte) {
	a, ok, err := decode(raw)
	if err != nil {
		h.logger.Warn("gamification: bad event payload", "topic", topic, "err", err)
		return
	}
	if !ok || a.UserID == "" {
		return
	}
	if _, err := h.awarder.Award(ctx, a.UserID, a.Action, a.ReferenceID); err != nil {
		h.logger.Error("gamification: award failed",
			"topic", topic, "user", a.UserID, "action", a.Action, "err", err)
	}
}
