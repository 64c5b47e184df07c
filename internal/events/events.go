package events

import (
	"context"

	"github.com/vibetrip/vibetrip/internal/model"
)

// Event topic constants
const (
	TopicProfileCreated = "vibetrip.profile.created"
	TopicProfileUpdated = "vibetrip.profile.updated"

	TopicPostCreated = "vibetrip.post.created"
	TopicPostLiked   = "vibetrip.post.liked"
	TopicPostSaved   = "vibetrip.post.saved"

	TopicEventCreated = "vibetrip.event.created"
	TopicEventJoined  = "vibetrip.event.joined"
	TopicEventDeleted = "vibetrip.event.deleted"

	TopicFollowCreated = "vibetrip.follow.created"
	TopicFollowRemoved = "vibetrip.follow.removed"

	TopicCheckIn = "vibetrip.checkin.recorded"

	// Gamification events (emitted by the points awarder).
	TopicPointsAwarded = "vibetrip.points.awarded"
	TopicBadgeAwarded  = "vibetrip.badge.awarded"
)

// Event types

type ProfileCreated struct {
	Profile *model.Profile `json:"profile"`
}

type ProfileUpdated struct {
	Profile *model.Profile `json:"profile"`
}

type PostCreated struct {
	Post *model.Post `json:"post"`
}

type PostLiked struct {
	PostID  string `json:"post_id"`
	OwnerID string `json:"owner_id"`
	ActorID string `json:"actor_id"`
	Liked   bool   `json:"liked"`
}

type PostSaved struct {
	PostID  string `json:"post_id"`
	ActorID string `json:"actor_id"`
	Saved   bool   `json:"saved"`
}

type EventCreated struct {
	Event *model.Event `json:"event"`
}

type EventJoined struct {
	EventID   string `json:"event_id"`
	CreatorID string `json:"creator_id"`
	ActorID   string `json:"actor_id"`
	Status    string `json:"status"`
	Joined    bool   `json:"joined"` // false when an existing RSVP changed status
}

type EventDeleted struct {
	EventID string `json:"event_id"`
}

type FollowCreated struct {
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
}

type FollowRemoved struct {
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
}

type CheckIn struct {
	UserID  string `json:"user_id"`
	PlaceID string `json:"place_id,omitempty"`
	Action  string `json:"action"` // daily_login or location_visit
}

// Gamification events

type PointsAwarded struct {
	UserID      string `json:"user_id"`
	Action      string `json:"action"`
	Amount      int    `json:"amount"`
	Total       int    `json:"total"`
	ReferenceID string `json:"reference_id,omitempty"`
}

type BadgeAwarded struct {
	UserID string       `json:"user_id"`
	Badge  *model.Badge `json:"badge"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
