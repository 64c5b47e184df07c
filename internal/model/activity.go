package model

import "time"

// ActionType identifies the user action behind an activity entry and a
// points award.
type ActionType string

const (
	ActionPostCreate      ActionType = "post_create"
	ActionPostLike        ActionType = "post_like"
	ActionCommentCreate   ActionType = "comment_create"
	ActionFollow          ActionType = "follow"
	ActionEventCreate     ActionType = "event_create"
	ActionEventJoin       ActionType = "event_join"
	ActionDailyLogin      ActionType = "daily_login"
	ActionProfileComplete ActionType = "profile_complete"
	ActionLocationVisit   ActionType = "location_visit"
)

// String returns the string representation of the action type.
func (a ActionType) String() string {
	return string(a)
}

// IsValid checks whether the action type is a known value.
func (a ActionType) IsValid() bool {
	_, ok := actionPoints[a]
	return ok
}

// actionPoints maps each action to the points it awards.
var actionPoints = map[ActionType]int{
	ActionPostCreate:      10,
	ActionPostLike:        2,
	ActionCommentCreate:   5,
	ActionFollow:          3,
	ActionEventCreate:     15,
	ActionEventJoin:       7,
	ActionDailyLogin:      1,
	ActionProfileComplete: 20,
	ActionLocationVisit:   5,
}

// PointsFor returns the points awarded for an action, or 0 for unknown actions.
func PointsFor(a ActionType) int {
	return actionPoints[a]
}

// Activity is a persisted feed entry: actor did something that concerns user.
// For self-originated entries (e.g. post_create) user and actor coincide.
type Activity struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	ActorID   string     `json:"actor_id"`
	Type      ActionType `json:"activity_type"`
	PostID    string     `json:"post_id,omitempty"`
	EventID   string     `json:"event_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	// Relational data -- populated by queries, not stored in the activities table.
	Actor *ProfileSummary `json:"actor,omitempty"`
	Post  *Post           `json:"post_data,omitempty"`
}

// ActivityFilter holds criteria for querying the activity feed.
type ActivityFilter struct {
	UserID     string `json:"user_id"`
	IncludeOwn bool   `json:"include_own"` // also return entries the user authored
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}
