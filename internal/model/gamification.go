package model

import "time"

// PointsTransaction is a single entry in a user's points ledger.
type PointsTransaction struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"user_id"`
	Amount      int        `json:"amount"`
	Action      ActionType `json:"action_type"`
	ReferenceID string     `json:"reference_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Badge is a catalog entry. Threshold is the total points at which the badge
// is awarded; zero means the badge is granted by other means (not points).
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Category    string    `json:"category,omitempty"`
	Threshold   int       `json:"points_threshold"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserBadge records a badge awarded to a user.
type UserBadge struct {
	UserID    string    `json:"user_id"`
	BadgeID   string    `json:"badge_id"`
	AwardedAt time.Time `json:"awarded_at"`

	// Relational data -- populated by queries.
	Badge *Badge `json:"badge,omitempty"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Points    int    `json:"points"`
}
