package model

import "time"

// ParticipantStatus represents a user's RSVP state for an event.
type ParticipantStatus string

const (
	StatusGoing   ParticipantStatus = "going"
	StatusMaybe   ParticipantStatus = "maybe"
	StatusInvited ParticipantStatus = "invited"
)

// String returns the string representation of the status.
func (s ParticipantStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s ParticipantStatus) IsValid() bool {
	switch s {
	case StatusGoing, StatusMaybe, StatusInvited:
		return true
	}
	return false
}

// Event is a gathering at a place and time. SortOrder is the display rank
// assigned at creation; it is never supplied by clients and never recomputed
// after insertion, so it can drift from chronological order once start times
// are edited or equal-time events interleave.
type Event struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	CreatorID    string     `json:"creator_id"`
	LocationName string     `json:"location_name"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	PlaceID      string     `json:"place_id,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	CoverURL     string     `json:"cover_image_url,omitempty"`
	MaxAttendees int        `json:"max_participants,omitempty"`
	Private      bool       `json:"is_private"`
	SortOrder    int        `json:"sort_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relational data -- populated by queries, not stored in the events table.
	Creator           *ProfileSummary `json:"creator,omitempty"`
	ParticipantsCount int             `json:"participants_count"`
	UserParticipating bool            `json:"is_user_participating"`
}

// EventRank is the slim projection used when computing insertion ranks.
type EventRank struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	SortOrder int       `json:"sort_order"`
}

// EventParticipant records a user's RSVP to an event.
type EventParticipant struct {
	ID        int64             `json:"id"`
	EventID   string            `json:"event_id"`
	UserID    string            `json:"user_id"`
	Status    ParticipantStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// EventFilter holds criteria for querying events. When Latitude and Longitude
// are both set, results are restricted to RadiusMeters of that point.
type EventFilter struct {
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	RadiusMeters float64  `json:"radius_meters,omitempty"`
	Limit        int      `json:"limit,omitempty"`
	Offset       int      `json:"offset,omitempty"`
}
