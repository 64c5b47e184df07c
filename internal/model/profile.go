package model

import "time"

// TravelStyle categorizes how a user prefers to travel.
// Well-known constants are provided below, but styles are free-form text;
// custom values (e.g. "vanlife", "slow travel") are valid.
type TravelStyle string

const (
	StyleBackpacker TravelStyle = "backpacker"
	StyleLuxury     TravelStyle = "luxury"
	StyleAdventure  TravelStyle = "adventure"
	StyleFoodie     TravelStyle = "foodie"
	StyleCulture    TravelStyle = "culture"
)

// Profile is a user's public profile. The ID is the authentication subject
// assigned by the identity provider; everything else is owned by this service.
type Profile struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	FullName     string      `json:"full_name,omitempty"`
	Bio          string      `json:"bio,omitempty"`
	AvatarURL    string      `json:"avatar_url,omitempty"`
	LocationName string      `json:"location_name,omitempty"`
	TravelStyle  TravelStyle `json:"travel_style,omitempty"`
	Interests    []string    `json:"interests,omitempty"`

	// Denormalized counters, maintained by the store.
	Points         int `json:"points"`
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	PostsCount     int `json:"posts_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileSummary is the subset of profile fields embedded in posts, events,
// activities, and follower lists.
type ProfileSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Summary returns the embeddable subset of the profile.
func (p *Profile) Summary() *ProfileSummary {
	return &ProfileSummary{
		ID:        p.ID,
		Username:  p.Username,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
	}
}

// ProfileUpdate holds optional new values for a profile. Nil fields are
// left unchanged.
type ProfileUpdate struct {
	Username     *string      `json:"username,omitempty"`
	FullName     *string      `json:"full_name,omitempty"`
	Bio          *string      `json:"bio,omitempty"`
	AvatarURL    *string      `json:"avatar_url,omitempty"`
	LocationName *string      `json:"location_name,omitempty"`
	TravelStyle  *TravelStyle `json:"travel_style,omitempty"`
	Interests    []string     `json:"interests,omitempty"`
}
