package model

import "time"

// PostType categorizes a post.
type PostType string

const (
	PostStory PostType = "story"
	PostTip   PostType = "tip"
	PostPhoto PostType = "photo"
)

// String returns the string representation of the post type.
func (t PostType) String() string {
	return string(t)
}

// IsValid checks whether the post type is a known value.
func (t PostType) IsValid() bool {
	switch t {
	case PostStory, PostTip, PostPhoto:
		return true
	}
	return false
}

// Post is a piece of user-authored content, optionally attached to a place.
type Post struct {
	ID       string   `json:"id"`
	UserID   string   `json:"user_id"`
	Content  string   `json:"content"`
	ImageURL string   `json:"image_url,omitempty"`
	PlaceID  string   `json:"place_id,omitempty"`
	Type     PostType `json:"post_type"`

	LikesCount int `json:"likes_count"`
	SavesCount int `json:"saves_count"`

	CreatedAt time.Time `json:"created_at"`

	// Relational data -- populated by queries, not stored in the posts table.
	User  *ProfileSummary `json:"user,omitempty"`
	Place *PlaceSummary   `json:"place,omitempty"`
}

// PostFilter holds criteria for querying posts.
type PostFilter struct {
	UserID  string   `json:"user_id,omitempty"`
	PlaceID string   `json:"place_id,omitempty"`
	Type    PostType `json:"post_type,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Offset  int      `json:"offset,omitempty"`
}
