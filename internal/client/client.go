// Package client provides a Go client for the VibeTrip HTTP API.
package client

import (
	"context"

	"github.com/vibetrip/vibetrip/internal/model"
)

// Client is the interface the CLI uses to talk to a VibeTrip server.
type Client interface {
	// Profiles
	GetProfile(ctx context.Context, id string) (*model.Profile, error)

	// Posts
	GetPost(ctx context.Context, id string) (*model.Post, error)
	ListPosts(ctx context.Context, req *ListPostsRequest) (*ListPostsResponse, error)

	// Places
	ListPlaces(ctx context.Context, category string) ([]*model.Place, error)

	// Events
	ListEvents(ctx context.Context, req *ListEventsRequest) ([]*model.Event, error)
	CleanupPastEvents(ctx context.Context) (int, error)

	// Gamification
	Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
	ListBadges(ctx context.Context) ([]*model.Badge, error)

	// Health
	Health(ctx context.Context) (string, error)

	Close() error
}

// ListPostsRequest holds query parameters for listing posts.
type ListPostsRequest struct {
	UserID  string
	PlaceID string
	Type    string
	Limit   int
	Offset  int
}

// ListPostsResponse is a page of posts with the unpaginated total.
type ListPostsResponse struct {
	Posts []*model.Post `json:"posts"`
	Total int           `json:"total"`
}

// ListEventsRequest holds query parameters for listing events.
type ListEventsRequest struct {
	Latitude     *float64
	Longitude    *float64
	RadiusMeters float64
	Limit        int
	Offset       int
}
