package store

import (
	"context"
	"time"

	"github.com/vibetrip/vibetrip/internal/model"
)

// Store defines the persistence interface for the VibeTrip backend.
type Store interface {
	// Profiles
	CreateProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (*model.Profile, error)

	// Posts
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	ListPosts(ctx context.Context, filter model.PostFilter) ([]*model.Post, int, error) // returns posts, total count, error
	ListFeedPosts(ctx context.Context, userID string, limit, offset int) ([]*model.Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, err error)
	ToggleSave(ctx context.Context, postID, userID string) (saved bool, err error)

	// Places
	CreatePlace(ctx context.Context, place *model.Place) error
	GetPlace(ctx context.Context, id string) (*model.Place, error)
	ListPlaces(ctx context.Context, filter model.PlaceFilter) ([]*model.Place, error)

	// Events
	CreateEvent(ctx context.Context, event *model.Event) error
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context, filter model.EventFilter, viewerID string) ([]*model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	DeletePastEvents(ctx context.Context, before time.Time) (int, error)
	ListEventRanks(ctx context.Context) ([]model.EventRank, error)
	ShiftEventRanks(ctx context.Context, fromRank int) error
	UpsertParticipant(ctx context.Context, participant *model.EventParticipant) (created bool, err error)

	// Follows
	CreateFollow(ctx context.Context, follow *model.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*model.ProfileSummary, error)
	ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*model.ProfileSummary, error)

	// Activities
	RecordActivity(ctx context.Context, activity *model.Activity) error
	ListActivities(ctx context.Context, filter model.ActivityFilter) ([]*model.Activity, error)

	// Gamification
	RecordPoints(ctx context.Context, txn *model.PointsTransaction) (total int, err error)
	ListBadges(ctx context.Context) ([]*model.Badge, error)
	ListUserBadges(ctx context.Context, userID string) ([]*model.UserBadge, error)
	AwardEarnedBadges(ctx context.Context, userID string) ([]*model.Badge, error)
	Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
	LastPointsAward(ctx context.Context, userID string, action model.ActionType) (*time.Time, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
