// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/vibetrip/vibetrip/internal/model"
	"github.com/vibetrip/vibetrip/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateProfile(ctx context.Context, profile *model.Profile) error {
	return queryCreateProfile(ctx, s.db, profile)
}

func (s *PostgresStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	return queryGetProfile(ctx, s.db, id)
}

func (s *PostgresStore) GetProfileByUsername(ctx context.Context, username string) (*model.Profile, error) {
	return queryGetProfileByUsername(ctx, s.db, username)
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (*model.Profile, error) {
	return queryUpdateProfile(ctx, s.db, id, update)
}

func (s *PostgresStore) CreatePost(ctx context.Context, post *model.Post) error {
	return queryCreatePost(ctx, s.db, post)
}

func (s *PostgresStore) GetPost(ctx context.Context, id string) (*model.Post, error) {
	return queryGetPost(ctx, s.db, id)
}

func (s *PostgresStore) ListPosts(ctx context.Context, filter model.PostFilter) ([]*model.Post, int, error) {
	return queryListPosts(ctx, s.db, filter)
}

func (s *PostgresStore) ListFeedPosts(ctx context.Context, userID string, limit, offset int) ([]*model.Post, error) {
	return queryListFeedPosts(ctx, s.db, userID, limit, offset)
}

func (s *PostgresStore) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	var liked bool
	err := s.RunInTransaction(ctx, func(tx store.Store) error {
		var err error
		liked, err = tx.ToggleLike(ctx, postID, userID)
		return err
	})
	return liked, err
}

func (s *PostgresStore) ToggleSave(ctx context.Context, postID, userID string) (bool, error) {
	var saved bool
	err := s.RunInTransaction(ctx, func(tx store.Store) error {
		var err error
		saved, err = tx.ToggleSave(ctx, postID, userID)
		return err
	})
	return saved, err
}

func (s *PostgresStore) CreatePlace(ctx context.Context, place *model.Place) error {
	return queryCreatePlace(ctx, s.db, place)
}

func (s *PostgresStore) GetPlace(ctx context.Context, id string) (*model.Place, error) {
	return queryGetPlace(ctx, s.db, id)
}

func (s *PostgresStore) ListPlaces(ctx context.Context, filter model.PlaceFilter) ([]*model.Place, error) {
	return queryListPlaces(ctx, s.db, filter)
}

func (s *PostgresStore) CreateEvent(ctx context.Context, event *model.Event) error {
	return queryCreateEvent(ctx, s.db, event)
}

func (s *PostgresStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return queryGetEvent(ctx, s.db, id)
}

func (s *PostgresStore) ListEvents(ctx context.Context, filter model.EventFilter, viewerID string) ([]*model.Event, error) {
	return queryListEvents(ctx, s.db, filter, viewerID)
}

func (s *PostgresStore) DeleteEvent(ctx context.Context, id string) error {
	return queryDeleteEvent(ctx, s.db, id)
}

func (s *PostgresStore) DeletePastEvents(ctx context.Context, before time.Time) (int, error) {
	return queryDeletePastEvents(ctx, s.db, before)
}

func (s *PostgresStore) ListEventRanks(ctx context.Context) ([]model.EventRank, error) {
	return queryListEventRanks(ctx, s.db)
}

func (s *PostgresStore) ShiftEventRanks(ctx context.Context, fromRank int) error {
	return queryShiftEventRanks(ctx, s.db, fromRank)
}

func (s *PostgresStore) UpsertParticipant(ctx context.Context, participant *model.EventParticipant) (bool, error) {
	return queryUpsertParticipant(ctx, s.db, participant)
}

func (s *PostgresStore) CreateFollow(ctx context.Context, follow *model.Follow) error {
	return s.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.CreateFollow(ctx, follow)
	})
}

func (s *PostgresStore) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	return s.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.DeleteFollow(ctx, followerID, followingID)
	})
}

func (s *PostgresStore) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return queryIsFollowing(ctx, s.db, followerID, followingID)
}

func (s *PostgresStore) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*model.ProfileSummary, error) {
	return queryListFollowers(ctx, s.db, userID, limit, offset)
}

func (s *PostgresStore) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*model.ProfileSummary, error) {
	return queryListFollowing(ctx, s.db, userID, limit, offset)
}

func (s *PostgresStore) RecordActivity(ctx context.Context, activity *model.Activity) error {
	return queryRecordActivity(ctx, s.db, activity)
}

func (s *PostgresStore) ListActivities(ctx context.Context, filter model.ActivityFilter) ([]*model.Activity, error) {
	return queryListActivities(ctx, s.db, filter)
}

func (s *PostgresStore) RecordPoints(ctx context.Context, txn *model.PointsTransaction) (int, error) {
	var total int
	err := s.RunInTransaction(ctx, func(tx store.Store) error {
		var err error
		total, err = tx.RecordPoints(ctx, txn)
		return err
	})
	return total, err
}

func (s *PostgresStore) ListBadges(ctx context.Context) ([]*model.Badge, error) {
	return queryListBadges(ctx, s.db)
}

func (s *PostgresStore) ListUserBadges(ctx context.Context, userID string) ([]*model.UserBadge, error) {
	return queryListUserBadges(ctx, s.db, userID)
}

func (s *PostgresStore) AwardEarnedBadges(ctx context.Context, userID string) ([]*model.Badge, error) {
	return queryAwardEarnedBadges(ctx, s.db, userID)
}

func (s *PostgresStore) Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	return queryLeaderboard(ctx, s.db, limit)
}

func (s *PostgresStore) LastPointsAward(ctx context.Context, userID string, action model.ActionType) (*time.Time, error) {
	return queryLastPointsAward(ctx, s.db, userID, action)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateProfile(ctx context.Context, profile *model.Profile) error {
	return queryCreateProfile(ctx, s.tx, profile)
}

func (s *txStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	return queryGetProfile(ctx, s.tx, id)
}

func (s *txStore) GetProfileByUsername(ctx context.Context, username string) (*model.Profile, error) {
	return queryGetProfileByUsername(ctx, s.tx, username)
}

func (s *txStore) UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (*model.Profile, error) {
	return queryUpdateProfile(ctx, s.tx, id, update)
}

func (s *txStore) CreatePost(ctx context.Context, post *model.Post) error {
	return queryCreatePost(ctx, s.tx, post)
}

func (s *txStore) GetPost(ctx context.Context, id string) (*model.Post, error) {
	return queryGetPost(ctx, s.tx, id)
}

func (s *txStore) ListPosts(ctx context.Context, filter model.PostFilter) ([]*model.Post, int, error) {
	return queryListPosts(ctx, s.tx, filter)
}

func (s *txStore) ListFeedPosts(ctx context.Context, userID string, limit, offset int) ([]*model.Post, error) {
	return queryListFeedPosts(ctx, s.tx, userID, limit, offset)
}

func (s *txStore) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	return queryToggleLike(ctx, s.tx, postID, userID)
}

func (s *txStore) ToggleSave(ctx context.Context, postID, userID string) (bool, error) {
	return queryToggleSave(ctx, s.tx, postID, userID)
}

func (s *txStore) CreatePlace(ctx context.Context, place *model.Place) error {
	return queryCreatePlace(ctx, s.tx, place)
}

func (s *txStore) GetPlace(ctx context.Context, id string) (*model.Place, error) {
	return queryGetPlace(ctx, s.tx, id)
}

func (s *txStore) ListPlaces(ctx context.Context, filter model.PlaceFilter) ([]*model.Place, error) {
	return queryListPlaces(ctx, s.tx, filter)
}

func (s *txStore) CreateEvent(ctx context.Context, event *model.Event) error {
	return queryCreateEvent(ctx, s.tx, event)
}

func (s *txStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return queryGetEvent(ctx, s.tx, id)
}

func (s *txStore) ListEvents(ctx context.Context, filter model.EventFilter, viewerID string) ([]*model.Event, error) {
	return queryListEvents(ctx, s.tx, filter, viewerID)
}

func (s *txStore) DeleteEvent(ctx context.Context, id string) error {
	return queryDeleteEvent(ctx, s.tx, id)
}

func (s *txStore) DeletePastEvents(ctx context.Context, before time.Time) (int, error) {
	return queryDeletePastEvents(ctx, s.tx, before)
}

func (s *txStore) ListEventRanks(ctx context.Context) ([]model.EventRank, error) {
	return queryListEventRanks(ctx, s.tx)
}

func (s *txStore) ShiftEventRanks(ctx context.Context, fromRank int) error {
	return queryShiftEventRanks(ctx, s.tx, fromRank)
}

func (s *txStore) UpsertParticipant(ctx context.Context, participant *model.EventParticipant) (bool, error) {
	return queryUpsertParticipant(ctx, s.tx, participant)
}

func (s *txStore) CreateFollow(ctx context.Context, follow *model.Follow) error {
	return queryCreateFollow(ctx, s.tx, follow)
}

func (s *txStore) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	return queryDeleteFollow(ctx, s.tx, followerID, followingID)
}

func (s *txStore) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return queryIsFollowing(ctx, s.tx, followerID, followingID)
}

func (s *txStore) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*model.ProfileSummary, error) {
	return queryListFollowers(ctx, s.tx, userID, limit, offset)
}

func (s *txStore) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*model.ProfileSummary, error) {
	return queryListFollowing(ctx, s.tx, userID, limit, offset)
}

func (s *txStore) RecordActivity(ctx context.Context, activity *model.Activity) error {
	return queryRecordActivity(ctx, s.tx, activity)
}

func (s *txStore) ListActivities(ctx context.Context, filter model.ActivityFilter) ([]*model.Activity, error) {
	return queryListActivities(ctx, s.tx, filter)
}

func (s *txStore) RecordPoints(ctx context.Context, txn *model.PointsTransaction) (int, error) {
	return queryRecordPoints(ctx, s.tx, txn)
}

func (s *txStore) ListBadges(ctx context.Context) ([]*model.Badge, error) {
	return queryListBadges(ctx, s.tx)
}

func (s *txStore) ListUserBadges(ctx context.Context, userID string) ([]*model.UserBadge, error) {
	return queryListUserBadges(ctx, s.tx, userID)
}

func (s *txStore) AwardEarnedBadges(ctx context.Context, userID string) ([]*model.Badge, error) {
	return queryAwardEarnedBadges(ctx, s.tx, userID)
}

func (s *txStore) Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	return queryLeaderboard(ctx, s.tx, limit)
}

func (s *txStore) LastPointsAward(ctx context.Context, userID string, action model.ActionType) (*time.Time, error) {
	return queryLastPointsAward(ctx, s.tx, userID, action)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
