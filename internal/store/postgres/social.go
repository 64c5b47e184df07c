package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vibetrip/vibetrip/internal/model"
)

// summaryColumns is the four-column profile summary list.
const summaryColumns = `id, username, full_name, avatar_url`

// activityColumns selects activity fields with the actor summary and an
// optional attached post joined in. Queries using it must alias activities
// as a, profiles as ac, and posts as p.
const activityColumns = `a.id, a.user_id, a.actor_id, a.activity_type,
	a.post_id, a.event_id, a.created_at,
	ac.id, ac.username, ac.full_name, ac.avatar_url,
	p.id, p.user_id, p.content, p.image_url, p.place_id,
	p.post_type, p.likes_count, p.saves_count, p.created_at`

func queryCreateFollow(ctx context.Context, db executor, f *model.Follow) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO follows (id, follower_id, following_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (follower_id, following_id) DO NOTHING`,
		f.ID, f.FollowerID, f.FollowingID, f.CreatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		// Already following; counters stay put.
		return nil
	}

	if _, err := db.ExecContext(ctx,
		`UPDATE profiles SET following_count = following_count + 1, updated_at = NOW() WHERE id = $1`,
		f.FollowerID); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`UPDATE profiles SET followers_count = followers_count + 1, updated_at = NOW() WHERE id = $1`,
		f.FollowingID)
	return err
}

func queryDeleteFollow(ctx context.Context, db executor, followerID, followingID string) error {
	res, err := db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	if _, err := db.ExecContext(ctx,
		`UPDATE profiles SET following_count = GREATEST(following_count - 1, 0), updated_at = NOW() WHERE id = $1`,
		followerID); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`UPDATE profiles SET followers_count = GREATEST(followers_count - 1, 0), updated_at = NOW() WHERE id = $1`,
		followingID)
	return err
}

func queryIsFollowing(ctx context.Context, db executor, followerID, followingID string) (bool, error) {
	var following bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2
		)`, followerID, followingID).Scan(&following)
	return following, err
}

func queryListFollowers(ctx context.Context, db executor, userID string, limit, offset int) ([]*model.ProfileSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
		SELECT `+summaryColumns+`
		FROM profiles
		JOIN follows ON follows.follower_id = profiles.id
		WHERE follows.following_id = $1
		ORDER BY follows.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfileSummaries(rows)
}

func queryListFollowing(ctx context.Context, db executor, userID string, limit, offset int) ([]*model.ProfileSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
		SELECT `+summaryColumns+`
		FROM profiles
		JOIN follows ON follows.following_id = profiles.id
		WHERE follows.follower_id = $1
		ORDER BY follows.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfileSummaries(rows)
}

func scanProfileSummaries(rows *sql.Rows) ([]*model.ProfileSummary, error) {
	var summaries []*model.ProfileSummary
	for rows.Next() {
		s, err := scanProfileSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func queryRecordActivity(ctx context.Context, db executor, a *model.Activity) error {
	row := db.QueryRowContext(ctx, `
		INSERT INTO activities (user_id, actor_id, activity_type, post_id, event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		a.UserID,
		a.ActorID,
		string(a.Type),
		nullString(a.PostID),
		nullString(a.EventID),
		a.CreatedAt,
	)
	return row.Scan(&a.ID)
}

func queryListActivities(ctx context.Context, db executor, filter model.ActivityFilter) ([]*model.Activity, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	where := "a.user_id = $1"
	if !filter.IncludeOwn {
		where += " AND a.actor_id <> $1"
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities a
		JOIN profiles ac ON ac.id = a.actor_id
		LEFT JOIN posts p ON p.id = a.post_id
		WHERE `+where+`
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3`,
		filter.UserID, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}
