package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/vibetrip/vibetrip/internal/model"
)

// badgeColumns is the column list used for SELECT statements on the badges
// table.
const badgeColumns = `id, name, description, icon, category, points_threshold, created_at`

func queryRecordPoints(ctx context.Context, db executor, txn *model.PointsTransaction) (int, error) {
	row := db.QueryRowContext(ctx, `
		INSERT INTO points_transactions (user_id, amount, action_type, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		txn.UserID,
		txn.Amount,
		string(txn.Action),
		nullString(txn.ReferenceID),
		txn.CreatedAt,
	)
	if err := row.Scan(&txn.ID); err != nil {
		return 0, err
	}

	var total int
	err := db.QueryRowContext(ctx, `
		UPDATE profiles SET points = points + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING points`,
		txn.UserID, txn.Amount).Scan(&total)
	return total, err
}

func queryListBadges(ctx context.Context, db executor) ([]*model.Badge, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+badgeColumns+` FROM badges ORDER BY points_threshold ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBadges(rows)
}

func queryListUserBadges(ctx context.Context, db executor, userID string) ([]*model.UserBadge, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT ub.user_id, ub.badge_id, ub.awarded_at,
			b.id, b.name, b.description, b.icon, b.category, b.points_threshold, b.created_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.awarded_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userBadges []*model.UserBadge
	for rows.Next() {
		var ub model.UserBadge
		var b model.Badge
		var (
			description sql.NullString
			icon        sql.NullString
			category    sql.NullString
		)
		err := rows.Scan(
			&ub.UserID,
			&ub.BadgeID,
			&ub.AwardedAt,
			&b.ID,
			&b.Name,
			&description,
			&icon,
			&category,
			&b.Threshold,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		b.Description = description.String
		b.Icon = icon.String
		b.Category = category.String
		ub.Badge = &b
		userBadges = append(userBadges, &ub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return userBadges, nil
}

// queryAwardEarnedBadges grants every point-threshold badge the user's total
// now qualifies for and returns the newly awarded ones. Already-held badges
// are skipped by the conflict clause.
func queryAwardEarnedBadges(ctx context.Context, db executor, userID string) ([]*model.Badge, error) {
	rows, err := db.QueryContext(ctx, `
		WITH awarded AS (
			INSERT INTO user_badges (user_id, badge_id)
			SELECT p.id, b.id
			FROM badges b
			JOIN profiles p ON p.id = $1
			WHERE b.points_threshold > 0 AND b.points_threshold <= p.points
			ON CONFLICT (user_id, badge_id) DO NOTHING
			RETURNING badge_id
		)
		SELECT `+badgeColumns+`
		FROM badges
		WHERE id IN (SELECT badge_id FROM awarded)
		ORDER BY points_threshold ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBadges(rows)
}

func queryLeaderboard(ctx context.Context, db executor, limit int) ([]*model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, username, full_name, avatar_url, points
		FROM profiles
		ORDER BY points DESC, username ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		var (
			fullName  sql.NullString
			avatarURL sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Username, &fullName, &avatarURL, &e.Points); err != nil {
			return nil, err
		}
		e.FullName = fullName.String
		e.AvatarURL = avatarURL.String
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func queryLastPointsAward(ctx context.Context, db executor, userID string, action model.ActionType) (*time.Time, error) {
	var last sql.NullTime
	err := db.QueryRowContext(ctx, `
		SELECT MAX(created_at)
		FROM points_transactions
		WHERE user_id = $1 AND action_type = $2`,
		userID, string(action)).Scan(&last)
	if err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	t := last.Time
	return &t, nil
}
