package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/vibetrip/vibetrip/internal/model"
)

// profileColumns is the column list used for SELECT statements on the
// profiles table.
const profileColumns = `id, username, full_name, bio, avatar_url,
	location_name, travel_style, interests, points,
	followers_count, following_count, posts_count, created_at, updated_at`

// postColumns selects post fields with the author summary and an optional
// place summary joined in. Queries using it must alias posts as p, profiles
// as u, and places as pl.
const postColumns = `p.id, p.user_id, p.content, p.image_url, p.place_id,
	p.post_type, p.likes_count, p.saves_count, p.created_at,
	u.id, u.username, u.full_name, u.avatar_url,
	pl.id, pl.name, pl.location_name, pl.category`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateProfile(ctx context.Context, db executor, p *model.Profile) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO profiles (
			id, username, full_name, bio, avatar_url,
			location_name, travel_style, interests, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10
		)`,
		p.ID,
		p.Username,
		nullString(p.FullName),
		nullString(p.Bio),
		nullString(p.AvatarURL),
		nullString(p.LocationName),
		nullString(string(p.TravelStyle)),
		pq.Array(p.Interests),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func queryGetProfile(ctx context.Context, db executor, id string) (*model.Profile, error) {
	row := db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func queryGetProfileByUsername(ctx context.Context, db executor, username string) (*model.Profile, error) {
	row := db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE username = $1`, username)
	return scanProfile(row)
}

func queryUpdateProfile(ctx context.Context, db executor, id string, update model.ProfileUpdate) (*model.Profile, error) {
	var (
		setClauses []string
		args       []any
		argIdx     int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	set := func(column string, value any) {
		setClauses = append(setClauses, column+" = "+nextArg())
		args = append(args, value)
	}

	if update.Username != nil {
		set("username", *update.Username)
	}
	if update.FullName != nil {
		set("full_name", nullString(*update.FullName))
	}
	if update.Bio != nil {
		set("bio", nullString(*update.Bio))
	}
	if update.AvatarURL != nil {
		set("avatar_url", nullString(*update.AvatarURL))
	}
	if update.LocationName != nil {
		set("location_name", nullString(*update.LocationName))
	}
	if update.TravelStyle != nil {
		set("travel_style", nullString(string(*update.TravelStyle)))
	}
	if update.Interests != nil {
		set("interests", pq.Array(update.Interests))
	}

	if len(setClauses) == 0 {
		return queryGetProfile(ctx, db, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	row := db.QueryRowContext(ctx, `
		UPDATE profiles SET `+strings.Join(setClauses, ", ")+`
		WHERE id = `+nextArg()+`
		RETURNING `+profileColumns,
		args...,
	)
	return scanProfile(row)
}

func queryCreatePost(ctx context.Context, db executor, p *model.Post) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO posts (
			id, user_id, content, image_url, place_id, post_type, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID,
		p.UserID,
		p.Content,
		nullString(p.ImageURL),
		nullString(p.PlaceID),
		string(p.Type),
		p.CreatedAt,
	)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`UPDATE profiles SET posts_count = posts_count + 1, updated_at = NOW() WHERE id = $1`,
		p.UserID,
	)
	return err
}

func queryGetPost(ctx context.Context, db executor, id string) (*model.Post, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN profiles u ON u.id = p.user_id
		LEFT JOIN places pl ON pl.id = p.place_id
		WHERE p.id = $1`, id)
	return scanPost(row)
}

func queryListPosts(ctx context.Context, db executor, filter model.PostFilter) ([]*model.Post, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.UserID != "" {
		whereClauses = append(whereClauses, "p.user_id = "+nextArg())
		args = append(args, filter.UserID)
	}
	if filter.PlaceID != "" {
		whereClauses = append(whereClauses, "p.place_id = "+nextArg())
		args = append(args, filter.PlaceID)
	}
	if filter.Type != "" {
		whereClauses = append(whereClauses, "p.post_type = "+nextArg())
		args = append(args, string(filter.Type))
	}

	query := `
		SELECT ` + postColumns + `, COUNT(*) OVER() AS total
		FROM posts p
		JOIN profiles u ON u.id = p.user_id
		LEFT JOIN places pl ON pl.id = p.place_id`
	if len(whereClauses) > 0 {
		query += "\n\t\tWHERE " + strings.Join(whereClauses, " AND ")
	}
	query += "\n\t\tORDER BY p.created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += "\n\t\tLIMIT " + nextArg()
	args = append(args, limit)
	if filter.Offset > 0 {
		query += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		posts []*model.Post
		total int
	)
	for rows.Next() {
		p, n, err := scanPostWithTotal(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
		total = n
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// scanPostWithTotal scans a post row that carries a trailing COUNT(*) OVER()
// column.
func scanPostWithTotal(rows *sql.Rows) (*model.Post, int, error) {
	var p model.Post
	var (
		imageURL sql.NullString
		placeID  sql.NullString

		userID        string
		userName      string
		userFullName  sql.NullString
		userAvatarURL sql.NullString

		plID       sql.NullString
		plName     sql.NullString
		plLocation sql.NullString
		plCategory sql.NullString

		total int
	)

	err := rows.Scan(
		&p.ID,
		&p.UserID,
		&p.Content,
		&imageURL,
		&placeID,
		&p.Type,
		&p.LikesCount,
		&p.SavesCount,
		&p.CreatedAt,
		&userID,
		&userName,
		&userFullName,
		&userAvatarURL,
		&plID,
		&plName,
		&plLocation,
		&plCategory,
		&total,
	)
	if err != nil {
		return nil, 0, err
	}

	p.ImageURL = imageURL.String
	p.PlaceID = placeID.String
	p.User = &model.ProfileSummary{
		ID:        userID,
		Username:  userName,
		FullName:  userFullName.String,
		AvatarURL: userAvatarURL.String,
	}
	if plID.Valid {
		p.Place = &model.PlaceSummary{
			ID:           plID.String,
			Name:         plName.String,
			LocationName: plLocation.String,
			Category:     plCategory.String,
		}
	}

	return &p, total, nil
}

func queryListFeedPosts(ctx context.Context, db executor, userID string, limit, offset int) ([]*model.Post, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN profiles u ON u.id = p.user_id
		LEFT JOIN places pl ON pl.id = p.place_id
		WHERE p.user_id = $1
		   OR p.user_id IN (SELECT following_id FROM follows WHERE follower_id = $1)
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func queryToggleLike(ctx context.Context, db executor, postID, userID string) (bool, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	if n > 0 {
		_, err = db.ExecContext(ctx,
			`UPDATE posts SET likes_count = likes_count + 1 WHERE id = $1`, postID)
		return true, err
	}

	if _, err := db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID); err != nil {
		return false, err
	}
	_, err = db.ExecContext(ctx,
		`UPDATE posts SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1`, postID)
	return false, err
}

func queryToggleSave(ctx context.Context, db executor, postID, userID string) (bool, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO post_saves (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	if n > 0 {
		_, err = db.ExecContext(ctx,
			`UPDATE posts SET saves_count = saves_count + 1 WHERE id = $1`, postID)
		return true, err
	}

	if _, err := db.ExecContext(ctx,
		`DELETE FROM post_saves WHERE post_id = $1 AND user_id = $2`, postID, userID); err != nil {
		return false, err
	}
	_, err = db.ExecContext(ctx,
		`UPDATE posts SET saves_count = GREATEST(saves_count - 1, 0) WHERE id = $1`, postID)
	return false, err
}
