package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/vibetrip/vibetrip/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanProfile scans a single row into a model.Profile.
// The row must contain columns in the order defined by profileColumns.
func scanProfile(row scannable) (*model.Profile, error) {
	var p model.Profile
	var (
		fullName     sql.NullString
		bio          sql.NullString
		avatarURL    sql.NullString
		locationName sql.NullString
		travelStyle  sql.NullString
		interests    pq.StringArray
	)

	err := row.Scan(
		&p.ID,
		&p.Username,
		&fullName,
		&bio,
		&avatarURL,
		&locationName,
		&travelStyle,
		&interests,
		&p.Points,
		&p.FollowersCount,
		&p.FollowingCount,
		&p.PostsCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.FullName = fullName.String
	p.Bio = bio.String
	p.AvatarURL = avatarURL.String
	p.LocationName = locationName.String
	p.TravelStyle = model.TravelStyle(travelStyle.String)
	p.Interests = []string(interests)

	return &p, nil
}

// scanPost scans a row produced by the post queries: post columns followed by
// the author summary and a nullable place summary.
func scanPost(row scannable) (*model.Post, error) {
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
	)

	err := row.Scan(
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
	)
	if err != nil {
		return nil, err
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

	return &p, nil
}

// scanPosts scans multiple rows into a slice of model.Post pointers.
func scanPosts(rows *sql.Rows) ([]*model.Post, error) {
	var posts []*model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

// scanPlace scans a single row into a model.Place. Coordinates arrive as
// separate lat/lng columns extracted from the geography point.
func scanPlace(row scannable) (*model.Place, error) {
	var p model.Place
	var (
		description  sql.NullString
		locationName sql.NullString
		imageURL     sql.NullString
		createdBy    sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.Category,
		&locationName,
		&p.Latitude,
		&p.Longitude,
		&imageURL,
		&p.Hidden,
		&createdBy,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.LocationName = locationName.String
	p.ImageURL = imageURL.String
	p.CreatedBy = createdBy.String

	return &p, nil
}

// scanEvent scans a row produced by the event queries: event columns plus
// lat/lng, the creator summary, the participants count, and the viewer's
// participation flag.
func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var (
		description sql.NullString
		placeID     sql.NullString
		endTime     sql.NullTime
		coverURL    sql.NullString
		maxAtt      sql.NullInt64

		creatorID        string
		creatorUsername  string
		creatorFullName  sql.NullString
		creatorAvatarURL sql.NullString
	)

	err := row.Scan(
		&e.ID,
		&e.Title,
		&description,
		&e.CreatorID,
		&e.LocationName,
		&e.Latitude,
		&e.Longitude,
		&placeID,
		&e.StartTime,
		&endTime,
		&coverURL,
		&maxAtt,
		&e.Private,
		&e.SortOrder,
		&e.CreatedAt,
		&e.UpdatedAt,
		&creatorID,
		&creatorUsername,
		&creatorFullName,
		&creatorAvatarURL,
		&e.ParticipantsCount,
		&e.UserParticipating,
	)
	if err != nil {
		return nil, err
	}

	e.Description = description.String
	e.PlaceID = placeID.String
	e.CoverURL = coverURL.String
	if endTime.Valid {
		t := endTime.Time
		e.EndTime = &t
	}
	if maxAtt.Valid {
		e.MaxAttendees = int(maxAtt.Int64)
	}
	e.Creator = &model.ProfileSummary{
		ID:        creatorID,
		Username:  creatorUsername,
		FullName:  creatorFullName.String,
		AvatarURL: creatorAvatarURL.String,
	}

	return &e, nil
}

// scanProfileSummary scans the four summary columns.
func scanProfileSummary(row scannable) (*model.ProfileSummary, error) {
	var s model.ProfileSummary
	var (
		fullName  sql.NullString
		avatarURL sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Username, &fullName, &avatarURL); err != nil {
		return nil, err
	}
	s.FullName = fullName.String
	s.AvatarURL = avatarURL.String
	return &s, nil
}

// scanActivity scans an activity row with the actor summary and a nullable
// attached post.
func scanActivity(row scannable) (*model.Activity, error) {
	var a model.Activity
	var (
		postID  sql.NullString
		eventID sql.NullString

		actorID        string
		actorUsername  string
		actorFullName  sql.NullString
		actorAvatarURL sql.NullString

		pID        sql.NullString
		pUserID    sql.NullString
		pContent   sql.NullString
		pImageURL  sql.NullString
		pPlaceID   sql.NullString
		pType      sql.NullString
		pLikes     sql.NullInt64
		pSaves     sql.NullInt64
		pCreatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.ActorID,
		&a.Type,
		&postID,
		&eventID,
		&a.CreatedAt,
		&actorID,
		&actorUsername,
		&actorFullName,
		&actorAvatarURL,
		&pID,
		&pUserID,
		&pContent,
		&pImageURL,
		&pPlaceID,
		&pType,
		&pLikes,
		&pSaves,
		&pCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.PostID = postID.String
	a.EventID = eventID.String
	a.Actor = &model.ProfileSummary{
		ID:        actorID,
		Username:  actorUsername,
		FullName:  actorFullName.String,
		AvatarURL: actorAvatarURL.String,
	}
	if pID.Valid {
		a.Post = &model.Post{
			ID:         pID.String,
			UserID:     pUserID.String,
			Content:    pContent.String,
			ImageURL:   pImageURL.String,
			PlaceID:    pPlaceID.String,
			Type:       model.PostType(pType.String),
			LikesCount: int(pLikes.Int64),
			SavesCount: int(pSaves.Int64),
			CreatedAt:  pCreatedAt.Time,
		}
	}

	return &a, nil
}

// scanBadge scans a single row into a model.Badge.
func scanBadge(row scannable) (*model.Badge, error) {
	var b model.Badge
	var (
		description sql.NullString
		icon        sql.NullString
		category    sql.NullString
	)
	err := row.Scan(
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
	return &b, nil
}

// scanBadges scans multiple rows into a slice of model.Badge pointers.
func scanBadges(rows *sql.Rows) ([]*model.Badge, error) {
	var badges []*model.Badge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return badges, nil
}

// nullTimePtr converts a *time.Time to sql.NullTime; nil pointer is null.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullInt converts an int to sql.NullInt64; zero is null.
func nullInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}
