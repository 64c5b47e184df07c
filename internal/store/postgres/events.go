package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vibetrip/vibetrip/internal/model"
)

// eventColumns selects event fields with coordinates extracted from the
// geography point and the creator summary joined in. Queries using it must
// alias events as e and profiles as c, and provide $1 as the viewer id for
// the participation flag.
const eventColumns = `e.id, e.title, e.description, e.creator_id, e.location_name,
	ST_Y(e.location::geometry), ST_X(e.location::geometry),
	e.place_id, e.start_time, e.end_time, e.cover_image_url,
	e.max_participants, e.is_private, e.sort_order, e.created_at, e.updated_at,
	c.id, c.username, c.full_name, c.avatar_url,
	(SELECT COUNT(*) FROM event_participants ep
		WHERE ep.event_id = e.id AND ep.status = 'going'),
	EXISTS (SELECT 1 FROM event_participants ep
		WHERE ep.event_id = e.id AND ep.user_id = $1 AND ep.status = 'going')`

func queryCreateEvent(ctx context.Context, db executor, e *model.Event) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO events (
			id, title, description, creator_id, location_name, location,
			place_id, start_time, end_time, cover_image_url,
			max_participants, is_private, sort_order, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography,
			$8, $9, $10, $11,
			$12, $13, $14, $15, $16
		)`,
		e.ID,
		e.Title,
		nullString(e.Description),
		e.CreatorID,
		e.LocationName,
		e.Longitude,
		e.Latitude,
		nullString(e.PlaceID),
		e.StartTime,
		nullTimePtr(e.EndTime),
		nullString(e.CoverURL),
		nullInt(e.MaxAttendees),
		e.Private,
		e.SortOrder,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func queryGetEvent(ctx context.Context, db executor, id string) (*model.Event, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events e
		JOIN profiles c ON c.id = e.creator_id
		WHERE e.id = $2`, "", id)
	return scanEvent(row)
}

func queryListEvents(ctx context.Context, db executor, filter model.EventFilter, viewerID string) ([]*model.Event, error) {
	var (
		whereClauses []string
		args         []any
	)
	args = append(args, viewerID)
	argIdx := 1

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.Latitude != nil && filter.Longitude != nil {
		radius := filter.RadiusMeters
		if radius <= 0 {
			radius = 50000
		}
		lngArg := nextArg()
		latArg := nextArg()
		radArg := nextArg()
		whereClauses = append(whereClauses,
			"ST_DWithin(e.location, ST_SetSRID(ST_MakePoint("+lngArg+", "+latArg+"), 4326)::geography, "+radArg+")")
		args = append(args, *filter.Longitude, *filter.Latitude, radius)
	}

	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN profiles c ON c.id = e.creator_id`
	if len(whereClauses) > 0 {
		query += "\n\t\tWHERE " + strings.Join(whereClauses, " AND ")
	}
	query += "\n\t\tORDER BY e.sort_order ASC"

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
		return nil, err
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func queryDeleteEvent(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
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
	return nil
}

func queryDeletePastEvents(ctx context.Context, db executor, before time.Time) (int, error) {
	res, err := db.ExecContext(ctx, `
		DELETE FROM events
		WHERE COALESCE(end_time, start_time) < $1`, before)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func queryListEventRanks(ctx context.Context, db executor) ([]model.EventRank, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, start_time, sort_order
		FROM events
		ORDER BY sort_order ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranks []model.EventRank
	for rows.Next() {
		var r model.EventRank
		if err := rows.Scan(&r.ID, &r.StartTime, &r.SortOrder); err != nil {
			return nil, err
		}
		ranks = append(ranks, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ranks, nil
}

func queryShiftEventRanks(ctx context.Context, db executor, fromRank int) error {
	_, err := db.ExecContext(ctx, `
		UPDATE events SET sort_order = sort_order + 1
		WHERE sort_order >= $1`, fromRank)
	return err
}

func queryUpsertParticipant(ctx context.Context, db executor, p *model.EventParticipant) (bool, error) {
	row := db.QueryRowContext(ctx, `
		INSERT INTO event_participants (event_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`,
		p.EventID, p.UserID, string(p.Status))

	var inserted bool
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &inserted); err != nil {
		return false, err
	}
	return inserted, nil
}
