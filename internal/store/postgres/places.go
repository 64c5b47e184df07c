package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibetrip/vibetrip/internal/model"
)

// placeColumns selects place fields with coordinates extracted from the
// geography point.
const placeColumns = `id, name, description, category, location_name,
	ST_Y(location::geometry), ST_X(location::geometry),
	image_url, is_hidden, created_by, created_at`

func queryCreatePlace(ctx context.Context, db executor, p *model.Place) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO places (
			id, name, description, category, location_name, location,
			image_url, is_hidden, created_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography,
			$8, $9, $10, $11
		)`,
		p.ID,
		p.Name,
		nullString(p.Description),
		p.Category,
		nullString(p.LocationName),
		p.Longitude,
		p.Latitude,
		nullString(p.ImageURL),
		p.Hidden,
		nullString(p.CreatedBy),
		p.CreatedAt,
	)
	return err
}

func queryGetPlace(ctx context.Context, db executor, id string) (*model.Place, error) {
	row := db.QueryRowContext(ctx, `SELECT `+placeColumns+` FROM places WHERE id = $1`, id)
	return scanPlace(row)
}

func queryListPlaces(ctx context.Context, db executor, filter model.PlaceFilter) ([]*model.Place, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.Category != "" {
		whereClauses = append(whereClauses, "category = "+nextArg())
		args = append(args, filter.Category)
	}
	if filter.Hidden != nil {
		whereClauses = append(whereClauses, "is_hidden = "+nextArg())
		args = append(args, *filter.Hidden)
	}

	query := `SELECT ` + placeColumns + ` FROM places`
	if len(whereClauses) > 0 {
		query += "\n\t\tWHERE " + strings.Join(whereClauses, " AND ")
	}
	query += "\n\t\tORDER BY name ASC"

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

	var places []*model.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return places, nil
}
