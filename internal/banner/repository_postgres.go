package banner

import (
	"database/sql"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns banner rows from `banner` table ordered by `ord` then id.
// If the table/query is not available the function returns an empty slice (caller-friendly).
func (r *PostgresRepository) List(limit int) ([]Banner, error) {
	rows, err := r.db.Query(`SELECT banner_id, banner_img, banner_link, banner_alt FROM banner ORDER BY COALESCE(ord, 0) DESC, banner_id LIMIT $1`, limit)
	if err != nil {
		return []Banner{}, nil
	}
	defer rows.Close()

	out := make([]Banner, 0)
	for rows.Next() {
		var (
			item Banner
			link sql.NullString
			alt  sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Image, &link, &alt); err != nil {
			continue
		}
		item.Link = link.String
		item.Alt = alt.String
		out = append(out, item)
	}
	return out, nil
}
