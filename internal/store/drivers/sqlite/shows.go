package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/streamvault/streamvault/internal/domain"
)

type showsRepo struct {
	db dbtx
}

const showColumns = `id, show_type, title, director, cast_members, country,
	date_added, release_year, rating, duration, listed_in, description,
	created_by, created_at, updated_by, updated_at`

func scanShow(row rowScanner) (domain.Show, error) {
	var (
		sh        domain.Show
		showType  string
		dateAdded sql.NullTime
		updatedAt sql.NullTime
	)

	err := row.Scan(&sh.ID, &showType, &sh.Title, &sh.Director, &sh.CastMembers,
		&sh.Country, &dateAdded, &sh.ReleaseYear, &sh.Rating, &sh.Duration,
		&sh.ListedIn, &sh.Description, &sh.CreatedBy, &sh.CreatedAt,
		&sh.UpdatedBy, &updatedAt)
	if err != nil {
		return domain.Show{}, mapNotFound(err)
	}

	sh.ShowType = domain.ShowType(showType)
	sh.DateAdded = mapNullTimePtr(dateAdded)
	sh.UpdatedAt = mapNullTimePtr(updatedAt)
	return sh, nil
}

func (r *showsRepo) ListShows(ctx context.Context) ([]domain.Show, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+showColumns+` FROM netflix_shows
		 WHERE is_deleted = 0 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shows []domain.Show
	for rows.Next() {
		sh, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		shows = append(shows, sh)
	}
	return shows, rows.Err()
}

func (r *showsRepo) GetShowByID(ctx context.Context, id int64) (domain.Show, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+showColumns+` FROM netflix_shows
		 WHERE id = ? AND is_deleted = 0`, id)
	return scanShow(row)
}

func (r *showsRepo) CreateShow(ctx context.Context, sh domain.Show) (int64, error) {
	createdAt := sh.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO netflix_shows (show_type, title, director, cast_members,
			country, date_added, release_year, rating, duration, listed_in,
			description, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(sh.ShowType), sh.Title, sh.Director, sh.CastMembers, sh.Country,
		mapOptionalTime(sh.DateAdded), sh.ReleaseYear, sh.Rating, sh.Duration,
		sh.ListedIn, sh.Description, sh.CreatedBy, createdAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *showsRepo) UpdateShow(ctx context.Context, sh domain.Show) error {
	updatedAt := time.Now().UTC()
	if sh.UpdatedAt != nil {
		updatedAt = sh.UpdatedAt.UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE netflix_shows SET show_type = ?, title = ?, director = ?,
			cast_members = ?, country = ?, date_added = ?, release_year = ?,
			rating = ?, duration = ?, listed_in = ?, description = ?,
			updated_by = ?, updated_at = ?
		 WHERE id = ? AND is_deleted = 0`,
		string(sh.ShowType), sh.Title, sh.Director, sh.CastMembers, sh.Country,
		mapOptionalTime(sh.DateAdded), sh.ReleaseYear, sh.Rating, sh.Duration,
		sh.ListedIn, sh.Description, sh.UpdatedBy, updatedAt, sh.ID)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

func (r *showsRepo) SoftDeleteShow(ctx context.Context, id int64, by string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE netflix_shows SET is_deleted = 1, deleted_by = ?, deleted_at = ?
		 WHERE id = ? AND is_deleted = 0`, by, at.UTC(), id)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}
