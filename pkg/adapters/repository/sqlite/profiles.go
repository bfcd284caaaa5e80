package sqlite

import (
	"context"
	"database/sql"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/ports"
)

// --- Profile Repository Implementation ---

const profileColumns = `id, slug, display_name, bio, avatar_url, email, created_at, updated_at`

func scanProfile(row rowScanner) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.ID, &p.Slug, &p.DisplayName, &p.Bio, &p.AvatarURL, &p.Email, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *SQLiteRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	query := `INSERT INTO profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, profile.ID, profile.Slug, profile.DisplayName, profile.Bio,
		profile.AvatarURL, profile.Email, profile.CreatedAt, profile.UpdatedAt)
	return domain.NewPersistenceError("create profile", err)
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	return r.getProfile(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetProfileBySlug(ctx context.Context, slug string) (*domain.Profile, error) {
	return r.getProfile(ctx, `SELECT `+profileColumns+` FROM profiles WHERE slug = ?`, slug)
}

func (r *SQLiteRepository) getProfile(ctx context.Context, query string, arg string) (*domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewPersistenceError("get profile", err)
	}
	return &p, nil
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	query := `UPDATE profiles SET slug = ?, display_name = ?, bio = ?, avatar_url = ?, email = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, profile.Slug, profile.DisplayName, profile.Bio,
		profile.AvatarURL, profile.Email, profile.UpdatedAt, profile.ID)
	if err != nil {
		return domain.NewPersistenceError("update profile", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteProfile(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewPersistenceError("delete profile", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM visits WHERE link_id IN (SELECT id FROM links WHERE owner_id = ?)`, id); err != nil {
		return domain.NewPersistenceError("delete profile visits", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM links WHERE owner_id = ?`, id); err != nil {
		return domain.NewPersistenceError("delete profile links", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return domain.NewPersistenceError("delete profile", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return domain.NewPersistenceError("delete profile", tx.Commit())
}

func (r *SQLiteRepository) ListProfiles(ctx context.Context, limit, offset int, search string) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	args := []any{}

	if search != "" {
		query += " WHERE display_name LIKE ? OR slug LIKE ?"
		args = append(args, "%"+search+"%", "%"+search+"%")
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewPersistenceError("list profiles", err)
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, domain.NewPersistenceError("scan profile", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, domain.NewPersistenceError("list profiles", rows.Err())
}

func (r *SQLiteRepository) CountProfiles(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM profiles`
	args := []any{}

	if search != "" {
		query += " WHERE display_name LIKE ? OR slug LIKE ?"
		args = append(args, "%"+search+"%", "%"+search+"%")
	}

	var count int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, domain.NewPersistenceError("count profiles", err)
}

var _ ports.ProfileRepository = (*SQLiteRepository)(nil)
