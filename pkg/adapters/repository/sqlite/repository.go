package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/ports"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	// A shared-cache memory database locks per table; one connection avoids
	// SQLITE_LOCKED between concurrent statements.
	if strings.Contains(dbURL, "mode=memory") || dbURL == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_profiles_slug ON profiles(slug);

	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		icon_type TEXT NOT NULL DEFAULT 'predefined',
		icon_value TEXT NOT NULL DEFAULT 'link',
		sort_order INTEGER NOT NULL DEFAULT 0,
		enabled INTEGER NOT NULL DEFAULT 1,
		clicks INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_links_owner_order ON links(owner_id, sort_order);

	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		link_id TEXT NOT NULL,
		referer TEXT,
		user_agent TEXT,
		ip_hash TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_visits_link_id ON visits(link_id);
	`
	_, err := db.Exec(query)
	return err
}

const linkColumns = `id, owner_id, title, url, icon_type, icon_value, sort_order, enabled, clicks, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (domain.Link, error) {
	var l domain.Link
	var iconType string
	err := row.Scan(&l.ID, &l.OwnerID, &l.Title, &l.URL, &iconType, &l.Icon.Value,
		&l.Order, &l.Enabled, &l.ClickCount, &l.CreatedAt, &l.UpdatedAt)
	l.Icon.Kind = domain.IconKind(iconType)
	return l, err
}

func (r *SQLiteRepository) FetchAll(ctx context.Context, ownerID string) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE owner_id = ? ORDER BY sort_order ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, domain.NewPersistenceError("fetch links", err)
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, domain.NewPersistenceError("scan link", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewPersistenceError("fetch links", err)
	}
	return links, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = ?`

	l, err := scanLink(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewPersistenceError("get link", err)
	}
	return &l, nil
}

// Insert stores link with a fresh id and the next order of its owner. The
// order is computed inside the INSERT so concurrent creates cannot collide.
func (r *SQLiteRepository) Insert(ctx context.Context, link *domain.Link) error {
	if link.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.NewPersistenceError("insert link", err)
		}
		link.ID = id.String()
	}

	query := `INSERT INTO links (id, owner_id, title, url, icon_type, icon_value, sort_order, enabled, clicks, created_at, updated_at)
			  SELECT ?, ?, ?, ?, ?, ?, COALESCE(MAX(sort_order) + 1, 0), ?, ?, ?, ?
			  FROM links WHERE owner_id = ?
			  RETURNING sort_order`

	err := r.db.QueryRowContext(ctx, query,
		link.ID, link.OwnerID, link.Title, link.URL, string(link.Icon.Kind), link.Icon.Value,
		link.Enabled, link.ClickCount, link.CreatedAt, link.UpdatedAt, link.OwnerID,
	).Scan(&link.Order)
	return domain.NewPersistenceError("insert link", err)
}

func (r *SQLiteRepository) Patch(ctx context.Context, id string, patch domain.LinkPatch) (*domain.Link, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.URL != nil {
		sets = append(sets, "url = ?")
		args = append(args, *patch.URL)
	}
	if patch.Icon != nil {
		sets = append(sets, "icon_type = ?", "icon_value = ?")
		args = append(args, string(patch.Icon.Kind), patch.Icon.Value)
	}
	if patch.Enabled != nil {
		sets = append(sets, "enabled = ?")
		args = append(args, *patch.Enabled)
	}
	args = append(args, id)

	query := `UPDATE links SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewPersistenceError("patch link", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewPersistenceError("remove link", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM visits WHERE link_id = ?`, id); err != nil {
		return domain.NewPersistenceError("remove visits", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return domain.NewPersistenceError("remove link", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return domain.NewPersistenceError("remove link", tx.Commit())
}

// PatchMany runs one UPDATE per patch outside any transaction. A failure
// does not stop the remaining writes.
func (r *SQLiteRepository) PatchMany(ctx context.Context, ownerID string, patches []domain.OrderPatch) []error {
	query := `UPDATE links SET sort_order = ?, updated_at = ? WHERE id = ? AND owner_id = ?`
	now := time.Now().UTC()

	results := make([]error, len(patches))
	for i, p := range patches {
		_, err := r.db.ExecContext(ctx, query, p.Order, now, p.ID, ownerID)
		results[i] = domain.NewPersistenceError("reorder link "+p.ID, err)
	}
	return results
}

func (r *SQLiteRepository) RecordVisit(ctx context.Context, visit *domain.Visit) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewPersistenceError("record visit", err)
	}
	defer tx.Rollback()

	// 1. Insert Visit Record
	queryVisit := `INSERT INTO visits (link_id, referer, user_agent, ip_hash, created_at) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, queryVisit, visit.LinkID, visit.Referer, visit.UserAgent, visit.IPHash, visit.CreatedAt.Format("2006-01-02 15:04:05"))
	if err != nil {
		return domain.NewPersistenceError("record visit", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		visit.ID = id
	}

	// 2. Increment Link Clicks Counter (Atomic)
	res, err = tx.ExecContext(ctx, `UPDATE links SET clicks = clicks + 1 WHERE id = ?`, visit.LinkID)
	if err != nil {
		return domain.NewPersistenceError("count click", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}

	return domain.NewPersistenceError("record visit", tx.Commit())
}

func (r *SQLiteRepository) GetLinkStats(ctx context.Context, linkID string) (*domain.LinkStats, error) {
	stats := &domain.LinkStats{
		Referrers:   make(map[string]int64),
		DailyClicks: []domain.DailyClick{},
	}

	// Total Clicks
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits WHERE link_id = ?`, linkID).Scan(&stats.TotalClicks)
	if err != nil {
		return nil, domain.NewPersistenceError("count visits", err)
	}

	// Referrers
	rows, err := r.db.QueryContext(ctx, `SELECT COALESCE(referer, ''), COUNT(*) as c FROM visits WHERE link_id = ? GROUP BY referer ORDER BY c DESC LIMIT 10`, linkID)
	if err != nil {
		return nil, domain.NewPersistenceError("referrer stats", err)
	}
	for rows.Next() {
		var ref string
		var count int64
		if err := rows.Scan(&ref, &count); err != nil {
			rows.Close()
			return nil, domain.NewPersistenceError("referrer stats", err)
		}
		if ref == "" {
			ref = "Direct"
		}
		stats.Referrers[ref] += count
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, domain.NewPersistenceError("referrer stats", err)
	}

	// Daily Clicks (Last 30 days)
	rows, err = r.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m-%d', created_at) as date, COUNT(*)
		FROM visits
		WHERE link_id = ?
		GROUP BY date
		ORDER BY date DESC
		LIMIT 30`, linkID)
	if err != nil {
		return nil, domain.NewPersistenceError("daily stats", err)
	}
	defer rows.Close()
	for rows.Next() {
		var dc domain.DailyClick
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, domain.NewPersistenceError("daily stats", err)
		}
		stats.DailyClicks = append(stats.DailyClicks, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewPersistenceError("daily stats", err)
	}

	return stats, nil
}

// Ensure interface compliance
var _ ports.LinkRepository = (*SQLiteRepository)(nil)
