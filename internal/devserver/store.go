package devserver

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Store is the devserver's persistence: sqlx over SQLite (modernc, default) or
// Postgres (lib/pq). Queries are written with ? and rebound per driver.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// driverName maps config names to database/sql driver names.
func driverName(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return "sqlite", nil
	case "postgres", "postgresql", "pq":
		return "postgres", nil
	}
	return "", errors.Errorf("unsupported devserver driver %q (want sqlite|postgres)", driver)
}

// Open connects, applies pragmas (SQLite) and migrates the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	name, err := driverName(driver)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(name, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if name == "sqlite" {
		// One connection: :memory: databases are per-connection, and SQLite
		// allows a single writer anyway.
		db.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA foreign_keys=ON;",
			"PRAGMA busy_timeout=5000;",
		}
		for _, p := range pragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				_ = db.Close()
				return nil, errors.Wrap(err, "applying pragma")
			}
		}
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			status TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at_unixms BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			description TEXT NOT NULL,
			thumbnail_url TEXT NOT NULL,
			start_date_unixms BIGINT,
			end_date_unixms BIGINT,
			price DOUBLE PRECISION NOT NULL,
			discounted_price DOUBLE PRECISION,
			currency TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at_unixms BIGINT NOT NULL,
			updated_at_unixms BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			id TEXT PRIMARY KEY,
			course_id TEXT NOT NULL REFERENCES courses(id),
			title TEXT NOT NULL,
			ord INTEGER NOT NULL,
			created_at_unixms BIGINT NOT NULL,
			updated_at_unixms BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_course ON sections(course_id, ord)`,
		`CREATE TABLE IF NOT EXISTS contents (
			id TEXT PRIMARY KEY,
			section_id TEXT NOT NULL REFERENCES sections(id),
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			body TEXT NOT NULL,
			video_url TEXT,
			attachment_url TEXT,
			xp INTEGER NOT NULL,
			ord INTEGER NOT NULL,
			access_from INTEGER,
			access_till INTEGER,
			access_from_unixms BIGINT,
			access_till_unixms BIGINT,
			created_at_unixms BIGINT NOT NULL,
			updated_at_unixms BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contents_section ON contents(section_id, ord)`,
		`CREATE TABLE IF NOT EXISTS enrollments (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			course_id TEXT NOT NULL REFERENCES courses(id),
			payment_status TEXT NOT NULL,
			amount_paid DOUBLE PRECISION NOT NULL,
			progress DOUBLE PRECISION NOT NULL,
			chapter_progress_json TEXT NOT NULL,
			certificate_json TEXT NOT NULL,
			enrolled_at_unixms BIGINT NOT NULL
		)`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return errors.Wrap(err, "migrating schema")
		}
	}
	return nil
}

// q rebinds a ?-placeholder query for the connected driver.
func (s *Store) q(query string) string { return s.db.Rebind(query) }

func (s *Store) nowMs() int64 { return s.now().UTC().UnixMilli() }

func fromMs(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func fromNullMs(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := fromMs(*ms)
	return &t
}

func toNullMs(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UTC().UnixMilli()
	return &ms
}

// inTx runs fn in a transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}
