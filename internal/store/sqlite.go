package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS builds (
	id          TEXT PRIMARY KEY,
	created_at  DATETIME NOT NULL,
	regions     INTEGER NOT NULL,
	subregions  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS site_records (
	build_id    TEXT NOT NULL REFERENCES builds(id),
	region      TEXT NOT NULL,
	subregion   TEXT NOT NULL,
	max_temp    REAL NOT NULL,
	min_temp    REAL NOT NULL,
	wind_speed  REAL,
	zone        TEXT NOT NULL,
	PRIMARY KEY (build_id, region, subregion)
);

CREATE INDEX IF NOT EXISTS idx_builds_created_at ON builds(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot writes the build header and all records in one transaction.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin snapshot")
	}

	if err := insertSQLiteSnapshot(ctx, tx, snap); err != nil {
		_ = tx.Rollback()
		return err
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit snapshot")
}

func insertSQLiteSnapshot(ctx context.Context, tx *sql.Tx, snap Snapshot) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO builds (id, created_at, regions, subregions) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.CreatedAt, snap.Regions, snap.Subregions,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert build %s", snap.ID)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO site_records (build_id, region, subregion, max_temp, min_temp, wind_speed, zone)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare record insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, r := range snap.Records {
		if _, err := stmt.ExecContext(ctx, snap.ID, r.Region, r.Subregion, r.Max, r.Min, r.WindSpeed, r.Zone); err != nil {
			return eris.Wrapf(err, "sqlite: insert record %s/%s", r.Region, r.Subregion)
		}
	}
	return nil
}

// LatestBuild returns the most recent build, or nil when none are stored.
func (s *SQLiteStore) LatestBuild(ctx context.Context) (*Build, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, regions, subregions FROM builds ORDER BY created_at DESC, rowid DESC LIMIT 1`)

	var b Build
	err := row.Scan(&b.ID, &b.CreatedAt, &b.Regions, &b.Subregions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest build")
	}
	return &b, nil
}

// BuildRecords returns the records of buildID ordered by region and
// sub-region.
func (s *SQLiteStore) BuildRecords(ctx context.Context, buildID string) ([]SiteRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT region, subregion, max_temp, min_temp, wind_speed, zone
		 FROM site_records WHERE build_id = ? ORDER BY region, subregion`, buildID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query records %s", buildID)
	}
	defer rows.Close() //nolint:errcheck

	var out []SiteRecord
	for rows.Next() {
		var r SiteRecord
		var wind sql.NullFloat64
		if err := rows.Scan(&r.Region, &r.Subregion, &r.Max, &r.Min, &wind, &r.Zone); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		if wind.Valid {
			speed := wind.Float64
			r.WindSpeed = &speed
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate records")
}
