package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/sitedata-cli/internal/db"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

var siteRecordColumns = []string{
	"build_id", "region", "subregion", "max_temp", "min_temp", "wind_speed", "zone",
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS builds (
	id          TEXT PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL,
	regions     INTEGER NOT NULL,
	subregions  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS site_records (
	build_id    TEXT NOT NULL REFERENCES builds(id) ON DELETE CASCADE,
	region      TEXT NOT NULL,
	subregion   TEXT NOT NULL,
	max_temp    DOUBLE PRECISION NOT NULL,
	min_temp    DOUBLE PRECISION NOT NULL,
	wind_speed  DOUBLE PRECISION,
	zone        TEXT NOT NULL,
	PRIMARY KEY (build_id, region, subregion)
);

CREATE INDEX IF NOT EXISTS idx_builds_created_at ON builds(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveSnapshot inserts the build header and copies the records in one
// transaction.
func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin snapshot")
	}

	if err := insertPostgresSnapshot(ctx, tx, snap); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit snapshot")
}

func insertPostgresSnapshot(ctx context.Context, tx pgx.Tx, snap Snapshot) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO builds (id, created_at, regions, subregions) VALUES ($1, $2, $3, $4)`,
		snap.ID, snap.CreatedAt, snap.Regions, snap.Subregions,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert build %s", snap.ID)
	}

	rows := make([][]any, 0, len(snap.Records))
	for _, r := range snap.Records {
		rows = append(rows, []any{snap.ID, r.Region, r.Subregion, r.Max, r.Min, r.WindSpeed, r.Zone})
	}
	if _, err := db.CopyFrom(ctx, tx, "site_records", siteRecordColumns, rows); err != nil {
		return eris.Wrap(err, "postgres: copy records")
	}
	return nil
}

// LatestBuild returns the most recent build, or nil when none are stored.
func (s *PostgresStore) LatestBuild(ctx context.Context) (*Build, error) {
	var b Build
	err := s.pool.QueryRow(ctx,
		`SELECT id, created_at, regions, subregions FROM builds ORDER BY created_at DESC LIMIT 1`,
	).Scan(&b.ID, &b.CreatedAt, &b.Regions, &b.Subregions)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: latest build")
	}
	return &b, nil
}

// BuildRecords returns the records of buildID ordered by region and
// sub-region.
func (s *PostgresStore) BuildRecords(ctx context.Context, buildID string) ([]SiteRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT region, subregion, max_temp, min_temp, wind_speed, zone
		 FROM site_records WHERE build_id = $1 ORDER BY region COLLATE "C", subregion COLLATE "C"`, buildID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query records %s", buildID)
	}
	defer rows.Close()

	var out []SiteRecord
	for rows.Next() {
		var r SiteRecord
		if err := rows.Scan(&r.Region, &r.Subregion, &r.Max, &r.Min, &r.WindSpeed, &r.Zone); err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate records")
}
