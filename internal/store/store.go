// Package store persists build snapshots: one header row per build plus one
// row per sub-region.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"

	"github.com/sells-group/sitedata-cli/internal/config"
	"github.com/sells-group/sitedata-cli/internal/model"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store defines the persistence interface for build snapshots.
type Store interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	LatestBuild(ctx context.Context) (*Build, error)
	BuildRecords(ctx context.Context, buildID string) ([]SiteRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Build is the header of one stored snapshot.
type Build struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Regions    int       `json:"regions"`
	Subregions int       `json:"subregions"`
}

// SiteRecord is one flattened leaf. WindSpeed is nil when the wind value is
// unknown.
type SiteRecord struct {
	Region    string   `json:"region"`
	Subregion string   `json:"subregion"`
	Max       float64  `json:"max"`
	Min       float64  `json:"min"`
	WindSpeed *float64 `json:"wind_speed"`
	Zone      string   `json:"zone"`
}

// Snapshot is a build header together with its records.
type Snapshot struct {
	Build
	Records []SiteRecord
}

// NewSnapshot flattens h into a snapshot stamped with a fresh id and the
// clock's current time.
func NewSnapshot(h model.Hierarchy, clock clockwork.Clock) Snapshot {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	snap := Snapshot{
		Build: Build{
			ID:         uuid.NewString(),
			CreatedAt:  clock.Now().UTC(),
			Regions:    len(h),
			Subregions: h.SubregionCount(),
		},
		Records: make([]SiteRecord, 0, h.SubregionCount()),
	}
	h.Each(func(region, sub string, r *model.Record) {
		snap.Records = append(snap.Records, flatten(region, sub, r))
	})
	return snap
}

func flatten(region, sub string, r *model.Record) SiteRecord {
	rec := SiteRecord{Region: region, Subregion: sub, Zone: string(model.ZoneUnknown)}
	if r == nil {
		return rec
	}
	if r.Max != nil {
		rec.Max = float64(*r.Max)
	}
	if r.Min != nil {
		rec.Min = float64(*r.Min)
	}
	if r.Wind != nil && r.Wind.Known {
		speed := r.Wind.Speed
		rec.WindSpeed = &speed
	}
	if r.Zone != nil {
		rec.Zone = string(*r.Zone)
	}
	return rec
}

// New opens the store selected by cfg.Driver and runs its migration. An
// empty driver disables persistence and returns a nil Store.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Driver {
	case "":
		return nil, nil
	case DriverSQLite:
		st, err = NewSQLite(cfg.DatabaseURL)
	case DriverPostgres:
		st, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}
