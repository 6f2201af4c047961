// Package pipeline turns the three source tables into the site data artifact:
// extract, parse, reconcile, write.
package pipeline

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/sitedata-cli/internal/artifact"
	"github.com/sells-group/sitedata-cli/internal/config"
	"github.com/sells-group/sitedata-cli/internal/extract"
	"github.com/sells-group/sitedata-cli/internal/model"
	"github.com/sells-group/sitedata-cli/internal/parse"
	"github.com/sells-group/sitedata-cli/internal/reconcile"
	"github.com/sells-group/sitedata-cli/internal/store"
)

// Sources names the three input documents.
type Sources struct {
	Temperature string `json:"temperature"`
	Wind        string `json:"wind"`
	Seismic     string `json:"seismic"`
}

// SourcesFromConfig copies the configured document paths.
func SourcesFromConfig(cfg config.SourcesConfig) Sources {
	return Sources{Temperature: cfg.Temperature, Wind: cfg.Wind, Seismic: cfg.Seismic}
}

// Stats summarizes one build.
type Stats struct {
	Regions        int               `json:"regions"`
	Subregions     int               `json:"subregions"`
	WindEntries    int               `json:"wind_entries"`
	SeismicEntries int               `json:"seismic_entries"`
	Wind           reconcile.Outcome `json:"wind"`
	Zone           reconcile.Outcome `json:"zone"`
	Missing        []string          `json:"missing,omitempty"`
}

// Result is what a build produced.
type Result struct {
	Hierarchy  model.Hierarchy `json:"-"`
	Stats      Stats           `json:"stats"`
	OutputPath string          `json:"output_path"`
	Build      *store.Build    `json:"build,omitempty"`
	Duration   time.Duration   `json:"duration"`
}

// Builder runs the build. It holds no per-build state, so one Builder can
// run many builds.
type Builder struct {
	registry   *extract.Registry
	parser     *parse.HierarchyParser
	reconciler *reconcile.Reconciler
	store      store.Store
	clock      clockwork.Clock
	outPath    string
	parallel   bool
}

// Option customizes a Builder.
type Option func(*Builder)

// WithStore saves a snapshot of every build to st.
func WithStore(st store.Store) Option {
	return func(b *Builder) { b.store = st }
}

// WithClock sets the clock used for timings and snapshot timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(b *Builder) { b.clock = c }
}

// WithRegistry replaces the default extractor registry.
func WithRegistry(r *extract.Registry) Option {
	return func(b *Builder) { b.registry = r }
}

// WithMatcher replaces the default fuzzy matcher.
func WithMatcher(m reconcile.Matcher) Option {
	return func(b *Builder) { b.reconciler.Matcher = m }
}

// New creates a Builder from configuration.
func New(cfg *config.Config, opts ...Option) (*Builder, error) {
	var regions []string
	if cfg.Hierarchy.RegionsFile != "" {
		loaded, err := parse.LoadRegions(cfg.Hierarchy.RegionsFile)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: load regions")
		}
		regions = loaded
	}

	rec := reconcile.New(nil)
	rec.Threshold = cfg.Reconcile.Threshold
	rec.MinFuzzyLen = cfg.Reconcile.MinFuzzyLen

	b := &Builder{
		registry:   extract.NewDefaultRegistry(cfg.Extract),
		parser:     parse.NewHierarchyParser(regions, cfg.Hierarchy.HeaderSlack),
		reconciler: rec,
		clock:      clockwork.NewRealClock(),
		outPath:    cfg.Output.Path,
		parallel:   cfg.Pipeline.Parallel,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// parsed holds the per-document outputs. Each field is written by exactly
// one worker.
type parsed struct {
	temps   model.Hierarchy
	wind    model.FlatIndex[float64]
	zones   model.FlatIndex[model.Zone]
	missing [3]string
}

// Build extracts and parses the three documents, fills wind and zone on
// every leaf, and writes the artifact. Missing documents contribute nothing
// and are reported in Stats.Missing. Only a cancelled context or a failed
// write aborts the build.
func (b *Builder) Build(ctx context.Context, src Sources) (*Result, error) {
	start := b.clock.Now()
	log := zap.L().With(zap.String("out", b.outPath))
	log.Info("pipeline: starting build",
		zap.String("temperature", src.Temperature),
		zap.String("wind", src.Wind),
		zap.String("seismic", src.Seismic),
	)

	var p parsed
	tasks := []func(context.Context){
		func(ctx context.Context) {
			doc := b.load(ctx, "temperature", src.Temperature, &p.missing[0])
			p.temps = b.parser.Parse(doc.Lines())
		},
		func(ctx context.Context) {
			doc := b.load(ctx, "wind", src.Wind, &p.missing[1])
			p.wind = parse.ParseWind(doc.Lines())
		},
		func(ctx context.Context) {
			doc := b.load(ctx, "seismic", src.Seismic, &p.missing[2])
			p.zones = parse.ParseSeismic(doc.Lines())
		},
	}
	b.run(ctx, tasks)

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: build cancelled")
	}

	h := p.temps
	stats := Stats{
		Regions:        len(h),
		Subregions:     h.SubregionCount(),
		WindEntries:    len(p.wind),
		SeismicEntries: len(p.zones),
	}
	for _, m := range p.missing {
		if m != "" {
			stats.Missing = append(stats.Missing, m)
		}
	}

	stats.Wind = b.reconciler.ApplyWind(h, p.wind)
	stats.Zone = b.reconciler.ApplyZone(h, p.zones)

	if err := artifact.Write(b.outPath, h); err != nil {
		return nil, eris.Wrap(err, "pipeline: write artifact")
	}

	res := &Result{Hierarchy: h, Stats: stats, OutputPath: b.outPath}

	if b.store != nil {
		snap := store.NewSnapshot(h, b.clock)
		if err := b.store.SaveSnapshot(ctx, snap); err != nil {
			return nil, eris.Wrap(err, "pipeline: save snapshot")
		}
		res.Build = &snap.Build
		log.Info("pipeline: snapshot saved", zap.String("build_id", snap.ID))
	}

	res.Duration = b.clock.Since(start)
	log.Info("pipeline: build complete",
		zap.Int("regions", stats.Regions),
		zap.Int("subregions", stats.Subregions),
		zap.Int("wind_exact", stats.Wind.Exact),
		zap.Int("wind_fuzzy", stats.Wind.Fuzzy),
		zap.Int("wind_unknown", stats.Wind.Unknown),
		zap.Int("zone_exact", stats.Zone.Exact),
		zap.Int("zone_fuzzy", stats.Zone.Fuzzy),
		zap.Int("zone_unknown", stats.Zone.Unknown),
		zap.Strings("missing", stats.Missing),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

// run executes the tasks, concurrently when the builder is parallel. Tasks
// never fail: a document that cannot be read is recorded as missing.
func (b *Builder) run(ctx context.Context, tasks []func(context.Context)) {
	if !b.parallel {
		for _, task := range tasks {
			task(ctx)
		}
		return
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			task(gCtx)
			return nil
		})
	}
	_ = g.Wait()
}

// load extracts one document. Failures are logged and the kind is written to
// missing; the returned document is then empty.
func (b *Builder) load(ctx context.Context, kind, path string, missing *string) *extract.Document {
	doc, err := extract.Load(ctx, b.registry, path)
	if err != nil {
		*missing = kind
		zap.L().Warn("pipeline: source unavailable, continuing without it",
			zap.String("kind", kind),
			zap.String("path", path),
			zap.Error(err),
		)
		return doc
	}
	zap.L().Debug("pipeline: source loaded",
		zap.String("kind", kind),
		zap.String("path", path),
		zap.Int("lines", doc.Count()),
	)
	return doc
}
