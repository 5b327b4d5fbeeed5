package changelog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidVersion is returned for version labels that aren't of the form
// <digit>.<digit>, optionally prefixed with v or V
var ErrInvalidVersion = errors.New("invalid version label")

var versionPattern = regexp.MustCompile(`^[0-9]\.[0-9]$`)

// ParseVersion validates a version label, returning it without any leading
// v or V
func ParseVersion(label string) (string, error) {
	v := label
	if strings.HasPrefix(v, "v") || strings.HasPrefix(v, "V") {
		v = v[1:]
	}
	if !versionPattern.MatchString(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, label)
	}
	return v, nil
}

// Config are any possible configuration parameters for generating changelogs
type Config struct {
	// Workers bounds how many tables are diffed at once. 1 diffs tables one at a
	// time, in schema order
	Workers int
	// HashSuffixes are field name suffixes marking string-hash references
	HashSuffixes []string
	// Logger receives progress & data quality warnings
	Logger *zap.Logger
	// Observer is notified as phases & tables complete
	Observer Observer
}

// Option is a function that adjusts a config, zero or more Options can be
// passed to New & NewRecordDiffer
type Option func(cfg *Config)

// OptionWorkers sets the number of tables diffed concurrently
func OptionWorkers(n int) Option {
	return func(cfg *Config) {
		cfg.Workers = n
	}
}

// OptionHashSuffixes replaces the suffixes marking string-hash references
func OptionHashSuffixes(suffixes ...string) Option {
	return func(cfg *Config) {
		cfg.HashSuffixes = suffixes
	}
}

// OptionLogger sets the logger
func OptionLogger(logger *zap.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// OptionObserver sets the observer
func OptionObserver(o Observer) Option {
	return func(cfg *Config) {
		cfg.Observer = o
	}
}

func newConfig(opts []Option) *Config {
	cfg := &Config{
		Workers:      1,
		HashSuffixes: DefaultHashSuffixes,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	return cfg
}

// Observer is notified of progress while generating a changelog
type Observer interface {
	// PhaseLoaded is called when a phase's artifact came from the store
	PhaseLoaded(phase Artifact)
	// PhaseComputed is called when a phase was computed & saved
	PhaseComputed(phase Artifact, elapsed time.Duration)
	// TableDiffed is called once per diffed table with its count of changed
	// records
	TableDiffed(table string, changes int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) PhaseLoaded(Artifact)                   {}
func (nopObserver) PhaseComputed(Artifact, time.Duration)  {}
func (nopObserver) TableDiffed(string, int, time.Duration) {}

// TableError is a failure confined to one table
type TableError struct {
	Table string
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("table %s: %s", e.Table, e.Err)
}

// Unwrap returns the underlying error
func (e *TableError) Unwrap() error {
	return e.Err
}

// Generator computes changelogs between a previous & current snapshot
type Generator struct {
	cfg    *Config
	schema Schema
	prev   Source
	curr   Source
	store  Store
}

// New creates a generator
func New(schema Schema, prev, curr Source, store Store, opts ...Option) *Generator {
	return &Generator{
		cfg:    newConfig(opts),
		schema: schema,
		prev:   prev,
		curr:   curr,
		store:  store,
	}
}

// Generate computes, or loads if already stored, the changelog for a version
// label:
//
// 1. string changes of every language table
// 2. the composite index of changed hashes
// 3. record changes of every eligible table, cross-referenced against (2)
//
// each phase is saved once computed, and skipped entirely when the store
// already holds it
func (g *Generator) Generate(ctx context.Context, version string) (*Changelog, error) {
	version, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}

	strs, err := g.StringChanges(ctx, version)
	if err != nil {
		return nil, err
	}

	excel, err := g.ExcelChanges(ctx, version, strs)
	if err != nil {
		return nil, err
	}

	return &Changelog{Version: version, Strings: strs, Excel: excel}, nil
}

// StringChanges loads or computes the string changelog of a version
func (g *Generator) StringChanges(ctx context.Context, version string) (StringChangelog, error) {
	log := g.cfg.Logger.With(zap.String("version", version), zap.String("phase", string(ArtifactStrings)))
	key := ArtifactKey(version, ArtifactStrings)

	strs := StringChangelog{}
	if ok, err := g.store.Load(ctx, key, &strs); err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	} else if ok {
		log.Info("loaded stored changelog")
		g.cfg.Observer.PhaseLoaded(ArtifactStrings)
		return strs, nil
	}

	start := time.Now()
	for _, t := range g.schema.StringTables() {
		prev, err := g.prev.StringTable(ctx, t)
		if err != nil {
			return nil, &TableError{Table: t.Name, Err: fmt.Errorf("previous snapshot: %w", err)}
		}
		curr, err := g.curr.StringTable(ctx, t)
		if err != nil {
			return nil, &TableError{Table: t.Name, Err: fmt.Errorf("current snapshot: %w", err)}
		}

		cs := DiffStrings(prev, curr)
		if existing, ok := strs[t.Language]; ok {
			log.Warn("language has more than one string table, keeping last", zap.String("language", t.Language), zap.Int("replaced", existing.Len()))
		}
		strs[t.Language] = cs
		log.Debug("diffed strings",
			zap.String("language", t.Language),
			zap.Int("added", len(cs.Added)),
			zap.Int("removed", len(cs.Removed)),
			zap.Int("updated", len(cs.Updated)))
	}

	if err := g.store.Save(ctx, key, strs); err != nil {
		return nil, fmt.Errorf("saving %s: %w", key, err)
	}
	elapsed := time.Since(start)
	log.Info("computed changelog", zap.Int("languages", len(strs)), zap.Duration("elapsed", elapsed))
	g.cfg.Observer.PhaseComputed(ArtifactStrings, elapsed)
	return strs, nil
}

// ExcelChanges loads or computes the record changelog of a version. the whole
// phase is loaded from the store if present, tables aren't memoized
// individually
func (g *Generator) ExcelChanges(ctx context.Context, version string, strs StringChangelog) (ExcelChangelog, error) {
	log := g.cfg.Logger.With(zap.String("version", version), zap.String("phase", string(ArtifactExcel)))
	key := ArtifactKey(version, ArtifactExcel)

	excel := ExcelChangelog{}
	if ok, err := g.store.Load(ctx, key, &excel); err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	} else if ok {
		log.Info("loaded stored changelog")
		g.cfg.Observer.PhaseLoaded(ArtifactExcel)
		return excel, nil
	}

	start := time.Now()
	rd := NewRecordDiffer(NewCompositeIndex(strs), strs, OptionHashSuffixes(g.cfg.HashSuffixes...), OptionLogger(log))

	tables := g.schema.RecordTables()
	results := make([]*ExcelFileChanges, len(tables))
	errs := make([]error, len(tables))

	var eg errgroup.Group
	eg.SetLimit(g.cfg.Workers)
	for i, t := range tables {
		i, t := i, t
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = &TableError{Table: t.Name, Err: err}
				return nil
			}
			res, err := g.diffTable(ctx, rd, t)
			if err != nil {
				log.Error("table diff failed", zap.String("table", t.Name), zap.Error(err))
				errs[i] = &TableError{Table: t.Name, Err: err}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	eg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	for _, res := range results {
		excel[res.Name] = res
	}

	if err := g.store.Save(ctx, key, excel); err != nil {
		return nil, fmt.Errorf("saving %s: %w", key, err)
	}
	elapsed := time.Since(start)
	log.Info("computed changelog", zap.Int("tables", len(excel)), zap.Duration("elapsed", elapsed))
	g.cfg.Observer.PhaseComputed(ArtifactExcel, elapsed)
	return excel, nil
}

func (g *Generator) diffTable(ctx context.Context, rd *RecordDiffer, t TableSchema) (*ExcelFileChanges, error) {
	start := time.Now()

	prev, err := g.prev.Records(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("previous snapshot: %w", err)
	}
	curr, err := g.curr.Records(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("current snapshot: %w", err)
	}

	changes, err := rd.DiffTable(t.Name, t.PrimaryKey, prev, curr)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	g.cfg.Logger.Debug("diffed table",
		zap.String("table", t.Name),
		zap.Int("previous_records", len(prev)),
		zap.Int("current_records", len(curr)),
		zap.Int("changes", len(changes.ChangeRecordMap)),
		zap.Duration("elapsed", elapsed))
	g.cfg.Observer.TableDiffed(t.Name, len(changes.ChangeRecordMap), elapsed)
	return changes, nil
}
