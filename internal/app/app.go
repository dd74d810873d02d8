// Package app wires together adapters and domain logic: the catalog and its
// search engine, the selection session over a KV store, metrics and the
// optional catalog watcher.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/corey/acnh/internal/domain/catalog"
	"github.com/corey/acnh/internal/domain/search"
	"github.com/corey/acnh/internal/domain/selection"
	"github.com/corey/acnh/internal/ports"
)

// Config holds initialization parameters for the App.
type Config struct {
	CatalogPath string
	StorageKey  string        // default: selection.DefaultKey
	Store       ports.KVStore // required; closed by App.Close when it implements Close
	Backend     string        // reported by Status only

	HighlightOpen  string // default: search.DefaultHighlightOpen
	HighlightClose string // default: search.DefaultHighlightClose

	Logger  *zap.Logger // nil = no logging
	Metrics *Metrics    // nil = private registry
}

// latencyWindow is the rolling window for search stats in Status.
const latencyWindow = 5 * time.Minute

// App is the top-level container wiring all components together.
type App struct {
	cfg     Config
	log     *zap.Logger
	metrics *Metrics
	latency *LatencyTracker

	Session *Session

	catalog atomic.Pointer[catalog.Catalog]
	engine  atomic.Pointer[search.Engine]

	watcher   ports.Watcher
	reloadMu  sync.Mutex
	reloadErr error
	started   time.Time
}

// New loads the catalog and creates an App. The selection state is not read
// until Init.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("store required")
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = selection.DefaultKey
	}
	if cfg.HighlightOpen == "" && cfg.HighlightClose == "" {
		cfg.HighlightOpen = search.DefaultHighlightOpen
		cfg.HighlightClose = search.DefaultHighlightClose
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics("acnh")
	}

	a := &App{
		cfg:     cfg,
		log:     cfg.Logger,
		metrics: cfg.Metrics,
		latency: NewLatencyTracker(latencyWindow),
		started: time.Now(),
	}
	a.Session = NewSession(cfg.Store, cfg.StorageKey, a.log, a.metrics)

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a.install(cat)
	return a, nil
}

// Init loads persisted selection state. See Session.Init.
func (a *App) Init() error {
	return a.Session.Init()
}

func (a *App) install(cat *catalog.Catalog) {
	engine := search.NewEngine(cat, search.WithHighlight(a.cfg.HighlightOpen, a.cfg.HighlightClose))
	a.catalog.Store(cat)
	a.engine.Store(engine)

	a.metrics.CatalogEntries.Set(float64(cat.Len()))
	a.metrics.CatalogSkipped.Set(float64(cat.Skipped))
	if cat.Skipped > 0 {
		a.log.Warn("catalog entries skipped",
			zap.String("path", a.cfg.CatalogPath),
			zap.Int("skipped", cat.Skipped))
	}
}

// Catalog returns the currently loaded catalog.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog.Load()
}

// Search ranks query against the current catalog.
func (a *App) Search(query string, filters catalog.CategorySet) []search.Result {
	start := time.Now()
	results := a.engine.Load().Search(query, filters)
	elapsed := time.Since(start)

	a.latency.Record(elapsed)
	a.metrics.SearchDuration.Observe(elapsed.Seconds())
	a.metrics.SearchResults.Observe(float64(len(results)))
	a.log.Debug("search",
		zap.String("query", query),
		zap.Strings("filters", filters.Sorted()),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", elapsed))
	return results
}

// Dispatch applies a to the session. See Session.Dispatch.
func (a *App) Dispatch(ctx context.Context, action selection.Action) (selection.State, error) {
	return a.Session.Dispatch(ctx, action)
}

// Snapshot returns a copy of the current selection state.
func (a *App) Snapshot() selection.State {
	return a.Session.Snapshot()
}

// Owned returns the owned entries allowed by filters, sorted by name.
// Ids no longer present in the catalog are omitted.
func (a *App) Owned(filters catalog.CategorySet) []catalog.Entry {
	return a.Catalog().Hydrate(a.Snapshot().Catalog.Sorted(), filters)
}

// Wished returns the wishlisted entries allowed by filters, sorted by name.
func (a *App) Wished(filters catalog.CategorySet) []catalog.Entry {
	return a.Catalog().Hydrate(a.Snapshot().Wishlist.Sorted(), filters)
}

// ReloadCatalog re-reads the catalog file and swaps it in. On failure the
// previous catalog stays active.
func (a *App) ReloadCatalog() error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	cat, err := catalog.LoadFile(a.cfg.CatalogPath)
	if err != nil {
		a.reloadErr = err
		a.metrics.CatalogReloads.WithLabelValues("error").Inc()
		a.log.Error("reload catalog", zap.String("path", a.cfg.CatalogPath), zap.Error(err))
		return err
	}
	a.reloadErr = nil
	a.install(cat)
	a.metrics.CatalogReloads.WithLabelValues("ok").Inc()
	a.log.Info("catalog reloaded",
		zap.String("path", a.cfg.CatalogPath),
		zap.Int("entries", cat.Len()))
	return nil
}

// WatchCatalog reloads the catalog whenever w reports a change to it.
// The watcher is stopped by Close.
func (a *App) WatchCatalog(w ports.Watcher) error {
	if err := w.Watch(a.cfg.CatalogPath, func(string) { _ = a.ReloadCatalog() }); err != nil {
		return fmt.Errorf("watch catalog: %w", err)
	}
	a.watcher = w
	return nil
}

// Metrics returns the app's collectors.
func (a *App) Metrics() *Metrics {
	return a.metrics
}

// Status summarizes the running app. Searches and SearchP50 cover the last
// latencyWindow; SearchP50 stays empty until there are enough samples.
type Status struct {
	Version        string   `json:"version"`
	MigratedFrom   string   `json:"migratedFrom,omitempty"`
	LoadError      string   `json:"loadError,omitempty"`
	Backend        string   `json:"backend,omitempty"`
	Key            string   `json:"key"`
	CatalogPath    string   `json:"catalogPath"`
	CatalogEntries int      `json:"catalogEntries"`
	CatalogSkipped int      `json:"catalogSkipped"`
	Categories     []string `json:"categories"`
	Owned          int      `json:"owned"`
	Wished         int      `json:"wished"`
	Unknown        int      `json:"unknown"`
	ReloadError    string   `json:"reloadError,omitempty"`
	Searches       int      `json:"searches"`
	SearchP50      string   `json:"searchP50,omitempty"`
	Uptime         string   `json:"uptime"`
}

// Status reports schema, storage and catalog details.
func (a *App) Status() Status {
	st := a.Snapshot()
	cat := a.Catalog()

	unknown := 0
	for _, set := range []selection.IDSet{st.Catalog, st.Wishlist} {
		for id := range set {
			if _, ok := cat.Lookup(id); !ok {
				unknown++
			}
		}
	}

	s := Status{
		Version:        st.Version,
		MigratedFrom:   st.MigratedFrom,
		Backend:        a.cfg.Backend,
		Key:            a.cfg.StorageKey,
		CatalogPath:    a.cfg.CatalogPath,
		CatalogEntries: cat.Len(),
		CatalogSkipped: cat.Skipped,
		Categories:     cat.Categories(),
		Owned:          len(st.Catalog),
		Wished:         len(st.Wishlist),
		Unknown:        unknown,
		Searches:       a.latency.Count(),
		Uptime:         time.Since(a.started).Round(time.Second).String(),
	}
	if p50 := a.latency.P50(); p50 > 0 {
		s.SearchP50 = p50.String()
	}
	if err := a.Session.LoadError(); err != nil {
		s.LoadError = err.Error()
	}
	a.reloadMu.Lock()
	if a.reloadErr != nil {
		s.ReloadError = a.reloadErr.Error()
	}
	a.reloadMu.Unlock()
	return s
}

// Close stops the catalog watcher and closes the store.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Stop())
	}
	if c, ok := a.cfg.Store.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
