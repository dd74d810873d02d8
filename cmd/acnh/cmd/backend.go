package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/corey/acnh/internal/adapters/web"
	"github.com/corey/acnh/internal/app"
	"github.com/corey/acnh/internal/config"
	"github.com/corey/acnh/internal/domain/catalog"
	"github.com/corey/acnh/internal/domain/selection"
	"github.com/corey/acnh/internal/logging"
)

// listKind names one of the two persisted selections.
type listKind string

const (
	wishlistList listKind = "wishlist"
	catalogList  listKind = "catalog"
)

type listOp int

const (
	opAdd listOp = iota
	opRemove
	opReset
)

// backend is what commands run against: the local store, or a running
// `acnh serve` that holds the store lock.
type backend interface {
	Search(query string, categories []string) (*web.SearchResult, error)
	State(categories []string) (*web.StateResult, error)
	Mutate(list listKind, op listOp, id string) (*web.StateResult, error)
	// Transient applies a query or filter action and returns the state it
	// produced. Nothing is persisted.
	Transient(a selection.Action) (selection.State, error)
	Describe() string
	Close() error
}

// openBackend resolves config and returns a backend. When a server is
// running for this project, commands go through it unless requireLocal.
func openBackend(requireLocal bool) (backend, *config.Config, error) {
	root := projectRoot()
	cfg, err := config.Load(root, flagConfig)
	if err != nil {
		return nil, nil, err
	}
	paths := config.NewPaths(root)

	if !requireLocal {
		if addr, ok := runningServer(paths); ok {
			return &remoteBackend{client: web.NewClient(addr), addr: addr}, cfg, nil
		}
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	a, err := openApp(cfg, paths, logger)
	if err != nil {
		return nil, nil, err
	}
	return &localBackend{app: a, cfg: cfg}, cfg, nil
}

// openApp opens storage, loads the catalog and initializes the session.
// A failed state load is reported on stderr and is not fatal.
func openApp(cfg *config.Config, paths *config.Paths, logger *zap.Logger) (*app.App, error) {
	store, err := app.OpenStore(cfg.Storage)
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("cannot open storage: %s", diagnoseDBLock(paths))
		}
		return nil, fmt.Errorf("open storage: %w", err)
	}

	a, err := app.New(app.Config{
		CatalogPath:    cfg.Catalog.Path,
		StorageKey:     cfg.Storage.Key,
		Store:          store,
		Backend:        cfg.Storage.Backend,
		HighlightOpen:  cfg.Search.HighlightOpen,
		HighlightClose: cfg.Search.HighlightClose,
		Logger:         logger,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	if err := a.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "%swarning:%s saved selection could not be loaded (%v)\n"+
			"  → starting empty; the unreadable data was copied to %s%s\n",
			colorYellow, colorReset, err, cfg.Storage.Key, selection.BackupSuffix)
	}
	return a, nil
}

// runningServer returns the address of a live `acnh serve` for this project.
func runningServer(paths *config.Paths) (string, bool) {
	data, err := os.ReadFile(paths.PortFile)
	if err != nil {
		return "", false
	}
	addr := string(data)
	if !web.NewClient(addr).Ping() {
		return "", false
	}
	return addr, true
}

// localBackend runs commands in-process against the store.
type localBackend struct {
	app *app.App
	cfg *config.Config
}

func (l *localBackend) Search(query string, categories []string) (*web.SearchResult, error) {
	filters := catalog.NewCategorySet(categories...)
	hits := web.Annotate(l.app.Search(query, filters), l.app.Snapshot())
	return &web.SearchResult{
		Query:   query,
		Filters: filters.Sorted(),
		Count:   len(hits),
		Results: hits,
	}, nil
}

func (l *localBackend) State(categories []string) (*web.StateResult, error) {
	st := web.NewStateResult(l.app.Catalog(), l.app.Snapshot(), catalog.NewCategorySet(categories...))
	return &st, nil
}

func (l *localBackend) Mutate(list listKind, op listOp, id string) (*web.StateResult, error) {
	if op == opAdd {
		if _, ok := l.app.Catalog().Lookup(catalog.ID(id)); !ok {
			return nil, fmt.Errorf("unknown item %s", id)
		}
	}
	action, err := mutationAction(list, op, id)
	if err != nil {
		return nil, err
	}
	st, err := l.app.Dispatch(context.Background(), action)
	if err != nil && !errors.Is(err, app.ErrFlush) {
		return nil, err
	}
	res := web.NewStateResult(l.app.Catalog(), st, nil)
	return &res, err
}

func (l *localBackend) Transient(a selection.Action) (selection.State, error) {
	if a == nil || a.Persistent() {
		return l.app.Snapshot(), fmt.Errorf("%w: %T", selection.ErrUnknownAction, a)
	}
	return l.app.Dispatch(context.Background(), a)
}

func (l *localBackend) Describe() string {
	return fmt.Sprintf("local (%s %s)", l.cfg.Storage.Backend, l.cfg.Storage.Path)
}

func (l *localBackend) Close() error {
	return l.app.Close()
}

func mutationAction(list listKind, op listOp, id string) (selection.Action, error) {
	cid := catalog.ID(id)
	switch {
	case list == wishlistList && op == opAdd:
		return selection.AddToWishlist{ID: cid}, nil
	case list == wishlistList && op == opRemove:
		return selection.RemoveFromWishlist{ID: cid}, nil
	case list == wishlistList && op == opReset:
		return selection.ResetWishlist{}, nil
	case list == catalogList && op == opAdd:
		return selection.AddToCatalog{ID: cid}, nil
	case list == catalogList && op == opRemove:
		return selection.RemoveFromCatalog{ID: cid}, nil
	case list == catalogList && op == opReset:
		return selection.ResetCatalog{}, nil
	}
	return nil, fmt.Errorf("unsupported %s operation", list)
}

// remoteBackend forwards commands to a running server. Query and filter
// state stays on this side in view.
type remoteBackend struct {
	client *web.Client
	addr   string
	view   selection.State
}

func (r *remoteBackend) Search(query string, categories []string) (*web.SearchResult, error) {
	return r.client.Search(query, categories)
}

func (r *remoteBackend) State(categories []string) (*web.StateResult, error) {
	return r.client.State(categories)
}

func (r *remoteBackend) Mutate(list listKind, op listOp, id string) (*web.StateResult, error) {
	switch op {
	case opAdd:
		return r.client.Mutate(http.MethodPost, string(list), id)
	case opRemove:
		return r.client.Mutate(http.MethodDelete, string(list), id)
	default:
		return r.client.Mutate(http.MethodDelete, string(list), "")
	}
}

func (r *remoteBackend) Transient(a selection.Action) (selection.State, error) {
	if a == nil || a.Persistent() {
		return r.view.Clone(), fmt.Errorf("%w: %T", selection.ErrUnknownAction, a)
	}
	next, err := selection.Reduce(r.view, a)
	if err != nil {
		return r.view.Clone(), err
	}
	r.view = next
	return next.Clone(), nil
}

func (r *remoteBackend) Describe() string {
	return "server at " + r.addr
}

func (r *remoteBackend) Close() error { return nil }

// elapsedSince formats a duration the way the search header shows it.
func elapsedSince(start time.Time) string {
	d := time.Since(start)
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
}
