package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/corey/acnh/internal/domain/catalog"
	"github.com/corey/acnh/internal/domain/search"
	"github.com/corey/acnh/internal/domain/selection"
)

// HealthResult is the body of GET /api/health.
type HealthResult struct {
	Status         string `json:"status"`
	CatalogEntries int    `json:"catalogEntries"`
	Initialized    bool   `json:"initialized"`
	Uptime         string `json:"uptime"`
}

// Hit is a search result annotated with the caller's selection.
type Hit struct {
	search.Result
	Owned  bool `json:"owned"`
	Wished bool `json:"wished"`
}

// SearchResult is the body of GET /api/search.
type SearchResult struct {
	Query   string   `json:"query"`
	Filters []string `json:"filters"`
	Count   int      `json:"count"`
	Results []Hit    `json:"results"`
}

// StateResult is the body of GET /api/state and of every mutation.
type StateResult struct {
	Version      string          `json:"version"`
	MigratedFrom string          `json:"migratedFrom,omitempty"`
	Catalog      []catalog.ID    `json:"catalog"`
	Wishlist     []catalog.ID    `json:"wishlist"`
	Owned        []catalog.Entry `json:"owned"`
	Wished       []catalog.Entry `json:"wished"`
}

// ErrorResult is the body of every non-2xx JSON response.
type ErrorResult struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResult{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResult{
		Status:         "ok",
		CatalogEntries: s.backend.Catalog().Len(),
		Initialized:    s.backend.Snapshot().Initialized,
		Uptime:         time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Catalog().Categories())
}

// handleSearch serves GET /api/search?q=...&category=A&category=B.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	filters := catalog.NewCategorySet(q["category"]...)

	hits := Annotate(s.backend.Search(query, filters), s.backend.Snapshot())
	writeJSON(w, http.StatusOK, SearchResult{
		Query:   query,
		Filters: filters.Sorted(),
		Count:   len(hits),
		Results: hits,
	})
}

// Annotate marks each result with the selection it belongs to.
func Annotate(results []search.Result, st selection.State) []Hit {
	hits := make([]Hit, len(results))
	for i, res := range results {
		hits[i] = Hit{
			Result: res,
			Owned:  st.Catalog.Has(res.ID),
			Wished: st.Wishlist.Has(res.ID),
		}
	}
	return hits
}

// NewStateResult describes st against cat. Hydrated entries honor filters;
// the id lists do not.
func NewStateResult(cat *catalog.Catalog, st selection.State, filters catalog.CategorySet) StateResult {
	owned := st.Catalog.Sorted()
	wished := st.Wishlist.Sorted()
	return StateResult{
		Version:      st.Version,
		MigratedFrom: st.MigratedFrom,
		Catalog:      owned,
		Wishlist:     wished,
		Owned:        cat.Hydrate(owned, filters),
		Wished:       cat.Hydrate(wished, filters),
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stateResult(s.backend.Snapshot(), r))
}

func (s *Server) stateResult(st selection.State, r *http.Request) StateResult {
	return NewStateResult(s.backend.Catalog(), st, catalog.NewCategorySet(r.URL.Query()["category"]...))
}

// dispatchHandler builds a mutation endpoint. build receives the {id} URL
// parameter ("" for routes without one). Ids that are not in the catalog are
// rejected so typos do not end up persisted.
func (s *Server) dispatchHandler(build func(id string) selection.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id != "" && r.Method == http.MethodPost {
			if _, ok := s.backend.Catalog().Lookup(catalog.ID(id)); !ok {
				writeError(w, http.StatusNotFound, "unknown item "+id)
				return
			}
		}

		st, err := s.backend.Dispatch(r.Context(), build(id))
		if err != nil {
			writeError(w, s.statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, s.stateResult(st, r))
	}
}

func (s *Server) statusFor(err error) int {
	if s.errorStatus != nil {
		if code := s.errorStatus(err); code != 0 {
			return code
		}
	}
	switch {
	case errors.Is(err, catalog.ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
