package client

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/fleveque/image-haven/internal/llm"
	"github.com/fleveque/image-haven/internal/model"
)

// InitialQuery is what the search box holds when a session starts.
const InitialQuery = "random"

// NoRecommendation is shown when the backend answered without usable text.
const NoRecommendation = "No recommendation available."

// ErrStaleResponse is returned when a response arrived after a newer request
// superseded it. The response was discarded; state reflects the newer request.
var ErrStaleResponse = errors.New("stale response discarded")

// Phase is the controller's main-grid state.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSearching Phase = "searching" // fresh search in flight, grid will be replaced
	PhaseAppending Phase = "appending" // next page in flight, grid will grow
	PhaseError     Phase = "error"     // last main-grid fetch failed
)

// Backend is the subset of API the controller uses.
type Backend interface {
	Wallpapers(ctx context.Context, query string, page int) ([]model.Wallpaper, error)
	Recommend(ctx context.Context, seed string) (json.RawMessage, error)
}

// State is a snapshot of everything a view needs to render.
type State struct {
	Query          string // search box contents
	ActiveQuery    string // query the main grid shows
	Page           int
	Wallpapers     []model.Wallpaper
	Highlighted    []model.Wallpaper
	Loading        bool
	Phase          Phase
	History        []string
	Favorites      []string
	Recommendation string
	Active         *model.Wallpaper // open in the modal, nil when closed
}

// Controller owns one browsing session. All methods are safe for concurrent
// use. Overlapping requests are not cancelled; instead each fetch is tagged
// with a generation number and applied only if nothing newer was issued.
type Controller struct {
	backend Backend
	logger  *zap.Logger

	mu             sync.Mutex
	query          string
	activeQuery    string
	page           int
	wallpapers     []model.Wallpaper
	highlighted    []model.Wallpaper
	loading        bool
	phase          Phase
	history        []string
	favorites      []string
	recommendation string
	active         *model.Wallpaper

	gen          uint64 // main grid
	highlightGen uint64 // highlighted grid
}

// NewController creates a controller with the search box set to InitialQuery.
func NewController(backend Backend, logger *zap.Logger) *Controller {
	return &Controller{
		backend:     backend,
		logger:      logger,
		query:       InitialQuery,
		activeQuery: InitialQuery,
		page:        1,
		phase:       PhaseIdle,
	}
}

// SetQuery edits the search box. Nothing is fetched until Submit.
func (c *Controller) SetQuery(term string) {
	c.mu.Lock()
	c.query = term
	c.mu.Unlock()
}

// Load fetches the first page for the current search box without recording
// it in the history. It is what a session does on start.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	query, gen := c.beginSearch()
	c.mu.Unlock()

	return c.fetchMain(ctx, gen, query, 1, false)
}

// Submit records the query in the history, resets to page 1 and replaces the grid.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if !slices.Contains(c.history, c.query) {
		c.history = append(c.history, c.query)
	}
	query, gen := c.beginSearch()
	c.mu.Unlock()

	return c.fetchMain(ctx, gen, query, 1, false)
}

// beginSearch starts a page-1 fetch. Caller holds c.mu.
func (c *Controller) beginSearch() (string, uint64) {
	c.gen++
	c.activeQuery = c.query
	c.page = 1
	c.loading = true
	c.phase = PhaseSearching
	return c.activeQuery, c.gen
}

// LoadMore fetches the next page of the active query and appends it.
// It is a no-op while any main-grid fetch is in flight; the check and the
// loading flag are set under one lock so concurrent triggers can't both pass.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	gen := c.gen
	c.page++
	page := c.page
	query := c.activeQuery
	c.loading = true
	c.phase = PhaseAppending
	c.mu.Unlock()

	return c.fetchMain(ctx, gen, query, page, true)
}

func (c *Controller) fetchMain(ctx context.Context, gen uint64, query string, page int, appending bool) error {
	results, err := c.backend.Wallpapers(ctx, query, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || query != c.activeQuery || page != c.page {
		c.logger.Debug("discarding stale response",
			zap.String("query", query),
			zap.Int("page", page),
		)
		return ErrStaleResponse
	}

	c.loading = false
	if err != nil {
		c.logger.Error("fetching wallpapers",
			zap.String("query", query),
			zap.Int("page", page),
			zap.Error(err),
		)
		c.phase = PhaseError
		if appending {
			// Roll back so the next trigger asks for the same page again.
			c.page--
		}
		return err
	}

	c.phase = PhaseIdle
	if appending {
		c.wallpapers = append(c.wallpapers, results...)
	} else {
		c.wallpapers = results
	}
	return nil
}

// Suggest asks the backend for a new theme built from the search history
// (or the search box when the history is empty). When the answer carries a
// real theme, page 1 of that theme is fetched into the highlighted grid.
// It returns the recommendation text that was stored.
func (c *Controller) Suggest(ctx context.Context) (string, error) {
	c.mu.Lock()
	seed := c.query
	if len(c.history) > 0 {
		seed = strings.Join(c.history, ", ")
	}
	c.mu.Unlock()

	raw, err := c.backend.Recommend(ctx, seed)
	if err != nil {
		c.logger.Error("fetching recommendation", zap.String("seed", seed), zap.Error(err))
		return "", err
	}

	theme, ok := llm.FirstGeneration(raw)
	if !ok {
		theme = NoRecommendation
	}

	c.mu.Lock()
	c.recommendation = theme
	c.highlightGen++
	gen := c.highlightGen
	c.mu.Unlock()

	if !ok {
		return theme, nil
	}

	results, err := c.backend.Wallpapers(ctx, theme, 1)
	if err != nil {
		c.logger.Error("fetching highlighted wallpapers", zap.String("theme", theme), zap.Error(err))
		return theme, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.highlightGen {
		return theme, ErrStaleResponse
	}
	c.highlighted = results
	return theme, nil
}

// Open shows w in the modal.
func (c *Controller) Open(w model.Wallpaper) {
	c.mu.Lock()
	c.active = &w
	c.mu.Unlock()
}

// Close dismisses the modal.
func (c *Controller) Close() {
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
}

// ToggleFavorite adds or removes w's URL and reports whether it is now a favorite.
func (c *Controller) ToggleFavorite(w model.Wallpaper) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := slices.Index(c.favorites, w.URL); i >= 0 {
		c.favorites = slices.Delete(c.favorites, i, i+1)
		return false
	}
	c.favorites = append(c.favorites, w.URL)
	return true
}

// IsFavorite reports whether url is in the favorites set.
func (c *Controller) IsFavorite(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.favorites, url)
}

// State returns a copy of the current state; the caller may keep it.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Query:          c.query,
		ActiveQuery:    c.activeQuery,
		Page:           c.page,
		Wallpapers:     slices.Clone(c.wallpapers),
		Highlighted:    slices.Clone(c.highlighted),
		Loading:        c.loading,
		Phase:          c.phase,
		History:        slices.Clone(c.history),
		Favorites:      slices.Clone(c.favorites),
		Recommendation: c.recommendation,
	}
	if c.active != nil {
		w := *c.active
		s.Active = &w
	}
	return s
}
