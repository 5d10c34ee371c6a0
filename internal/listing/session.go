// Package listing holds the per-visitor state of the property listing:
// the selected criteria and the current page.
//
// Every transition is an explicit method call that returns the effects it
// produced, so the reset-to-first-page rule is visible and testable instead
// of hiding in a change listener.
package listing

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianbeese/luxury_estate/internal/domain"
	"github.com/julianbeese/luxury_estate/internal/filter"
	"github.com/julianbeese/luxury_estate/internal/paging"
)

// Effect is an advisory signal for the presentation layer
type Effect string

const (
	EffectResetPage   Effect = "reset_page"
	EffectScrollToTop Effect = "scroll_to_top"
)

// Navigation actions
const (
	ActionSelect = "select"
	ActionPrev   = "prev"
	ActionNext   = "next"
)

// Catalog is the read-only property source a session renders against
type Catalog interface {
	Properties() []domain.Property
}

// View is the rendered state of a session
type View struct {
	ID       string                       `json:"id,omitempty"`
	Criteria domain.Criteria              `json:"criteria"`
	Page     paging.Page[domain.Property] `json:"results"`
	Nav      paging.Nav                   `json:"nav"`
	Effects  []Effect                     `json:"effects,omitempty"`
}

// Session is the criteria/page state machine for one listing view
type Session struct {
	ID string

	catalog Catalog
	engine  *filter.Engine
	pager   *paging.Paginator
	now     func() time.Time

	mu       sync.Mutex
	criteria domain.Criteria
	page     int
	filtered []domain.Property
	lastUsed time.Time
}

// NewSession creates a session on page 1 with no criteria
func NewSession(id string, cat Catalog, engine *filter.Engine, pager *paging.Paginator) *Session {
	s := &Session{
		ID:      id,
		catalog: cat,
		engine:  engine,
		pager:   pager,
		now:     time.Now,
		page:    1,
	}
	s.filtered = engine.FilterProperties(cat.Properties(), domain.Criteria{})
	s.lastUsed = s.now()
	return s
}

// Criteria returns the active criteria
func (s *Session) Criteria() domain.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// CurrentPage returns the current 1-based page
func (s *Session) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// SetCriteria replaces the criteria. Any changed field resets the page to 1;
// identical criteria are a no-op.
func (s *Session) SetCriteria(c domain.Criteria) ([]Effect, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()

	if c == s.criteria {
		return nil, nil
	}
	s.criteria = c
	s.filtered = s.engine.FilterProperties(s.catalog.Properties(), c)
	s.page = 1
	return []Effect{EffectResetPage}, nil
}

// SelectPage jumps to page n, clamped to the available pages
func (s *Session) SelectPage(n int) []Effect {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()

	s.page = paging.ClampPage(n, s.totalPages())
	return []Effect{EffectScrollToTop}
}

// Prev moves back one page. It does nothing on the first page.
func (s *Session) Prev() []Effect {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()

	if s.page <= 1 {
		return nil
	}
	s.page--
	return []Effect{EffectScrollToTop}
}

// Next moves forward one page. It does nothing on the last page.
func (s *Session) Next() []Effect {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()

	if s.page >= s.totalPages() {
		return nil
	}
	s.page++
	return []Effect{EffectScrollToTop}
}

// Navigate dispatches a named navigation action
func (s *Session) Navigate(action string, page int) ([]Effect, error) {
	switch action {
	case ActionSelect:
		return s.SelectPage(page), nil
	case ActionPrev:
		return s.Prev(), nil
	case ActionNext:
		return s.Next(), nil
	default:
		return nil, domain.ValidationError{Field: "action", Msg: fmt.Sprintf("unknown action %q", action)}
	}
}

// View renders the current page and its navigation
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := paging.Paginate(s.pager, s.filtered, s.page)
	return View{
		ID:       s.ID,
		Criteria: s.criteria,
		Page:     page,
		Nav:      paging.Window(s.page, page.TotalPages),
	}
}

// IdleSince reports when the session was last used
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) totalPages() int {
	return s.pager.TotalPages(len(s.filtered))
}
