package listing

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianbeese/luxury_estate/internal/domain"
	"github.com/julianbeese/luxury_estate/internal/filter"
	"github.com/julianbeese/luxury_estate/internal/paging"
)

// Registry keeps listing sessions by id
type Registry struct {
	catalog Catalog
	engine  *filter.Engine
	pager   *paging.Paginator
	ttl     time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry. Sessions idle longer than ttl are
// removed by Sweep; a zero ttl keeps them until deleted.
func NewRegistry(cat Catalog, engine *filter.Engine, pager *paging.Paginator, ttl time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		catalog:  cat,
		engine:   engine,
		pager:    pager,
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session, optionally with initial criteria
func (r *Registry) Create(c domain.Criteria) (*Session, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s := NewSession(uuid.NewString(), r.catalog, r.engine, r.pager)
	if !c.IsZero() {
		if _, err := s.SetCriteria(c); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Debug("listing session created", "id", s.ID)
	return s, nil
}

// Get returns a session by id
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "session", ID: id}
	}
	return s, nil
}

// Delete removes a session
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return domain.NotFoundError{Resource: "session", ID: id}
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions idle since before now-ttl and returns how many
func (r *Registry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.IdleSince().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
