package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julianbeese/luxury_estate/internal/cache"
	"github.com/julianbeese/luxury_estate/internal/domain"
	"github.com/julianbeese/luxury_estate/internal/listing"
)

// ListingCachePrefix namespaces cached listing responses
const ListingCachePrefix = "listing"

func criteriaFromQuery(q url.Values) domain.Criteria {
	return domain.Criteria{
		Location:     q.Get("location"),
		PriceRange:   q.Get("priceRange"),
		PropertyType: q.Get("propertyType"),
		Bedrooms:     q.Get("bedrooms"),
	}
}

func pageFromQuery(q url.Values) (int, error) {
	raw := q.Get("page")
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationError{Field: "page", Msg: "must be an integer", Err: err}
	}
	return n, nil
}

// listProperties renders one page of the filtered catalog. Responses are
// cached by their normalized query.
func (s *Server) listProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := criteriaFromQuery(q)
	page, err := pageFromQuery(q)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	log := loggerFrom(r.Context(), s.logger)
	key := cache.Key(ListingCachePrefix, url.Values{
		"location":     {c.Location},
		"priceRange":   {c.PriceRange},
		"propertyType": {c.PropertyType},
		"bedrooms":     {c.Bedrooms},
		"page":         {strconv.Itoa(page)},
	})

	body, hit, err := s.deps.Cache.Get(r.Context(), key)
	if err != nil {
		log.Warn("listing cache read failed", "error", err)
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	view, err := listing.Render(s.deps.Catalog, s.deps.Engine, s.deps.Pager, c, page)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	body, err = json.Marshal(view)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	body = append(body, '\n')
	if err := s.deps.Cache.Set(r.Context(), key, body, s.deps.CacheTTL); err != nil {
		log.Warn("listing cache write failed", "error", err)
	}

	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) getProperty(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	p, err := s.deps.Catalog.Property(id)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type filterOptions struct {
	Locations     []domain.Option `json:"locations"`
	PriceRanges   []domain.Option `json:"priceRanges"`
	PropertyTypes []domain.Option `json:"propertyTypes"`
	Bedrooms      []domain.Option `json:"bedrooms"`
}

func (s *Server) filterOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, filterOptions{
		Locations:     domain.LocationOptions,
		PriceRanges:   domain.PriceRangeOptions,
		PropertyTypes: domain.PropertyTypeOptions,
		Bedrooms:      domain.BedroomOptions,
	})
}

func (s *Server) listTours(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tours": s.deps.Catalog.Tours()})
}

func (s *Server) getTour(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	t, err := s.deps.Catalog.Tour(id)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
