package filter

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/julianbeese/luxury_estate/internal/domain"
	"github.com/julianbeese/luxury_estate/internal/pricing"
)

// Rejection reasons
const (
	ReasonWrongLocation    = "wrong_location"
	ReasonPriceOutOfRange  = "price_out_of_range"
	ReasonPriceUnparseable = "price_unparseable"
	ReasonWrongType        = "wrong_property_type"
	ReasonWrongBedrooms    = "wrong_bedrooms"
)

// Engine applies listing criteria to properties
type Engine struct {
	strict bool
	logger *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithStrict makes unparseable prices panic instead of failing the price filter
func WithStrict(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// WithLogger sets the logger used for malformed catalog data
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates a new filter engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FilterResult contains filtering outcome for a property
type FilterResult struct {
	Passed  bool
	Reasons []string // Reasons for filtering out
}

// Filter applies every active criterion to a property
func (e *Engine) Filter(p *domain.Property, c domain.Criteria) FilterResult {
	result := FilterResult{Passed: true}

	for _, matcher := range e.matchers(c) {
		if reason := matcher.Match(p); reason != "" {
			result.Passed = false
			result.Reasons = append(result.Reasons, reason)
		}
	}

	return result
}

// Matches reports whether a property satisfies all active criteria
func (e *Engine) Matches(p *domain.Property, c domain.Criteria) bool {
	for _, matcher := range e.matchers(c) {
		if matcher.Match(p) != "" {
			return false
		}
	}
	return true
}

// FilterProperties returns the matching properties in catalog order
func (e *Engine) FilterProperties(properties []domain.Property, c domain.Criteria) []domain.Property {
	matchers := e.matchers(c)
	filtered := make([]domain.Property, 0, len(properties))
	for i := range properties {
		if passes(matchers, &properties[i]) {
			filtered = append(filtered, properties[i])
		}
	}
	return filtered
}

func passes(matchers []Matcher, p *domain.Property) bool {
	for _, m := range matchers {
		if m.Match(p) != "" {
			return false
		}
	}
	return true
}

// matchers builds one matcher per non-empty criteria field
func (e *Engine) matchers(c domain.Criteria) []Matcher {
	var ms []Matcher
	if c.Location != "" {
		ms = append(ms, &LocationMatcher{City: cityName(c.Location)})
	}
	if c.PriceRange != "" {
		ms = append(ms, e.priceMatcher(c.PriceRange))
	}
	if c.PropertyType != "" {
		ms = append(ms, &PropertyTypeMatcher{Type: strings.ToLower(c.PropertyType)})
	}
	if c.Bedrooms != "" {
		ms = append(ms, bedroomsMatcher(c.Bedrooms))
	}
	return ms
}

func (e *Engine) priceMatcher(v string) Matcher {
	r, err := pricing.ParseRange(v)
	if err != nil {
		// Criteria are validated at the boundary; a bad range here is a caller bug.
		panic(fmt.Sprintf("filter: invalid price range %q: %v", v, err))
	}
	return &PriceMatcher{Range: r, strict: e.strict, logger: e.logger}
}

func bedroomsMatcher(v string) Matcher {
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("filter: invalid bedrooms %q: %v", v, err))
	}
	return &BedroomsMatcher{Count: n, AtLeast: n == domain.BedroomsThreshold}
}

func cityName(location string) string {
	if name, ok := domain.CityNames[location]; ok {
		return name
	}
	return strings.ToLower(strings.ReplaceAll(location, "-", " "))
}

// Matcher interface for individual filter criteria
type Matcher interface {
	Match(p *domain.Property) string // Returns empty string if passes, reason if filtered
}

// LocationMatcher requires the city name inside the property location
type LocationMatcher struct {
	City string
}

func (m *LocationMatcher) Match(p *domain.Property) string {
	if !strings.Contains(strings.ToLower(p.Location), m.City) {
		return ReasonWrongLocation
	}
	return ""
}

// PriceMatcher filters by an inclusive price range
type PriceMatcher struct {
	Range  pricing.Range
	strict bool
	logger *slog.Logger
}

func (m *PriceMatcher) Match(p *domain.Property) string {
	amount, err := pricing.Parse(p.Price)
	if err != nil {
		if m.strict {
			panic(fmt.Sprintf("filter: property %d: %v", p.ID, err))
		}
		if m.logger != nil {
			m.logger.Warn("excluding property with unparseable price", "id", p.ID, "price", p.Price, "error", err)
		}
		return ReasonPriceUnparseable
	}
	if !m.Range.Contains(amount) {
		return ReasonPriceOutOfRange
	}
	return ""
}

// PropertyTypeMatcher requires the type inside investmentDetails.propertyType
type PropertyTypeMatcher struct {
	Type string
}

func (m *PropertyTypeMatcher) Match(p *domain.Property) string {
	if !strings.Contains(strings.ToLower(p.InvestmentDetails.PropertyType), m.Type) {
		return ReasonWrongType
	}
	return ""
}

// BedroomsMatcher checks an exact count, or a minimum when AtLeast is set
type BedroomsMatcher struct {
	Count   int
	AtLeast bool
}

func (m *BedroomsMatcher) Match(p *domain.Property) string {
	if m.AtLeast {
		if p.Bedrooms < m.Count {
			return ReasonWrongBedrooms
		}
		return ""
	}
	if p.Bedrooms != m.Count {
		return ReasonWrongBedrooms
	}
	return ""
}
