// Package catalog holds the read-only property and tour catalog.
//
// A Catalog is built once at startup and never mutated; accessors return
// copies so callers cannot alter shared state.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/julianbeese/luxury_estate/internal/domain"
	"github.com/julianbeese/luxury_estate/internal/pricing"
)

// Catalog is an immutable, ordered collection of properties and tours
type Catalog struct {
	properties []domain.Property
	byID       map[int]int
	tours      []domain.Tour
	toursByID  map[int]int
}

// New validates and copies the given records
func New(properties []domain.Property, tours []domain.Tour) (*Catalog, error) {
	c := &Catalog{
		properties: make([]domain.Property, len(properties)),
		byID:       make(map[int]int, len(properties)),
		tours:      make([]domain.Tour, len(tours)),
		toursByID:  make(map[int]int, len(tours)),
	}

	for i, p := range properties {
		if p.ID <= 0 {
			return nil, fmt.Errorf("property %q: id must be positive, got %d", p.Name, p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("property %d: duplicate id", p.ID)
		}
		if len(p.Images) == 0 {
			return nil, fmt.Errorf("property %d: at least one image required", p.ID)
		}
		if _, err := pricing.Parse(p.Price); err != nil {
			return nil, fmt.Errorf("property %d: %w", p.ID, err)
		}
		c.properties[i] = cloneProperty(p)
		c.byID[p.ID] = i
	}

	for i, t := range tours {
		if t.ID <= 0 {
			return nil, fmt.Errorf("tour %q: id must be positive, got %d", t.Name, t.ID)
		}
		if _, dup := c.toursByID[t.ID]; dup {
			return nil, fmt.Errorf("tour %d: duplicate id", t.ID)
		}
		t.Features = append([]string(nil), t.Features...)
		c.tours[i] = t
		c.toursByID[t.ID] = i
	}

	return c, nil
}

// Len returns the number of properties
func (c *Catalog) Len() int { return len(c.properties) }

// Properties returns all properties in catalog order
func (c *Catalog) Properties() []domain.Property {
	out := make([]domain.Property, len(c.properties))
	for i, p := range c.properties {
		out[i] = cloneProperty(p)
	}
	return out
}

// Property looks up a property by id
func (c *Catalog) Property(id int) (domain.Property, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Property{}, domain.NotFoundError{Resource: "property", ID: id}
	}
	return cloneProperty(c.properties[i]), nil
}

// PriceSpan returns the lowest and highest asking price, formatted for
// display. Both are empty for an empty catalog.
func (c *Catalog) PriceSpan() (lowest, highest string) {
	if len(c.properties) == 0 {
		return "", ""
	}
	var lo, hi decimal.Decimal
	for i, p := range c.properties {
		d, _ := pricing.Parse(p.Price) // checked in New
		if i == 0 || d.LessThan(lo) {
			lo = d
		}
		if i == 0 || d.GreaterThan(hi) {
			hi = d
		}
	}
	return pricing.Format(lo), pricing.Format(hi)
}

// Tours returns all tours in catalog order
func (c *Catalog) Tours() []domain.Tour {
	out := make([]domain.Tour, len(c.tours))
	for i, t := range c.tours {
		t.Features = append([]string(nil), t.Features...)
		out[i] = t
	}
	return out
}

// Tour looks up a tour by id
func (c *Catalog) Tour(id int) (domain.Tour, error) {
	i, ok := c.toursByID[id]
	if !ok {
		return domain.Tour{}, domain.NotFoundError{Resource: "tour", ID: id}
	}
	t := c.tours[i]
	t.Features = append([]string(nil), t.Features...)
	return t, nil
}

func cloneProperty(p domain.Property) domain.Property {
	p.Images = append([]string(nil), p.Images...)
	p.Features = append([]string(nil), p.Features...)
	return p
}
