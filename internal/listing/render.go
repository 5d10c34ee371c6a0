package listing

import (
	"github.com/julianbeese/luxury_estate/internal/domain"
	"github.com/julianbeese/luxury_estate/internal/filter"
	"github.com/julianbeese/luxury_estate/internal/paging"
)

// Render computes a view without keeping any state. Page numbers past the
// last page yield an empty page; page numbers below 1 are rejected.
func Render(cat Catalog, engine *filter.Engine, pager *paging.Paginator, c domain.Criteria, page int) (View, error) {
	if err := c.Validate(); err != nil {
		return View{}, err
	}

	filtered := engine.FilterProperties(cat.Properties(), c)
	total := pager.TotalPages(len(filtered))
	// Only the lower bound is an error; pages past the end render empty.
	if err := paging.CheckPage(page, total); err != nil && page < 1 {
		return View{}, domain.ValidationError{Field: "page", Msg: "must be 1 or greater", Err: err}
	}

	p := paging.Paginate(pager, filtered, page)
	return View{
		Criteria: c,
		Page:     p,
		Nav:      paging.Window(page, p.TotalPages),
	}, nil
}
