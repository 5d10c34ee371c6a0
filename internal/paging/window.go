package paging

// Nav describes the navigation controls for one page of results
type Nav struct {
	Current int   `json:"current"`
	Total   int   `json:"total"`
	Pages   []int `json:"pages"`

	ShowFirst        bool `json:"showFirst"`
	LeadingEllipsis  bool `json:"leadingEllipsis"`
	ShowLast         bool `json:"showLast"`
	TrailingEllipsis bool `json:"trailingEllipsis"`

	PrevDisabled bool `json:"prevDisabled"`
	NextDisabled bool `json:"nextDisabled"`
}

// Window computes the page numbers and shortcut flags around current
func Window(current, total int) Nav {
	nav := Nav{
		Current:      current,
		Total:        total,
		Pages:        windowPages(current, total),
		PrevDisabled: current <= 1,
		NextDisabled: total == 0 || current >= total,
	}

	if total > WindowSize {
		nav.ShowFirst = current > WindowSize
		nav.LeadingEllipsis = current > WindowSize+1
		nav.ShowLast = current < total-2
		nav.TrailingEllipsis = current < total-3
	}
	return nav
}

func windowPages(current, total int) []int {
	var first int
	switch {
	case total <= WindowSize:
		return seq(1, total)
	case current <= 2:
		first = 1
	case current >= total-1:
		first = total - 2
	default:
		first = current - 1
	}
	return seq(first, first+WindowSize-1)
}

func seq(from, to int) []int {
	out := make([]int, 0, max(to-from+1, 0))
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
