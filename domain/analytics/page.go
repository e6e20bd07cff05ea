package analytics

import "sort"

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Page is one slice of an aggregated list for table display.
type Page struct {
	Groups  []Group `json:"groups"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
}

// Paginate slices groups for table display. Page numbers are 1-based;
// out-of-range pages return an empty slice with the bounds echoed back.
func Paginate(groups []Group, page, perPage int) Page {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(groups) {
		start = len(groups)
	}
	if end > len(groups) {
		end = len(groups)
	}

	return Page{
		Groups:  groups[start:end],
		Total:   len(groups),
		Page:    page,
		PerPage: perPage,
	}
}

// SortAscending re-orders groups by count ascending, for table sort toggles.
// GroupBy returns descending order; this is its inverse.
func SortAscending(groups []Group) []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count < out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
