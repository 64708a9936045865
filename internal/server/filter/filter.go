// Package filter parses model listing query parameters and applies them.
package filter

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/registry"
)

// Paging bounds.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Sort fields accepted in the sort parameter.
var sortFields = map[string]func(a, b registry.ModelInfo) int{
	"id":     func(a, b registry.ModelInfo) int { return strings.Compare(a.Path(), b.Path()) },
	"family": func(a, b registry.ModelInfo) int { return strings.Compare(a.RegisteredFamily, b.RegisteredFamily) },
	"quant":  func(a, b registry.ModelInfo) int { return cmp.Compare(a.Quant, b.Quant) },
	"size":   func(a, b registry.ModelInfo) int { return cmp.Compare(sizeValue(a.Size), sizeValue(b.Size)) },
}

// ModelFilter holds the model listing parameters.
type ModelFilter struct {
	registry.Query

	Sort   string
	Order  string
	Limit  int
	Offset int
}

// Page is a filtered slice of models with the total before paging.
type Page struct {
	Models []registry.ModelInfo `json:"models"`
	Total  int                  `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
	Count  int                  `json:"count"`
}

// ParseModelFilter reads family, strategy, org, quant, search, original, sort, order,
// limit and offset from the request query.
func ParseModelFilter(r *http.Request) (ModelFilter, error) {
	q := r.URL.Query()

	f := ModelFilter{
		Query: registry.Query{
			Family:   q.Get("family"),
			Strategy: q.Get("strategy"),
			Org:      q.Get("org"),
			Quant:    q.Get("quant"),
			Search:   q.Get("search"),
		},
		Sort:  strings.ToLower(q.Get("sort")),
		Order: strings.ToLower(q.Get("order")),
	}

	var err error
	if f.OriginalOnly, err = parseBool(q.Get("original")); err != nil {
		return f, errors.NewValidationError("original", q.Get("original"), "must be a boolean")
	}
	if f.Limit, err = parseInt(q.Get("limit"), DefaultLimit); err != nil || f.Limit < 1 || f.Limit > MaxLimit {
		return f, errors.NewValidationError("limit", q.Get("limit"), "must be between 1 and "+strconv.Itoa(MaxLimit))
	}
	if f.Offset, err = parseInt(q.Get("offset"), 0); err != nil || f.Offset < 0 {
		return f, errors.NewValidationError("offset", q.Get("offset"), "must be a non-negative integer")
	}
	if _, ok := sortFields[f.Sort]; f.Sort != "" && !ok {
		return f, errors.NewValidationError("sort", f.Sort, "must be one of id, family, quant, size")
	}
	if f.Order != "" && f.Order != "asc" && f.Order != "desc" {
		return f, errors.NewValidationError("order", f.Order, "must be asc or desc")
	}
	return f, f.Validate()
}

// Apply filters, sorts and pages models. Without a sort field the
// registration order is kept.
func (f ModelFilter) Apply(models []registry.ModelInfo) Page {
	keep, err := f.Predicate()
	if err != nil {
		keep = func(registry.ModelInfo) bool { return false }
	}
	matched := make([]registry.ModelInfo, 0, len(models))
	for _, m := range models {
		if keep(m) {
			matched = append(matched, m)
		}
	}

	if compare, ok := sortFields[f.Sort]; ok {
		slices.SortStableFunc(matched, func(a, b registry.ModelInfo) int {
			if f.Order == "desc" {
				return compare(b, a)
			}
			return compare(a, b)
		})
	}

	page := Page{Total: len(matched), Limit: f.Limit, Offset: f.Offset}
	if f.Offset < len(matched) {
		end := len(matched)
		if f.Limit > 0 {
			end = min(f.Offset+f.Limit, end)
		}
		page.Models = matched[f.Offset:end]
	} else {
		page.Models = []registry.ModelInfo{}
	}
	page.Count = len(page.Models)
	return page
}

// sizeValue orders sizes numerically; unsized models sort first.
func sizeValue(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
