package registry

import (
	"strings"

	"github.com/agentstation/modelreg/internal/matcher"
	"github.com/agentstation/modelreg/pkg/naming"
	"github.com/agentstation/modelreg/pkg/quant"
)

// Query narrows a model listing. Zero fields match everything. Family
// selects by registered family name and Strategy by naming strategy tag.
// Search is matched against the identifier as a substring, glob or regular
// expression (see matcher.Detect).
type Query struct {
	Family       string
	Strategy     string
	Org          string
	Quant        string
	Search       string
	OriginalOnly bool
	Limit        int
}

// Validate checks the fields that must name something known or compile.
func (q Query) Validate() error {
	_, err := q.Predicate()
	return err
}

// Predicate compiles q into a match function.
func (q Query) Predicate() (func(ModelInfo) bool, error) {
	var qt quant.Type
	if q.Quant != "" {
		t, err := quant.Parse(q.Quant)
		if err != nil {
			return nil, err
		}
		qt = t
	}
	var search *matcher.Matcher
	if q.Search != "" {
		m, err := matcher.New(q.Search, matcher.Auto)
		if err != nil {
			return nil, err
		}
		search = m
	}

	return func(m ModelInfo) bool {
		switch {
		case q.Family != "" && m.RegisteredFamily != q.Family:
			return false
		case q.Strategy != "" && m.Family != naming.Family(q.Strategy):
			return false
		case q.Org != "" && !strings.EqualFold(m.Org, q.Org):
			return false
		case q.Quant != "" && m.Quant != qt:
			return false
		case search != nil && !search.Match(m.Path()):
			return false
		case q.OriginalOnly && !m.Original:
			return false
		}
		return true
	}, nil
}

// Match reports whether m passes the query. An invalid query matches
// nothing.
func (q Query) Match(m ModelInfo) bool {
	keep, err := q.Predicate()
	return err == nil && keep(m)
}

// Select returns the models in r that match, in registration order and
// honoring Limit.
func (q Query) Select(r *Registry) ([]ModelInfo, error) {
	keep, err := q.Predicate()
	if err != nil {
		return nil, err
	}
	models := r.Filter(keep)
	if q.Limit > 0 && len(models) > q.Limit {
		models = models[:q.Limit]
	}
	return models, nil
}
