// Package filter selects the subset of a feed shown in the result area.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"

	"huntdash/internal/model"
)

// Item is what a filter can look at. model.Post and model.TaskPost satisfy it.
type Item interface {
	CategoryOf() string
	SearchText() string
	Fields() map[string]any
}

type Criteria struct {
	Category string // model.FilterAll or "" keeps every category
	Query    string // plain case-insensitive contains, or a regex if written /.../
	Expr     string // govaluate expression over Item.Fields()
}

// IsZero reports whether c keeps every item.
func (c Criteria) IsZero() bool {
	return (c.Category == "" || c.Category == model.FilterAll) &&
		strings.TrimSpace(c.Query) == "" && strings.TrimSpace(c.Expr) == ""
}

type Evaluator struct {
	c    Criteria
	re   *regexp.Regexp
	q    string
	expr *govaluate.EvaluableExpression
}

func NewEvaluator(c Criteria) (*Evaluator, error) {
	e := &Evaluator{c: c}
	q := strings.TrimSpace(c.Query)
	if len(q) >= 2 && strings.HasPrefix(q, "/") && strings.HasSuffix(q, "/") {
		re, err := regexp.Compile("(?i)" + q[1:len(q)-1])
		if err != nil {
			return nil, fmt.Errorf("bad query regex: %w", err)
		}
		e.re = re
	} else {
		e.q = strings.ToLower(q)
	}
	if strings.TrimSpace(c.Expr) != "" {
		expr, err := govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, fmt.Errorf("bad filter expression: %w", err)
		}
		e.expr = expr
	}
	return e, nil
}

// Criteria returns the criteria e was built from.
func (e *Evaluator) Criteria() Criteria { return e.c }

func (e *Evaluator) Match(it Item) bool {
	if cat := e.c.Category; cat != "" && cat != model.FilterAll {
		if it.CategoryOf() != cat {
			return false
		}
	}
	if e.re != nil {
		if !e.re.MatchString(it.SearchText()) {
			return false
		}
	} else if e.q != "" {
		if !strings.Contains(strings.ToLower(it.SearchText()), e.q) {
			return false
		}
	}
	if e.expr != nil {
		result, err := e.expr.Evaluate(it.Fields())
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

// Apply returns the items e matches, preserving order.
func Apply[T Item](e *Evaluator, items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if e == nil || e.Match(it) {
			out = append(out, it)
		}
	}
	return out
}
