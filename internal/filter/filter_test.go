package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntdash/internal/model"
)

var posts = []model.Post{
	{Title: "A", Text: "bookmark manager", Category: model.ProductNeed, Confidence: 0.9},
	{Title: "B", Text: "laptop broken", Category: model.PersonalIssue, Confidence: 0.8},
	{Title: "C", Text: "invoice tool", Category: model.ProductNeed, Confidence: 0.5},
	{Title: "D", Text: "??", Category: model.Unclear, Confidence: 0.2},
}

func titles(ps []model.Post) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Title
	}
	return out
}

func byCategory[T Item](items []T, category string) []T {
	e, _ := NewEvaluator(Criteria{Category: category})
	return Apply(e, items)
}

func TestCategoryKeepsOrder(t *testing.T) {
	assert.Equal(t, []string{"A", "C"}, titles(byCategory(posts, string(model.ProductNeed))))
	assert.Equal(t, []string{"A", "B", "C", "D"}, titles(byCategory(posts, model.FilterAll)))
	assert.Empty(t, byCategory(posts, string(model.WorthLooking)))
	assert.Empty(t, byCategory(posts, "nonsense"))
}

func TestQueryAndRegex(t *testing.T) {
	e, err := NewEvaluator(Criteria{Query: "LAPTOP"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, titles(Apply(e, posts)))

	e, err = NewEvaluator(Criteria{Query: "/book|invoice/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, titles(Apply(e, posts)))

	_, err = NewEvaluator(Criteria{Query: "/(/"})
	assert.Error(t, err)
}

func TestExpr(t *testing.T) {
	e, err := NewEvaluator(Criteria{Category: string(model.ProductNeed), Expr: "confidence >= 0.7"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, titles(Apply(e, posts)))

	_, err = NewEvaluator(Criteria{Expr: "confidence >="})
	assert.Error(t, err)
}

func TestExprOverTasks(t *testing.T) {
	b := 50.0
	tasks := []model.TaskPost{
		{Title: "x", TaskCategory: model.SkillMatch, Budget: &b, FreshnessMinutes: 5},
		{Title: "y", TaskCategory: model.SkillMatch, FreshnessMinutes: 500},
	}
	e, err := NewEvaluator(Criteria{Expr: "budget > 20 && freshness_minutes < 60"})
	require.NoError(t, err)
	got := Apply(e, tasks)
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].Title)
}

func TestIsZero(t *testing.T) {
	assert.True(t, Criteria{}.IsZero())
	assert.True(t, Criteria{Category: model.FilterAll}.IsZero())
	assert.False(t, Criteria{Category: "danger"}.IsZero())
	assert.False(t, Criteria{Query: "x"}.IsZero())

	c := Criteria{Category: "danger", Expr: "score > 1"}
	e, err := NewEvaluator(c)
	require.NoError(t, err)
	assert.Equal(t, c, e.Criteria())
}
