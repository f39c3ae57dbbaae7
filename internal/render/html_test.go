package render

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntdash/internal/backend"
	"huntdash/internal/dashboard"
	"huntdash/internal/mockapi"
	"huntdash/internal/model"
	"huntdash/internal/present"
)

func render(t *testing.T, p *Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	return buf.String()
}

func TestScriptTitleRendersAsText(t *testing.T) {
	p := NewPage("huntdash")
	p.RenderResults(present.DemandResults([]model.Post{{
		Title:    `<script>alert("x")</script>`,
		Text:     `<img src=x onerror=alert(1)>`,
		URL:      "javascript:alert(1)",
		Category: model.ProductNeed,
	}}))
	out := render(t, p)
	assert.NotContains(t, out, "<script>alert")
	assert.NotContains(t, out, "<img src=x")
	assert.Contains(t, out, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
	assert.NotContains(t, out, `href="javascript:`)
}

func TestPlaceholderAndError(t *testing.T) {
	p := NewPage("huntdash")
	p.RenderResults(present.TaskResults(nil))
	assert.Contains(t, render(t, p), present.NoTaskResults)

	p.RenderError("Request failed: dial tcp: connection refused", dashboard.BackendHint)
	out := render(t, p)
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, dashboard.BackendHint)
	assert.NotContains(t, out, present.NoTaskResults)
}

func TestFullScanAgainstMock(t *testing.T) {
	ts := httptest.NewServer(mockapi.New(mockapi.Options{}))
	defer ts.Close()
	c, err := backend.New(backend.Options{BaseURL: ts.URL})
	require.NoError(t, err)

	p := NewPage("huntdash")
	st := dashboard.NewState(p)
	o := dashboard.NewOrchestrator(st, c)
	require.NoError(t, st.SwitchMode(model.ModeDemand))
	_, err = o.Run(context.Background(), dashboard.ScanRequest(backend.ScanParams{Subreddit: "SideProject", Limit: 50}))
	require.NoError(t, err)
	require.NoError(t, st.Filter(string(model.PersonalIssue)))

	out := render(t, p)
	assert.Contains(t, out, "Help me fix my laptop")
	assert.NotContains(t, out, "bookmark manager", "filtered out")
	assert.Contains(t, out, `class="tab active" data-category="personal_issue"`)
	assert.Contains(t, out, "Product Needs")
	assert.Equal(t, 1, strings.Count(out, `class="tab active" data-mode=`))
}

func TestTaskCardsCarryTiers(t *testing.T) {
	b := 40.0
	p := NewPage("huntdash")
	p.ShowMode(model.ModeTask)
	p.RenderResults(present.TaskResults([]model.TaskPost{{
		Title: "[TASK] scrape", Subreddit: "slavelabour", Author: "bob", Budget: &b,
		TaskCategory: model.SkillMatch, Confidence: 0.9, FreshnessMinutes: 5, FreshnessLabel: "5m ago",
	}}))
	out := render(t, p)
	assert.Contains(t, out, `class="fresh-urgent"`)
	assert.Contains(t, out, "conf-fill conf-high")
	assert.Contains(t, out, "$40")
	assert.Contains(t, out, "u/bob")
}
