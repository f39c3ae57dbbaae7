package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntdash/internal/model"
)

func fakeOpenAI(t *testing.T, content string, calls *int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestExplainUsesCache(t *testing.T) {
	var calls int32
	ts := fakeOpenAI(t, `{"summary":"wants a bookmark tool","opportunity":"browser extension","risks":["crowded"],"nextStep":"reply"}`, &calls)
	c := NewOpenAIClient("sk-test", ts.URL+"/v1", "gpt-4o-mini", 5*time.Second).WithCache(NewCache(t.TempDir()))
	s := SubjectFromPost(model.Post{Title: "I wish", URL: "https://reddit.com/r/x/1", Category: model.ProductNeed, Confidence: 0.8})

	e, err := c.Explain(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "browser extension", e.Opportunity)
	assert.False(t, e.Cached)

	e, err = c.Explain(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, e.Cached)
	assert.Equal(t, []string{"crowded"}, e.Risks)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestExplainDisabled(t *testing.T) {
	c := NewOpenAIClient("", "", "m", 0)
	_, err := c.Explain(context.Background(), Subject{Title: "x"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestExplainBadJSON(t *testing.T) {
	var calls int32
	ts := fakeOpenAI(t, "not json", &calls)
	c := NewOpenAIClient("sk-test", ts.URL+"/v1", "m", 5*time.Second)
	_, err := c.Explain(context.Background(), Subject{Title: "x"})
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestPromptForTask(t *testing.T) {
	b := 30.0
	p := buildPrompt(SubjectFromTask(model.TaskPost{Title: "[TASK] scrape", TaskCategory: model.SkillMatch, Budget: &b}))
	assert.Contains(t, p, "request for paid work")
	assert.Contains(t, p, "Budget: $30")
	assert.Contains(t, p, "skill_match")
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
}

func TestCacheKeyByURL(t *testing.T) {
	a := SubjectFromPost(model.Post{URL: "u", Title: "a"})
	b := SubjectFromPost(model.Post{URL: "u", Title: "b"})
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), SubjectFromTask(model.TaskPost{URL: "u"}).Key())
}

func TestPromptRedactsContactDetails(t *testing.T) {
	p := buildPrompt(SubjectFromPost(model.Post{Title: "Need an app", Text: "DM me: bob@example.com"}))
	assert.NotContains(t, p, "bob@example.com")
	assert.Contains(t, p, "[redacted-email]")
}
