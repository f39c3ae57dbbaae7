package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntdash/internal/model"
)

func TestScanResponse(t *testing.T) {
	body := `{"stats":{"total":2,"product_needs":1,"personal_issues":0,"worth_looking":0,"unclear":1},
	"posts":[{"title":"I wish","url":"https://r/1","text":"x","score":3,"num_comments":1,"created":1700000000.5,
	"category":"product_need","confidence":0.8,"need_score":2,"personal_score":0},
	{"title":"meh","url":"https://r/2","text":"","score":0,"num_comments":0,"created":1700000000,
	"category":"unclear","confidence":0.1,"need_score":0,"personal_score":0}]}`
	r, err := Scan([]byte(body))
	require.NoError(t, err)
	require.Len(t, r.Posts, 2)
	assert.Equal(t, model.ProductNeed, r.Posts[0].Category)
	assert.Equal(t, 2, r.Stats.Total)
	assert.Equal(t, 1, r.Stats.Unclear)
}

func TestScanMissingPosts(t *testing.T) {
	_, err := Scan([]byte(`{"stats":{}}`))
	var se *ShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "posts", se.Field)
	assert.Contains(t, err.Error(), "an array")
}

func TestTasksNullPostsIsShapeError(t *testing.T) {
	_, err := Tasks([]byte(`{"posts":null,"stats":{}}`))
	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "tasks", se.Response)
}

func TestNotJSON(t *testing.T) {
	_, err := Scan([]byte(`<html>502 Bad Gateway</html>`))
	require.Error(t, err)
	var se *ShapeError
	assert.False(t, errors.As(err, &se))
	assert.Contains(t, err.Error(), "not a JSON object")
}

func TestSchedulerOptionalInterval(t *testing.T) {
	s, err := Scheduler([]byte(`{"status":"stopped"}`))
	require.NoError(t, err)
	assert.Equal(t, "stopped", s.Status)
	assert.Nil(t, s.IntervalMinutes)

	s, err = Scheduler([]byte(`{"status":"started","interval_minutes":30}`))
	require.NoError(t, err)
	require.NotNil(t, s.IntervalMinutes)
	assert.Equal(t, 30, *s.IntervalMinutes)

	_, err = Scheduler([]byte(`{"status":1}`))
	assert.Error(t, err)
}

func TestScanNow(t *testing.T) {
	r, err := ScanNow([]byte(`{"total_scanned":50,"new_matches":2,"notified":true,
	"posts":[{"title":"a","task_category":"skill_match","freshness_minutes":5},{"title":"b","task_category":"maybe_match","freshness_minutes":40}]}`))
	require.NoError(t, err)
	assert.Equal(t, 50, r.TotalScanned)
	assert.True(t, r.Notified)
	assert.Len(t, r.Posts, 2)

	r, err = ScanNow([]byte(`{"total_scanned":0,"new_matches":0,"notified":false}`))
	require.NoError(t, err)
	assert.Empty(t, r.Posts)

	_, err = ScanNow([]byte(`{"total_scanned":0,"new_matches":0,"notified":"yes"}`))
	assert.Error(t, err)
}

func TestClearCacheAndHealth(t *testing.T) {
	c, err := ClearCache([]byte(`{"status":"cleared","removed":4}`))
	require.NoError(t, err)
	assert.Equal(t, 4, c.Removed)

	h, err := Health([]byte(`{"status":"ok"}`))
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
}
