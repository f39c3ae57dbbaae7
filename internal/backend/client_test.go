package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntdash/internal/mockapi"
	"huntdash/internal/model"
	"huntdash/internal/parse"
)

func newMock(t *testing.T) (*Client, *mockapi.Server) {
	t.Helper()
	srv := mockapi.New(mockapi.Options{IntervalMinutes: 30, Notified: true})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	c, err := New(Options{BaseURL: ts.URL})
	require.NoError(t, err)
	return c, srv
}

func TestNewRejectsBadScheme(t *testing.T) {
	_, err := New(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	c, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestScanSendsTrimmedParams(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"posts":[],"stats":{"total":0,"product_needs":0,"personal_issues":0,"unclear":0}}`))
	}))
	defer ts.Close()
	c, err := New(Options{BaseURL: ts.URL + "/"})
	require.NoError(t, err)

	_, err = c.Scan(context.Background(), ScanParams{Subreddit: "  SideProject ", Keyword: " I wish ", TimeFilter: "week", Limit: 25})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/api/scan", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "SideProject", q.Get("subreddit"))
	assert.Equal(t, "I wish", q.Get("keyword"))
	assert.Equal(t, "25", q.Get("limit"))
	assert.Equal(t, "week", q.Get("time_filter"))
	assert.Contains(t, got.Header.Get("User-Agent"), "huntdash/")
}

func TestMockRoundTrip(t *testing.T) {
	c, srv := newMock(t)
	ctx := context.Background()

	scan, err := c.Scan(ctx, ScanParams{Subreddit: "SideProject", Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, model.CountStats(scan.Posts), scan.Stats)

	tasks, err := c.Tasks(ctx, TaskParams{Subreddits: "slavelabour", Limit: 50})
	require.NoError(t, err)
	require.NotEmpty(t, tasks.Posts)
	for _, p := range tasks.Posts {
		assert.Equal(t, "slavelabour", p.Subreddit)
	}

	st, err := c.StartScheduler(ctx)
	require.NoError(t, err)
	assert.Equal(t, "started", st.Status)
	assert.Equal(t, "30", st.IntervalLabel())
	assert.True(t, srv.Running())

	st, err = c.StopScheduler(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stopped", st.Status)
	assert.Equal(t, "?", st.IntervalLabel())

	first, err := c.ScanNow(ctx)
	require.NoError(t, err)
	assert.Greater(t, first.NewMatches, 0)
	assert.True(t, first.Notified)

	again, err := c.ScanNow(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.NewMatches)

	cleared, err := c.ClearCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.NewMatches, cleared.Removed)

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
}

func TestStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"reddit unavailable"}`, http.StatusBadGateway)
	}))
	defer ts.Close()
	c, err := New(Options{BaseURL: ts.URL})
	require.NoError(t, err)

	_, err = c.Scan(context.Background(), ScanParams{})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Contains(t, err.Error(), "HTTP 502")
	assert.Contains(t, err.Error(), "reddit unavailable")
}

func TestStatusErrorCutsBodyOnRunes(t *testing.T) {
	body := "a" + strings.Repeat("é", 250)
	e := &StatusError{Code: http.StatusInternalServerError, Body: body}
	msg := e.Error()
	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasSuffix(msg, "é..."))
	assert.Equal(t, "HTTP 500 Internal Server Error: a"+strings.Repeat("é", 199)+"...", msg)

	e = &StatusError{Code: http.StatusBadGateway, Body: "bad \xff byte"}
	assert.True(t, utf8.ValidString(e.Error()))
	assert.Contains(t, e.Error(), "bad \uFFFD byte")
}

func TestShapeErrorSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"stats":{}}`))
	}))
	defer ts.Close()
	c, err := New(Options{BaseURL: ts.URL})
	require.NoError(t, err)

	_, err = c.Tasks(context.Background(), TaskParams{})
	var se *parse.ShapeError
	assert.ErrorAs(t, err, &se)
}

func TestTransportErrorIsUnwrapped(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	c, err := New(Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Health(context.Background())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), url+"/api/health")
}

func TestCanceledContext(t *testing.T) {
	c, _ := newMock(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Scan(ctx, ScanParams{})
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
