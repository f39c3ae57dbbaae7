package dashboard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntdash/internal/backend"
	"huntdash/internal/dashboard"
	"huntdash/internal/model"
	"huntdash/internal/present"
	"huntdash/internal/testutil"
)

type fakeBackend struct {
	scan      model.ScanResponse
	tasks     model.TaskResponse
	scheduler model.SchedulerStatus
	scanNow   model.ScanNowResult
	cleared   model.ClearCacheResult
	err       error

	lastScan  backend.ScanParams
	lastTasks backend.TaskParams
}

func (f *fakeBackend) Scan(_ context.Context, p backend.ScanParams) (model.ScanResponse, error) {
	f.lastScan = p
	return f.scan, f.err
}
func (f *fakeBackend) Tasks(_ context.Context, p backend.TaskParams) (model.TaskResponse, error) {
	f.lastTasks = p
	return f.tasks, f.err
}
func (f *fakeBackend) StartScheduler(context.Context) (model.SchedulerStatus, error) {
	return f.scheduler, f.err
}
func (f *fakeBackend) StopScheduler(context.Context) (model.SchedulerStatus, error) {
	return f.scheduler, f.err
}
func (f *fakeBackend) ScanNow(context.Context) (model.ScanNowResult, error) { return f.scanNow, f.err }
func (f *fakeBackend) ClearCache(context.Context) (model.ClearCacheResult, error) {
	return f.cleared, f.err
}
func (f *fakeBackend) Health(context.Context) (model.HealthStatus, error) {
	return model.HealthStatus{Status: "ok"}, f.err
}

func setup(b *fakeBackend) (*dashboard.Orchestrator, *testutil.Surface) {
	sf := testutil.NewSurface()
	st := dashboard.NewState(sf)
	return dashboard.NewOrchestrator(st, b), sf
}

func threePosts() model.ScanResponse {
	posts := []model.Post{
		{Title: "one", Category: model.ProductNeed, Confidence: 0.9},
		{Title: "two", Category: model.Unclear, Confidence: 0.1},
		{Title: "three", Category: model.ProductNeed, Confidence: 0.5},
	}
	return model.ScanResponse{Posts: posts, Stats: model.CountStats(posts)}
}

func postTitles(r *present.Results) []string {
	out := make([]string, 0, len(r.Posts))
	for _, p := range r.Posts {
		out = append(out, p.Title)
	}
	return out
}

func TestScanThenFilter(t *testing.T) {
	o, sf := setup(&fakeBackend{scan: threePosts()})
	st := o.State()

	_, err := o.Run(context.Background(), dashboard.ScanRequest(backend.ScanParams{Subreddit: "SideProject"}))
	require.NoError(t, err)

	require.NotNil(t, sf.Stats)
	assert.Equal(t, 2, sf.Stats.ProductNeeds)
	assert.Equal(t, 1, sf.Stats.Unclear)
	assert.Equal(t, 3, sf.Stats.Total)
	assert.True(t, sf.StatsVisible[model.ModeDemand])

	require.NoError(t, st.Filter(string(model.ProductNeed)))
	require.NotNil(t, sf.Results)
	assert.Equal(t, []string{"one", "three"}, postTitles(sf.Results))
	assert.Equal(t, string(model.ProductNeed), sf.ActiveFilter[model.ModeDemand])

	require.NoError(t, st.Filter(model.FilterAll))
	assert.Equal(t, []string{"one", "two", "three"}, postTitles(sf.Results))
	require.NoError(t, st.Filter(model.FilterAll))
	assert.Equal(t, []string{"one", "two", "three"}, postTitles(sf.Results))
	assert.Equal(t, 3, st.Demand.Len())
}

func TestFilterEmptyRendersPlaceholder(t *testing.T) {
	o, sf := setup(&fakeBackend{scan: threePosts()})
	_, err := o.Run(context.Background(), dashboard.ScanRequest(backend.ScanParams{}))
	require.NoError(t, err)

	require.NoError(t, o.State().Filter(string(model.WorthLooking)))
	assert.Equal(t, present.NoDemandResults, sf.Results.Placeholder)

	require.NoError(t, o.State().SwitchMode(model.ModeTask))
	require.NoError(t, o.State().Filter(string(model.Danger)))
	assert.Equal(t, present.NoTaskResults, sf.Results.Placeholder)
}

func TestFilterRejectsOtherModeCategory(t *testing.T) {
	o, _ := setup(&fakeBackend{})
	assert.Error(t, o.State().Filter(string(model.SkillMatch)))
	assert.Equal(t, model.FilterAll, o.State().Criteria(model.ModeDemand).Category)
}

func TestSwitchModeKeepsFeeds(t *testing.T) {
	b := &fakeBackend{scan: threePosts(), tasks: model.TaskResponse{Posts: []model.TaskPost{{Title: "t", TaskCategory: model.SkillMatch}}}}
	o, sf := setup(b)
	st := o.State()
	ctx := context.Background()

	_, err := o.Run(ctx, dashboard.ScanRequest(backend.ScanParams{}))
	require.NoError(t, err)
	require.NoError(t, st.SwitchMode(model.ModeTask))
	assert.Nil(t, sf.Results)
	assert.Equal(t, model.ModeTask, sf.Mode)
	assert.False(t, sf.StatsVisible[model.ModeDemand])
	assert.False(t, sf.StatsVisible[model.ModeTask])

	_, err = o.Run(ctx, dashboard.TasksRequest(backend.TaskParams{Subreddits: "slavelabour"}))
	require.NoError(t, err)
	assert.Equal(t, model.ModeTask, sf.Results.Mode)

	require.NoError(t, st.SwitchMode(model.ModeDemand))
	require.NoError(t, st.SwitchMode(model.ModeTask))
	require.NoError(t, st.SwitchMode(model.ModeDemand))
	assert.Equal(t, model.ModeDemand, sf.Mode)
	assert.Nil(t, sf.Results)
	assert.Equal(t, 3, st.Demand.Len())
	assert.Equal(t, 1, st.Tasks.Len())

	assert.Error(t, st.SwitchMode("both"))
}

func TestNetworkErrorRestoresControl(t *testing.T) {
	o, sf := setup(&fakeBackend{err: errors.New("connection refused")})

	_, err := o.Run(context.Background(), dashboard.ScanRequest(backend.ScanParams{}))
	require.Error(t, err)

	require.NotNil(t, sf.Error)
	assert.Contains(t, sf.Error.Msg, "connection refused")
	assert.Equal(t, dashboard.BackendHint, sf.Error.Hint)
	assert.Equal(t, testutil.ControlView{Label: "Scan", Enabled: true}, sf.Controls[dashboard.ControlScan])
	assert.False(t, sf.Busy)
	assert.False(t, o.State().Demand.Loaded())
}

func TestFailedFetchKeepsPriorFeed(t *testing.T) {
	b := &fakeBackend{scan: threePosts()}
	o, _ := setup(b)
	ctx := context.Background()
	_, err := o.Run(ctx, dashboard.ScanRequest(backend.ScanParams{}))
	require.NoError(t, err)

	b.err = errors.New("timeout")
	_, err = o.Run(ctx, dashboard.ScanRequest(backend.ScanParams{}))
	require.Error(t, err)
	assert.Equal(t, 3, o.State().Demand.Len())
}

func TestControlLifecycle(t *testing.T) {
	o, sf := setup(&fakeBackend{scan: threePosts()})

	req, err := o.Start(dashboard.ScanRequest(backend.ScanParams{}))
	require.NoError(t, err)
	assert.Equal(t, testutil.ControlView{Label: "Scanning...", Enabled: false}, sf.Controls[dashboard.ControlScan])
	assert.True(t, sf.Busy)

	_, err = o.Start(dashboard.ScanRequest(backend.ScanParams{}))
	assert.ErrorIs(t, err, dashboard.ErrBusy)

	// other controls stay independent
	other, err := o.Start(dashboard.ControlRequest(dashboard.ControlSchedulerStart))
	require.NoError(t, err)

	assert.True(t, o.Finish(o.Execute(context.Background(), req)))
	assert.True(t, sf.Busy, "scheduler request still in flight")
	assert.Equal(t, testutil.ControlView{Label: "Scan", Enabled: true}, sf.Controls[dashboard.ControlScan])

	o.Finish(o.Execute(context.Background(), other))
	assert.False(t, sf.Busy)
}

func TestFinishDropsUnknownOutcome(t *testing.T) {
	o, sf := setup(&fakeBackend{scan: threePosts()})
	req, err := o.Start(dashboard.ScanRequest(backend.ScanParams{}))
	require.NoError(t, err)
	out := o.Execute(context.Background(), req)
	require.True(t, o.Finish(out))
	renders := sf.ResultRenders

	assert.False(t, o.Finish(out), "second delivery of the same outcome")
	assert.Equal(t, renders, sf.ResultRenders)
}

func TestStaleTaskFetchDoesNotOverwriteScanNow(t *testing.T) {
	b := &fakeBackend{
		tasks: model.TaskResponse{Posts: []model.TaskPost{{Title: "old-1"}, {Title: "old-2"}, {Title: "old-3"}}},
		scanNow: model.ScanNowResult{TotalScanned: 9, NewMatches: 1, Notified: true,
			Posts: []model.TaskPost{{Title: "fresh", TaskCategory: model.SkillMatch}}},
	}
	o, sf := setup(b)
	st := o.State()
	require.NoError(t, st.SwitchMode(model.ModeTask))
	ctx := context.Background()

	slow, err := o.Start(dashboard.TasksRequest(backend.TaskParams{}))
	require.NoError(t, err)
	slowOut := o.Execute(ctx, slow)

	_, err = o.Run(ctx, dashboard.ControlRequest(dashboard.ControlNotify))
	require.NoError(t, err)

	assert.False(t, o.Finish(slowOut))
	assert.Greater(t, st.Tasks.Generation(), slow.Gen)
	snap := st.Tasks.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "fresh", snap[0].Title)
	assert.Equal(t, testutil.ControlView{Label: "Hunt Tasks", Enabled: true}, sf.Controls[dashboard.ControlTasks])
}

func TestCompletedFetchKeepsActiveFilter(t *testing.T) {
	o, sf := setup(&fakeBackend{scan: threePosts()})
	st := o.State()
	require.NoError(t, st.Filter(string(model.Unclear)))

	_, err := o.Run(context.Background(), dashboard.ScanRequest(backend.ScanParams{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"two"}, postTitles(sf.Results))
}

func TestScanNowAndNotify(t *testing.T) {
	posts := []model.TaskPost{
		{Title: "a", TaskCategory: model.SkillMatch, FreshnessMinutes: 5},
		{Title: "b", TaskCategory: model.Danger, FreshnessMinutes: 400},
	}
	o, sf := setup(&fakeBackend{scanNow: model.ScanNowResult{TotalScanned: 50, NewMatches: 2, Notified: true, Posts: posts}})
	require.NoError(t, o.State().SwitchMode(model.ModeTask))

	_, err := o.Run(context.Background(), dashboard.ControlRequest(dashboard.ControlNotify))
	require.NoError(t, err)

	n := sf.LastNotice()
	assert.Contains(t, n, "50")
	assert.Contains(t, n, "2")
	assert.Contains(t, n, "Telegram notification sent!")

	assert.Equal(t, 2, o.State().Tasks.Len())
	require.NotNil(t, sf.TaskStats)
	assert.Equal(t, model.TaskStats{SkillMatch: 1, Total: 2}, *sf.TaskStats)

	require.NotNil(t, sf.Results)
	require.Len(t, sf.Results.Tasks, 2)
	assert.Equal(t, present.FreshUrgent, sf.Results.Tasks[0].Freshness)
	assert.Equal(t, present.FreshStale, sf.Results.Tasks[1].Freshness)
	assert.Equal(t, testutil.ControlView{Label: "Scan & Notify", Enabled: true}, sf.Controls[dashboard.ControlNotify])
}

func TestScanNowWithoutPostsKeepsFeed(t *testing.T) {
	b := &fakeBackend{
		tasks:   model.TaskResponse{Posts: []model.TaskPost{{Title: "kept"}}},
		scanNow: model.ScanNowResult{TotalScanned: 12, NewMatches: 0},
	}
	o, sf := setup(b)
	ctx := context.Background()
	_, err := o.Run(ctx, dashboard.TasksRequest(backend.TaskParams{}))
	require.NoError(t, err)
	_, err = o.Run(ctx, dashboard.ControlRequest(dashboard.ControlNotify))
	require.NoError(t, err)

	assert.Equal(t, "Scanned 12 posts. Found 0 new matches.", sf.LastNotice())
	assert.Equal(t, 1, o.State().Tasks.Len())
}

func TestScanNowSummary(t *testing.T) {
	assert.Equal(t, "Scanned 3 posts. Found 1 new matches. (Telegram not configured)",
		dashboard.ScanNowSummary(model.ScanNowResult{TotalScanned: 3, NewMatches: 1}))
}

func TestSchedulerNotices(t *testing.T) {
	interval := 30
	b := &fakeBackend{scheduler: model.SchedulerStatus{Status: "started", IntervalMinutes: &interval}}
	o, sf := setup(b)
	ctx := context.Background()

	_, err := o.Run(ctx, dashboard.ControlRequest(dashboard.ControlSchedulerStart))
	require.NoError(t, err)
	assert.Equal(t, "Auto-scan started. Interval: 30 minutes.", sf.LastNotice())

	b.scheduler = model.SchedulerStatus{Status: "already_running"}
	_, err = o.Run(ctx, dashboard.ControlRequest(dashboard.ControlSchedulerStart))
	require.NoError(t, err)
	assert.Equal(t, "Auto-scan already_running. Interval: ? minutes.", sf.LastNotice())

	b.scheduler = model.SchedulerStatus{Status: "stopped"}
	_, err = o.Run(ctx, dashboard.ControlRequest(dashboard.ControlSchedulerStop))
	require.NoError(t, err)
	assert.Equal(t, "Auto-scan stopped.", sf.LastNotice())

	b.err = errors.New("boom")
	_, err = o.Run(ctx, dashboard.ControlRequest(dashboard.ControlSchedulerStop))
	require.Error(t, err)
	assert.Equal(t, "Failed to stop scheduler: boom", sf.LastNotice())
	assert.Nil(t, sf.Error, "scheduler failures never touch the result area")
}

func TestClearCacheAndHealth(t *testing.T) {
	o, sf := setup(&fakeBackend{cleared: model.ClearCacheResult{Status: "cleared", Removed: 4}})
	ctx := context.Background()
	_, err := o.Run(ctx, dashboard.ControlRequest(dashboard.ControlClearCache))
	require.NoError(t, err)
	assert.Equal(t, "Notification cache cleared (4 removed).", sf.LastNotice())

	_, err = o.Run(ctx, dashboard.ControlRequest(dashboard.ControlHealth))
	require.NoError(t, err)
	assert.Equal(t, "Backend ok", sf.Statuses[len(sf.Statuses)-1])
}

func TestIngest(t *testing.T) {
	o, sf := setup(&fakeBackend{})
	ok := o.Ingest(model.ScanNowResult{TotalScanned: 4, NewMatches: 1, Notified: true,
		Posts: []model.TaskPost{{Title: "w", TaskCategory: model.MaybeMatch}}})
	assert.True(t, ok)
	assert.Equal(t, 1, o.State().Tasks.Len())
	assert.Contains(t, sf.Statuses[0], "Scanned 4 posts.")
	assert.Empty(t, sf.Notices)
}

func TestRefineQuery(t *testing.T) {
	o, sf := setup(&fakeBackend{scan: threePosts()})
	_, err := o.Run(context.Background(), dashboard.ScanRequest(backend.ScanParams{}))
	require.NoError(t, err)
	st := o.State()

	require.NoError(t, st.Refine("", "confidence >= 0.5"))
	assert.Equal(t, []string{"one", "three"}, postTitles(sf.Results))

	assert.Error(t, st.Refine("", "confidence >="))
	assert.Equal(t, "confidence >= 0.5", st.Criteria(model.ModeDemand).Expr)

	require.NoError(t, st.Refine("thr", ""))
	assert.Equal(t, []string{"three"}, postTitles(sf.Results))
	assert.Len(t, st.VisiblePosts(), 1)
}

func TestParamsReachBackend(t *testing.T) {
	b := &fakeBackend{}
	o, _ := setup(b)
	_, _ = o.Run(context.Background(), dashboard.TasksRequest(backend.TaskParams{Subreddits: "forhire", TimeFilter: "day", Limit: 10}))
	assert.Equal(t, backend.TaskParams{Subreddits: "forhire", TimeFilter: "day", Limit: 10}, b.lastTasks)
}
