package dashboard

import (
	"context"
	"errors"
	"fmt"

	"huntdash/internal/backend"
	"huntdash/internal/model"
	"huntdash/internal/util/logx"
)

// Control identifies the affordance that triggers an operation. Each control
// has at most one request in flight.
type Control string

const (
	ControlScan           Control = "scan"
	ControlTasks          Control = "tasks"
	ControlNotify         Control = "notify"
	ControlSchedulerStart Control = "scheduler-start"
	ControlSchedulerStop  Control = "scheduler-stop"
	ControlClearCache     Control = "clear-cache"
	ControlHealth         Control = "health"
)

type controlLabels struct{ idle, busy string }

var labels = map[Control]controlLabels{
	ControlScan:           {"Scan", "Scanning..."},
	ControlTasks:          {"Hunt Tasks", "Hunting..."},
	ControlNotify:         {"Scan & Notify", "Scanning..."},
	ControlSchedulerStart: {"Start Auto-Scan", "Starting..."},
	ControlSchedulerStop:  {"Stop Auto-Scan", "Stopping..."},
	ControlClearCache:     {"Clear Cache", "Clearing..."},
	ControlHealth:         {"Health", "Checking..."},
}

// Controls lists every control in display order.
func Controls() []Control {
	return []Control{ControlScan, ControlTasks, ControlNotify, ControlSchedulerStart, ControlSchedulerStop, ControlClearCache, ControlHealth}
}

// Label is the idle label of c.
func Label(c Control) string { return labels[c].idle }

// BusyLabel is the label c shows while its request is in flight.
func BusyLabel(c Control) string { return labels[c].busy }

// BackendHint accompanies every result-area failure.
const BackendHint = "Please make sure backend is running"

// ErrBusy is returned when a control already has a request in flight.
var ErrBusy = errors.New("operation already in progress")

// Backend is the classification service. *backend.Client implements it.
type Backend interface {
	Scan(ctx context.Context, p backend.ScanParams) (model.ScanResponse, error)
	Tasks(ctx context.Context, p backend.TaskParams) (model.TaskResponse, error)
	StartScheduler(ctx context.Context) (model.SchedulerStatus, error)
	StopScheduler(ctx context.Context) (model.SchedulerStatus, error)
	ScanNow(ctx context.Context) (model.ScanNowResult, error)
	ClearCache(ctx context.Context) (model.ClearCacheResult, error)
	Health(ctx context.Context) (model.HealthStatus, error)
}

// Request is one operation. Gen is assigned by Start.
type Request struct {
	Control Control
	Gen     uint64
	Scan    backend.ScanParams
	Tasks   backend.TaskParams
}

func ScanRequest(p backend.ScanParams) Request { return Request{Control: ControlScan, Scan: p} }
func TasksRequest(p backend.TaskParams) Request {
	return Request{Control: ControlTasks, Tasks: p}
}
func ControlRequest(c Control) Request { return Request{Control: c} }

// Outcome is the settled result of a Request. Exactly one payload field is
// meaningful, selected by Request.Control, unless Err is set.
type Outcome struct {
	Request   Request
	Scan      model.ScanResponse
	Tasks     model.TaskResponse
	Scheduler model.SchedulerStatus
	ScanNow   model.ScanNowResult
	Cleared   model.ClearCacheResult
	Health    model.HealthStatus
	Err       error
}

// Orchestrator runs operations in three steps so a UI can keep state changes
// on its own goroutine: Start and Finish mutate State and the Surface;
// Execute only talks to the backend and may run anywhere.
type Orchestrator struct {
	state   *State
	backend Backend

	gen      uint64
	inflight map[Control]uint64
	busy     int
}

func NewOrchestrator(state *State, b Backend) *Orchestrator {
	return &Orchestrator{
		state:    state,
		backend:  b,
		inflight: map[Control]uint64{},
	}
}

func (o *Orchestrator) State() *State { return o.state }

// InFlight reports whether c has a request outstanding.
func (o *Orchestrator) InFlight(c Control) bool {
	_, ok := o.inflight[c]
	return ok
}

// Start disables the control, shows the busy indicator and stamps the
// request with a fresh generation.
func (o *Orchestrator) Start(req Request) (Request, error) {
	lb, ok := labels[req.Control]
	if !ok {
		return req, fmt.Errorf("unknown control %q", req.Control)
	}
	if o.InFlight(req.Control) {
		return req, ErrBusy
	}
	o.gen++
	req.Gen = o.gen
	o.inflight[req.Control] = req.Gen

	sf := o.state.surface
	sf.SetControl(req.Control, lb.busy, false)
	if o.busy == 0 {
		sf.SetBusy(true)
	}
	o.busy++

	switch req.Control {
	case ControlScan:
		sf.ClearResults()
		sf.HideStats(model.ModeDemand)
	case ControlTasks:
		sf.ClearResults()
		sf.HideStats(model.ModeTask)
	}
	logx.Debugf("dashboard: start %s gen=%d", req.Control, req.Gen)
	return req, nil
}

// Execute performs the network call for req. It touches no shared state.
func (o *Orchestrator) Execute(ctx context.Context, req Request) Outcome {
	out := Outcome{Request: req}
	switch req.Control {
	case ControlScan:
		out.Scan, out.Err = o.backend.Scan(ctx, req.Scan)
	case ControlTasks:
		out.Tasks, out.Err = o.backend.Tasks(ctx, req.Tasks)
	case ControlSchedulerStart:
		out.Scheduler, out.Err = o.backend.StartScheduler(ctx)
	case ControlSchedulerStop:
		out.Scheduler, out.Err = o.backend.StopScheduler(ctx)
	case ControlNotify:
		out.ScanNow, out.Err = o.backend.ScanNow(ctx)
	case ControlClearCache:
		out.Cleared, out.Err = o.backend.ClearCache(ctx)
	case ControlHealth:
		out.Health, out.Err = o.backend.Health(ctx)
	default:
		out.Err = fmt.Errorf("unknown control %q", req.Control)
	}
	return out
}

// Finish applies out and restores the control. It reports whether the
// outcome was applied. An outcome that is not the control's in-flight
// request is dropped, and so is a feed payload older than what the feed
// already holds (another control may have replaced it meanwhile).
func (o *Orchestrator) Finish(out Outcome) bool {
	req := out.Request
	if gen, ok := o.inflight[req.Control]; !ok || gen != req.Gen {
		logx.Debugf("dashboard: drop %s gen=%d: not in flight", req.Control, req.Gen)
		return false
	}
	delete(o.inflight, req.Control)
	defer o.restore(req.Control)

	if out.Err != nil {
		logx.Warnf("dashboard: %s failed: %v", req.Control, out.Err)
		o.fail(req.Control, out.Err)
		return true
	}
	return o.apply(out)
}

// Run is Start, Execute and Finish in one call, for callers without an
// event loop.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Outcome, error) {
	req, err := o.Start(req)
	if err != nil {
		return Outcome{Request: req}, err
	}
	out := o.Execute(ctx, req)
	o.Finish(out)
	return out, out.Err
}

// Ingest applies a scan-now result that arrived outside any control, such
// as a line read from a watched file.
func (o *Orchestrator) Ingest(res model.ScanNowResult) bool {
	o.gen++
	o.state.surface.Status(ScanNowSummary(res))
	return o.applyScanNow(o.gen, res)
}

func (o *Orchestrator) restore(c Control) {
	sf := o.state.surface
	sf.SetControl(c, labels[c].idle, true)
	if o.busy > 0 {
		o.busy--
	}
	if o.busy == 0 {
		sf.SetBusy(false)
	}
}

func (o *Orchestrator) fail(c Control, err error) {
	sf := o.state.surface
	switch c {
	case ControlScan, ControlTasks:
		sf.RenderError("Request failed: "+err.Error(), BackendHint)
	case ControlSchedulerStart:
		sf.Notify("Failed to start scheduler: " + err.Error())
	case ControlSchedulerStop:
		sf.Notify("Failed to stop scheduler: " + err.Error())
	case ControlNotify:
		sf.Notify("Scan failed: " + err.Error())
	case ControlClearCache:
		sf.Notify("Failed to clear notification cache: " + err.Error())
	case ControlHealth:
		sf.Status("Backend unreachable: " + err.Error())
	}
}

func (o *Orchestrator) apply(out Outcome) bool {
	sf := o.state.surface
	gen := out.Request.Gen
	switch out.Request.Control {
	case ControlScan:
		if out.Scan.Message != "" {
			sf.Status(out.Scan.Message)
		}
		if !o.state.applyDemand(gen, out.Scan.Posts, out.Scan.Stats) {
			logx.Debugf("dashboard: dropped demand gen=%d, feed is at gen=%d", gen, o.state.Demand.Generation())
			return false
		}
	case ControlTasks:
		if out.Tasks.Message != "" {
			sf.Status(out.Tasks.Message)
		}
		if !o.state.applyTasks(gen, out.Tasks.Posts, out.Tasks.Stats) {
			logx.Debugf("dashboard: dropped task gen=%d, feed is at gen=%d", gen, o.state.Tasks.Generation())
			return false
		}
	case ControlSchedulerStart:
		sf.Notify(fmt.Sprintf("Auto-scan %s. Interval: %s minutes.", out.Scheduler.Status, out.Scheduler.IntervalLabel()))
	case ControlSchedulerStop:
		sf.Notify(fmt.Sprintf("Auto-scan %s.", out.Scheduler.Status))
	case ControlNotify:
		sf.Notify(ScanNowSummary(out.ScanNow))
		o.applyScanNow(gen, out.ScanNow)
	case ControlClearCache:
		sf.Notify(fmt.Sprintf("Notification cache %s (%d removed).", out.Cleared.Status, out.Cleared.Removed))
	case ControlHealth:
		sf.Status("Backend " + out.Health.Status)
	}
	return true
}

// applyScanNow replaces the task feed with the returned posts, if any.
// Stats are recomputed locally and only count the match categories.
func (o *Orchestrator) applyScanNow(gen uint64, res model.ScanNowResult) bool {
	if len(res.Posts) == 0 {
		return false
	}
	return o.state.applyTasks(gen, res.Posts, model.ScanNowStats(res.Posts))
}

// ScanNowSummary is the operator-facing summary of a scan-now result.
func ScanNowSummary(res model.ScanNowResult) string {
	msg := fmt.Sprintf("Scanned %d posts. Found %d new matches.", res.TotalScanned, res.NewMatches)
	if res.Notified {
		msg += " Telegram notification sent!"
	} else if res.NewMatches > 0 {
		msg += " (Telegram not configured)"
	}
	return msg
}
