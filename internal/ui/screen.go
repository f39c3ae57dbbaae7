package ui

import (
	"huntdash/internal/dashboard"
	"huntdash/internal/model"
	"huntdash/internal/present"
)

type controlView struct {
	label   string
	enabled bool
}

// screen is the terminal dashboard.Surface. It only records what to draw;
// View reads it on the next frame. Everything runs on the bubbletea event
// loop, so there is no locking.
type screen struct {
	mode         model.Mode
	activeFilter map[model.Mode]string
	results      *present.Results
	stats        *model.Stats
	taskStats    *model.TaskStats
	statsVisible map[model.Mode]bool
	errMsg       string
	errHint      string
	notices      []string
	status       string
	controls     map[dashboard.Control]controlView
	busy         bool

	// dirty is set whenever the result area changes.
	dirty bool
}

var _ dashboard.Surface = (*screen)(nil)

func newScreen() *screen {
	sc := &screen{
		mode:         model.ModeDemand,
		activeFilter: map[model.Mode]string{model.ModeDemand: model.FilterAll, model.ModeTask: model.FilterAll},
		statsVisible: map[model.Mode]bool{},
		controls:     map[dashboard.Control]controlView{},
	}
	for _, c := range dashboard.Controls() {
		sc.controls[c] = controlView{label: dashboard.Label(c), enabled: true}
	}
	return sc
}

func (s *screen) ShowMode(mode model.Mode) {
	s.mode = mode
	s.statsVisible = map[model.Mode]bool{}
}

func (s *screen) SetActiveFilter(mode model.Mode, category string) {
	s.activeFilter[mode] = category
}

func (s *screen) ClearResults() {
	s.results = nil
	s.errMsg, s.errHint = "", ""
	s.dirty = true
}

func (s *screen) RenderResults(r present.Results) {
	s.results = &r
	s.errMsg, s.errHint = "", ""
	s.dirty = true
}

func (s *screen) RenderStats(st model.Stats) {
	s.stats = &st
	s.statsVisible[model.ModeDemand] = true
}

func (s *screen) RenderTaskStats(st model.TaskStats) {
	s.taskStats = &st
	s.statsVisible[model.ModeTask] = true
}

func (s *screen) HideStats(mode model.Mode) { s.statsVisible[mode] = false }

func (s *screen) RenderError(msg, hint string) {
	s.results = nil
	s.errMsg, s.errHint = msg, hint
	s.dirty = true
}

func (s *screen) Notify(msg string) { s.notices = append(s.notices, msg) }

func (s *screen) Status(msg string) { s.status = msg }

func (s *screen) SetControl(c dashboard.Control, label string, enabled bool) {
	s.controls[c] = controlView{label: label, enabled: enabled}
}

func (s *screen) SetBusy(on bool) { s.busy = on }

// popNotice removes and returns the oldest pending notice.
func (s *screen) popNotice() (string, bool) {
	if len(s.notices) == 0 {
		return "", false
	}
	n := s.notices[0]
	s.notices = s.notices[1:]
	return n, true
}
