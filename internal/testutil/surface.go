// Package testutil holds fakes shared by package tests.
package testutil

import (
	"fmt"
	"sync"

	"huntdash/internal/dashboard"
	"huntdash/internal/model"
	"huntdash/internal/present"
)

type ControlView struct {
	Label   string
	Enabled bool
}

type ErrorView struct {
	Msg  string
	Hint string
}

// Surface records everything the dashboard draws.
type Surface struct {
	mu sync.Mutex

	Mode          model.Mode
	ActiveFilter  map[model.Mode]string
	Results       *present.Results
	Stats         *model.Stats
	TaskStats     *model.TaskStats
	StatsVisible  map[model.Mode]bool
	Error         *ErrorView
	Notices       []string
	Statuses      []string
	Controls      map[dashboard.Control]ControlView
	Busy          bool
	Events        []string
	ResultRenders int
}

var _ dashboard.Surface = (*Surface)(nil)

func NewSurface() *Surface {
	return &Surface{
		ActiveFilter: map[model.Mode]string{},
		StatsVisible: map[model.Mode]bool{},
		Controls:     map[dashboard.Control]ControlView{},
	}
}

func (s *Surface) event(format string, a ...any) {
	s.Events = append(s.Events, fmt.Sprintf(format, a...))
}

func (s *Surface) ShowMode(mode model.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Mode = mode
	s.StatsVisible[model.ModeDemand] = false
	s.StatsVisible[model.ModeTask] = false
	s.event("mode %s", mode)
}

func (s *Surface) SetActiveFilter(mode model.Mode, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ActiveFilter[mode] = category
	s.event("filter %s %s", mode, category)
}

func (s *Surface) ClearResults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Results = nil
	s.Error = nil
	s.event("clear")
}

func (s *Surface) RenderResults(r present.Results) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Results = &r
	s.Error = nil
	s.ResultRenders++
	s.event("results %s %d", r.Mode, r.Len())
}

func (s *Surface) RenderStats(st model.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stats = &st
	s.StatsVisible[model.ModeDemand] = true
	s.event("stats total=%d", st.Total)
}

func (s *Surface) RenderTaskStats(st model.TaskStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TaskStats = &st
	s.StatsVisible[model.ModeTask] = true
	s.event("task-stats total=%d", st.Total)
}

func (s *Surface) HideStats(mode model.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StatsVisible[mode] = false
	s.event("hide-stats %s", mode)
}

func (s *Surface) RenderError(msg, hint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Results = nil
	s.Error = &ErrorView{Msg: msg, Hint: hint}
	s.event("error %s", msg)
}

func (s *Surface) Notify(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Notices = append(s.Notices, msg)
	s.event("notice %s", msg)
}

func (s *Surface) Status(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Statuses = append(s.Statuses, msg)
	s.event("status %s", msg)
}

func (s *Surface) SetControl(c dashboard.Control, label string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Controls[c] = ControlView{Label: label, Enabled: enabled}
	s.event("control %s %q %v", c, label, enabled)
}

func (s *Surface) SetBusy(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Busy = on
	s.event("busy %v", on)
}

// LastNotice returns the most recent blocking notice, or "".
func (s *Surface) LastNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Notices) == 0 {
		return ""
	}
	return s.Notices[len(s.Notices)-1]
}
