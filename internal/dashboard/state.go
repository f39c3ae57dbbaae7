package dashboard

import (
	"fmt"

	"huntdash/internal/filter"
	"huntdash/internal/model"
	"huntdash/internal/present"
)

// State is the dashboard's application state. It is not safe for concurrent
// use; the UI event loop (or a CLI command) is its only writer.
type State struct {
	surface Surface
	mode    model.Mode

	Demand *model.Feed[model.Post]
	Tasks  *model.Feed[model.TaskPost]

	evals     map[model.Mode]*filter.Evaluator
	stats     model.Stats
	taskStats model.TaskStats
}

func NewState(surface Surface) *State {
	s := &State{
		surface: surface,
		mode:    model.ModeDemand,
		Demand:  model.NewFeed[model.Post](),
		Tasks:   model.NewFeed[model.TaskPost](),
		evals:   map[model.Mode]*filter.Evaluator{},
	}
	for _, m := range []model.Mode{model.ModeDemand, model.ModeTask} {
		s.evals[m], _ = filter.NewEvaluator(filter.Criteria{Category: model.FilterAll})
	}
	return s
}

func (s *State) Mode() model.Mode { return s.mode }

// Criteria returns the active filter of mode.
func (s *State) Criteria(mode model.Mode) filter.Criteria { return s.evals[mode].Criteria() }

func (s *State) Stats() model.Stats         { return s.stats }
func (s *State) TaskStats() model.TaskStats { return s.taskStats }

// SwitchMode makes mode the active feed and clears the rendered results.
// Neither feed is modified.
func (s *State) SwitchMode(mode model.Mode) error {
	if mode != model.ModeDemand && mode != model.ModeTask {
		return fmt.Errorf("unknown mode %q", mode)
	}
	s.mode = mode
	s.surface.ShowMode(mode)
	s.surface.SetActiveFilter(mode, s.Criteria(mode).Category)
	s.surface.ClearResults()
	return nil
}

// Filter selects the category shown for the active mode and renders the
// matching subset of its stored feed. model.FilterAll shows everything.
func (s *State) Filter(category string) error {
	if !validCategory(s.mode, category) {
		return fmt.Errorf("unknown %s category %q", s.mode, category)
	}
	c := s.Criteria(s.mode)
	c.Category = category
	if err := s.setCriteria(s.mode, c); err != nil {
		return err
	}
	s.surface.SetActiveFilter(s.mode, category)
	s.Render()
	return nil
}

// Refine sets the free-text query and expression of the active mode,
// keeping its category. The previous filter stays in force on error.
func (s *State) Refine(query, expr string) error {
	c := s.Criteria(s.mode)
	c.Query, c.Expr = query, expr
	if err := s.setCriteria(s.mode, c); err != nil {
		return err
	}
	s.Render()
	return nil
}

func (s *State) setCriteria(mode model.Mode, c filter.Criteria) error {
	e, err := filter.NewEvaluator(c)
	if err != nil {
		return err
	}
	s.evals[mode] = e
	return nil
}

// VisiblePosts is the filtered demand feed, in stored order.
func (s *State) VisiblePosts() []model.Post {
	return filter.Apply(s.evals[model.ModeDemand], s.Demand.Snapshot())
}

func (s *State) VisibleTasks() []model.TaskPost {
	return filter.Apply(s.evals[model.ModeTask], s.Tasks.Snapshot())
}

// Results builds the view-models for the active mode's filtered feed.
func (s *State) Results() present.Results {
	if s.mode == model.ModeTask {
		return present.TaskResults(s.VisibleTasks())
	}
	return present.DemandResults(s.VisiblePosts())
}

// Render redraws the result area from the store.
func (s *State) Render() {
	s.surface.RenderResults(s.Results())
}

func (s *State) applyDemand(gen uint64, posts []model.Post, stats model.Stats) bool {
	if !s.Demand.Replace(gen, posts) {
		return false
	}
	s.stats = stats
	s.surface.RenderStats(stats)
	if s.mode == model.ModeDemand {
		s.Render()
	}
	return true
}

func (s *State) applyTasks(gen uint64, posts []model.TaskPost, stats model.TaskStats) bool {
	if !s.Tasks.Replace(gen, posts) {
		return false
	}
	s.taskStats = stats
	s.surface.RenderTaskStats(stats)
	if s.mode == model.ModeTask {
		s.Render()
	}
	return true
}

func validCategory(mode model.Mode, category string) bool {
	if category == model.FilterAll {
		return true
	}
	if mode == model.ModeTask {
		for _, c := range model.TaskCategories() {
			if string(c) == category {
				return true
			}
		}
		return false
	}
	for _, c := range model.Categories() {
		if string(c) == category {
			return true
		}
	}
	return false
}
