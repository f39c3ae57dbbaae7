// Package dashboard owns the application state (active mode, both feeds,
// per-mode filters) and drives backend operations through their control
// lifecycle. Rendering goes to a Surface; the package never draws anything.
package dashboard

import (
	"huntdash/internal/model"
	"huntdash/internal/present"
)

// Surface is the display sink. Text in view-models is truncated but not
// escaped; implementations escape for their medium.
type Surface interface {
	// ShowMode shows the feed panel and filter bar of mode, marks its mode
	// selector active and hides both stat bars.
	ShowMode(mode model.Mode)
	SetActiveFilter(mode model.Mode, category string)

	ClearResults()
	RenderResults(r present.Results)
	RenderStats(s model.Stats)
	RenderTaskStats(s model.TaskStats)
	HideStats(mode model.Mode)

	// RenderError replaces the result area with a failure message.
	RenderError(msg, hint string)
	// Notify shows a blocking notice to the operator.
	Notify(msg string)
	// Status sets the non-blocking status line.
	Status(msg string)

	SetControl(c Control, label string, enabled bool)
	SetBusy(on bool)
}
