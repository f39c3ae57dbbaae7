package ui

import (
	"errors"
	"fmt"
	"time"

	"huntdash/internal/ai"
	"huntdash/internal/browser"
	"huntdash/internal/export"
	"huntdash/internal/model"
	"huntdash/internal/render"
	"huntdash/internal/util/logx"
)

// Replaced in tests.
var (
	clipboardWrite = writeClipboard
	openURL        = browser.Open
	snapshotNow    = time.Now
)

func (m *Model) selectedURL() (string, bool) {
	r := m.sc.results
	if r == nil || m.cursor >= r.Len() {
		return "", false
	}
	if r.Mode == model.ModeTask {
		return r.Tasks[m.cursor].URL, true
	}
	return r.Posts[m.cursor].URL, true
}

// selectedSubject maps the cursor back to the stored post. The result area
// always shows the state's visible subset in order, so indices line up.
func (m *Model) selectedSubject() (ai.Subject, bool) {
	if m.resultCount() == 0 {
		return ai.Subject{}, false
	}
	if m.state.Mode() == model.ModeTask {
		tasks := m.state.VisibleTasks()
		if m.cursor >= len(tasks) {
			return ai.Subject{}, false
		}
		return ai.SubjectFromTask(tasks[m.cursor]), true
	}
	posts := m.state.VisiblePosts()
	if m.cursor >= len(posts) {
		return ai.Subject{}, false
	}
	return ai.SubjectFromPost(posts[m.cursor]), true
}

func (m *Model) copyText(s, done string) {
	clipboardWrite(s)
	m.sc.Status(done)
}

func (m *Model) copySelectedURL() {
	u, ok := m.selectedURL()
	if !ok || u == "" {
		m.sc.Status("No post selected")
		return
	}
	m.copyText(u, "Copied "+u)
}

func (m *Model) openSelected() {
	u, ok := m.selectedURL()
	if !ok {
		m.sc.Status("No post selected")
		return
	}
	if err := openURL(u); err != nil {
		m.sc.Status("Open failed: " + err.Error())
		logx.Warnf("browser: %v", err)
		return
	}
	m.sc.Status("Opened " + u)
}

func (m *Model) exportPath(f export.Format) string {
	if m.cfg.ExportOut != "" {
		return m.cfg.ExportOut
	}
	return fmt.Sprintf("huntdash-%s.%s", m.state.Mode(), f)
}

// exportVisible writes the filtered feed of the active mode.
func (m *Model) exportVisible() {
	f, err := export.ParseFormat(m.cfg.ExportFormat)
	if err != nil {
		m.sc.Status(err.Error())
		return
	}
	path := m.exportPath(f)
	var n int
	if m.state.Mode() == model.ModeTask {
		rows := m.state.VisibleTasks()
		n, err = len(rows), export.ToFile(path, f, export.TaskColumns, rows)
	} else {
		rows := m.state.VisiblePosts()
		n, err = len(rows), export.ToFile(path, f, export.PostColumns, rows)
	}
	switch {
	case errors.Is(err, export.ErrEmpty):
		m.sc.Status("Nothing to export")
	case err != nil:
		m.sc.Status("Export failed: " + err.Error())
		logx.Warnf("export: %v", err)
	default:
		m.sc.Status(fmt.Sprintf("Exported %d rows to %s (%s)", n, path, f))
		logx.Infof("export: wrote %d rows to %s (%s)", n, path, f)
	}
}

// writeSnapshot draws the current view into an HTML page.
func (m *Model) writeSnapshot() {
	path := fmt.Sprintf("huntdash-%s-%s.html", m.state.Mode(), snapshotNow().Format("20060102-150405"))
	if err := snapshot(m).WriteFile(path); err != nil {
		m.sc.Status("Snapshot failed: " + err.Error())
		logx.Warnf("snapshot: %v", err)
		return
	}
	m.sc.Status("Wrote " + path)
}

func snapshot(m *Model) *render.Page {
	p := render.NewPage("huntdash: " + modeTitles[m.state.Mode()])
	mode := m.state.Mode()
	p.ShowMode(mode)
	p.SetActiveFilter(mode, m.state.Criteria(mode).Category)
	if m.sc.statsVisible[model.ModeDemand] {
		p.RenderStats(m.state.Stats())
	}
	if m.sc.statsVisible[model.ModeTask] {
		p.RenderTaskStats(m.state.TaskStats())
	}
	switch {
	case m.sc.errMsg != "":
		p.RenderError(m.sc.errMsg, m.sc.errHint)
	case m.sc.results != nil:
		p.RenderResults(*m.sc.results)
	}
	if m.sc.status != "" {
		p.Status(m.sc.status)
	}
	return p
}
