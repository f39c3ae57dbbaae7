package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"huntdash/internal/dashboard"
	"huntdash/internal/model"
	"huntdash/internal/present"
)

// chrome is the number of lines around the card list.
const chrome = 6

var modeTitles = map[model.Mode]string{
	model.ModeDemand: "Demand Radar",
	model.ModeTask:   "Task Hunter",
}

func (m *Model) View() string {
	v := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderFilterBar(),
		m.renderStats(),
		m.renderControls(),
		m.cards.View(),
		m.renderStatus(),
		m.renderFooter(),
	)
	if m.modalActive {
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) layout() {
	h := m.termHeight - chrome
	if h < 3 {
		h = 3
	}
	m.cards.Width = m.termWidth
	m.cards.Height = h
	m.help.Width = m.termWidth
	m.refreshCards()
}

func (m *Model) renderHeader() string {
	tabs := make([]string, 0, 2)
	for _, mode := range []model.Mode{model.ModeDemand, model.ModeTask} {
		st := m.styles.TabInactive
		if mode == m.sc.mode {
			st = m.styles.TabActive
		}
		tabs = append(tabs, st.Render(modeTitles[mode]))
	}
	left := m.styles.Title.Render("huntdash") + "  " + strings.Join(tabs, "  ")
	right := ""
	if m.sc.busy || m.explaining {
		right = m.spin.View()
	}
	return placeLR(left, right, m.termWidth)
}

func (m *Model) renderFilterBar() string {
	active := m.sc.activeFilter[m.sc.mode]
	parts := make([]string, 0, 5)
	for i, c := range categoryTabs(m.sc.mode) {
		label := "All"
		if c != model.FilterAll {
			label = categoryLabel(m.sc.mode, c)
		}
		st := m.styles.TabInactive
		if c == active {
			st = m.styles.TabActive
		}
		parts = append(parts, st.Render(fmt.Sprintf("%d %s", i+1, label)))
	}
	line := strings.Join(parts, "  ")
	c := m.state.Criteria(m.sc.mode)
	if !c.IsZero() && m.sc.results != nil {
		line += m.styles.Meta.Render(fmt.Sprintf("  %d of %d", m.resultCount(), m.storedCount()))
	}
	if c.Query != "" {
		line += m.styles.Meta.Render("  search: " + c.Query)
	}
	if c.Expr != "" {
		line += m.styles.Meta.Render("  expr: " + c.Expr)
	}
	return line
}

func (m *Model) storedCount() int {
	if m.sc.mode == model.ModeTask {
		return m.state.Tasks.Len()
	}
	return m.state.Demand.Len()
}

func categoryLabel(mode model.Mode, c string) string {
	if mode == model.ModeTask {
		return present.TaskLabel(model.TaskCategory(c))
	}
	return present.DemandLabel(model.Category(c))
}

func (m *Model) renderStats() string {
	if !m.sc.statsVisible[m.sc.mode] {
		return ""
	}
	st := m.styles.Meta
	if m.sc.mode == model.ModeTask && m.sc.taskStats != nil {
		s := m.sc.taskStats
		return st.Render(fmt.Sprintf("Total %d · Skill %d · Maybe %d · Irrelevant %d · Danger %d",
			s.Total, s.SkillMatch, s.MaybeMatch, s.Irrelevant, s.Danger))
	}
	if m.sc.mode == model.ModeDemand && m.sc.stats != nil {
		s := m.sc.stats
		return st.Render(fmt.Sprintf("Total %d · Product Needs %d · Worth Looking %d · Personal %d · Unclear %d",
			s.Total, s.ProductNeeds, s.WorthLooking, s.PersonalIssues, s.Unclear))
	}
	return ""
}

func (m *Model) renderControls() string {
	km := m.keymap
	keys := map[dashboard.Control]string{
		dashboard.ControlScan:           keyLabel(km.Scan),
		dashboard.ControlTasks:          keyLabel(km.Scan),
		dashboard.ControlNotify:         keyLabel(km.Notify),
		dashboard.ControlSchedulerStart: keyLabel(km.StartScheduler),
		dashboard.ControlSchedulerStop:  keyLabel(km.StopScheduler),
		dashboard.ControlClearCache:     keyLabel(km.ClearCache),
		dashboard.ControlHealth:         keyLabel(km.Health),
	}
	var parts []string
	for _, c := range dashboard.Controls() {
		// The fetch control of the other mode is not reachable from here.
		if (c == dashboard.ControlScan && m.sc.mode == model.ModeTask) ||
			(c == dashboard.ControlTasks && m.sc.mode == model.ModeDemand) {
			continue
		}
		cv := m.sc.controls[c]
		st := m.styles.Control
		if !cv.enabled {
			st = m.styles.ControlBusy
		}
		parts = append(parts, st.Render("["+keys[c]+"] "+cv.label))
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderStatus() string {
	if m.inline != inlineNone {
		return m.input.View()
	}
	left := m.styles.Status.Render(present.SanitizeTerminal(m.sc.status))
	right := ""
	if n := m.resultCount(); n > 0 {
		right = m.styles.Status.Render(fmt.Sprintf("%d/%d", m.cursor+1, n))
	}
	return placeLR(left, right, m.termWidth)
}

func (m *Model) renderFooter() string {
	return m.help.View(m.keymap)
}

// refreshCards rebuilds the card list content and the line offset of
// each card.
func (m *Model) refreshCards() {
	m.sc.dirty = false
	width := m.termWidth - 2
	if width < 20 {
		width = 20
	}
	m.cardOffsets = m.cardOffsets[:0]
	var lines []string
	switch {
	case m.sc.errMsg != "":
		lines = append(lines,
			m.styles.Error.Render(present.SanitizeTerminal(m.sc.errMsg)),
			m.styles.Hint.Render(m.sc.errHint))
	case m.sc.results == nil:
		lines = append(lines, m.styles.Placeholder.Render(m.emptyHint()))
	case m.sc.results.Placeholder != "":
		lines = append(lines, m.styles.Placeholder.Render(m.sc.results.Placeholder))
	default:
		r := m.sc.results
		if m.cursor >= r.Len() {
			m.cursor = max(r.Len()-1, 0)
		}
		for i := 0; i < r.Len(); i++ {
			m.cardOffsets = append(m.cardOffsets, len(lines))
			var card string
			if r.Mode == model.ModeTask {
				card = m.renderTaskCard(r.Tasks[i], width)
			} else {
				card = m.renderPostCard(r.Posts[i], width)
			}
			st := m.styles.Card
			if i == m.cursor {
				st = m.styles.CardActive
			}
			lines = append(lines, strings.Split(st.Render(card), "\n")...)
			lines = append(lines, "")
		}
	}
	m.cards.SetContent(strings.Join(lines, "\n"))
	m.ensureCursorVisible()
}

func (m *Model) emptyHint() string {
	if m.sc.busy && !m.sc.controls[m.fetchControl()].enabled {
		return "Loading..."
	}
	if m.sc.mode == model.ModeTask {
		return "Press s to hunt tasks"
	}
	return "Press s to scan"
}

func (m *Model) fetchControl() dashboard.Control {
	if m.sc.mode == model.ModeTask {
		return dashboard.ControlTasks
	}
	return dashboard.ControlScan
}

func (m *Model) renderPostCard(p present.PostView, width int) string {
	title := m.styles.Title.Render(truncateWidth(present.SanitizeTerminal(p.Title), width))
	meta := []string{
		m.styles.category(p.Category).Render(labelOr(p.Label, p.Category)),
		m.confidence(p.Confidence, p.BarWidth, p.Percent),
		fmt.Sprintf("↑%d", p.Score),
		fmt.Sprintf("%d comments", p.Comments),
	}
	if p.Date != "" {
		meta = append(meta, p.Date)
	}
	out := []string{title, strings.Join(meta, m.styles.Meta.Render(" · "))}
	if t := strings.TrimSpace(present.SanitizeTerminal(p.Text)); t != "" {
		out = append(out, wrap(t, width, 3))
	}
	out = append(out, m.styles.Meta.Render(p.ScoreLine))
	return strings.Join(out, "\n")
}

func (m *Model) renderTaskCard(t present.TaskView, width int) string {
	badge := m.styles.Freshness[t.Freshness].Render(freshnessBadge(t.Freshness, t.FreshnessLabel))
	title := badge + " " + m.styles.Title.Render(truncateWidth(present.SanitizeTerminal(t.Title), width-lipgloss.Width(badge)-1))
	meta := []string{
		m.styles.category(t.Category).Render(labelOr(t.Label, t.Category)),
		m.confidence(t.Confidence, t.BarWidth, t.Percent),
	}
	if t.Budget != "" {
		meta = append(meta, t.Budget)
	}
	meta = append(meta, present.SanitizeTerminal(t.Subreddit))
	if t.Author != "" {
		meta = append(meta, present.SanitizeTerminal(t.Author))
	}
	out := []string{title, strings.Join(meta, m.styles.Meta.Render(" · "))}
	if s := strings.TrimSpace(present.SanitizeTerminal(t.Text)); s != "" {
		out = append(out, wrap(s, width, 2))
	}
	out = append(out, m.styles.Meta.Render(t.ScoreLine))
	return strings.Join(out, "\n")
}

func freshnessBadge(f present.Freshness, label string) string {
	if label == "" {
		label = string(f)
	}
	return "[" + label + "]"
}

func labelOr(label, category string) string {
	if label != "" {
		return label
	}
	return present.SanitizeTerminal(category)
}

// confidence draws a ten-cell bar and the rounded percentage.
func (m *Model) confidence(level present.ConfidenceLevel, bar float64, pct int) string {
	filled := int(math.Round(bar / 10))
	if filled > 10 {
		filled = 10
	}
	return m.styles.Confidence[level].Render(strings.Repeat("█", filled)+strings.Repeat("░", 10-filled)) + fmt.Sprintf(" %d%%", pct)
}

func (m *Model) resultCount() int {
	if m.sc.results == nil {
		return 0
	}
	return m.sc.results.Len()
}

func (m *Model) moveCursor(delta int) {
	n := m.resultCount()
	if n == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	m.refreshCards()
}

func (m *Model) ensureCursorVisible() {
	if m.cursor >= len(m.cardOffsets) {
		return
	}
	top := m.cardOffsets[m.cursor]
	end := m.cards.TotalLineCount()
	if m.cursor+1 < len(m.cardOffsets) {
		end = m.cardOffsets[m.cursor+1]
	}
	if top < m.cards.YOffset {
		m.cards.SetYOffset(top)
	} else if end > m.cards.YOffset+m.cards.Height {
		m.cards.SetYOffset(end - m.cards.Height)
	}
}

func (m *Model) renderHelp() string {
	lines := []string{"Shortcuts:"}
	group := ""
	for _, it := range m.helpItems {
		if it.group != group {
			group = it.group
			lines = append(lines, "", group+":")
		}
		lines = append(lines, fmt.Sprintf("  [%s] %s", keyLabel(it.key), it.text))
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) openModal(kind modalKind, title, body string) {
	m.modalActive = true
	m.modalKind = kind
	m.modalTitle = title
	m.modalBody = body
	m.resizeModal()
}

func (m *Model) closeModal() {
	m.modalActive = false
	m.modalKind = modalNone
	m.modalBody = ""
}

func (m *Model) resizeModal() {
	w := m.termWidth - 6
	h := m.termHeight - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	m.modalVP.SetContent(lipgloss.NewStyle().Width(w - 4).Render(present.SanitizeTerminal(m.modalBody)))
}

func (m *Model) renderModal() string {
	var content string
	switch m.modalKind {
	case modalParams:
		content = m.renderForm() + "\n\n[Tab]=next  [Enter]=apply  [Esc]=cancel"
	case modalExplain:
		content = m.modalVP.View() + "\n[Esc/Enter]=close  [c]=copy"
	default:
		content = m.modalVP.View() + "\n[Esc/Enter]=close"
	}
	boxW := m.termWidth - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) renderForm() string {
	f := m.form
	width := 0
	for _, l := range f.labels {
		width = max(width, runewidth.StringWidth(l))
	}
	lines := make([]string, 0, len(f.inputs)+2)
	for i, in := range f.inputs {
		label := runewidth.FillRight(f.labels[i], width)
		if i == f.focus {
			label = m.styles.TabActive.Render(label)
		}
		lines = append(lines, label+"  "+in.View())
	}
	if f.err != "" {
		lines = append(lines, "", m.styles.Error.Render(f.err))
	}
	return strings.Join(lines, "\n")
}
