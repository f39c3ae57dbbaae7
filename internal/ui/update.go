package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"huntdash/internal/ai"
	"huntdash/internal/dashboard"
	"huntdash/internal/model"
	"huntdash/internal/util/logx"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.layout()
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case opDoneMsg:
		m.orch.Finish(msg.out)
		m.afterChange()
		return m, nil
	case watchMsg:
		cmd := m.handleWatch(msg)
		m.afterChange()
		return m, cmd
	case explainDoneMsg:
		m.explaining = false
		if msg.err != nil {
			if errors.Is(msg.err, ai.ErrDisabled) {
				m.sc.Status("Explanations disabled (set OPENAI_API_KEY)")
			} else {
				m.sc.Status("OpenAI failed: " + msg.err.Error())
			}
			logx.Warnf("openai: explain failed: %v", msg.err)
			return m, nil
		}
		m.sc.Status("")
		m.openModal(modalExplain, "Explanation", formatExplanation(msg.subject, msg.exp))
		return m, nil
	case spinner.TickMsg:
		if !m.sc.busy && !m.explaining {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// afterChange redraws the card list if the surface changed and surfaces the
// next pending notice.
func (m *Model) afterChange() {
	if m.sc.dirty {
		m.refreshCards()
	}
	if !m.modalActive {
		m.showNextNotice()
	}
}

func (m *Model) showNextNotice() {
	if n, ok := m.sc.popNotice(); ok {
		m.openModal(modalNotice, "Notice", n)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.modalActive {
		return m.handleModalKey(msg)
	}
	if m.inline != inlineNone {
		return m.handleInlineKey(msg)
	}

	km := m.keymap
	switch {
	case key.Matches(msg, km.Quit):
		return m, tea.Quit
	case key.Matches(msg, km.SwitchMode):
		next := model.ModeTask
		if m.state.Mode() == model.ModeTask {
			next = model.ModeDemand
		}
		m.switchMode(next)
	case key.Matches(msg, km.Demand):
		m.switchMode(model.ModeDemand)
	case key.Matches(msg, km.Tasks):
		m.switchMode(model.ModeTask)
	case key.Matches(msg, km.Category):
		m.selectCategory(int(msg.Runes[0] - '1'))
	case key.Matches(msg, km.Scan):
		return m, m.scan()
	case key.Matches(msg, km.Notify):
		return m, m.dispatch(dashboard.ControlRequest(dashboard.ControlNotify))
	case key.Matches(msg, km.StartScheduler):
		return m, m.dispatch(dashboard.ControlRequest(dashboard.ControlSchedulerStart))
	case key.Matches(msg, km.StopScheduler):
		return m, m.dispatch(dashboard.ControlRequest(dashboard.ControlSchedulerStop))
	case key.Matches(msg, km.ClearCache):
		return m, m.dispatch(dashboard.ControlRequest(dashboard.ControlClearCache))
	case key.Matches(msg, km.Health):
		return m, m.dispatch(dashboard.ControlRequest(dashboard.ControlHealth))
	case key.Matches(msg, km.Params):
		m.form = newParamForm(m.state.Mode(), m.scanParams, m.taskParams)
		title := "Demand scan parameters"
		if m.state.Mode() == model.ModeTask {
			title = "Task hunt parameters"
		}
		m.openModal(modalParams, title, "")
	case key.Matches(msg, km.Search):
		m.startInline(inlineSearch, "/", "search... (text or /regex/)", m.state.Criteria(m.state.Mode()).Query)
	case key.Matches(msg, km.Expr):
		m.startInline(inlineExpr, "expr> ", "confidence > 0.7 && score >= 10", m.state.Criteria(m.state.Mode()).Expr)
	case key.Matches(msg, km.ClearFilter):
		if err := m.state.Refine("", ""); err == nil {
			m.sc.Status("Search cleared")
		}
		m.afterChange()
	case key.Matches(msg, km.Up):
		m.moveCursor(-1)
	case key.Matches(msg, km.Down):
		m.moveCursor(1)
	case key.Matches(msg, km.Top):
		m.moveCursor(-m.cursor)
	case key.Matches(msg, km.Bottom):
		m.moveCursor(m.resultCount())
	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.cards, cmd = m.cards.Update(msg)
		return m, cmd
	case key.Matches(msg, km.Explain):
		return m, m.explain()
	case key.Matches(msg, km.CopyURL):
		m.copySelectedURL()
	case key.Matches(msg, km.Open):
		m.openSelected()
	case key.Matches(msg, km.Export):
		m.exportVisible()
	case key.Matches(msg, km.Snapshot):
		m.writeSnapshot()
	case key.Matches(msg, km.AppLogs):
		m.openModal(modalLogs, "Application Logs", logx.Dump())
	case key.Matches(msg, km.Help):
		m.helpItems = m.buildHelpItems()
		m.openModal(modalHelp, "Help", m.renderHelp())
	}
	return m, nil
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modalKind == modalParams {
		return m.handleFormKey(msg)
	}
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.closeModal()
		m.showNextNotice()
		return m, nil
	}
	if msg.Type == tea.KeyRunes && msg.String() == "q" {
		m.closeModal()
		m.showNextNotice()
		return m, nil
	}
	if m.modalKind == modalExplain && key.Matches(msg, m.keymap.CopyURL) {
		m.copyText(m.modalBody, "Copied explanation")
		return m, nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return m, cmd
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeModal()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.form.next(1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.form.next(-1)
		return m, nil
	case tea.KeyEnter:
		if err := m.applyForm(); err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.closeModal()
		m.sc.Status("Parameters updated")
		return m, nil
	}
	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m *Model) startInline(mode inlineMode, prompt, placeholder, value string) {
	m.inline = mode
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) handleInlineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inline = inlineNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		c := m.state.Criteria(m.state.Mode())
		query, expr := c.Query, c.Expr
		if m.inline == inlineSearch {
			query = m.input.Value()
		} else {
			expr = m.input.Value()
		}
		if err := m.state.Refine(query, expr); err != nil {
			m.sc.Status(err.Error())
			return m, nil
		}
		m.inline = inlineNone
		m.input.Blur()
		m.sc.Status(fmt.Sprintf("%d visible", m.resultCount()))
		m.afterChange()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) switchMode(mode model.Mode) {
	if err := m.state.SwitchMode(mode); err != nil {
		logx.Warnf("ui: %v", err)
		return
	}
	m.cursor = 0
	m.afterChange()
}

// selectCategory maps 0 to "all" and 1.. to the active mode's categories in
// filter-bar order.
func (m *Model) selectCategory(i int) {
	cats := categoryTabs(m.state.Mode())
	if i < 0 || i >= len(cats) {
		return
	}
	if err := m.state.Filter(cats[i]); err != nil {
		m.sc.Status(err.Error())
		return
	}
	m.cursor = 0
	m.afterChange()
}

func categoryTabs(mode model.Mode) []string {
	tabs := []string{model.FilterAll}
	if mode == model.ModeTask {
		for _, c := range model.TaskCategories() {
			tabs = append(tabs, string(c))
		}
		return tabs
	}
	for _, c := range model.Categories() {
		tabs = append(tabs, string(c))
	}
	return tabs
}
