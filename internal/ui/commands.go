package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"huntdash/internal/ai"
	"huntdash/internal/dashboard"
	"huntdash/internal/ingest"
	"huntdash/internal/model"
	"huntdash/internal/util/logx"
)

type opDoneMsg struct{ out dashboard.Outcome }

type watchMsg struct {
	res         *ingest.Result
	err         error
	resultsDone bool
	errsDone    bool
}

type explainDoneMsg struct {
	subject ai.Subject
	exp     ai.Explanation
	err     error
}

// dispatch starts req on the UI goroutine and runs the network call in a
// command. The result comes back as opDoneMsg.
func (m *Model) dispatch(req dashboard.Request) tea.Cmd {
	req, err := m.orch.Start(req)
	if err != nil {
		if errors.Is(err, dashboard.ErrBusy) {
			m.sc.Status(dashboard.BusyLabel(req.Control))
		} else {
			logx.Warnf("ui: %v", err)
		}
		return nil
	}
	m.refreshCards()
	ctx, orch := m.ctx, m.orch
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		return opDoneMsg{out: orch.Execute(ctx, req)}
	})
}

// scan issues the fetch of the active mode.
func (m *Model) scan() tea.Cmd {
	if m.state.Mode() == model.ModeTask {
		return m.dispatch(dashboard.TasksRequest(m.taskParams))
	}
	return m.dispatch(dashboard.ScanRequest(m.scanParams))
}

func (m *Model) waitWatch() tea.Cmd {
	results, errs := m.watchResults, m.watchErrs
	if results == nil && errs == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case r, ok := <-results:
			if !ok {
				return watchMsg{resultsDone: true}
			}
			return watchMsg{res: &r}
		case err, ok := <-errs:
			if !ok {
				return watchMsg{errsDone: true}
			}
			return watchMsg{err: err}
		}
	}
}

func (m *Model) handleWatch(msg watchMsg) tea.Cmd {
	switch {
	case msg.resultsDone:
		m.watchResults = nil
	case msg.errsDone:
		m.watchErrs = nil
	case msg.err != nil:
		logx.Warnf("watch: %v", msg.err)
		m.sc.Status("Watch: " + msg.err.Error())
	case msg.res != nil:
		logx.Infof("watch: %s: %d new matches", msg.res.Line.Source, msg.res.ScanNow.NewMatches)
		m.orch.Ingest(msg.res.ScanNow)
		m.refreshCards()
	}
	if m.watchResults == nil && m.watchErrs == nil {
		logx.Infof("watch: %s closed", m.cfg.WatchFile)
		return nil
	}
	return m.waitWatch()
}

func (m *Model) explain() tea.Cmd {
	subject, ok := m.selectedSubject()
	if !ok {
		m.sc.Status("No post selected")
		return nil
	}
	if m.explaining {
		return nil
	}
	// A client without a key still serves cached explanations.
	if m.cfg.Offline || m.explainer == nil {
		m.sc.Status("Explanations disabled (set OPENAI_API_KEY, drop --offline)")
		return nil
	}
	m.explaining = true
	m.sc.Status("OpenAI: explaining " + truncateWidth(subject.Title, 40) + "...")
	logx.Infof("openai: explaining %s", subject.Key())
	ctx, c := m.ctx, m.explainer
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		exp, err := c.Explain(ctx, subject)
		return explainDoneMsg{subject: subject, exp: exp, err: err}
	})
}

func formatExplanation(s ai.Subject, e ai.Explanation) string {
	var b strings.Builder
	b.WriteString(s.Title + "\n\n")
	if e.Summary != "" {
		b.WriteString("Summary: " + e.Summary + "\n\n")
	}
	if e.Opportunity != "" {
		b.WriteString("Opportunity: " + e.Opportunity + "\n\n")
	}
	if len(e.Risks) > 0 {
		b.WriteString("Risks:\n")
		for _, r := range e.Risks {
			b.WriteString("  - " + r + "\n")
		}
		b.WriteString("\n")
	}
	if e.NextStep != "" {
		b.WriteString("Next step: " + e.NextStep + "\n")
	}
	if e.Cached {
		b.WriteString("\n(cached)")
	}
	return b.String()
}

// applyForm validates the parameter form and stores it for the next fetch.
func (m *Model) applyForm() error {
	f := m.form
	limitIdx := len(f.inputs) - 1
	limit, err := strconv.Atoi(strings.TrimSpace(f.value(limitIdx)))
	if err != nil {
		return fmt.Errorf("limit must be a number")
	}
	tf := strings.TrimSpace(f.value(limitIdx - 1))
	if f.mode == model.ModeTask {
		m.taskParams.Subreddits = strings.TrimSpace(f.value(0))
		m.taskParams.TimeFilter = tf
		m.taskParams.Limit = limit
		return nil
	}
	m.scanParams.Subreddit = strings.TrimSpace(f.value(0))
	m.scanParams.Keyword = strings.TrimSpace(f.value(1))
	m.scanParams.TimeFilter = tf
	m.scanParams.Limit = limit
	return nil
}
