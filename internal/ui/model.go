// Package ui is the terminal dashboard: a bubbletea program drawing the
// dashboard.Surface and turning keys into dashboard operations.
package ui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"huntdash/internal/ai"
	"huntdash/internal/backend"
	"huntdash/internal/config"
	"huntdash/internal/dashboard"
	"huntdash/internal/ingest"
	"huntdash/internal/model"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalNotice
	modalLogs
	modalExplain
	modalParams
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineSearch
	inlineExpr
)

type Model struct {
	ctx       context.Context
	cfg       *config.Config
	state     *dashboard.State
	orch      *dashboard.Orchestrator
	sc        *screen
	explainer *ai.OpenAIClient

	styles Styles
	keymap KeyMap
	help   help.Model
	spin   spinner.Model

	input  textinput.Model
	inline inlineMode
	form   paramForm

	cards       viewport.Model
	cursor      int
	cardOffsets []int

	termWidth  int
	termHeight int

	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string
	helpItems   []helpItem

	scanParams backend.ScanParams
	taskParams backend.TaskParams

	watchResults <-chan ingest.Result
	watchErrs    <-chan error

	explaining bool
}

// New builds the dashboard model. explainer may be nil.
func New(ctx context.Context, cfg *config.Config, b dashboard.Backend, explainer *ai.OpenAIClient) *Model {
	sc := newScreen()
	state := dashboard.NewState(sc)
	m := &Model{
		ctx:       ctx,
		cfg:       cfg,
		state:     state,
		orch:      dashboard.NewOrchestrator(state, b),
		sc:        sc,
		explainer: explainer,
		styles:    NewStyles(cfg.Theme == config.ThemeDark),
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		spin:      spinner.New(),
		input:     textinput.New(),
		cards:     viewport.New(80, 20),
		scanParams: backend.ScanParams{
			Subreddit:  cfg.Demand.Subreddit,
			Keyword:    cfg.Demand.Keyword,
			TimeFilter: cfg.Demand.TimeFilter,
			Limit:      cfg.Demand.Limit,
		},
		taskParams: backend.TaskParams{
			Subreddits: cfg.Tasks.Subreddits,
			TimeFilter: cfg.Tasks.TimeFilter,
			Limit:      cfg.Tasks.Limit,
		},
		termWidth:  80,
		termHeight: 24,
	}
	m.help.Styles.ShortDesc = m.styles.Help
	m.help.Styles.ShortSeparator = m.styles.Help
	m.spin.Spinner = spinner.Dot
	m.input.CharLimit = 256
	_ = state.SwitchMode(model.ModeDemand)
	return m
}

func Run(ctx context.Context, cfg *config.Config, b dashboard.Backend, explainer *ai.OpenAIClient) error {
	m := New(ctx, cfg, b, explainer)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.dispatch(dashboard.ControlRequest(dashboard.ControlHealth))}
	if m.cfg.WatchFile != "" {
		m.watchResults, m.watchErrs = ingest.Watch(m.ctx, ingest.Options{
			Source: ingest.SourceFile,
			Path:   m.cfg.WatchFile,
			Follow: true,
		})
		cmds = append(cmds, m.waitWatch())
	}
	return tea.Batch(cmds...)
}

// State exposes the dashboard state, mostly for tests.
func (m *Model) State() *dashboard.State { return m.state }

// paramForm edits the backend parameters of one mode.
type paramForm struct {
	mode   model.Mode
	labels []string
	inputs []textinput.Model
	focus  int
	err    string
}

func newParamForm(mode model.Mode, sp backend.ScanParams, tp backend.TaskParams) paramForm {
	f := paramForm{mode: mode}
	add := func(label, value string) {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 128
		in.SetValue(value)
		f.labels = append(f.labels, label)
		f.inputs = append(f.inputs, in)
	}
	if mode == model.ModeTask {
		add("Subreddits", tp.Subreddits)
		add("Time filter", tp.TimeFilter)
		add("Limit", strconv.Itoa(tp.Limit))
	} else {
		add("Subreddit", sp.Subreddit)
		add("Keyword", sp.Keyword)
		add("Time filter", sp.TimeFilter)
		add("Limit", strconv.Itoa(sp.Limit))
	}
	f.inputs[0].Focus()
	return f
}

func (f *paramForm) next(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f paramForm) value(i int) string { return f.inputs[i].Value() }
