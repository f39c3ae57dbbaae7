// Package render writes the dashboard as a standalone HTML document, for
// one-shot CLI runs (--html out.html).
package render

import (
	"html/template"
	"io"
	"os"
	"sync"
	"time"

	"huntdash/internal/dashboard"
	"huntdash/internal/model"
	"huntdash/internal/present"
)

// Page is a dashboard.Surface that keeps the last drawn state and renders
// it on demand.
type Page struct {
	mu sync.Mutex

	title        string
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
	controls     map[dashboard.Control]control
	busy         bool
	now          func() time.Time
}

type control struct {
	Label   string
	Enabled bool
}

var _ dashboard.Surface = (*Page)(nil)

func NewPage(title string) *Page {
	return &Page{
		title:        title,
		mode:         model.ModeDemand,
		activeFilter: map[model.Mode]string{model.ModeDemand: model.FilterAll, model.ModeTask: model.FilterAll},
		statsVisible: map[model.Mode]bool{},
		controls:     map[dashboard.Control]control{},
		now:          time.Now,
	}
}

func (p *Page) ShowMode(mode model.Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
	p.statsVisible = map[model.Mode]bool{}
}

func (p *Page) SetActiveFilter(mode model.Mode, category string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activeFilter[mode] = category
}

func (p *Page) ClearResults() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = nil
	p.errMsg, p.errHint = "", ""
}

func (p *Page) RenderResults(r present.Results) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = &r
	p.errMsg, p.errHint = "", ""
}

func (p *Page) RenderStats(s model.Stats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = &s
	p.statsVisible[model.ModeDemand] = true
}

func (p *Page) RenderTaskStats(s model.TaskStats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.taskStats = &s
	p.statsVisible[model.ModeTask] = true
}

func (p *Page) HideStats(mode model.Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statsVisible[mode] = false
}

func (p *Page) RenderError(msg, hint string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = nil
	p.errMsg, p.errHint = msg, hint
}

func (p *Page) Notify(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, msg)
}

func (p *Page) Status(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = msg
}

func (p *Page) SetControl(c dashboard.Control, label string, enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.controls[c] = control{Label: label, Enabled: enabled}
}

func (p *Page) SetBusy(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy = on
}

type tab struct {
	Key    string
	Label  string
	Active bool
}

type stat struct {
	Label string
	Value int
}

type pageData struct {
	Title     string
	Generated string
	Modes     []tab
	Filters   []tab
	Stats     []stat
	Mode      model.Mode
	Results   *present.Results
	ErrMsg    string
	ErrHint   string
	Notices   []string
	Status    string
	Busy      bool
}

func (p *Page) data() pageData {
	d := pageData{
		Title:     p.title,
		Generated: p.now().Format("2006-01-02 15:04"),
		Mode:      p.mode,
		Results:   p.results,
		ErrMsg:    p.errMsg,
		ErrHint:   p.errHint,
		Notices:   append([]string(nil), p.notices...),
		Status:    p.status,
		Busy:      p.busy,
	}
	d.Modes = []tab{
		{Key: string(model.ModeDemand), Label: "Demand Radar", Active: p.mode == model.ModeDemand},
		{Key: string(model.ModeTask), Label: "Task Hunter", Active: p.mode == model.ModeTask},
	}
	active := p.activeFilter[p.mode]
	d.Filters = append(d.Filters, tab{Key: model.FilterAll, Label: "All", Active: active == model.FilterAll || active == ""})
	if p.mode == model.ModeTask {
		for _, c := range model.TaskCategories() {
			d.Filters = append(d.Filters, tab{Key: string(c), Label: present.TaskLabel(c), Active: active == string(c)})
		}
		if p.statsVisible[model.ModeTask] && p.taskStats != nil {
			s := p.taskStats
			d.Stats = []stat{{"Skill Match", s.SkillMatch}, {"Maybe", s.MaybeMatch}, {"Irrelevant", s.Irrelevant}, {"Danger", s.Danger}, {"Total", s.Total}}
		}
	} else {
		for _, c := range model.Categories() {
			d.Filters = append(d.Filters, tab{Key: string(c), Label: present.DemandLabel(c), Active: active == string(c)})
		}
		if p.statsVisible[model.ModeDemand] && p.stats != nil {
			s := p.stats
			d.Stats = []stat{{"Product Needs", s.ProductNeeds}, {"Personal Issues", s.PersonalIssues}, {"Worth Looking", s.WorthLooking}, {"Unclear", s.Unclear}, {"Total", s.Total}}
		}
	}
	return d
}

// esc routes free text through the shared escaper; the result is final
// markup and must not be escaped again.
func esc(s string) template.HTML { return template.HTML(present.EscapeHTML(s)) }

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"esc": esc,
}).Parse(pageTemplate))

// Render writes the current state as an HTML document.
func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	d := p.data()
	p.mu.Unlock()
	return pageTmpl.Execute(w, d)
}

func (p *Page) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
