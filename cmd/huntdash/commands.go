package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"huntdash/internal/backend"
	"huntdash/internal/dashboard"
	"huntdash/internal/export"
	"huntdash/internal/ingest"
	"huntdash/internal/model"
	"huntdash/internal/util/logx"
)

// viewFlags shape what a one-shot command prints after its request.
type viewFlags struct {
	html     string
	category string
	search   string
	expr     string
}

func (v *viewFlags) register(c *cobra.Command, filters bool) {
	c.Flags().StringVar(&v.html, "html", "", "also write the dashboard page to this HTML file")
	if filters {
		c.Flags().StringVar(&v.category, "category", model.FilterAll, "show only this category")
		c.Flags().StringVar(&v.search, "search", "", "show only posts containing text (or matching /regex/)")
		c.Flags().StringVar(&v.expr, "expr", "", "show only posts matching an expression, e.g. 'confidence > 0.7'")
	}
}

func (a *app) session(cmd *cobra.Command, mode model.Mode) (*console, *dashboard.Orchestrator, error) {
	sc := newConsole("huntdash", cmd.OutOrStdout(), cmd.ErrOrStderr())
	st := dashboard.NewState(sc)
	if err := st.SwitchMode(mode); err != nil {
		return nil, nil, err
	}
	return sc, dashboard.NewOrchestrator(st, a.client), nil
}

// show applies the view filters, prints the visible feed and writes the
// requested export and HTML files.
func (a *app) show(cmd *cobra.Command, sc *console, st *dashboard.State, v *viewFlags) error {
	if v.category != "" && v.category != model.FilterAll {
		if err := st.Filter(v.category); err != nil {
			return err
		}
	}
	if v.search != "" || v.expr != "" {
		if err := st.Refine(v.search, v.expr); err != nil {
			return err
		}
	}
	printResults(cmd.OutOrStdout(), st.Results())
	if err := a.export(cmd, st); err != nil {
		return err
	}
	return writeHTML(cmd, sc, v.html)
}

func writeHTML(cmd *cobra.Command, sc *console, path string) error {
	if path == "" {
		return nil
	}
	if err := sc.WriteFile(path); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "wrote", path)
	return nil
}

func (a *app) export(cmd *cobra.Command, st *dashboard.State) error {
	if a.cfg.ExportOut == "" {
		return nil
	}
	f, err := export.ParseFormat(a.cfg.ExportFormat)
	if err != nil {
		return err
	}
	var n int
	if st.Mode() == model.ModeTask {
		rows := st.VisibleTasks()
		n, err = len(rows), export.ToFile(a.cfg.ExportOut, f, export.TaskColumns, rows)
	} else {
		rows := st.VisiblePosts()
		n, err = len(rows), export.ToFile(a.cfg.ExportOut, f, export.PostColumns, rows)
	}
	if errors.Is(err, export.ErrEmpty) {
		logx.Warnf("export: nothing to write to %s", a.cfg.ExportOut)
		return nil
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logx.Infof("export: wrote %d rows to %s (%s)", n, a.cfg.ExportOut, f)
	return nil
}

func (a *app) scanCmd() *cobra.Command {
	v := &viewFlags{}
	c := &cobra.Command{
		Use:   "scan",
		Short: "Fetch and classify demand posts (Demand Radar)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, orch, err := a.session(cmd, model.ModeDemand)
			if err != nil {
				return err
			}
			req := dashboard.ScanRequest(backend.ScanParams{
				Subreddit:  a.cfg.Demand.Subreddit,
				Keyword:    a.cfg.Demand.Keyword,
				TimeFilter: a.cfg.Demand.TimeFilter,
				Limit:      a.cfg.Demand.Limit,
			})
			if _, err := orch.Run(cmd.Context(), req); err != nil {
				_ = writeHTML(cmd, sc, v.html)
				return err
			}
			return a.show(cmd, sc, orch.State(), v)
		},
	}
	v.register(c, true)
	return c
}

func (a *app) tasksCmd() *cobra.Command {
	v := &viewFlags{}
	c := &cobra.Command{
		Use:   "tasks",
		Short: "Fetch and classify task posts (Task Hunter)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, orch, err := a.session(cmd, model.ModeTask)
			if err != nil {
				return err
			}
			req := dashboard.TasksRequest(backend.TaskParams{
				Subreddits: a.cfg.Tasks.Subreddits,
				TimeFilter: a.cfg.Tasks.TimeFilter,
				Limit:      a.cfg.Tasks.Limit,
			})
			if _, err := orch.Run(cmd.Context(), req); err != nil {
				_ = writeHTML(cmd, sc, v.html)
				return err
			}
			return a.show(cmd, sc, orch.State(), v)
		},
	}
	v.register(c, true)
	return c
}

func (a *app) scanNowCmd() *cobra.Command {
	v := &viewFlags{}
	c := &cobra.Command{
		Use:   "scan-now",
		Short: "Ask the backend for new task matches and send notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, orch, err := a.session(cmd, model.ModeTask)
			if err != nil {
				return err
			}
			if _, err := orch.Run(cmd.Context(), dashboard.ControlRequest(dashboard.ControlNotify)); err != nil {
				return err
			}
			if !orch.State().Tasks.Loaded() {
				return writeHTML(cmd, sc, v.html)
			}
			return a.show(cmd, sc, orch.State(), v)
		},
	}
	v.register(c, true)
	return c
}

func (a *app) control(use, short string, ctl dashboard.Control) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := a.session(cmd, model.ModeDemand)
			if err != nil {
				return err
			}
			_, err = orch.Run(cmd.Context(), dashboard.ControlRequest(ctl))
			return err
		},
	}
}

func (a *app) schedulerCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "scheduler",
		Short: "Control the backend's periodic task scan",
	}
	c.AddCommand(
		a.control("start", "Start periodic scanning", dashboard.ControlSchedulerStart),
		a.control("stop", "Stop periodic scanning", dashboard.ControlSchedulerStop),
	)
	return c
}

func (a *app) clearCacheCmd() *cobra.Command {
	return a.control("clear-cache", "Forget which posts were already notified", dashboard.ControlClearCache)
}

func (a *app) healthCmd() *cobra.Command {
	return a.control("health", "Check that the backend is reachable", dashboard.ControlHealth)
}

func (a *app) replayCmd() *cobra.Command {
	v := &viewFlags{}
	var follow, fromStart bool
	c := &cobra.Command{
		Use:   "replay <file|->",
		Short: "Apply scan-now results recorded as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, orch, err := a.session(cmd, model.ModeTask)
			if err != nil {
				return err
			}
			opt := ingest.Options{Source: ingest.SourceFile, Path: args[0], Follow: follow, FromStart: fromStart}
			if args[0] == "-" {
				opt = ingest.Options{Source: ingest.SourceStdin}
			}
			results, errs := ingest.Watch(cmd.Context(), opt)
			var failed error
			for results != nil || errs != nil {
				select {
				case <-cmd.Context().Done():
					results, errs = nil, nil
				case r, ok := <-results:
					if !ok {
						results = nil
						continue
					}
					orch.Ingest(r.ScanNow)
				case err, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					logx.Warnf("replay: %v", err)
					if failed == nil {
						failed = err
					}
				}
			}
			if !orch.State().Tasks.Loaded() {
				if failed != nil {
					return failed
				}
				fmt.Fprintln(cmd.OutOrStdout(), "No scan-now results with posts")
				return writeHTML(cmd, sc, v.html)
			}
			return a.show(cmd, sc, orch.State(), v)
		},
	}
	c.Flags().BoolVar(&follow, "follow", false, "keep reading as lines are appended")
	c.Flags().BoolVar(&fromStart, "from-start", true, "with --follow, replay existing lines first")
	v.register(c, true)
	return c
}
