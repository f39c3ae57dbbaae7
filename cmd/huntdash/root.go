package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"huntdash/internal/ai"
	"huntdash/internal/backend"
	"huntdash/internal/config"
	"huntdash/internal/ui"
	"huntdash/internal/util/logx"
	"huntdash/internal/version"
)

type app struct {
	cfg     *config.Config
	client  *backend.Client
	logFile io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "huntdash",
		Short: "Terminal dashboard for Reddit demand and task hunting",
		Long: "huntdash shows the posts a classification backend found: product demand " +
			"signals (Demand Radar) and paid tasks (Task Hunter). Without a subcommand it " +
			"starts the interactive dashboard.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		a.scanCmd(),
		a.tasksCmd(),
		a.scanNowCmd(),
		a.schedulerCmd(),
		a.clearCacheCmd(),
		a.healthCmd(),
		a.replayCmd(),
		a.configCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.LogLevel != "" {
		l, ok := logx.ParseLevel(cfg.LogLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", cfg.LogLevel)
		}
		logx.SetLevel(l)
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logx.SetOutput(f)
		a.logFile = f
	}
	// One-shot commands print to a terminal that no TUI owns.
	if cmd != cmd.Root() && cfg.LogFile == "" {
		logx.SetStderr(true)
	}

	a.client, err = backend.New(backend.Options{
		BaseURL:       cfg.BackendURL,
		Timeout:       cfg.Timeout(),
		RatePerSecond: cfg.RatePerSecond,
		Burst:         1,
	})
	if err != nil {
		return err
	}
	logx.Infof("starting %s: %s", version.String(), cfg.String())
	logx.Debugf("backend: %s", a.client.BaseURL())
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) error {
	logx.SetStderr(false)
	if a.logFile != nil {
		logx.SetOutput(nil)
		return a.logFile.Close()
	}
	return nil
}

func (a *app) explainer() *ai.OpenAIClient {
	c := ai.NewOpenAIClient(a.cfg.OpenAIKey(), a.cfg.OpenAI.BaseURL, a.cfg.OpenAI.Model, a.cfg.OpenAITimeout())
	if !a.cfg.NoCache {
		c.WithCache(ai.NewCache(config.ExplainCacheDir()))
	}
	return c
}

func (a *app) runTUI(ctx context.Context) error {
	if err := ui.Run(ctx, a.cfg, a.client, a.explainer()); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// The root pre-run loads config, which version does not need.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Show or save the effective configuration",
	}
	c.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	})
	c.AddCommand(&cobra.Command{
		Use:   "save [path]",
		Short: "Write the effective configuration to path (default: the config file location)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Path
			if len(args) == 1 {
				path = args[0]
			}
			if strings.TrimSpace(path) == "" {
				path = config.DefaultConfigPath()
			}
			if err := a.cfg.Save(path); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	})
	return c
}
