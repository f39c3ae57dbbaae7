package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// TimeFilters are the usual Reddit listing windows, listed in flag help.
// Scan parameters are sent to the backend unchecked.
var TimeFilters = []string{"hour", "day", "week", "month", "year", "all"}

type DemandDefaults struct {
	Subreddit  string `yaml:"subreddit"`
	Keyword    string `yaml:"keyword"`
	TimeFilter string `yaml:"time_filter"`
	Limit      int    `yaml:"limit"`
}

type TaskDefaults struct {
	Subreddits string `yaml:"subreddits"`
	TimeFilter string `yaml:"time_filter"`
	Limit      int    `yaml:"limit"`
}

type OpenAIConfig struct {
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type Config struct {
	BackendURL    string         `yaml:"backend_url"`
	TimeoutSec    int            `yaml:"timeout_sec"`
	RatePerSecond float64        `yaml:"rate_per_second"`
	Theme         Theme          `yaml:"theme"`
	Offline       bool           `yaml:"offline"`
	NoCache       bool           `yaml:"no_cache"`
	Demand        DemandDefaults `yaml:"demand"`
	Tasks         TaskDefaults   `yaml:"tasks"`
	OpenAI        OpenAIConfig   `yaml:"openai"`
	ExportFormat  string         `yaml:"export_format"`
	ExportOut     string         `yaml:"export_out,omitempty"`
	WatchFile     string         `yaml:"watch_file,omitempty"`
	LogFile       string         `yaml:"log_file,omitempty"`
	LogLevel      string         `yaml:"log_level,omitempty"`

	// Path is the file the config was read from, if any.
	Path string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		BackendURL:    "http://localhost:8000",
		TimeoutSec:    30,
		RatePerSecond: 2,
		Theme:         ThemeDark,
		ExportFormat:  "csv",
		Demand: DemandDefaults{
			Subreddit:  "SideProject",
			Keyword:    "I wish",
			TimeFilter: "month",
			Limit:      50,
		},
		Tasks: TaskDefaults{
			TimeFilter: "day",
			Limit:      50,
		},
		OpenAI: OpenAIConfig{
			Model:      "gpt-4o-mini",
			TimeoutSec: 60,
		},
	}
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "huntdash", "config.yaml")
}

// ExplainCacheDir is where post explanations are cached.
func ExplainCacheDir() string {
	return filepath.Join(xdg.CacheHome, "huntdash", "explain")
}

// Load layers defaults, the YAML file at path (DefaultConfigPath when empty;
// a missing file is fine) and HUNTDASH_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		cfg.Path = path
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BackendURL = getenvDefault("HUNTDASH_BACKEND_URL", c.BackendURL)
	c.TimeoutSec = getenvDefaultInt("HUNTDASH_TIMEOUT_SEC", c.TimeoutSec)
	c.Theme = Theme(getenvDefault("HUNTDASH_THEME", string(c.Theme)))
	c.Demand.Subreddit = getenvDefault("HUNTDASH_SUBREDDIT", c.Demand.Subreddit)
	c.Demand.Keyword = getenvDefault("HUNTDASH_KEYWORD", c.Demand.Keyword)
	c.Tasks.Subreddits = getenvDefault("HUNTDASH_TASK_SUBREDDITS", c.Tasks.Subreddits)
	c.OpenAI.Model = getenvDefault("HUNTDASH_OPENAI_MODEL", c.OpenAI.Model)
	c.OpenAI.BaseURL = getenvDefault("HUNTDASH_OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.OpenAI.TimeoutSec = getenvDefaultInt("HUNTDASH_OPENAI_TIMEOUT_SEC", c.OpenAI.TimeoutSec)
	c.WatchFile = getenvDefault("HUNTDASH_WATCH_FILE", c.WatchFile)
	c.LogFile = getenvDefault("HUNTDASH_LOG_FILE", c.LogFile)
	if v := os.Getenv("HUNTDASH_OFFLINE"); v != "" {
		c.Offline = v != "0" && !strings.EqualFold(v, "false")
	}
}

// RegisterFlags declares the command-line overrides on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "config file (default "+DefaultConfigPath()+")")
	fs.String("backend", d.BackendURL, "classification backend base URL")
	fs.Int("timeout", d.TimeoutSec, "HTTP timeout in seconds")
	fs.Float64("rate", d.RatePerSecond, "max backend requests per second (0 = unlimited)")
	fs.String("theme", string(d.Theme), "theme: dark|light")
	fs.Bool("offline", false, "disable OpenAI explanations")
	fs.Bool("no-cache", false, "disable the explanation cache")
	fs.String("subreddit", d.Demand.Subreddit, "demand scan subreddit")
	fs.String("keyword", d.Demand.Keyword, "demand scan keyword")
	fs.String("time-filter", d.Demand.TimeFilter, "demand scan time filter: "+strings.Join(TimeFilters, "|"))
	fs.Int("limit", d.Demand.Limit, "demand scan post limit")
	fs.String("task-subreddits", d.Tasks.Subreddits, "comma separated task subreddits (empty = backend default)")
	fs.String("task-time-filter", d.Tasks.TimeFilter, "task scan time filter")
	fs.Int("task-limit", d.Tasks.Limit, "task scan post limit")
	fs.String("openai-model", d.OpenAI.Model, "OpenAI model for explanations")
	fs.String("openai-base-url", "", "OpenAI base URL override")
	fs.Int("openai-timeout-sec", d.OpenAI.TimeoutSec, "OpenAI request timeout in seconds")
	fs.String("export", d.ExportFormat, "export format: csv|ndjson")
	fs.String("out", "", "export destination (default huntdash-<mode>.<ext>)")
	fs.String("watch", "", "follow a JSONL file of scan-now results")
	fs.String("log-file", "", "append logs to this file")
	fs.String("log-level", "", "log level: debug|info|warn|error")
}

// ApplyFlags copies every flag the user set explicitly into c and
// re-validates.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var firstErr error
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			v, err := fs.GetString(name)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if fs.Changed(name) {
			v, err := fs.GetInt(name)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			*dst = v
		}
	}
	flag := func(name string, dst *bool) {
		if fs.Changed(name) {
			v, err := fs.GetBool(name)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			*dst = v
		}
	}
	str("backend", &c.BackendURL)
	num("timeout", &c.TimeoutSec)
	if fs.Changed("rate") {
		v, err := fs.GetFloat64("rate")
		if err != nil && firstErr == nil {
			firstErr = err
		}
		c.RatePerSecond = v
	}
	theme := string(c.Theme)
	str("theme", &theme)
	c.Theme = Theme(theme)
	flag("offline", &c.Offline)
	flag("no-cache", &c.NoCache)
	str("subreddit", &c.Demand.Subreddit)
	str("keyword", &c.Demand.Keyword)
	str("time-filter", &c.Demand.TimeFilter)
	num("limit", &c.Demand.Limit)
	str("task-subreddits", &c.Tasks.Subreddits)
	str("task-time-filter", &c.Tasks.TimeFilter)
	num("task-limit", &c.Tasks.Limit)
	str("openai-model", &c.OpenAI.Model)
	str("openai-base-url", &c.OpenAI.BaseURL)
	num("openai-timeout-sec", &c.OpenAI.TimeoutSec)
	str("export", &c.ExportFormat)
	str("out", &c.ExportOut)
	str("watch", &c.WatchFile)
	str("log-file", &c.LogFile)
	str("log-level", &c.LogLevel)
	if firstErr != nil {
		return firstErr
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("backend_url: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend_url: scheme must be http or https, got %q", u.Scheme)
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("theme: unknown theme %q (valid: dark, light)", c.Theme)
	}
	if c.TimeoutSec <= 0 {
		return fmt.Errorf("timeout_sec must be positive, got %d", c.TimeoutSec)
	}
	if c.RatePerSecond < 0 {
		return fmt.Errorf("rate_per_second must not be negative")
	}
	if c.ExportFormat != "csv" && c.ExportFormat != "ndjson" && c.ExportFormat != "jsonl" {
		return fmt.Errorf("export_format: unknown format %q (valid: csv, ndjson)", c.ExportFormat)
	}
	return nil
}

func (c *Config) Timeout() time.Duration { return time.Duration(c.TimeoutSec) * time.Second }

func (c *Config) OpenAITimeout() time.Duration {
	return time.Duration(c.OpenAI.TimeoutSec) * time.Second
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func (c *Config) OpenAIKey() string { return os.Getenv("OPENAI_API_KEY") }

// Save writes c as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := c.YAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(data), 0o644)
}

func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Config) String() string {
	return fmt.Sprintf("backend=%s timeout=%ds rate=%g theme=%s offline=%v watch=%s", c.BackendURL, c.TimeoutSec, c.RatePerSecond, c.Theme, c.Offline, c.WatchFile)
}
