package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var (
	mu       sync.Mutex
	level    = Info
	buf      = make([]string, 0, 500)
	maxLines = 500
	// stderr stays off by default so log lines never tear the TUI; enable via HUNTDASH_LOG_STDERR=1
	toStderr = false
	sink     io.Writer
)

func SetLevel(l Level) { mu.Lock(); level = l; mu.Unlock() }

// ParseLevel maps a level name to a Level. Unknown names report false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, true
	case "info":
		return Info, true
	case "warn", "warning":
		return Warn, true
	case "error":
		return Error, true
	}
	return Info, false
}

func SetLevelFromEnv() {
	if l, ok := ParseLevel(os.Getenv("HUNTDASH_LOG_LEVEL")); ok {
		SetLevel(l)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("HUNTDASH_LOG_STDERR"))); v != "" {
		mu.Lock()
		toStderr = v != "0" && v != "false" && v != "no"
		mu.Unlock()
	}
}

// SetStderr toggles mirroring to stderr. CLI subcommands enable it; the TUI does not.
func SetStderr(on bool) { mu.Lock(); toStderr = on; mu.Unlock() }

// SetOutput mirrors every retained line to w (typically a --log-file). Nil disables it.
func SetOutput(w io.Writer) { mu.Lock(); sink = w; mu.Unlock() }

func Debugf(format string, a ...any) { logf(Debug, "DEBUG", format, a...) }
func Infof(format string, a ...any)  { logf(Info, "INFO", format, a...) }
func Warnf(format string, a ...any)  { logf(Warn, "WARN", format, a...) }
func Errorf(format string, a ...any) { logf(Error, "ERROR", format, a...) }

func logf(l Level, tag, format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	ts := time.Now().Format("2006-01-02T15:04:05.000Z07:00")
	line := fmt.Sprintf("%s %-5s %s", ts, tag, fmt.Sprintf(format, a...))
	if len(buf) >= maxLines {
		copy(buf[0:], buf[1:])
		buf = buf[:len(buf)-1]
	}
	buf = append(buf, line)
	if toStderr {
		fmt.Fprintln(os.Stderr, line)
	}
	if sink != nil {
		fmt.Fprintln(sink, line)
	}
}

func Dump() string {
	mu.Lock()
	defer mu.Unlock()
	return strings.Join(buf, "\n")
}

func Lines() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(buf))
	copy(out, buf)
	return out
}

// Reset drops retained lines.
func Reset() {
	mu.Lock()
	buf = buf[:0]
	mu.Unlock()
}
