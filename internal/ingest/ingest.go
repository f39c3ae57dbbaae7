// Package ingest reads scan-now results appended to a JSONL file, one
// result object per line, for example by a cron job driving the backend.
package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nxadm/tail"

	"huntdash/internal/model"
	"huntdash/internal/parse"
)

type SourceKind string

const (
	SourceStdin SourceKind = "stdin"
	SourceFile  SourceKind = "file"
)

type Options struct {
	Source SourceKind
	Path   string
	// Follow keeps reading as lines are appended; only for files.
	Follow bool
	// FromStart replays existing lines when following; otherwise only new
	// lines are delivered.
	FromStart   bool
	ScanBufSize int // per-line max (bytes)
}

type Line struct {
	Text   string
	Source string
	When   time.Time
}

// Result is one decoded line.
type Result struct {
	Line    Line
	ScanNow model.ScanNowResult
}

func Read(ctx context.Context, opt Options) (<-chan Line, <-chan error) {
	out := make(chan Line, 64)
	errs := make(chan error, 8)

	go func() {
		defer close(out)
		defer close(errs)

		switch opt.Source {
		case SourceStdin:
			readFromReader(ctx, os.Stdin, "stdin", opt.ScanBufSize, out, errs)
		case SourceFile:
			if opt.Follow {
				readFromTail(ctx, opt.Path, opt.FromStart, out, errs)
				return
			}
			f, err := os.Open(opt.Path)
			if err != nil {
				send(ctx, errs, err)
				return
			}
			defer f.Close()
			readFromReader(ctx, f, opt.Path, opt.ScanBufSize, out, errs)
		default:
			send(ctx, errs, errors.New("unknown source kind"))
		}
	}()

	return out, errs
}

// Watch is Read followed by decoding. Blank lines are skipped; undecodable
// lines are reported on the error channel and reading continues.
func Watch(ctx context.Context, opt Options) (<-chan Result, <-chan error) {
	lines, lerrs := Read(ctx, opt)
	out := make(chan Result, 16)
	errs := make(chan error, 8)
	go func() {
		defer close(out)
		defer close(errs)
		for lines != nil || lerrs != nil {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-lerrs:
				if !ok {
					lerrs = nil
					continue
				}
				send(ctx, errs, err)
			case l, ok := <-lines:
				if !ok {
					lines = nil
					continue
				}
				if strings.TrimSpace(l.Text) == "" {
					continue
				}
				res, err := parse.ScanNow([]byte(l.Text))
				if err != nil {
					send(ctx, errs, fmt.Errorf("%s: %w", l.Source, err))
					continue
				}
				select {
				case out <- Result{Line: l, ScanNow: res}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, errs
}

func send(ctx context.Context, errs chan<- error, err error) {
	select {
	case errs <- err:
	case <-ctx.Done():
	}
}

func readFromReader(ctx context.Context, r io.Reader, src string, maxBuf int, out chan<- Line, errs chan<- error) {
	if maxBuf <= 0 {
		maxBuf = 4 << 20
	}
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*64)
	scanner.Buffer(buf, maxBuf)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		case out <- Line{Text: scanner.Text(), Source: src, When: time.Now()}:
		}
	}
	if err := scanner.Err(); err != nil {
		send(ctx, errs, err)
	}
}

func readFromTail(ctx context.Context, path string, fromStart bool, out chan<- Line, errs chan<- error) {
	loc := &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	if fromStart {
		loc = &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
	}
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
		Location:  loc,
	})
	if err != nil {
		send(ctx, errs, err)
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				send(ctx, errs, l.Err)
				continue
			}
			select {
			case out <- Line{Text: l.Text, Source: path, When: time.Now()}:
			case <-ctx.Done():
				_ = t.Stop()
				return
			}
		}
	}
}
