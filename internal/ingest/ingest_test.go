package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{"total_scanned":10,"new_matches":1,"notified":true,"posts":[{"title":"a","task_category":"skill_match","freshness_minutes":3}]}

not json
{"total_scanned":4,"new_matches":0,"notified":false}
`

func writeSample(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "scan-now.jsonl")
	require.NoError(t, os.WriteFile(p, []byte(sample), 0o644))
	return p
}

func collect(t *testing.T, res <-chan Result, errs <-chan error, want int) ([]Result, []error) {
	t.Helper()
	var got []Result
	var bad []error
	timeout := time.After(5 * time.Second)
	for want < 0 || len(got) < want {
		select {
		case r, ok := <-res:
			if !ok {
				if errs != nil {
					for err := range errs {
						bad = append(bad, err)
					}
				}
				return got, bad
			}
			got = append(got, r)
		case err, ok := <-errs:
			if ok {
				bad = append(bad, err)
			} else {
				errs = nil
			}
		case <-timeout:
			t.Fatalf("timed out with %d results", len(got))
		}
	}
	return got, bad
}

func TestWatchFileOnce(t *testing.T) {
	p := writeSample(t)
	res, errs := Watch(context.Background(), Options{Source: SourceFile, Path: p})
	got, bad := collect(t, res, errs, -1)
	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].ScanNow.TotalScanned)
	require.Len(t, got[0].ScanNow.Posts, 1)
	assert.Equal(t, 4, got[1].ScanNow.TotalScanned)
	assert.Len(t, bad, 1)
}

func TestWatchFollowFromStart(t *testing.T) {
	p := writeSample(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	res, errs := Watch(ctx, Options{Source: SourceFile, Path: p, Follow: true, FromStart: true})
	got, _ := collect(t, res, errs, 2)
	assert.Equal(t, 10, got[0].ScanNow.TotalScanned)
	assert.Equal(t, p, got[0].Line.Source)

	f, err := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"total_scanned":7,"new_matches":0,"notified":false}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	more, _ := collect(t, res, errs, 1)
	assert.Equal(t, 7, more[0].ScanNow.TotalScanned)
}

func TestMissingFile(t *testing.T) {
	res, errs := Watch(context.Background(), Options{Source: SourceFile, Path: filepath.Join(t.TempDir(), "nope")})
	_, bad := collect(t, res, errs, -1)
	assert.NotEmpty(t, bad)
}

func TestSendGivesUpOnCancel(t *testing.T) {
	errs := make(chan error, 1)
	errs <- errors.New("first")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		send(ctx, errs, errors.New("second"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("send blocked on a full channel after cancel")
	}
}

func TestReadFinishesAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lines, errs := Read(ctx, Options{Source: SourceFile, Path: filepath.Join(t.TempDir(), "nope")})
	deadline := time.After(2 * time.Second)
	for lines != nil || errs != nil {
		select {
		case _, ok := <-lines:
			if !ok {
				lines = nil
			}
		case _, ok := <-errs:
			if !ok {
				errs = nil
			}
		case <-deadline:
			t.Fatal("reader did not finish after cancel")
		}
	}
}
