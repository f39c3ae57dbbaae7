// Package export writes the currently visible feed to CSV or NDJSON.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type Format string

const (
	CSV    Format = "csv"
	NDJSON Format = "ndjson"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, NDJSON:
		return f, nil
	case "jsonl":
		return NDJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or ndjson)", s)
}

var ErrEmpty = errors.New("nothing to export")

// Row is a record that can be flattened into named columns.
type Row interface {
	Fields() map[string]any
}

var (
	PostColumns = []string{"title", "url", "category", "confidence", "score", "num_comments", "created", "need_score", "personal_score", "text"}
	TaskColumns = []string{"title", "url", "subreddit", "author", "task_category", "confidence", "freshness_minutes", "budget", "skill_score", "danger_score", "score", "num_comments", "text"}
)

func Write[T Row](w io.Writer, f Format, cols []string, rows []T) error {
	if len(rows) == 0 {
		return ErrEmpty
	}
	switch f {
	case CSV:
		return writeCSV(w, cols, rows)
	case NDJSON:
		return writeNDJSON(w, rows)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// ToFile writes rows to path, replacing any existing file.
func ToFile[T Row](path string, f Format, cols []string, rows []T) error {
	if len(rows) == 0 {
		return ErrEmpty
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(fh, f, cols, rows); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

func writeCSV[T Row](w io.Writer, cols []string, rows []T) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	for _, r := range rows {
		fields := r.Fields()
		rec := make([]string, len(cols))
		for i, c := range cols {
			rec[i] = cell(fields[c])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeNDJSON[T Row](w io.Writer, rows []T) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
