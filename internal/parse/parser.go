// Package parse decodes classification-backend responses and rejects bodies
// whose shape does not match what the dashboard renders.
package parse

import (
	"bytes"
	"encoding/json"
	"fmt"

	"huntdash/internal/model"
)

// ShapeError reports a response that decoded as JSON but is missing a field
// or carries it with the wrong JSON type.
type ShapeError struct {
	Response string
	Field    string
	Want     string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected %s response: field %q must be %s", e.Response, e.Field, e.Want)
}

type kind int

const (
	kindArray kind = iota
	kindObject
	kindString
	kindNumber
	kindBool
)

func (k kind) String() string {
	switch k {
	case kindArray:
		return "an array"
	case kindObject:
		return "an object"
	case kindString:
		return "a string"
	case kindNumber:
		return "a number"
	default:
		return "a boolean"
	}
}

func (k kind) matches(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return false
	}
	switch c := v[0]; k {
	case kindArray:
		return c == '['
	case kindObject:
		return c == '{'
	case kindString:
		return c == '"'
	case kindNumber:
		return c == '-' || (c >= '0' && c <= '9')
	default:
		return bytes.Equal(v, []byte("true")) || bytes.Equal(v, []byte("false"))
	}
}

type field struct {
	name     string
	kind     kind
	optional bool
}

var (
	scanFields = []field{
		{name: "posts", kind: kindArray},
		{name: "stats", kind: kindObject},
		{name: "message", kind: kindString, optional: true},
	}
	schedulerFields = []field{
		{name: "status", kind: kindString},
		{name: "interval_minutes", kind: kindNumber, optional: true},
	}
	scanNowFields = []field{
		{name: "total_scanned", kind: kindNumber},
		{name: "new_matches", kind: kindNumber},
		{name: "notified", kind: kindBool},
		{name: "posts", kind: kindArray, optional: true},
	}
	clearCacheFields = []field{
		{name: "status", kind: kindString},
		{name: "removed", kind: kindNumber},
	}
	healthFields = []field{
		{name: "status", kind: kindString},
	}
)

func decode(response string, data []byte, fields []field, out any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%s response is not a JSON object: %w", response, err)
	}
	for _, f := range fields {
		v, ok := raw[f.name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			if f.optional {
				continue
			}
			return &ShapeError{Response: response, Field: f.name, Want: f.kind.String()}
		}
		if !f.kind.matches(v) {
			return &ShapeError{Response: response, Field: f.name, Want: f.kind.String()}
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", response, err)
	}
	return nil
}

func Scan(data []byte) (model.ScanResponse, error) {
	var out model.ScanResponse
	err := decode("scan", data, scanFields, &out)
	return out, err
}

func Tasks(data []byte) (model.TaskResponse, error) {
	var out model.TaskResponse
	err := decode("tasks", data, scanFields, &out)
	return out, err
}

func Scheduler(data []byte) (model.SchedulerStatus, error) {
	var out model.SchedulerStatus
	err := decode("scheduler", data, schedulerFields, &out)
	return out, err
}

func ScanNow(data []byte) (model.ScanNowResult, error) {
	var out model.ScanNowResult
	err := decode("scan-now", data, scanNowFields, &out)
	return out, err
}

func ClearCache(data []byte) (model.ClearCacheResult, error) {
	var out model.ClearCacheResult
	err := decode("clear-cache", data, clearCacheFields, &out)
	return out, err
}

func Health(data []byte) (model.HealthStatus, error) {
	var out model.HealthStatus
	err := decode("health", data, healthFields, &out)
	return out, err
}
