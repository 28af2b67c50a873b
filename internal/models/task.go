package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// UnmarshalJSON coerces completed with NormalizeCompleted and accepts the
// timestamp layouts understood by ParseTime.
func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	aux := struct {
		*alias
		Completed any     `json:"completed"`
		DueDate   *string `json:"dueDate"`
		CreatedAt string  `json:"createdAt"`
		UpdatedAt string  `json:"updatedAt"`
	}{alias: (*alias)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t.Completed = NormalizeCompleted(aux.Completed)

	t.DueDate = nil
	if aux.DueDate != nil && *aux.DueDate != "" {
		due, err := ParseTime(*aux.DueDate)
		if err != nil {
			return fmt.Errorf("dueDate: %w", err)
		}
		t.DueDate = &due
	}

	var err error
	if t.CreatedAt, err = parseOptionalTime(aux.CreatedAt); err != nil {
		return fmt.Errorf("createdAt: %w", err)
	}
	if t.UpdatedAt, err = parseOptionalTime(aux.UpdatedAt); err != nil {
		return fmt.Errorf("updatedAt: %w", err)
	}
	return nil
}

// IsOverdue reports whether an open task is past its due date.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && !t.Completed && t.DueDate.Before(now)
}

// NormalizeCompleted applies truthiness: nil, false, zero, NaN and the empty
// string are false, every other value is true.
func NormalizeCompleted(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case *bool:
		return x != nil && *x
	case string:
		return x != ""
	case []byte:
		return len(x) > 0
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return x != ""
		}
		return f != 0 && !math.IsNaN(f)
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case int:
		return x != 0
	case int8:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint8:
		return x != 0
	case uint16:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	default:
		return true
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTime parses RFC 3339 timestamps, the text layouts SQL drivers return
// and plain YYYY-MM-DD dates. Values without an offset are read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func parseOptionalTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return ParseTime(s)
}
