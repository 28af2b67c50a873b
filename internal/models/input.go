package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// CreateTaskInput is the body accepted by the create endpoint.
type CreateTaskInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=1000"`
	DueDate     string `json:"dueDate,omitempty"`
}

// TaskPatch is a partial update. Only the keys present in the JSON body are
// set; DueDateSet with an empty DueDate clears the due date.
type TaskPatch struct {
	Title       *string `validate:"omitnil,min=1,max=255"`
	Description *string `validate:"omitnil,max=1000"`
	Completed   *bool
	DueDate     string
	DueDateSet  bool
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil && !p.DueDateSet
}

// SetDueDate marks the due date as present. A nil value clears it.
func (p *TaskPatch) SetDueDate(due *time.Time) {
	p.DueDateSet = true
	p.DueDate = ""
	if due != nil {
		p.DueDate = due.UTC().Format(time.RFC3339)
	}
}

func (p *TaskPatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = TaskPatch{}

	if v, ok := raw["title"]; ok {
		s, err := nullableString(v)
		if err != nil {
			return fmt.Errorf("title: %w", err)
		}
		p.Title = &s
	}
	if v, ok := raw["description"]; ok {
		s, err := nullableString(v)
		if err != nil {
			return fmt.Errorf("description: %w", err)
		}
		p.Description = &s
	}
	if v, ok := raw["completed"]; ok {
		dec := json.NewDecoder(bytes.NewReader(v))
		dec.UseNumber()
		var anyValue any
		if err := dec.Decode(&anyValue); err != nil {
			return fmt.Errorf("completed: %w", err)
		}
		completed := NormalizeCompleted(anyValue)
		p.Completed = &completed
	}
	if v, ok := raw["dueDate"]; ok {
		s, err := nullableString(v)
		if err != nil {
			return fmt.Errorf("dueDate: %w", err)
		}
		p.DueDateSet = true
		p.DueDate = s
	}
	return nil
}

func (p TaskPatch) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 4)
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.Completed != nil {
		out["completed"] = *p.Completed
	}
	if p.DueDateSet {
		if p.DueDate == "" {
			out["dueDate"] = nil
		} else {
			out["dueDate"] = p.DueDate
		}
	}
	return json.Marshal(out)
}

func nullableString(v json.RawMessage) (string, error) {
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", err
	}
	return s, nil
}

// NewTask holds validated values for an insert.
type NewTask struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// TaskChanges holds validated values for an update. Nil fields are left
// unchanged; ClearDueDate wins over DueDate.
type TaskChanges struct {
	Title        *string
	Description  *string
	Completed    *bool
	DueDate      *time.Time
	ClearDueDate bool
}

func String(s string) *string { return &s }

func Bool(b bool) *bool { return &b }
