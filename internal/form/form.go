// Package form models the add-task panel: a combined draft record, the
// Closed/Editing state machine and the commit step that turns a draft into
// a task.
package form

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tasktable/internal/storage"
	"tasktable/internal/task"
)

var (
	ErrFormClosed   = errors.New("form is closed")
	ErrUnknownField = errors.New("unknown draft field")
)

type State int

const (
	Closed State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "closed"
}

type Field string

const (
	Description Field = "description"
	Category    Field = "category"
	Deadline    Field = "deadline"
	Priority    Field = "priority"
)

// Fields lists the draft fields in input order.
func Fields() []Field {
	return []Field{Description, Category, Deadline, Priority}
}

// Draft holds raw input. Deadline is kept in the date picker format until
// commit.
type Draft struct {
	Description string
	Category    string
	Deadline    string
	Priority    task.Priority
}

func EmptyDraft() Draft {
	return Draft{Priority: task.Low}
}

// With returns a copy of d with one field replaced.
func (d Draft) With(field Field, value string) (Draft, error) {
	switch field {
	case Description:
		d.Description = value
	case Category:
		d.Category = value
	case Deadline:
		d.Deadline = value
	case Priority:
		p, err := task.ParsePriority(value)
		if err != nil {
			return d, err
		}
		d.Priority = p
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return d, nil
}

func (d Draft) Value(field Field) string {
	switch field {
	case Description:
		return d.Description
	case Category:
		return d.Category
	case Deadline:
		return d.Deadline
	case Priority:
		return string(d.Priority)
	}
	return ""
}

// Commit validates presence of the text fields and builds a new, not yet
// done task with its deadline in display format.
func Commit(d Draft, loc *time.Location) (task.Task, error) {
	for _, f := range []Field{Description, Category, Deadline} {
		if strings.TrimSpace(d.Value(f)) == "" {
			return task.Task{}, &task.FieldError{Kind: task.ErrMissingField, Field: string(f)}
		}
	}
	p := d.Priority
	if p == "" {
		p = task.Low
	}
	if !p.Valid() {
		return task.Task{}, fmt.Errorf("%w: %q", task.ErrInvalidPriority, p)
	}
	deadline, err := task.NormalizeDeadline(d.Deadline, loc)
	if err != nil {
		return task.Task{}, &task.FieldError{Kind: task.ErrInvalidDeadline, Field: string(Deadline)}
	}
	return task.Task{
		Description: d.Description,
		Category:    d.Category,
		Deadline:    deadline,
		Priority:    p,
	}, nil
}

// Form is an immutable snapshot of the panel. The zero value is Closed.
type Form struct {
	state State
	draft Draft
}

func (f Form) State() State { return f.state }

func (f Form) Draft() Draft { return f.draft }

func (f Form) Open() bool { return f.state == Editing }

// Toggle opens the panel with an empty draft or closes it, discarding any
// unsaved input.
func (f Form) Toggle() Form {
	if f.state == Editing {
		return Form{}
	}
	return Form{state: Editing, draft: EmptyDraft()}
}

func (f Form) Set(field Field, value string) (Form, error) {
	if f.state != Editing {
		return f, ErrFormClosed
	}
	d, err := f.draft.With(field, value)
	if err != nil {
		return f, err
	}
	f.draft = d
	return f, nil
}

// Submit commits the draft into the store and closes the panel. On error
// the form and the store are left as they were.
func (f Form) Submit(s *storage.Store, loc *time.Location) (Form, task.Task, error) {
	if f.state != Editing {
		return f, task.Task{}, ErrFormClosed
	}
	t, err := Commit(f.draft, loc)
	if err != nil {
		return f, task.Task{}, err
	}
	_, added := s.AddTask(t)
	return Form{}, added, nil
}
