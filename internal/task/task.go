// Package task holds the task record, its priority enum and the deadline
// codec shared by the store and the add-task form.
package task

import (
	"fmt"
	"strings"
	"time"
)

type ID int

type Priority string

const (
	Low    Priority = "Low"
	Medium Priority = "Medium"
	High   Priority = "High"
)

var priorities = []Priority{Low, Medium, High}

// Priorities lists the accepted values in ascending order.
func Priorities() []Priority {
	out := make([]Priority, len(priorities))
	copy(out, priorities)
	return out
}

func ParsePriority(v string) (Priority, error) {
	v = strings.TrimSpace(v)
	for _, p := range priorities {
		if strings.EqualFold(v, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, v)
}

func (p Priority) Valid() bool {
	for _, known := range priorities {
		if p == known {
			return true
		}
	}
	return false
}

// Next returns the following priority, wrapping High back to Low.
func (p Priority) Next() Priority {
	return p.shift(1)
}

func (p Priority) Prev() Priority {
	return p.shift(-1)
}

func (p Priority) shift(delta int) Priority {
	idx := 0
	for i, known := range priorities {
		if p == known {
			idx = i
			break
		}
	}
	n := len(priorities)
	return priorities[((idx+delta)%n+n)%n]
}

// Task is a value record. Updates go through the With* helpers, which
// return a modified copy.
type Task struct {
	ID          ID       `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Deadline    string   `json:"deadline" yaml:"deadline"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Done        bool     `json:"done" yaml:"done"`
}

func (t Task) WithDone(done bool) Task {
	t.Done = done
	return t
}

func (t Task) WithPriority(p Priority) Task {
	t.Priority = p
	return t
}

// Seed describes a task supplied at startup, before an ID is assigned.
type Seed struct {
	Description string `toml:"description"`
	Category    string `toml:"category"`
	Deadline    string `toml:"deadline"`
	Priority    string `toml:"priority"`
	Done        bool   `toml:"done"`
}

// FromSeed validates a seed and converts it into a Task without an ID.
// Deadlines may be given in either input or display format.
func FromSeed(s Seed, loc *time.Location) (Task, error) {
	if strings.TrimSpace(s.Description) == "" {
		return Task{}, missing("description")
	}
	p := Low
	if strings.TrimSpace(s.Priority) != "" {
		var err error
		if p, err = ParsePriority(s.Priority); err != nil {
			return Task{}, err
		}
	}
	deadline := ""
	if strings.TrimSpace(s.Deadline) != "" {
		var err error
		if deadline, err = NormalizeDeadline(s.Deadline, loc); err != nil {
			return Task{}, err
		}
	}
	return Task{
		Description: s.Description,
		Category:    s.Category,
		Deadline:    deadline,
		Priority:    p,
		Done:        s.Done,
	}, nil
}
