// Package render writes a task snapshot, with days left derived at call
// time, as a table, JSON or YAML.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"tasktable/internal/task"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

func ParseFormat(v string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(v))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, v)
}

// Row is a task plus its derived days-left count.
type Row struct {
	task.Task `yaml:",inline"`
	DaysLeft  int `json:"days_left" yaml:"days_left"`
}

// Headers are the column titles of the task table, in display order.
var Headers = []string{"Done", "Description", "Category", "Deadline", "Priority", "Days Left"}

func Rows(tasks []task.Task, now time.Time) []Row {
	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, Row{Task: t, DaysLeft: task.DaysLeft(t.Deadline, now)})
	}
	return rows
}

// Cells flattens a row into table columns matching Headers.
func (r Row) Cells() []string {
	return []string{
		Checkbox(r.Done),
		r.Description,
		r.Category,
		r.Deadline,
		string(r.Priority),
		strconv.Itoa(r.DaysLeft),
	}
}

func Checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func Write(w io.Writer, format Format, tasks []task.Task, now time.Time) error {
	rows := Rows(tasks, now)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		_, err := fmt.Fprintln(w, Table(rows))
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func Table(rows []Row) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Headers...)
	for _, r := range rows {
		t.Row(r.Cells()...)
	}
	return t.String()
}
