package form

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"tasktable/internal/storage"
	"tasktable/internal/task"
)

func seedStore(t *testing.T) *storage.Store {
	t.Helper()
	return storage.New([]task.Task{
		{Description: "set up shopify account", Category: "Setup", Deadline: "Tue, Mar 26, 2024", Priority: task.Medium},
		{Description: "build home page", Category: "Design", Deadline: "Wed, Mar 27, 2024", Priority: task.High, Done: true},
		{Description: "purchase domain name", Category: "Setup", Deadline: "Mon, Mar 25, 2024", Priority: task.Low},
	}, nil)
}

func mustSet(t *testing.T, f Form, field Field, value string) Form {
	t.Helper()
	f, err := f.Set(field, value)
	if err != nil {
		t.Fatalf("set %s: %v", field, err)
	}
	return f
}

func TestToggle(t *testing.T) {
	t.Parallel()

	var f Form
	if f.State() != Closed {
		t.Fatalf("zero form should be closed")
	}
	f = f.Toggle()
	if !f.Open() || f.Draft() != EmptyDraft() {
		t.Fatalf("unexpected opened form: %+v", f)
	}
	if f.Draft().Priority != task.Low {
		t.Fatalf("default priority = %q", f.Draft().Priority)
	}
	f = mustSet(t, f, Description, "half typed")
	f = f.Toggle()
	if f.Open() {
		t.Fatalf("expected closed form")
	}
	f = f.Toggle()
	if f.Draft().Description != "" {
		t.Fatalf("draft survived close: %+v", f.Draft())
	}
}

func TestSet_Errors(t *testing.T) {
	t.Parallel()

	var closed Form
	if _, err := closed.Set(Description, "x"); !errors.Is(err, ErrFormClosed) {
		t.Fatalf("expected ErrFormClosed, got %v", err)
	}

	f := Form{}.Toggle()
	f = mustSet(t, f, Category, "Launch")
	got, err := f.Set(Field("owner"), "me")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if got != f {
		t.Fatalf("form changed on error")
	}
	got, err = f.Set(Priority, "urgent")
	if !errors.Is(err, task.ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
	if got != f {
		t.Fatalf("form changed on error")
	}
}

func TestCommit_MissingFields(t *testing.T) {
	t.Parallel()

	full := Draft{Description: "launch store", Category: "Launch", Deadline: "2024-04-01", Priority: task.Medium}
	cases := []struct {
		field Field
		draft Draft
	}{
		{Description, Draft{Category: full.Category, Deadline: full.Deadline}},
		{Category, Draft{Description: full.Description, Category: "   ", Deadline: full.Deadline}},
		{Deadline, Draft{Description: full.Description, Category: full.Category}},
	}
	for _, tc := range cases {
		_, err := Commit(tc.draft, time.UTC)
		var fe *task.FieldError
		if !errors.As(err, &fe) || !errors.Is(err, task.ErrMissingField) {
			t.Fatalf("%s: expected missing field error, got %v", tc.field, err)
		}
		if fe.Field != string(tc.field) {
			t.Errorf("expected field %s, got %s", tc.field, fe.Field)
		}
	}
}

func TestCommit_InvalidDeadline(t *testing.T) {
	t.Parallel()

	_, err := Commit(Draft{Description: "a", Category: "b", Deadline: "tomorrow"}, time.UTC)
	if !errors.Is(err, task.ErrInvalidDeadline) {
		t.Fatalf("expected ErrInvalidDeadline, got %v", err)
	}
}

func TestCommit_NormalizesDeadline(t *testing.T) {
	t.Parallel()

	got, err := Commit(Draft{Description: "a", Category: "b", Deadline: "2024-04-01"}, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := task.Task{Description: "a", Category: "b", Deadline: "Mon, Apr 1, 2024", Priority: task.Low}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	again, err := task.NormalizeDeadline(got.Deadline, time.UTC)
	if err != nil || again != got.Deadline {
		t.Fatalf("normalizing twice changed deadline: %q %v", again, err)
	}
}

func TestSubmit_MissingCategoryLeavesStateAlone(t *testing.T) {
	t.Parallel()

	s := seedStore(t)
	before := s.Tasks()

	f := Form{}.Toggle()
	f = mustSet(t, f, Description, "launch store")
	f = mustSet(t, f, Deadline, "2024-04-01")

	next, _, err := f.Submit(s, time.UTC)
	if !errors.Is(err, task.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if next != f || !next.Open() {
		t.Fatalf("form changed on failed submit")
	}
	if !reflect.DeepEqual(before, s.Tasks()) {
		t.Fatalf("store changed on failed submit")
	}
}

func TestSubmit_ClosedForm(t *testing.T) {
	t.Parallel()

	s := seedStore(t)
	if _, _, err := (Form{}).Submit(s, time.UTC); !errors.Is(err, ErrFormClosed) {
		t.Fatalf("expected ErrFormClosed, got %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("store changed")
	}
}

func TestScenario(t *testing.T) {
	t.Parallel()

	s := seedStore(t)
	ids := s.MatchDescription("purchase domain name")
	if len(ids) != 1 {
		t.Fatalf("expected one match, got %v", ids)
	}
	id := ids[0]

	s.SetDone(id, true)
	if _, err := s.SetPriority(id, task.High); err != nil {
		t.Fatalf("set priority: %v", err)
	}
	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Done || got.Priority != task.High {
		t.Fatalf("unexpected task: %+v", got)
	}
	first, _ := s.Get(1)
	second, _ := s.Get(2)
	if first.Done || first.Priority != task.Medium || !second.Done || second.Priority != task.High {
		t.Fatalf("other tasks touched: %+v %+v", first, second)
	}

	f := Form{}.Toggle()
	f = mustSet(t, f, Description, "launch store")
	f = mustSet(t, f, Category, "Launch")
	f = mustSet(t, f, Deadline, "2024-04-01")
	f = mustSet(t, f, Priority, "Medium")

	f, added, err := f.Submit(s, time.UTC)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if f.Open() || f.Draft() != (Draft{}) {
		t.Fatalf("form not reset: %+v", f)
	}
	tasks := s.Tasks()
	if len(tasks) != 4 || tasks[3] != added {
		t.Fatalf("task not appended: %+v", tasks)
	}
	want := task.Task{ID: 4, Description: "launch store", Category: "Launch", Deadline: "Mon, Apr 1, 2024", Priority: task.Medium}
	if added != want {
		t.Fatalf("got %+v, want %+v", added, want)
	}
}
