// Package storage keeps the task collection in memory. Every mutation
// builds a fresh slice, so snapshots handed out earlier stay valid.
// A Store is owned by a single event loop and is not safe for concurrent
// use.
package storage

import (
	"fmt"
	"log/slog"

	"tasktable/internal/task"
)

type Store struct {
	tasks  []task.Task
	nextID task.ID
	log    *slog.Logger
}

// New assigns IDs to the seed tasks in order and returns a store holding
// them. Seed IDs are ignored.
func New(seed []task.Task, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Store{nextID: 1, log: log}
	tasks := make([]task.Task, 0, len(seed))
	for _, t := range seed {
		t.ID = s.allocID()
		tasks = append(tasks, t)
	}
	s.tasks = tasks
	return s
}

func (s *Store) allocID() task.ID {
	id := s.nextID
	s.nextID++
	return id
}

// Tasks returns the current snapshot. Callers must not modify it.
func (s *Store) Tasks() []task.Task {
	return s.tasks
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) Get(id task.ID) (task.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return task.Task{}, fmt.Errorf("%w: id %d", task.ErrTaskNotFound, id)
}

// MatchDescription lists the IDs of every task with the given description,
// in collection order.
func (s *Store) MatchDescription(desc string) []task.ID {
	var ids []task.ID
	for _, t := range s.tasks {
		if t.Description == desc {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// SetDone replaces the done flag of the task with the given ID. An unknown
// ID leaves the snapshot untouched.
func (s *Store) SetDone(id task.ID, done bool) []task.Task {
	next, ok := s.replace(id, func(t task.Task) task.Task { return t.WithDone(done) })
	if !ok {
		s.log.Debug("set done: no such task", "id", id)
		return s.tasks
	}
	s.tasks = next
	s.log.Debug("set done", "id", id, "done", done)
	return s.tasks
}

// SetPriority replaces the priority of the task with the given ID.
// Priorities outside the enum are rejected and nothing changes.
func (s *Store) SetPriority(id task.ID, p task.Priority) ([]task.Task, error) {
	if !p.Valid() {
		return s.tasks, fmt.Errorf("%w: %q", task.ErrInvalidPriority, p)
	}
	next, ok := s.replace(id, func(t task.Task) task.Task { return t.WithPriority(p) })
	if !ok {
		s.log.Debug("set priority: no such task", "id", id)
		return s.tasks, nil
	}
	s.tasks = next
	s.log.Debug("set priority", "id", id, "priority", p)
	return s.tasks, nil
}

// AddTask appends t with a freshly assigned ID. Descriptions are not
// checked for uniqueness.
func (s *Store) AddTask(t task.Task) ([]task.Task, task.Task) {
	t.ID = s.allocID()
	next := make([]task.Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	s.tasks = append(next, t)
	s.log.Debug("added task", "id", t.ID, "description", t.Description)
	return s.tasks, t
}

func (s *Store) replace(id task.ID, fn func(task.Task) task.Task) ([]task.Task, bool) {
	idx := -1
	for i, t := range s.tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	next := make([]task.Task, len(s.tasks))
	copy(next, s.tasks)
	next[idx] = fn(next[idx])
	return next, true
}
