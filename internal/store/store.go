// Package store keeps the tasks of every calendar day in memory.
//
// Every mutating call leaves the affected day sorted ascending by start time
// (stable for equal starts). Days whose last task is removed are dropped
// from the map, so Dates never reports an empty day.
package store

import (
	"errors"
	"slices"

	"github.com/google/uuid"

	"weekcal/internal/model"
)

// ErrTaskNotFound is returned when an ID does not exist on the given day.
var ErrTaskNotFound = errors.New("task not found")

// Store maps calendar dates to their tasks. It is not safe for concurrent
// use; callers that share a Store serialize access themselves.
type Store struct {
	days  map[model.Date][]model.TaskItem
	newID func() string
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		days:  make(map[model.Date][]model.TaskItem),
		newID: uuid.NewString,
	}
}

func (s *Store) prepare(item model.TaskItem) model.TaskItem {
	if item.ID == "" {
		item.ID = s.newID()
	}
	if item.Color == "" {
		item.Color = model.DefaultColor
	}
	return item
}

func (s *Store) set(date model.Date, tasks []model.TaskItem) {
	if len(tasks) == 0 {
		delete(s.days, date)
		return
	}
	model.SortByStart(tasks)
	s.days[date] = tasks
}

// Add appends item to date and returns the stored copy, with an ID assigned
// when item had none.
func (s *Store) Add(date model.Date, item model.TaskItem) model.TaskItem {
	item = s.prepare(item)
	s.set(date, append(s.days[date], item))
	return item
}

// AddAll adds several items to date at once and returns the stored copies
// in input order.
func (s *Store) AddAll(date model.Date, items []model.TaskItem) []model.TaskItem {
	if len(items) == 0 {
		return nil
	}
	added := make([]model.TaskItem, 0, len(items))
	tasks := s.days[date]
	for _, it := range items {
		it = s.prepare(it)
		tasks = append(tasks, it)
		added = append(added, it)
	}
	s.set(date, tasks)
	return added
}

// Remove deletes the tasks with the given IDs from date and reports how many
// were removed.
func (s *Store) Remove(date model.Date, ids ...string) int {
	tasks, ok := s.days[date]
	if !ok || len(ids) == 0 {
		return 0
	}
	before := len(tasks)
	kept := slices.DeleteFunc(slices.Clone(tasks), func(t model.TaskItem) bool {
		return slices.Contains(ids, t.ID)
	})
	s.set(date, kept)
	return before - len(kept)
}

// Replace swaps the whole task list of date. An empty list clears the day.
func (s *Store) Replace(date model.Date, items []model.TaskItem) []model.TaskItem {
	tasks := make([]model.TaskItem, 0, len(items))
	for _, it := range items {
		tasks = append(tasks, s.prepare(it))
	}
	s.set(date, tasks)
	return s.Day(date)
}

// Update overwrites the task with the given ID on date, keeping its ID.
func (s *Store) Update(date model.Date, id string, item model.TaskItem) (model.TaskItem, error) {
	tasks := s.days[date]
	i := slices.IndexFunc(tasks, func(t model.TaskItem) bool { return t.ID == id })
	if i < 0 {
		return model.TaskItem{}, ErrTaskNotFound
	}
	item.ID = id
	item = s.prepare(item)
	tasks = slices.Clone(tasks)
	tasks[i] = item
	s.set(date, tasks)
	return item, nil
}

// Find returns the task with the given ID on date.
func (s *Store) Find(date model.Date, id string) (model.TaskItem, bool) {
	for _, t := range s.days[date] {
		if t.ID == id {
			return t, true
		}
	}
	return model.TaskItem{}, false
}

// ClearRange removes every listed date and reports how many had tasks.
func (s *Store) ClearRange(dates ...model.Date) int {
	n := 0
	for _, d := range dates {
		if _, ok := s.days[d]; ok {
			delete(s.days, d)
			n++
		}
	}
	return n
}

// ClearWeek removes all seven days of w.
func (s *Store) ClearWeek(w Week) int {
	return s.ClearRange(w.Days()...)
}

// Day returns a copy of the tasks on date, ascending by start time.
func (s *Store) Day(date model.Date) []model.TaskItem {
	return slices.Clone(s.days[date])
}

// Dates returns every date holding tasks, ascending.
func (s *Store) Dates() []model.Date {
	dates := make([]model.Date, 0, len(s.days))
	for d := range s.days {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, model.Date.Compare)
	return dates
}

// Days returns a snapshot of all non-empty days, ascending by date.
func (s *Store) Days() []model.TaskDay {
	dates := s.Dates()
	out := make([]model.TaskDay, 0, len(dates))
	for _, d := range dates {
		out = append(out, model.TaskDay{Date: d, Tasks: s.Day(d)})
	}
	return out
}

// Len returns the number of non-empty days.
func (s *Store) Len() int {
	return len(s.days)
}

// TaskCount returns the number of tasks across all days.
func (s *Store) TaskCount() int {
	n := 0
	for _, tasks := range s.days {
		n += len(tasks)
	}
	return n
}

// Reset replaces the whole content of the store with days. Later entries for
// a date already seen are merged into it.
func (s *Store) Reset(days []model.TaskDay) {
	s.days = make(map[model.Date][]model.TaskItem, len(days))
	for _, d := range days {
		s.AddAll(d.Date, d.Tasks)
	}
}
