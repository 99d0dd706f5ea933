// Package persist reads and writes the task file.
//
// The file is a JSON array of days in ascending date order:
//
//	[ { "date": "2024-01-15T00:00:00",
//	    "tasks": [ { "startTime": "08:00:00", "endTime": "09:00:00",
//	                 "title": "...", "notes": "...", "color": "Green" } ] } ]
//
// Task IDs live only in memory and are reassigned on load.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"weekcal/internal/fsutil"
	"weekcal/internal/model"
	"weekcal/internal/store"
)

// ErrMalformed marks a task file that exists but cannot be decoded.
var ErrMalformed = errors.New("malformed task file")

const fileDateLayout = "2006-01-02T15:04:05"

type fileTask struct {
	StartTime model.TimeOfDay `json:"startTime"`
	EndTime   model.TimeOfDay `json:"endTime"`
	Title     string          `json:"title"`
	Notes     string          `json:"notes"`
	Color     string          `json:"color"`
}

type fileDay struct {
	Date  string     `json:"date"`
	Tasks []fileTask `json:"tasks"`
}

// Encode writes days in the file shape. Empty days are skipped.
func Encode(w io.Writer, days []model.TaskDay) error {
	out := make([]fileDay, 0, len(days))
	for _, d := range days {
		if len(d.Tasks) == 0 {
			continue
		}
		fd := fileDay{
			Date:  d.Date.Time().Format(fileDateLayout),
			Tasks: make([]fileTask, 0, len(d.Tasks)),
		}
		for _, t := range d.Tasks {
			fd.Tasks = append(fd.Tasks, fileTask{
				StartTime: t.Start,
				EndTime:   t.End,
				Title:     t.Title,
				Notes:     t.Notes,
				Color:     t.Color,
			})
		}
		out = append(out, fd)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Decode reads the file shape. Any decoding problem is reported as an error
// wrapping ErrMalformed and no days are returned.
func Decode(r io.Reader) ([]model.TaskDay, error) {
	var in []fileDay
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	days := make([]model.TaskDay, 0, len(in))
	for i, fd := range in {
		date, err := model.ParseDate(fd.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: day %d: %v", ErrMalformed, i, err)
		}
		tasks := make([]model.TaskItem, 0, len(fd.Tasks))
		for _, ft := range fd.Tasks {
			tasks = append(tasks, model.TaskItem{
				Start: ft.StartTime,
				End:   ft.EndTime,
				Title: ft.Title,
				Notes: ft.Notes,
				Color: ft.Color,
			})
		}
		days = append(days, model.TaskDay{Date: date, Tasks: tasks})
	}
	return days, nil
}

// Load reads the task file at path into a new store.
//
// A missing file yields an empty store and no error. A malformed file yields
// an empty store and an error wrapping ErrMalformed; nothing from the file is
// kept.
func Load(path string) (*store.Store, error) {
	s := store.New()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("open task file: %w", err)
	}
	defer f.Close()

	days, err := Decode(f)
	if err != nil {
		return s, fmt.Errorf("load %s: %w", path, err)
	}
	s.Reset(days)
	return s, nil
}

// Save writes every non-empty day of s to path, replacing the file
// atomically.
func Save(path string, s *store.Store) error {
	var buf bytes.Buffer
	if err := Encode(&buf, s.Days()); err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), ".weekcal-tasks-*.tmp", 0o600); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
