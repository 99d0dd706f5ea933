package model

import (
	"cmp"
	"slices"
)

// Palette color names understood by every renderer. Any other string is
// passed through to the renderer's own color parsing.
const (
	ColorRed    = "Red"
	ColorYellow = "Yellow"
	ColorGreen  = "Green"
	ColorBlue   = "Blue"
	ColorPurple = "Purple"

	DefaultColor = ColorGreen
)

// PaletteColors lists the palette in display order.
var PaletteColors = []string{ColorRed, ColorYellow, ColorGreen, ColorBlue, ColorPurple}

// TaskItem is a single entry on a day.
//
// A task whose End equals its Start is instantaneous: it marks a point in
// time and is rendered as a marker rather than a bar.
type TaskItem struct {
	// ID identifies the task within a running session. It is assigned by the
	// store and is not part of the persisted file.
	ID string

	Start TimeOfDay
	End   TimeOfDay

	Title string
	Notes string
	Color string
}

// Instantaneous reports whether the task is a point event.
func (t TaskItem) Instantaneous() bool {
	return t.Start == t.End
}

// ColorOrDefault returns the task color, or DefaultColor when unset.
func (t TaskItem) ColorOrDefault() string {
	if t.Color == "" {
		return DefaultColor
	}
	return t.Color
}

// TimeRange formats the task time for list views, e.g. "8:00am - 9:30am".
// Instantaneous tasks show only their start.
func (t TaskItem) TimeRange() string {
	if t.Instantaneous() {
		return t.Start.Kitchen()
	}
	return t.Start.Kitchen() + " - " + t.End.Kitchen()
}

// TaskDay is a date together with its tasks in ascending start order.
type TaskDay struct {
	Date  Date
	Tasks []TaskItem
}

// SortByStart orders tasks ascending by start time. Tasks with equal start
// times keep their relative order.
func SortByStart(tasks []TaskItem) {
	slices.SortStableFunc(tasks, func(a, b TaskItem) int {
		return cmp.Compare(a.Start, b.Start)
	})
}

// SortedByStart reports whether tasks are ascending by start time.
func SortedByStart(tasks []TaskItem) bool {
	return slices.IsSortedFunc(tasks, func(a, b TaskItem) int {
		return cmp.Compare(a.Start, b.Start)
	})
}
