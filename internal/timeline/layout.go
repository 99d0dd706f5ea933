// Package timeline lays out a day's tasks on a horizontal time axis.
//
// Layout assigns every visible task a row so that tasks sharing a row never
// overlap, using as few rows as possible, and computes its position as a
// fraction of the visible window. Instantaneous tasks are drawn as fixed-size
// markers; for row assignment they occupy a padded window around their time
// so neighbouring markers and bars keep some distance.
package timeline

import (
	"cmp"
	"slices"
	"time"

	"weekcal/internal/model"
)

// Window is the visible hour range, e.g. 6 to 24.
type Window struct {
	StartHour float64
	EndHour   float64
}

// DefaultWindow is the 06:00–24:00 range shown by the week view.
var DefaultWindow = Window{StartHour: 6, EndHour: 24}

// Valid reports whether the window is a non-empty range within one day.
func (w Window) Valid() bool {
	return w.StartHour >= 0 && w.EndHour <= 24 && w.StartHour < w.EndHour
}

func (w Window) bounds() (model.TimeOfDay, model.TimeOfDay) {
	return model.HoursOf(w.StartHour), model.HoursOf(w.EndHour)
}

// Fraction maps t to its horizontal position in [0, 1] for times inside the window.
func (w Window) Fraction(t model.TimeOfDay) float64 {
	return (t.Hours() - w.StartHour) / (w.EndHour - w.StartHour)
}

// Style holds the drawing constants.
type Style struct {
	BarHeight float64
	Spacing   float64
	// MarkerPad widens an instantaneous task on both sides for row assignment.
	MarkerPad time.Duration
}

// DefaultStyle matches the week view: 11px bars, 4px gaps, ±10 minutes per marker.
var DefaultStyle = Style{BarHeight: 11, Spacing: 4, MarkerPad: 10 * time.Minute}

// Geometry is the render-ready placement of one task.
type Geometry struct {
	Task model.TaskItem
	Row  int

	// X is the start of a bar, or the centre of a marker, as a fraction of
	// the window width. Width is the bar length in the same unit; markers
	// have no time-proportional width.
	X     float64
	Width float64

	// Top and Height are in pixels.
	Top    float64
	Height float64

	Marker bool

	// EffectiveStart and EffectiveEnd are the interval used for row
	// assignment, clamped to the window.
	EffectiveStart model.TimeOfDay
	EffectiveEnd   model.TimeOfDay
}

// Rect is a pixel rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Rect converts g to pixels for a canvas canvasWidth pixels wide. Markers
// become a square of Height pixels centred on their time.
func (g Geometry) Rect(canvasWidth float64) Rect {
	if g.Marker {
		cx := g.X * canvasWidth
		return Rect{X: cx - g.Height/2, Y: g.Top, W: g.Height, H: g.Height}
	}
	return Rect{X: g.X * canvasWidth, Y: g.Top, W: g.Width * canvasWidth, H: g.Height}
}

// Layout places tasks inside w. Tasks outside the window, and tasks whose
// end precedes their start, are left out. The result is ordered by start
// time; tasks with equal starts keep their input order.
func Layout(tasks []model.TaskItem, w Window, s Style) []Geometry {
	if !w.Valid() {
		return nil
	}
	sorted := slices.Clone(tasks)
	model.SortByStart(sorted)

	geoms := make([]Geometry, 0, len(sorted))
	for _, t := range sorted {
		start, end, ok := effective(t, w, s)
		if !ok {
			continue
		}
		geoms = append(geoms, Geometry{
			Task:           t,
			Marker:         t.Instantaneous(),
			EffectiveStart: start,
			EffectiveEnd:   end,
		})
	}

	assignRows(geoms)

	for i := range geoms {
		g := &geoms[i]
		g.Top = float64(g.Row) * (s.BarHeight + s.Spacing)
		g.Height = s.BarHeight
		if g.Marker {
			g.X = w.Fraction(g.Task.Start)
			continue
		}
		ws, we := w.bounds()
		start := max(g.Task.Start, ws)
		end := min(g.Task.End, we)
		g.X = w.Fraction(start)
		g.Width = w.Fraction(end) - g.X
	}
	return geoms
}

// effective returns the row-assignment interval of t, or false when t is
// not drawn at all.
func effective(t model.TaskItem, w Window, s Style) (model.TimeOfDay, model.TimeOfDay, bool) {
	ws, we := w.bounds()
	if t.Instantaneous() {
		if t.Start < ws || t.Start >= we {
			return 0, 0, false
		}
		pad := model.TimeOfDay(s.MarkerPad / time.Second)
		return max(t.Start-pad, ws), min(t.Start+pad, we), true
	}
	if t.End < t.Start || t.End <= ws || t.Start >= we {
		return 0, 0, false
	}
	return max(t.Start, ws), min(t.End, we), true
}

// assignRows colours the interval graph first-fit. Visiting intervals in
// order of effective start makes first-fit optimal: the row count equals the
// largest number of intervals covering a single instant.
func assignRows(geoms []Geometry) {
	order := make([]int, len(geoms))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(geoms[a].EffectiveStart, geoms[b].EffectiveStart)
	})

	var rowEnds []model.TimeOfDay
	for _, i := range order {
		g := &geoms[i]
		row := slices.IndexFunc(rowEnds, func(end model.TimeOfDay) bool {
			return end <= g.EffectiveStart
		})
		if row < 0 {
			rowEnds = append(rowEnds, g.EffectiveEnd)
			row = len(rowEnds) - 1
		} else {
			rowEnds[row] = g.EffectiveEnd
		}
		g.Row = row
	}
}

// Rows returns the number of rows used by geoms.
func Rows(geoms []Geometry) int {
	n := 0
	for _, g := range geoms {
		n = max(n, g.Row+1)
	}
	return n
}

// CanvasHeight is the pixel height needed to draw geoms with s.
func CanvasHeight(geoms []Geometry, s Style) float64 {
	rows := Rows(geoms)
	if rows == 0 {
		return 0
	}
	return float64(rows)*(s.BarHeight+s.Spacing) - s.Spacing
}
