package timeline

import "fmt"

// DefaultTickHours is the spacing of hour ticks on the week view.
const DefaultTickHours = 3

// Tick is a vertical hour line on the timeline.
type Tick struct {
	Hour float64
	// X is the position as a fraction of the window width.
	X float64
	// Label is empty for the closing tick at the end of the window.
	Label string
}

// Ticks returns a tick every step hours from the window start through its
// end. Ticks do not depend on any task.
func Ticks(w Window, step float64) []Tick {
	if !w.Valid() {
		return nil
	}
	if step <= 0 {
		step = DefaultTickHours
	}
	var ticks []Tick
	for h := w.StartHour; h <= w.EndHour; h += step {
		t := Tick{Hour: h, X: (h - w.StartHour) / (w.EndHour - w.StartHour)}
		if h != w.EndHour {
			t.Label = HourLabel(h)
		}
		ticks = append(ticks, t)
	}
	return ticks
}

// HourLabel formats a whole hour as "6am", "12pm", "9pm".
func HourLabel(h float64) string {
	hr := int(h) % 24
	switch {
	case hr == 0:
		return "12am"
	case hr == 12:
		return "12pm"
	case hr < 12:
		return fmt.Sprintf("%dam", hr)
	default:
		return fmt.Sprintf("%dpm", hr-12)
	}
}
