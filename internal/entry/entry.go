// Package entry validates the text fields of a task form and builds the
// TaskItem to store. Nothing is stored when validation fails.
package entry

import (
	"errors"
	"fmt"
	"strings"

	"weekcal/internal/model"
	"weekcal/internal/palette"
	"weekcal/internal/timeparse"
)

// ErrEndBeforeStart rejects an end time earlier than the start time.
var ErrEndBeforeStart = errors.New("end time is before start time")

// ValidationError names the form field that was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Form is the raw text a user typed for one task.
type Form struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Title string `json:"title"`
	Notes string `json:"notes"`
	Color string `json:"color"`
}

// FormOf prefills a form for editing t. Instantaneous tasks get a blank end.
// Seconds are kept so an unchanged form rebuilds the same task.
func FormOf(t model.TaskItem) Form {
	f := Form{
		Start: t.Start.String(),
		Title: t.Title,
		Notes: t.Notes,
		Color: t.Color,
	}
	if !t.Instantaneous() {
		f.End = t.End.String()
	}
	return f
}

// Builder turns forms into tasks using a fixed parsing policy.
type Builder struct {
	parser       *timeparse.Parser
	defaultColor string
}

// NewBuilder returns a Builder. A nil parser uses timeparse.DefaultOptions.
func NewBuilder(p *timeparse.Parser, defaultColor string) *Builder {
	if p == nil {
		p = timeparse.New(timeparse.DefaultOptions)
	}
	if defaultColor == "" {
		defaultColor = model.DefaultColor
	}
	return &Builder{parser: p, defaultColor: defaultColor}
}

// Build validates f. A blank end makes the task instantaneous.
func (b *Builder) Build(f Form) (model.TaskItem, error) {
	if strings.TrimSpace(f.Start) == "" {
		return model.TaskItem{}, &ValidationError{Field: "start", Err: timeparse.ErrEmptyInput}
	}
	start, err := b.parser.Parse(f.Start)
	if err != nil {
		return model.TaskItem{}, &ValidationError{Field: "start", Err: err}
	}

	end := start
	if strings.TrimSpace(f.End) != "" {
		end, err = b.parser.Parse(f.End)
		if err != nil {
			return model.TaskItem{}, &ValidationError{Field: "end", Err: err}
		}
	}
	if end < start {
		return model.TaskItem{}, &ValidationError{
			Field: "end",
			Err:   fmt.Errorf("%w (%s < %s)", ErrEndBeforeStart, end, start),
		}
	}

	color := strings.TrimSpace(f.Color)
	if color == "" {
		color = b.defaultColor
	}

	return model.TaskItem{
		Start: start,
		End:   end,
		Title: strings.TrimSpace(f.Title),
		Notes: f.Notes,
		Color: palette.Canonical(color),
	}, nil
}

// BuildAll validates every form and fails on the first invalid one, naming
// its position.
func (b *Builder) BuildAll(forms []Form) ([]model.TaskItem, error) {
	items := make([]model.TaskItem, 0, len(forms))
	for i, f := range forms {
		it, err := b.Build(f)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		items = append(items, it)
	}
	return items, nil
}
