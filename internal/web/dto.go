package web

import (
	"weekcal/internal/model"
	"weekcal/internal/palette"
	"weekcal/internal/store"
	"weekcal/internal/timeline"
)

// taskDTO is the JSON view of a task.
type taskDTO struct {
	ID            string `json:"id"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Title         string `json:"title"`
	Notes         string `json:"notes"`
	Color         string `json:"color"`
	CSSColor      string `json:"css_color"`
	Instantaneous bool   `json:"instantaneous"`
	TimeRange     string `json:"time_range"`
}

type dayDTO struct {
	Date  string    `json:"date"`
	Label string    `json:"label"`
	Tasks []taskDTO `json:"tasks"`
}

type weekDTO struct {
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Selected string   `json:"selected"`
	Prev     string   `json:"prev"`
	Next     string   `json:"next"`
	Days     []dayDTO `json:"days"`
}

type geometryDTO struct {
	TaskID string  `json:"task_id"`
	Title  string  `json:"title"`
	Color  string  `json:"color"`
	Row    int     `json:"row"`
	Marker bool    `json:"marker"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
}

type tickDTO struct {
	Hour  float64 `json:"hour"`
	X     float64 `json:"x"`
	Label string  `json:"label,omitempty"`
}

type timelineDTO struct {
	Date      string        `json:"date"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	Rows      int           `json:"rows"`
	StartHour float64       `json:"start_hour"`
	EndHour   float64       `json:"end_hour"`
	Items     []geometryDTO `json:"items"`
	Ticks     []tickDTO     `json:"ticks"`
}

func toTaskDTO(t model.TaskItem) taskDTO {
	return taskDTO{
		ID:            t.ID,
		Start:         t.Start.String(),
		End:           t.End.String(),
		Title:         t.Title,
		Notes:         t.Notes,
		Color:         t.ColorOrDefault(),
		CSSColor:      palette.CSS(palette.Resolve(t.ColorOrDefault())),
		Instantaneous: t.Instantaneous(),
		TimeRange:     t.TimeRange(),
	}
}

func toTaskDTOs(tasks []model.TaskItem) []taskDTO {
	out := make([]taskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskDTO(t))
	}
	return out
}

func toDayDTO(d model.Date, tasks []model.TaskItem) dayDTO {
	return dayDTO{Date: d.String(), Label: d.Label(), Tasks: toTaskDTOs(tasks)}
}

func toWeekDTO(w store.Week, selected model.Date, s *store.Store) weekDTO {
	out := weekDTO{
		Start:    w.Start.String(),
		End:      w.End().String(),
		Selected: selected.String(),
		Prev:     w.Prev().Start.String(),
		Next:     w.Next().Start.String(),
	}
	for _, d := range w.Days() {
		out.Days = append(out.Days, toDayDTO(d, s.Day(d)))
	}
	return out
}

func toTimelineDTO(d model.Date, geoms []timeline.Geometry, win timeline.Window, style timeline.Style, ticks []timeline.Tick, width float64) timelineDTO {
	out := timelineDTO{
		Date:      d.String(),
		Width:     width,
		Height:    timeline.CanvasHeight(geoms, style),
		Rows:      timeline.Rows(geoms),
		StartHour: win.StartHour,
		EndHour:   win.EndHour,
		Items:     make([]geometryDTO, 0, len(geoms)),
		Ticks:     make([]tickDTO, 0, len(ticks)),
	}
	for _, g := range geoms {
		r := g.Rect(width)
		out.Items = append(out.Items, geometryDTO{
			TaskID: g.Task.ID,
			Title:  g.Task.Title,
			Color:  palette.CSS(palette.Resolve(g.Task.ColorOrDefault())),
			Row:    g.Row,
			Marker: g.Marker,
			X:      r.X,
			Y:      r.Y,
			W:      r.W,
			H:      r.H,
		})
	}
	for _, t := range ticks {
		out.Ticks = append(out.Ticks, tickDTO{Hour: t.Hour, X: t.X * width, Label: t.Label})
	}
	return out
}
