package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	appLog "weekcal/internal/log"
	"weekcal/internal/model"
	"weekcal/internal/palette"
	"weekcal/internal/store"
	"weekcal/internal/timeline"
)

//go:embed templates/*.html
var templates embed.FS

var pageFuncs = template.FuncMap{
	// pct renders a window fraction as a CSS percentage number.
	"pct": func(f float64) string {
		return strconv.FormatFloat(f*100, 'f', 3, 64)
	},
	"px": func(f float64) string {
		return strconv.FormatFloat(f, 'f', 1, 64)
	},
}

type pageData struct {
	Week     string
	Prev     string
	Next     string
	Selected string
	Ticks    []timeline.Tick
	Days     []pageDay
}

type pageDay struct {
	Date     string
	Label    string
	Selected bool
	Height   float64
	Bars     []pageBar
	Tasks    []pageTask
}

type pageBar struct {
	Title  string
	Color  template.CSS
	Marker bool
	X      float64
	Width  float64
	Top    float64
	Height float64
}

type pageTask struct {
	TimeRange string
	Title     string
	Color     template.CSS
	Notes     template.HTML
}

func cssColor(t model.TaskItem) template.CSS {
	return template.CSS(palette.CSS(palette.Resolve(t.ColorOrDefault())))
}

// buildPage lays out every day of w. Called with the session lock held.
func (s *Server) buildPage(st *store.Store, w store.Week, selected model.Date) pageData {
	win, style := s.cfg.Window(), s.cfg.Style()
	data := pageData{
		Week:     w.String(),
		Prev:     w.Prev().Start.String(),
		Next:     w.Next().Start.String(),
		Selected: selected.String(),
		Ticks:    timeline.Ticks(win, s.cfg.Timeline.TickHours),
	}

	for _, d := range w.Days() {
		tasks := st.Day(d)
		geoms := timeline.Layout(tasks, win, style)

		day := pageDay{
			Date:     d.String(),
			Label:    d.Label(),
			Selected: d == selected,
			Height:   max(timeline.CanvasHeight(geoms, style), style.BarHeight),
		}
		for _, g := range geoms {
			day.Bars = append(day.Bars, pageBar{
				Title:  g.Task.Title,
				Color:  cssColor(g.Task),
				Marker: g.Marker,
				X:      g.X,
				Width:  g.Width,
				Top:    g.Top,
				Height: g.Height,
			})
		}
		for _, t := range tasks {
			day.Tasks = append(day.Tasks, pageTask{
				TimeRange: t.TimeRange(),
				Title:     t.Title,
				Color:     cssColor(t),
				Notes:     s.renderNotes(t.Notes),
			})
		}
		data.Days = append(data.Days, day)
	}
	return data
}

// handlePage renders the week timeline page. The root element carries
// data-ready="true" so headless captures know when to shoot.
//
// GET /timeline?date=2024-01-15
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	date, explicit, err := s.queryDate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	week := store.WeekOf(date, s.cfg.FirstWeekday())
	selected := date
	if !explicit {
		selected = week.SelectedDay(s.today())
	}

	var data pageData
	err = s.sess.View(func(st *store.Store) error {
		data = s.buildPage(st, week, selected)
		return nil
	})
	if err != nil {
		appLog.Error("timeline page failed", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		appLog.Error("timeline template failed", err, "week", week.String())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
