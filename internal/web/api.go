package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"weekcal/internal/entry"
	"weekcal/internal/ics"
	appLog "weekcal/internal/log"
	"weekcal/internal/model"
	"weekcal/internal/store"
	"weekcal/internal/timeline"
	"weekcal/internal/timeparse"
)

const (
	defaultTimelineWidth = 960
	maxTimelineWidth     = 10000
	maxBodyBytes         = 1 << 20
)

// pathDate reads the {date} path segment.
func pathDate(r *http.Request) (model.Date, error) {
	return model.ParseDate(r.PathValue("date"))
}

// queryDate reads ?date=, defaulting to today.
func (s *Server) queryDate(r *http.Request) (model.Date, bool, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return s.today(), false, nil
	}
	d, err := model.ParseDate(raw)
	return d, true, err
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeInputError maps form errors to 400 and everything else to 500.
func writeInputError(w http.ResponseWriter, err error) {
	var verr *entry.ValidationError
	var perr *timeparse.ParseError
	switch {
	case errors.As(err, &verr), errors.As(err, &perr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		appLog.Error("api request failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// handleWeek returns the seven days of the week containing ?date= (or today).
//
// GET /api/week?date=2024-01-15
func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	date, explicit, err := s.queryDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	week := store.WeekOf(date, s.cfg.FirstWeekday())
	selected := date
	if !explicit {
		selected = week.SelectedDay(s.today())
	}

	var resp weekDTO
	err = s.sess.View(func(st *store.Store) error {
		resp = toWeekDTO(week, selected, st)
		return nil
	})
	if err != nil {
		writeInputError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleClearWeek removes every task of the week containing ?date=.
func (s *Server) handleClearWeek(w http.ResponseWriter, r *http.Request) {
	date, _, err := s.queryDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	week := store.WeekOf(date, s.cfg.FirstWeekday())

	var cleared int
	err = s.sess.Do(func(st *store.Store, _ *store.Clipboard) error {
		cleared = st.ClearWeek(week)
		return nil
	})
	if err != nil {
		writeInputError(w, err)
		return
	}
	appLog.Info("week cleared", "week", week.String(), "days", cleared)
	writeJSON(w, http.StatusOK, map[string]any{"week": week.String(), "cleared_days": cleared})
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var tasks []model.TaskItem
	err = s.sess.View(func(st *store.Store) error {
		tasks = st.Day(date)
		return nil
	})
	if err != nil {
		writeInputError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDayDTO(date, tasks))
}

type replaceDayRequest struct {
	Tasks []entry.Form `json:"tasks"`
}

// handleReplaceDay swaps the whole task list of a day. Nothing changes when
// any form is invalid.
//
// PUT /api/days/2024-01-15 {"tasks":[{"start":"8","end":"9","title":"..."}]}
func (s *Server) handleReplaceDay(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req replaceDayRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := s.builder.BuildAll(req.Tasks)
	if err != nil {
		writeInputError(w, err)
		return
	}

	var tasks []model.TaskItem
	err = s.sess.Do(func(st *store.Store, _ *store.Clipboard) error {
		tasks = st.Replace(date, items)
		return nil
	})
	if err != nil {
		writeInputError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDayDTO(date, tasks))
}

// handleAddTask adds one task from a form.
//
// POST /api/days/2024-01-15/tasks {"start":"8","end":"930","title":"gym"}
func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var form entry.Form
	if err := decodeBody(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := s.builder.Build(form)
	if err != nil {
		writeInputError(w, err)
		return
	}

	err = s.sess.Do(func(st *store.Store, _ *store.Clipboard) error {
		item = st.Add(date, item)
		return nil
	})
	if err != nil {
		writeInputError(w, err)
		return
	}
	appLog.Debug("task added", "date", date.String(), "id", item.ID, "start", item.Start.String())
	writeJSON(w, http.StatusCreated, toTaskDTO(item))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := r.PathValue("id")
	var form entry.Form
	if err := decodeBody(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := s.builder.Build(form)
	if err != nil {
		writeInputError(w, err)
		return
	}

	err = s.sess.Do(func(st *store.Store, _ *store.Clipboard) error {
		item, err = st.Update(date, id, item)
		return err
	})
	if err != nil {
		writeInputError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(item))
}

type idsRequest struct {
	Date string   `json:"date,omitempty"`
	IDs  []string `json:"ids"`
}

// handleRemoveTasks deletes the listed task IDs from a day.
//
// DELETE /api/days/2024-01-15/tasks {"ids":["..."]}
func (s *Server) handleRemoveTasks(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req idsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids: at least one task id is required")
		return
	}

	var removed int
	err = s.sess.Do(func(st *store.Store, _ *store.Clipboard) error {
		removed = st.Remove(date, req.IDs...)
		return nil
	})
	if err != nil {
		writeInputError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// handleCopy replaces the clipboard with the listed tasks of a day, or with
// the whole day when no IDs are given.
//
// POST /api/clipboard/copy {"date":"2024-01-15","ids":["..."]}
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var copied int
	err = s.sess.Do(func(st *store.Store, clip *store.Clipboard) error {
		items := st.Day(date)
		if len(req.IDs) > 0 {
			items = items[:0]
			for _, id := range req.IDs {
				t, ok := st.Find(date, id)
				if !ok {
					return fmt.Errorf("%w: %s", store.ErrTaskNotFound, id)
				}
				items = append(items, t)
			}
		}
		clip.Copy(items)
		copied = clip.Len()
		return nil
	})
	if err != nil {
		writeInputError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"copied": copied})
}

// handlePaste adds the clipboard content to a day.
//
// POST /api/clipboard/paste {"date":"2024-01-16"}
func (s *Server) handlePaste(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var pasted []model.TaskItem
	err = s.sess.Do(func(st *store.Store, clip *store.Clipboard) error {
		pasted = clip.Paste(st, date)
		return nil
	})
	if err != nil {
		writeInputError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTOs(pasted))
}

// handleTimeline returns the row layout of one day in pixels.
//
// GET /api/days/2024-01-15/timeline?width=960
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	width := float64(defaultTimelineWidth)
	if raw := r.URL.Query().Get("width"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxTimelineWidth {
			writeError(w, http.StatusBadRequest, "width must be a positive integer up to "+strconv.Itoa(maxTimelineWidth))
			return
		}
		width = float64(n)
	}

	var tasks []model.TaskItem
	err = s.sess.View(func(st *store.Store) error {
		tasks = st.Day(date)
		return nil
	})
	if err != nil {
		writeInputError(w, err)
		return
	}

	win, style := s.cfg.Window(), s.cfg.Style()
	geoms := timeline.Layout(tasks, win, style)
	ticks := timeline.Ticks(win, s.cfg.Timeline.TickHours)
	writeJSON(w, http.StatusOK, toTimelineDTO(date, geoms, win, style, ticks, width))
}

type parseTimeRequest struct {
	Text string `json:"text"`
}

type parseTimeResponse struct {
	Time    string `json:"time"`
	Kitchen string `json:"kitchen"`
}

// handleParseTime previews how a typed time will be read.
func (s *Server) handleParseTime(w http.ResponseWriter, r *http.Request) {
	var req parseTimeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.parser.Parse(req.Text)
	if err != nil {
		writeInputError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parseTimeResponse{Time: timeparse.Format(t), Kitchen: t.Kitchen()})
}

// handleExport serves the week containing ?date= as an iCalendar file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	date, _, err := s.queryDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	week := store.WeekOf(date, s.cfg.FirstWeekday())

	var days []model.TaskDay
	err = s.sess.View(func(st *store.Store) error {
		for _, d := range week.Days() {
			if tasks := st.Day(d); len(tasks) > 0 {
				days = append(days, model.TaskDay{Date: d, Tasks: tasks})
			}
		}
		return nil
	})
	if err != nil {
		writeInputError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="weekcal-%s.ics"`, week.Start))
	opts := ics.ExportOptions{Name: "weekcal " + week.String(), Now: time.Now()}
	if err := ics.Write(w, days, opts); err != nil {
		appLog.Error("ics export failed", err, "week", week.String())
	}
}
