package ics

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "weekcal/internal/log"
	"weekcal/internal/model"
)

// ErrNoEvents is returned by Import when the calendar has no VEVENT.
var ErrNoEvents = errors.New("calendar has no events")

// ErrInvalidRange is returned when ImportOptions.To is before From.
var ErrInvalidRange = errors.New("import range ends before it starts")

// ImportOptions controls Import.
type ImportOptions struct {
	// Location receives times that carry a zone. Nil means time.Local.
	Location *time.Location

	// From and To limit the import to tasks dated From..To, inclusive, and
	// expand recurring events into one task per occurrence in that range.
	// With a zero From every event is imported and a recurring event yields
	// its first occurrence only.
	From, To model.Date

	// MaxOccurrences caps the expansion of a single event. Zero means 5000.
	MaxOccurrences int
}

func (o ImportOptions) ranged() bool { return !o.From.IsZero() }

// ImportResult is the outcome of reading a calendar.
type ImportResult struct {
	// Days holds the imported tasks grouped by date, ascending.
	Days []model.TaskDay
	// Skipped counts events that could not become tasks (all-day events,
	// events without DTSTART, unreadable RRULE).
	Skipped int
	// OutOfRange counts events with no occurrence inside From..To.
	OutOfRange int
	// Truncated lists the UIDs whose expansion hit MaxOccurrences.
	Truncated []string
}

// Import reads a calendar and turns every timed VEVENT into a task on the
// date it starts. Times with an explicit zone are converted into
// opts.Location; floating times are taken as written.
//
// An event ending on a later day is cut at the end of its first day.
func Import(r io.Reader, opts ImportOptions) (ImportResult, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	limit := opts.MaxOccurrences
	if limit <= 0 {
		limit = defaultMaxOccurrences
	}
	var w *window
	if opts.ranged() {
		if opts.To.Before(opts.From) {
			return ImportResult{}, ErrInvalidRange
		}
		w = &window{
			start: opts.From.At(0, loc).AddDate(0, 0, -1),
			end:   opts.To.At(0, loc).AddDate(0, 0, 2),
		}
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("parse calendar: %w", err)
	}

	events := cal.Events()
	if len(events) == 0 {
		return ImportResult{}, ErrNoEvents
	}

	// Instances moved by a RECURRENCE-ID event are dropped from the series.
	overrides := make(map[string][]time.Time)
	for _, ve := range events {
		if rid, ok := recurrenceID(ve, time.Local); ok {
			uid := propValue(ve, ical.ComponentPropertyUniqueId)
			overrides[uid] = append(overrides[uid], rid)
		}
	}

	var res ImportResult
	byDate := make(map[model.Date][]model.TaskItem)
	for _, ve := range events {
		uid := propValue(ve, ical.ComponentPropertyUniqueId)
		ev, err := readEvent(ve)
		if err != nil {
			appLog.Warn("ics event skipped", "uid", uid, "reason", err.Error())
			res.Skipped++
			continue
		}

		starts, truncated, err := occurrences(ve, ev.start, overrides[uid], w, limit)
		if err != nil {
			appLog.Warn("ics event skipped", "uid", uid, "reason", "rrule: "+err.Error())
			res.Skipped++
			continue
		}
		if truncated {
			res.Truncated = append(res.Truncated, uid)
			warnTruncated(uid, limit)
		}

		added := 0
		for _, s := range starts {
			date, task := ev.task(s, loc)
			if opts.ranged() && (date.Before(opts.From) || opts.To.Before(date)) {
				continue
			}
			byDate[date] = append(byDate[date], task)
			added++
		}
		if added == 0 && opts.ranged() {
			res.OutOfRange++
		}
	}

	for d, tasks := range byDate {
		model.SortByStart(tasks)
		res.Days = append(res.Days, model.TaskDay{Date: d, Tasks: tasks})
	}
	slices.SortFunc(res.Days, func(a, b model.TaskDay) int { return a.Date.Compare(b.Date) })

	appLog.Info("ics import completed",
		"events", len(events),
		"days", len(res.Days),
		"skipped", res.Skipped,
		"out_of_range", res.OutOfRange,
	)
	return res, nil
}

var errAllDay = errors.New("all-day event")

// event is the timed part of a VEVENT, with times as parsed.
type event struct {
	start, end           time.Time
	hasEnd               bool
	startZoned, endZoned bool
	title, notes, color  string
}

func readEvent(ve *ical.VEvent) (event, error) {
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return event{}, errors.New("missing DTSTART")
	}
	if isAllDay(dtStart) {
		return event{}, errAllDay
	}
	start, err := ve.GetStartAt()
	if err != nil {
		return event{}, err
	}

	ev := event{
		start:      start,
		startZoned: zoned(dtStart),
		title:      propValue(ve, ical.ComponentPropertySummary),
		notes:      propValue(ve, ical.ComponentPropertyDescription),
		color:      propValue(ve, ical.ComponentPropertyColor),
	}
	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
		if end, err := ve.GetEndAt(); err == nil {
			ev.end, ev.hasEnd, ev.endZoned = end, true, zoned(dtEnd)
		}
	}
	return ev, nil
}

// task places the occurrence starting at occStart. The event's duration is
// kept; a missing or negative end makes the task instantaneous.
func (ev event) task(occStart time.Time, loc *time.Location) (model.Date, model.TaskItem) {
	start := occStart
	if ev.startZoned {
		start = start.In(loc)
	}
	date := model.DateOf(start)

	task := model.TaskItem{
		Start: model.TimeOfDayOf(start),
		Title: ev.title,
		Notes: ev.notes,
		Color: ev.color,
	}
	task.End = task.Start

	if ev.hasEnd {
		end := occStart.Add(ev.end.Sub(ev.start))
		if ev.endZoned {
			end = end.In(loc)
		}
		switch {
		case model.DateOf(end).Compare(date) > 0:
			task.End = model.EndOfDay - model.Second
		case !end.Before(start):
			task.End = model.TimeOfDayOf(end)
		}
	}
	return date, task
}

// isAllDay reports whether a DTSTART holds a DATE rather than a DATE-TIME.
func isAllDay(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters[string(ical.ParameterValue)]; ok && len(vs) > 0 && strings.EqualFold(vs[0], string(ical.ValueDataTypeDate)) {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// zoned reports whether a time property names its zone. Floating times keep
// their wall clock.
func zoned(p *ical.IANAProperty) bool {
	_, hasTZ := p.ICalParameters[string(ical.ParameterTzid)]
	return hasTZ || strings.HasSuffix(p.Value, "Z")
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}
