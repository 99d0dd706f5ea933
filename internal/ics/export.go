// Package ics converts stored tasks to and from iCalendar.
//
// Times are written as floating local date-times (no TZID, no "Z"), since
// tasks carry only a wall-clock time of day.
package ics

import (
	"io"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"

	"weekcal/internal/model"
)

const (
	productID      = "-//weekcal//weekcal//EN"
	floatingLayout = "20060102T150405"
	uidDomain      = "@weekcal"
)

// ExportOptions tweaks the generated calendar.
type ExportOptions struct {
	// Name is written as NAME / X-WR-CALNAME when non-empty.
	Name string
	// Now stamps DTSTAMP; zero means time.Now.
	Now time.Time
}

// Export builds a calendar with one VEVENT per task of days.
func Export(days []model.TaskDay, opts ExportOptions) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)
	if opts.Name != "" {
		cal.SetName(opts.Name)
		cal.SetXWRCalName(opts.Name)
	}

	stamp := opts.Now
	if stamp.IsZero() {
		stamp = time.Now()
	}

	for _, d := range days {
		for i, t := range d.Tasks {
			ev := cal.AddEvent(eventUID(d.Date, i, t))
			ev.SetDtStampTime(stamp)
			ev.SetProperty(ical.ComponentPropertyDtStart, floating(d.Date, t.Start))
			ev.SetProperty(ical.ComponentPropertyDtEnd, floating(d.Date, t.End))
			ev.SetSummary(t.Title)
			if t.Notes != "" {
				ev.SetDescription(t.Notes)
			}
			ev.SetColor(t.ColorOrDefault())
		}
	}
	return cal
}

// Write serializes Export(days, opts) to w.
func Write(w io.Writer, days []model.TaskDay, opts ExportOptions) error {
	return Export(days, opts).SerializeTo(w)
}

func floating(d model.Date, t model.TimeOfDay) string {
	return d.At(t, time.UTC).Format(floatingLayout)
}

func eventUID(d model.Date, i int, t model.TaskItem) string {
	if t.ID != "" {
		return t.ID + uidDomain
	}
	return d.Time().Format("20060102") + "-" + strconv.Itoa(i) + uidDomain
}
