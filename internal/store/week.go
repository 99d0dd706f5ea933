package store

import (
	"time"

	"github.com/teambition/rrule-go"

	"weekcal/internal/model"
)

// Week is the seven-day span starting at Start.
type Week struct {
	Start model.Date
}

// WeekOf returns the week containing d, with weeks beginning on weekStart.
func WeekOf(d model.Date, weekStart time.Weekday) Week {
	diff := (7 + int(d.Weekday()) - int(weekStart)) % 7
	return Week{Start: d.AddDays(-diff)}
}

// Days lists the seven dates of the week in order.
func (w Week) Days() []model.Date {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Count:   7,
		Dtstart: w.Start.Time(),
	})
	if err != nil {
		// DAILY with a fixed count and start cannot fail.
		panic("store: week rule: " + err.Error())
	}
	occ := r.All()
	days := make([]model.Date, 0, len(occ))
	for _, t := range occ {
		days = append(days, model.DateOf(t))
	}
	return days
}

// End returns the last day of the week.
func (w Week) End() model.Date {
	return w.Start.AddDays(6)
}

// Contains reports whether d falls within the week.
func (w Week) Contains(d model.Date) bool {
	return !d.Before(w.Start) && !w.End().Before(d)
}

func (w Week) Prev() Week { return Week{Start: w.Start.AddDays(-7)} }
func (w Week) Next() Week { return Week{Start: w.Start.AddDays(7)} }

// SelectedDay picks the day to show first: today when it lies in the week,
// otherwise the first day.
func (w Week) SelectedDay(today model.Date) model.Date {
	if w.Contains(today) {
		return today
	}
	return w.Start
}

func (w Week) String() string {
	return w.Start.String() + ".." + w.End().String()
}
