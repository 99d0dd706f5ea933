package ics

import (
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "weekcal/internal/log"
)

const defaultMaxOccurrences = 5000

var errTruncated = errors.New("max occurrences reached")

// window is the instant range that recurrence expansion walks. It is padded
// by a day on both sides; callers filter the resulting tasks by date.
type window struct {
	start, end time.Time
}

// occurrences lists the starts of a recurring event that fall inside w, or
// only the first one when w is nil. EXDATE values and the RECURRENCE-ID of
// overriding events are excluded. The second result reports whether the list
// was cut at limit.
func occurrences(ve *ical.VEvent, start time.Time, overridden []time.Time, w *window, limit int) ([]time.Time, bool, error) {
	rule := ve.GetProperty(ical.ComponentPropertyRrule)
	if rule == nil {
		return []time.Time{start}, false, nil
	}

	opt, err := rrule.StrToROptionInLocation(rule.Value, start.Location())
	if err != nil {
		return nil, false, err
	}
	opt.Dtstart = start
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, false, err
	}

	var set rrule.Set
	set.RRule(r)
	for _, ex := range exDates(ve, start.Location()) {
		set.ExDate(ex)
	}
	for _, rid := range overridden {
		set.ExDate(rid)
	}

	if w == nil {
		first := set.After(start, true)
		if first.IsZero() {
			return nil, false, nil
		}
		return []time.Time{first}, false, nil
	}

	occ := set.Between(w.start, w.end, true)
	if len(occ) > limit {
		return occ[:limit], true, nil
	}
	return occ, false, nil
}

// exDates reads every EXDATE of ve. Values may be comma separated and carry
// their own TZID; floating values are taken in floating.
func exDates(ve *ical.VEvent, floating *time.Location) []time.Time {
	var out []time.Time
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		loc := propLocation(p, floating)
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseStamp(strings.TrimSpace(part), loc); err == nil {
				out = append(out, t)
			} else {
				appLog.Debug("ics exdate ignored", "value", part, "reason", err.Error())
			}
		}
	}
	return out
}

// recurrenceID returns the RECURRENCE-ID of an overriding event.
func recurrenceID(ve *ical.VEvent, floating *time.Location) (time.Time, bool) {
	p := ve.GetProperty(ical.ComponentPropertyRecurrenceId)
	if p == nil {
		return time.Time{}, false
	}
	t, err := parseStamp(strings.TrimSpace(p.Value), propLocation(p, floating))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func propLocation(p *ical.IANAProperty, floating *time.Location) *time.Location {
	if tz, ok := p.ICalParameters[string(ical.ParameterTzid)]; ok && len(tz) == 1 {
		if loc, err := time.LoadLocation(tz[0]); err == nil {
			return loc
		}
	}
	return floating
}

// parseStamp reads the DATE-TIME forms "20240115T090000Z" and
// "20240115T090000", and the DATE form "20240115".
func parseStamp(v string, loc *time.Location) (time.Time, error) {
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}

func warnTruncated(uid string, limit int) {
	appLog.Error("ics recurrence truncated", errTruncated, "uid", uid, "cap", limit)
}
