// Package timeparse turns loosely typed user text into a time of day.
//
// Accepted forms, checked in order on the trimmed, lower-cased input:
//
//	"8pm", "11:30pm", "8:15 a.m."  12-hour clock
//	"8h", "20h", "8h30"            literal 24-hour hour; the "h" is removed
//	"8", "20"                      hour; with PM bias, 1..11 and 0 mean afternoon/evening
//	"800", "0830"                  HHMM without separator
//	"8:30", "9:5", "20:15:10"      literal 24-hour clock
//	anything else                  general date/time text, e.g. "2024-01-15 09:30"
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"weekcal/internal/model"
)

// Options selects the parsing policy.
type Options struct {
	// PMBias shifts bare one- or two-digit hours below 12 into the afternoon,
	// so "8" reads as 20:00. Most entries are for the afternoon and evening.
	PMBias bool
}

// DefaultOptions is the policy used by Parse.
var DefaultOptions = Options{PMBias: true}

// Parser applies a fixed Options policy.
type Parser struct {
	opts Options
}

// New returns a Parser for opts.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

var defaultParser = New(DefaultOptions)

// Parse parses input with DefaultOptions.
func Parse(input string) (model.TimeOfDay, error) {
	return defaultParser.Parse(input)
}

// Format returns the canonical text form of t, which Parse reads back unchanged.
func Format(t model.TimeOfDay) string {
	return t.String()
}

var (
	meridiemRe = regexp.MustCompile(`^(\d{1,2})(?::?(\d{2}))?\s*([ap])\.?\s*m\.?$`)
	clockRe    = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?$`)
	digitsRe   = regexp.MustCompile(`^\d+$`)
	// hasTimeRe finds a clock or meridiem inside general date/time text.
	hasTimeRe = regexp.MustCompile(`\d:\d|\d\s*[ap]\.?m\b`)
)

// Parse converts input into a time of day or returns a *ParseError.
func (p *Parser) Parse(input string) (model.TimeOfDay, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return 0, &ParseError{Input: input, Err: ErrEmptyInput}
	}
	s := strings.ToLower(raw)

	if m := meridiemRe.FindStringSubmatch(s); m != nil {
		t, ok := meridiem(m)
		if !ok {
			return 0, invalid(input)
		}
		return t, nil
	}

	// An "h" marks the number as a literal 24-hour value ("8h" is 08:00).
	literal := false
	if strings.Contains(s, "h") {
		stripped := strings.TrimSpace(strings.ReplaceAll(s, "h", ""))
		if stripped == "" {
			return 0, invalid(input)
		}
		if digitsRe.MatchString(stripped) || clockRe.MatchString(stripped) {
			s, literal = stripped, true
		}
	}

	if digitsRe.MatchString(s) {
		switch len(s) {
		case 1, 2:
			hr, _ := strconv.Atoi(s)
			if p.opts.PMBias && !literal && hr < 12 {
				hr += 12
			}
			s = strconv.Itoa(hr) + ":00"
		case 3:
			s = "0" + s
			s = s[:2] + ":" + s[2:]
		case 4:
			s = s[:2] + ":" + s[2:]
		default:
			return 0, invalid(input)
		}
	}

	if m := clockRe.FindStringSubmatch(s); m != nil {
		hr, _ := strconv.Atoi(m[1])
		mn, _ := strconv.Atoi(m[2])
		sec := 0
		if m[3] != "" {
			sec, _ = strconv.Atoi(m[3])
		}
		t, err := model.NewTimeOfDay(hr, mn, sec)
		if err != nil {
			return 0, invalid(input)
		}
		return t, nil
	}

	return fallback(raw)
}

func meridiem(m []string) (model.TimeOfDay, bool) {
	hr, _ := strconv.Atoi(m[1])
	mn := 0
	if m[2] != "" {
		mn, _ = strconv.Atoi(m[2])
	}
	if hr < 1 || hr > 12 || mn > 59 {
		return 0, false
	}
	hr %= 12
	if m[3] == "p" {
		hr += 12
	}
	return model.Clock(hr, mn), true
}

// fallback hands the original text to a general date/time parser and keeps
// only the wall-clock part of the result. Text without a recognizable clock
// ("8.30", "2024-01-15") is rejected rather than read as midnight.
func fallback(raw string) (tod model.TimeOfDay, err error) {
	if !hasTimeRe.MatchString(strings.ToLower(raw)) {
		return 0, invalid(raw)
	}
	// dateparse panics on a few malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			tod, err = 0, invalid(raw)
		}
	}()
	t, perr := dateparse.ParseIn(raw, time.Local)
	if perr != nil {
		return 0, invalid(raw)
	}
	return model.TimeOfDayOf(t), nil
}
