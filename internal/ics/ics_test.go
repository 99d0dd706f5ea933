package ics

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"weekcal/internal/model"
)

var monday = model.NewDate(2024, time.January, 15)

func sampleDays() []model.TaskDay {
	return []model.TaskDay{
		{Date: monday, Tasks: []model.TaskItem{
			{ID: "a1", Start: model.Clock(8, 0), End: model.Clock(9, 30), Title: "standup, daily", Notes: "room 4\nbring notes", Color: model.ColorBlue},
			{Start: model.Clock(12, 0), End: model.Clock(12, 0), Title: "pill"},
		}},
		{Date: monday.AddDays(2), Tasks: []model.TaskItem{
			{Start: model.Clock(18, 15), End: model.Clock(20, 0), Title: "climbing", Color: "#ff8800"},
		}},
	}
}

func TestExportOneEventPerTask(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if err := Write(&buf, sampleDays(), ExportOptions{Name: "Week 3", Now: now}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if n := strings.Count(out, "BEGIN:VEVENT"); n != 3 {
		t.Fatalf("VEVENT count = %d\n%s", n, out)
	}
	for _, want := range []string{
		"DTSTART:20240115T080000",
		"DTEND:20240115T093000",
		"DTSTART:20240117T181500",
		"UID:a1@weekcal",
		"COLOR:Green",
		"X-WR-CALNAME:Week 3",
		"DTSTAMP:20240101T000000Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleDays(), ExportOptions{}); err != nil {
		t.Fatal(err)
	}

	res, err := Import(&buf, ImportOptions{Location: time.UTC})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Skipped != 0 || len(res.Days) != 2 {
		t.Fatalf("result = %+v", res)
	}

	mon := res.Days[0]
	if mon.Date != monday || len(mon.Tasks) != 2 {
		t.Fatalf("monday = %+v", mon)
	}
	standup := mon.Tasks[0]
	if standup.Title != "standup, daily" || standup.Notes != "room 4\nbring notes" || standup.Color != model.ColorBlue {
		t.Errorf("standup = %+v", standup)
	}
	if standup.Start != model.Clock(8, 0) || standup.End != model.Clock(9, 30) {
		t.Errorf("standup times = %s-%s", standup.Start, standup.End)
	}
	if pill := mon.Tasks[1]; !pill.Instantaneous() || pill.Color != model.DefaultColor {
		t.Errorf("pill = %+v", pill)
	}
	if c := res.Days[1].Tasks[0]; c.Color != "#ff8800" || c.End != model.Clock(20, 0) {
		t.Errorf("climbing = %+v", c)
	}
}

const feed = "BEGIN:VCALENDAR\n" +
	"VERSION:2.0\n" +
	"PRODID:-//test//test//EN\n" +
	"BEGIN:VEVENT\n" +
	"UID:zoned\n" +
	"DTSTAMP:20240101T000000Z\n" +
	"DTSTART:20240115T140000Z\n" +
	"DTEND:20240115T150000Z\n" +
	"SUMMARY:call\n" +
	"END:VEVENT\n" +
	"BEGIN:VEVENT\n" +
	"UID:allday\n" +
	"DTSTAMP:20240101T000000Z\n" +
	"DTSTART;VALUE=DATE:20240116\n" +
	"DTEND;VALUE=DATE:20240117\n" +
	"SUMMARY:holiday\n" +
	"END:VEVENT\n" +
	"BEGIN:VEVENT\n" +
	"UID:overnight\n" +
	"DTSTAMP:20240101T000000Z\n" +
	"DTSTART:20240117T220000\n" +
	"DTEND:20240118T020000\n" +
	"SUMMARY:night shift\n" +
	"END:VEVENT\n" +
	"BEGIN:VEVENT\n" +
	"UID:noend\n" +
	"DTSTAMP:20240101T000000Z\n" +
	"DTSTART:20240117T070000\n" +
	"SUMMARY:alarm\n" +
	"END:VEVENT\n" +
	"END:VCALENDAR\n"

func TestImportFeed(t *testing.T) {
	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	res, err := Import(strings.NewReader(feed), ImportOptions{Location: plusTwo})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want the all-day event only", res.Skipped)
	}
	if len(res.Days) != 2 {
		t.Fatalf("days = %+v", res.Days)
	}

	call := res.Days[0].Tasks[0]
	if res.Days[0].Date != monday || call.Start != model.Clock(16, 0) || call.End != model.Clock(17, 0) {
		t.Errorf("zoned event = %s %+v", res.Days[0].Date, call)
	}

	wed := res.Days[1]
	if len(wed.Tasks) != 2 {
		t.Fatalf("wednesday = %+v", wed.Tasks)
	}
	alarm, shift := wed.Tasks[0], wed.Tasks[1]
	if alarm.Title != "alarm" || !alarm.Instantaneous() {
		t.Errorf("alarm = %+v", alarm)
	}
	if shift.Start != model.Clock(22, 0) || shift.End != model.EndOfDay-model.Second {
		t.Errorf("night shift = %s-%s", shift.Start, shift.End)
	}
}

func TestImportEmptyCalendar(t *testing.T) {
	body := "BEGIN:VCALENDAR\nVERSION:2.0\nPRODID:-//test//test//EN\nEND:VCALENDAR\n"
	_, err := Import(strings.NewReader(body), ImportOptions{})
	if !errors.Is(err, ErrNoEvents) {
		t.Fatalf("err = %v", err)
	}
}

const recurringFeed = "BEGIN:VCALENDAR\n" +
	"VERSION:2.0\n" +
	"PRODID:-//test//test//EN\n" +
	"BEGIN:VEVENT\n" +
	"UID:standup\n" +
	"DTSTAMP:20240101T000000Z\n" +
	"DTSTART:20240101T090000\n" +
	"DTEND:20240101T093000\n" +
	"RRULE:FREQ=WEEKLY;BYDAY=MO,WE\n" +
	"EXDATE:20240117T090000\n" +
	"SUMMARY:standup\n" +
	"END:VEVENT\n" +
	"BEGIN:VEVENT\n" +
	"UID:standup\n" +
	"DTSTAMP:20240101T000000Z\n" +
	"RECURRENCE-ID:20240122T090000\n" +
	"DTSTART:20240122T110000\n" +
	"DTEND:20240122T113000\n" +
	"SUMMARY:standup moved\n" +
	"END:VEVENT\n" +
	"BEGIN:VEVENT\n" +
	"UID:dentist\n" +
	"DTSTAMP:20240101T000000Z\n" +
	"DTSTART:20240301T150000\n" +
	"DTEND:20240301T160000\n" +
	"SUMMARY:dentist\n" +
	"END:VEVENT\n" +
	"END:VCALENDAR\n"

func TestImportExpandsRecurrenceInRange(t *testing.T) {
	res, err := Import(strings.NewReader(recurringFeed), ImportOptions{
		Location: time.UTC,
		From:     monday,
		To:       monday.AddDays(9),
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Skipped != 0 || res.OutOfRange != 1 || len(res.Truncated) != 0 {
		t.Errorf("result counters = %+v", res)
	}

	type want struct {
		date  model.Date
		start model.TimeOfDay
		end   model.TimeOfDay
		title string
	}
	wants := []want{
		{monday, model.Clock(9, 0), model.Clock(9, 30), "standup"},
		{monday.AddDays(7), model.Clock(11, 0), model.Clock(11, 30), "standup moved"},
		{monday.AddDays(9), model.Clock(9, 0), model.Clock(9, 30), "standup"},
	}
	if len(res.Days) != len(wants) {
		t.Fatalf("days = %+v", res.Days)
	}
	for i, w := range wants {
		d := res.Days[i]
		if d.Date != w.date || len(d.Tasks) != 1 {
			t.Fatalf("day %d = %+v, want one task on %s", i, d, w.date)
		}
		got := d.Tasks[0]
		if got.Start != w.start || got.End != w.end || got.Title != w.title {
			t.Errorf("day %s task = %+v", w.date, got)
		}
	}
}

func TestImportWithoutRangeKeepsFirstOccurrence(t *testing.T) {
	res, err := Import(strings.NewReader(recurringFeed), ImportOptions{Location: time.UTC})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	var dates []model.Date
	for _, d := range res.Days {
		dates = append(dates, d.Date)
	}
	want := []model.Date{
		model.NewDate(2024, time.January, 1),
		monday.AddDays(7),
		model.NewDate(2024, time.March, 1),
	}
	if len(dates) != len(want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("dates = %v, want %v", dates, want)
		}
	}
}

func TestImportCapsOccurrences(t *testing.T) {
	body := "BEGIN:VCALENDAR\nVERSION:2.0\nPRODID:-//test//test//EN\n" +
		"BEGIN:VEVENT\nUID:pill\nDTSTAMP:20240101T000000Z\n" +
		"DTSTART:20240101T080000\nRRULE:FREQ=DAILY\nSUMMARY:pill\nEND:VEVENT\n" +
		"END:VCALENDAR\n"
	res, err := Import(strings.NewReader(body), ImportOptions{
		Location:       time.UTC,
		From:           monday,
		To:             monday.AddDays(6),
		MaxOccurrences: 3,
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Truncated) != 1 || res.Truncated[0] != "pill" {
		t.Fatalf("truncated = %v", res.Truncated)
	}
	if n := len(res.Days); n == 0 || n > 3 {
		t.Fatalf("days = %+v", res.Days)
	}
}

func TestImportRejectsInvertedRange(t *testing.T) {
	_, err := Import(strings.NewReader(recurringFeed), ImportOptions{From: monday, To: monday.AddDays(-1)})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v", err)
	}
}
