package model

import (
	"testing"
	"time"
)

func TestTimeOfDayUnmarshalText(t *testing.T) {
	cases := map[string]TimeOfDay{
		"08:30":            Clock(8, 30),
		"00:00":            0,
		"23:59:59":         EndOfDay - Second,
		" 07:08:09 ":       Clock(7, 8) + 9,
		"08:00:00.0000000": Clock(8, 0),
	}
	for in, want := range cases {
		var got TimeOfDay
		if err := got.UnmarshalText([]byte(in)); err != nil {
			t.Errorf("UnmarshalText(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("UnmarshalText(%q) = %s, want %s", in, got, want)
		}
	}

	for _, in := range []string{"", "12", "24:00", "12:60", "12:00:60", "-1:00", "1:2:3:4", "ab:cd"} {
		var got TimeOfDay
		if err := got.UnmarshalText([]byte(in)); err == nil {
			t.Errorf("UnmarshalText(%q) = %s, want error", in, got)
		}
	}
}

func TestTimeOfDayMarshalText(t *testing.T) {
	b, err := (Clock(7, 8) + 9).MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "07:08:09" {
		t.Fatalf("MarshalText = %q", b)
	}
	var back TimeOfDay
	if err := back.UnmarshalText(b); err != nil || back != Clock(7, 8)+9 {
		t.Fatalf("read back = %s, %v", back, err)
	}
}

func TestTimeOfDayFormats(t *testing.T) {
	cases := []struct {
		t       TimeOfDay
		kitchen string
		str     string
	}{
		{0, "12:00am", "00:00"},
		{Clock(0, 30), "12:30am", "00:30"},
		{Clock(12, 0), "12:00pm", "12:00"},
		{Clock(20, 5), "8:05pm", "20:05"},
		{Clock(9, 15) + 30, "9:15am", "09:15:30"},
	}
	for _, tc := range cases {
		if got := tc.t.Kitchen(); got != tc.kitchen {
			t.Errorf("Kitchen(%d) = %q, want %q", tc.t, got, tc.kitchen)
		}
		if got := tc.t.String(); got != tc.str {
			t.Errorf("String(%d) = %q, want %q", tc.t, got, tc.str)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := NewDate(2024, time.January, 15)
	for _, in := range []string{
		"2024-01-15",
		" 2024-01-15 ",
		"2024-01-15T08:00:00",
		"2024-01-15T08:00:00.0000000",
		"2024-01-15T23:30:00Z",
		"2024-01-15T23:30:00-05:00",
	} {
		got, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseDate(%q) = %s, want %s", in, got, want)
		}
	}

	for _, in := range []string{"", "15/01/2024", "2024-13-01", "tomorrow"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) expected error", in)
		}
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.February, 28)
	if got := d.AddDays(1); got != NewDate(2024, time.February, 29) {
		t.Errorf("leap day = %s", got)
	}
	if got := d.AddDays(2); got != NewDate(2024, time.March, 1) {
		t.Errorf("month rollover = %s", got)
	}
	if d.Weekday() != time.Wednesday {
		t.Errorf("weekday = %s", d.Weekday())
	}
	if !d.Before(d.AddDays(1)) || d.AddDays(1).Before(d) || d.Compare(d) != 0 {
		t.Error("ordering is inconsistent")
	}
	if !(Date{}).IsZero() || d.IsZero() {
		t.Error("IsZero")
	}
}
