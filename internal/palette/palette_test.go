package palette

import (
	"image/color"
	"testing"
)

func TestResolvePalette(t *testing.T) {
	cases := map[string]string{
		"Red":    "#e67c73",
		"yellow": "#f7cb4d",
		"GREEN":  "#41b375",
		"Blue":   "#7baaf7",
		"purple": "#ba67c8",
	}
	for in, want := range cases {
		if got := Hex(Resolve(in)); got != want {
			t.Errorf("Resolve(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestResolvePassThrough(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{"#102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}},
		{"#80102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x80}},
		{"orange", color.NRGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff}},
		{"Teal", color.NRGBA{R: 0x00, G: 0x80, B: 0x80, A: 0xff}},
	}
	for _, tc := range cases {
		if got := Resolve(tc.in); got != tc.want {
			t.Errorf("Resolve(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestResolveUnreadableIsTransparent(t *testing.T) {
	for _, in := range []string{"", "   ", "notacolor", "#12", "#zzzzzz", "#1234567"} {
		if got := Resolve(in); got != Transparent {
			t.Errorf("Resolve(%q) = %v, want transparent", in, got)
		}
		if _, ok := Lookup(in); ok {
			t.Errorf("Lookup(%q) reported ok", in)
		}
	}
}

func TestCanonical(t *testing.T) {
	if got := Canonical("green"); got != "Green" {
		t.Errorf("Canonical(green) = %q", got)
	}
	if got := Canonical("#abcdef"); got != "#abcdef" {
		t.Errorf("Canonical(#abcdef) = %q", got)
	}
	if !IsPalette(" Purple ") || IsPalette("orange") {
		t.Error("IsPalette mismatch")
	}
}

func TestCSS(t *testing.T) {
	if got := CSS(Resolve("Red")); got != "#e67c73" {
		t.Errorf("CSS(Red) = %s", got)
	}
	if got := CSS(Transparent); got != "rgba(0,0,0,0.000)" {
		t.Errorf("CSS(Transparent) = %s", got)
	}
}
