package store

import (
	"testing"
	"time"

	"weekcal/internal/model"
)

func TestClipboardCopyPaste(t *testing.T) {
	s := New()
	from := model.NewDate(2024, time.January, 15)
	to := from.AddDays(1)
	a := s.Add(from, model.TaskItem{Title: "a", Start: model.Clock(9, 0), End: model.Clock(10, 0), Notes: "n", Color: "Blue"})

	var cb Clipboard
	cb.Copy(s.Day(from))
	if cb.Len() != 1 {
		t.Fatalf("clipboard len = %d", cb.Len())
	}

	first := cb.Paste(s, to)
	second := cb.Paste(s, to)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("paste returned %d and %d tasks", len(first), len(second))
	}
	if first[0].ID == a.ID || first[0].ID == second[0].ID {
		t.Fatal("pasted tasks must get fresh IDs")
	}
	if first[0].Notes != "n" || first[0].Color != "Blue" || first[0].Start != a.Start {
		t.Fatalf("pasted task lost fields: %+v", first[0])
	}
	if got := len(s.Day(to)); got != 2 {
		t.Fatalf("target day has %d tasks, want 2", got)
	}
	if cb.Len() != 1 {
		t.Fatal("paste must not clear the clipboard")
	}

	// Editing the source afterwards leaves the clipboard untouched.
	if _, err := s.Update(from, a.ID, model.TaskItem{Title: "edited", Start: a.Start, End: a.End}); err != nil {
		t.Fatal(err)
	}
	if cb.Items()[0].Title != "a" {
		t.Fatal("clipboard must hold value copies")
	}

	cb.Copy(nil)
	if cb.Len() != 0 || cb.Paste(s, to) != nil {
		t.Fatal("copying nothing should empty the clipboard")
	}
}
