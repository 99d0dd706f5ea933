package store

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"weekcal/internal/model"
)

func task(title string, start, end model.TimeOfDay) model.TaskItem {
	return model.TaskItem{Title: title, Start: start, End: end}
}

func titles(tasks []model.TaskItem) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestAddKeepsDaySorted(t *testing.T) {
	s := New()
	d := model.NewDate(2024, time.January, 15)

	s.Add(d, task("late", model.Clock(18, 0), model.Clock(19, 0)))
	s.Add(d, task("early", model.Clock(8, 0), model.Clock(9, 0)))
	s.Add(d, task("mid", model.Clock(12, 0), model.Clock(12, 0)))

	got := titles(s.Day(d))
	want := []string{"early", "mid", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestAddAssignsIDAndDefaultColor(t *testing.T) {
	s := New()
	d := model.NewDate(2024, time.January, 15)
	added := s.Add(d, task("a", model.Clock(8, 0), model.Clock(9, 0)))
	if added.ID == "" {
		t.Fatal("expected an ID to be assigned")
	}
	if added.Color != model.DefaultColor {
		t.Fatalf("color = %q, want %q", added.Color, model.DefaultColor)
	}
	if _, ok := s.Find(d, added.ID); !ok {
		t.Fatal("added task not found by ID")
	}
}

func TestEqualStartsKeepInsertionOrder(t *testing.T) {
	s := New()
	d := model.NewDate(2024, time.March, 1)
	s.Add(d, task("first", model.Clock(9, 0), model.Clock(10, 0)))
	s.Add(d, task("second", model.Clock(9, 0), model.Clock(9, 30)))
	s.Add(d, task("before", model.Clock(7, 0), model.Clock(7, 0)))

	got := titles(s.Day(d))
	if got[0] != "before" || got[1] != "first" || got[2] != "second" {
		t.Fatalf("order = %v", got)
	}
}

func TestRemovePrunesEmptyDay(t *testing.T) {
	s := New()
	d := model.NewDate(2024, time.January, 15)
	a := s.Add(d, task("a", model.Clock(8, 0), model.Clock(9, 0)))
	b := s.Add(d, task("b", model.Clock(10, 0), model.Clock(11, 0)))

	if n := s.Remove(d, a.ID); n != 1 {
		t.Fatalf("removed %d, want 1", n)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if n := s.Remove(d, b.ID, "missing"); n != 1 {
		t.Fatalf("removed %d, want 1", n)
	}
	if s.Len() != 0 || len(s.Dates()) != 0 {
		t.Fatal("expected empty day to be pruned")
	}
}

func TestReplaceAndUpdate(t *testing.T) {
	s := New()
	d := model.NewDate(2024, time.January, 15)
	s.Add(d, task("old", model.Clock(8, 0), model.Clock(9, 0)))

	got := s.Replace(d, []model.TaskItem{
		task("y", model.Clock(14, 0), model.Clock(15, 0)),
		task("x", model.Clock(9, 0), model.Clock(9, 0)),
	})
	if len(got) != 2 || got[0].Title != "x" || got[1].Title != "y" {
		t.Fatalf("replace result = %v", titles(got))
	}

	upd, err := s.Update(d, got[0].ID, task("x2", model.Clock(16, 0), model.Clock(17, 0)))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.ID != got[0].ID {
		t.Fatalf("update changed ID: %s -> %s", got[0].ID, upd.ID)
	}
	day := titles(s.Day(d))
	if day[0] != "y" || day[1] != "x2" {
		t.Fatalf("after update order = %v", day)
	}

	if _, err := s.Update(d, "nope", model.TaskItem{}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("update unknown id err = %v", err)
	}

	s.Replace(d, nil)
	if s.Len() != 0 {
		t.Fatal("replace with nothing should clear the day")
	}
}

func TestDayReturnsCopy(t *testing.T) {
	s := New()
	d := model.NewDate(2024, time.January, 15)
	s.Add(d, task("a", model.Clock(8, 0), model.Clock(9, 0)))
	day := s.Day(d)
	day[0].Title = "changed"
	if s.Day(d)[0].Title != "a" {
		t.Fatal("Day must not expose internal storage")
	}
}

func TestClearWeekRemovesAllSevenDays(t *testing.T) {
	s := New()
	w := WeekOf(model.NewDate(2024, time.January, 17), time.Monday)
	for _, d := range w.Days() {
		s.Add(d, task("t", model.Clock(9, 0), model.Clock(10, 0)))
	}
	outside := w.Next().Start
	s.Add(outside, task("keep", model.Clock(9, 0), model.Clock(10, 0)))

	if n := s.ClearWeek(w); n != 7 {
		t.Fatalf("cleared %d days, want 7", n)
	}
	for _, d := range w.Days() {
		if len(s.Day(d)) != 0 {
			t.Fatalf("day %s still has tasks", d)
		}
	}
	if s.Len() != 1 || s.Dates()[0] != outside {
		t.Fatalf("dates after clear = %v", s.Dates())
	}
}

func TestDayAlwaysSortedUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := New()
	d := model.NewDate(2024, time.June, 3)

	for i := 0; i < 500; i++ {
		day := s.Day(d)
		switch op := rng.Intn(4); {
		case op < 2 || len(day) == 0:
			start := model.TimeOfDay(rng.Intn(24*60)) * model.Minute
			s.Add(d, task("r", start, start+model.TimeOfDay(rng.Intn(120))*model.Minute))
		case op == 2:
			s.Remove(d, day[rng.Intn(len(day))].ID)
		default:
			victim := day[rng.Intn(len(day))]
			start := model.TimeOfDay(rng.Intn(24*60)) * model.Minute
			if _, err := s.Update(d, victim.ID, task("u", start, start)); err != nil {
				t.Fatalf("update: %v", err)
			}
		}
		if !model.SortedByStart(s.Day(d)) {
			t.Fatalf("day not sorted after step %d", i)
		}
	}
}

func TestResetMergesDuplicateDates(t *testing.T) {
	s := New()
	d := model.NewDate(2024, time.January, 15)
	s.Reset([]model.TaskDay{
		{Date: d, Tasks: []model.TaskItem{task("b", model.Clock(10, 0), model.Clock(11, 0))}},
		{Date: d, Tasks: []model.TaskItem{task("a", model.Clock(9, 0), model.Clock(9, 0))}},
		{Date: d.AddDays(1)},
	})
	if s.Len() != 1 || s.TaskCount() != 2 {
		t.Fatalf("Len=%d TaskCount=%d", s.Len(), s.TaskCount())
	}
	if got := titles(s.Day(d)); got[0] != "a" {
		t.Fatalf("order = %v", got)
	}
}
