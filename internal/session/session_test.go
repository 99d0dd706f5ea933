package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"weekcal/internal/model"
	"weekcal/internal/persist"
	"weekcal/internal/store"
)

var monday = model.NewDate(2024, time.January, 15)

func TestOpenDoClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	sess, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	err = sess.Do(func(s *store.Store, _ *store.Clipboard) error {
		s.Add(monday, model.TaskItem{Start: model.Clock(8, 0), End: model.Clock(9, 0), Title: "gym"})
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var titles []string
	reopened.View(func(s *store.Store) error {
		for _, task := range s.Day(monday) {
			titles = append(titles, task.Title)
		}
		return nil
	})
	if len(titles) != 1 || titles[0] != "gym" {
		t.Fatalf("titles = %v", titles)
	}
}

func TestDoAfterClose(t *testing.T) {
	sess, err := Open(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.Close(); err != nil {
		t.Fatal(err)
	}
	err = sess.Do(func(*store.Store, *store.Clipboard) error { return nil })
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestClipboardSurvivesCalls(t *testing.T) {
	sess, err := Open(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	sess.Do(func(s *store.Store, c *store.Clipboard) error {
		c.Copy([]model.TaskItem{s.Add(monday, model.TaskItem{Start: model.Clock(8, 0), End: model.Clock(8, 0), Title: "pill"})})
		return nil
	})
	for i := 1; i <= 2; i++ {
		sess.Do(func(s *store.Store, c *store.Clipboard) error {
			c.Paste(s, monday.AddDays(i))
			return nil
		})
	}
	sess.View(func(s *store.Store) error {
		if s.Len() != 3 || s.TaskCount() != 3 {
			t.Errorf("days=%d tasks=%d", s.Len(), s.TaskCount())
		}
		return nil
	})
}

func TestOpenMalformedStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	sess, err := Open(path)
	if !errors.Is(err, persist.ErrMalformed) {
		t.Fatalf("err = %v", err)
	}
	sess.View(func(s *store.Store) error {
		if s.Len() != 0 {
			t.Errorf("store not empty")
		}
		return nil
	})
}

func TestStartAutosaveRejectsBadSpec(t *testing.T) {
	sess, err := Open(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()
	if err := sess.StartAutosave("not a schedule"); err == nil {
		t.Fatal("expected error")
	}
	if err := sess.StartAutosave(""); err != nil {
		t.Fatalf("empty spec: %v", err)
	}
}

func TestAutosaveWritesDirtyState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	sess, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	sess.autosave()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("clean session should not be written")
	}

	sess.Do(func(s *store.Store, _ *store.Clipboard) error {
		s.Add(monday, model.TaskItem{Start: model.Clock(8, 0), End: model.Clock(9, 0), Title: "gym"})
		return nil
	})
	sess.autosave()
	loaded, err := persist.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.TaskCount() != 1 {
		t.Fatalf("autosaved %d tasks", loaded.TaskCount())
	}
}
