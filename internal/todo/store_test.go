package todo

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// fixedClock returns a clock that always reports the same instant, forcing
// the store to bump ids instead of relying on wall time.
func fixedClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func mustAdd(t *testing.T, s *Store, title string) Task {
	t.Helper()
	task, err := s.Add(title)
	if err != nil {
		t.Fatalf("Add(%q) failed: %v", title, err)
	}
	return task
}

func titles(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	want := []string{"A", "B", "C", "D"}
	for _, title := range want {
		mustAdd(t, s, title)
	}

	if s.Len() != len(want) {
		t.Fatalf("Len: got %d, want %d", s.Len(), len(want))
	}
	if got := titles(s.Snapshot()); !reflect.DeepEqual(got, want) {
		t.Errorf("titles: got %v, want %v", got, want)
	}
}

func TestAddDefaults(t *testing.T) {
	s := NewStore()
	task := mustAdd(t, s, "Buy milk")

	if task.IsZero() {
		t.Fatal("expected non-zero id")
	}
	if task.Done || task.Edit {
		t.Errorf("new task should have done=false edit=false, got %+v", task)
	}
}

func TestAddUniqueIDs(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	seen := make(map[int64]bool)
	for i := 0; i < 50; i++ {
		task := mustAdd(t, s, string(rune('a'+i%26))+string(rune('A'+i/26)))
		if seen[task.ID] {
			t.Fatalf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestAddIDsFollowClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(func() time.Time { return now }))

	first := mustAdd(t, s, "A")
	if first.ID != now.UnixMilli() {
		t.Errorf("first id: got %d, want %d", first.ID, now.UnixMilli())
	}

	now = now.Add(time.Second)
	second := mustAdd(t, s, "B")
	if second.ID != now.UnixMilli() {
		t.Errorf("second id: got %d, want %d", second.ID, now.UnixMilli())
	}

	// Clock going backwards must not produce a reused id.
	now = now.Add(-time.Hour)
	third := mustAdd(t, s, "C")
	if third.ID <= second.ID {
		t.Errorf("third id %d not greater than %d", third.ID, second.ID)
	}
}

func TestAddDuplicateTitle(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		title    string
		wantErr  bool
	}{
		{"exact match", []string{"Buy milk"}, "Buy milk", true},
		{"case differs", []string{"Buy milk"}, "buy milk", false},
		{"trailing space", []string{"Buy milk"}, "Buy milk ", false},
		{"match later in list", []string{"A", "B", "C"}, "C", true},
		{"empty list", nil, "A", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(WithClock(fixedClock()))
			for _, title := range tt.existing {
				mustAdd(t, s, title)
			}
			before := s.Snapshot()

			_, err := s.Add(tt.title)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Add error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, ErrDuplicateTitle) {
				t.Errorf("expected ErrDuplicateTitle, got %v", err)
			}
			var dup *DuplicateTitleError
			if !errors.As(err, &dup) || dup.Title != tt.title {
				t.Errorf("expected DuplicateTitleError for %q, got %v", tt.title, err)
			}
			if !reflect.DeepEqual(s.Snapshot(), before) {
				t.Errorf("sequence changed after duplicate add")
			}
		})
	}
}

func TestToggleDone(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	a := mustAdd(t, s, "A")
	mustAdd(t, s, "B")

	if !s.ToggleDone(a.ID) {
		t.Fatal("ToggleDone returned false for existing id")
	}
	got, _ := s.Get(a.ID)
	if !got.Done {
		t.Error("expected done after first toggle")
	}

	s.ToggleDone(a.ID)
	got, _ = s.Get(a.ID)
	if got.Done {
		t.Error("expected not done after second toggle")
	}
}

func TestMissingIDIsNoop(t *testing.T) {
	ops := map[string]func(*Store) bool{
		"ToggleDone": func(s *Store) bool { return s.ToggleDone(42) },
		"SetEditing": func(s *Store) bool { return s.SetEditing(42) },
		"CommitEdit": func(s *Store) bool { return s.CommitEdit(42, "X") },
		"Remove":     func(s *Store) bool { return s.Remove(42) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			s := NewStore(WithClock(fixedClock()))
			mustAdd(t, s, "A")
			mustAdd(t, s, "B")
			before := s.Snapshot()

			if op(s) {
				t.Errorf("%s reported a match for a missing id", name)
			}
			if !reflect.DeepEqual(s.Snapshot(), before) {
				t.Errorf("%s changed the sequence for a missing id", name)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	mustAdd(t, s, "A")
	b := mustAdd(t, s, "B")
	mustAdd(t, s, "C")

	if !s.Remove(b.ID) {
		t.Fatal("Remove returned false for existing id")
	}
	if s.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", s.Len())
	}
	if got := titles(s.Snapshot()); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("titles: got %v, want [A C]", got)
	}

	if s.Remove(b.ID) {
		t.Error("second Remove of same id should report no match")
	}
	if s.Len() != 2 {
		t.Errorf("Len after second remove: got %d, want 2", s.Len())
	}
}

func TestSetEditingIsToggle(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	a := mustAdd(t, s, "A")
	b := mustAdd(t, s, "B")

	s.SetEditing(a.ID)
	s.SetEditing(b.ID)

	// The store does not enforce a single editor.
	for _, task := range s.Snapshot() {
		if !task.Edit {
			t.Errorf("task %q: expected edit=true", task.Title)
		}
	}

	s.SetEditing(a.ID)
	got, _ := s.Get(a.ID)
	if got.Edit {
		t.Error("expected edit=false after second SetEditing")
	}
}

func TestCommitEditOnlyTouchesTarget(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	a := mustAdd(t, s, "A")
	b := mustAdd(t, s, "B")
	s.ToggleDone(a.ID)
	s.SetEditing(a.ID)
	before := s.Snapshot()

	if !s.CommitEdit(a.ID, "A2") {
		t.Fatal("CommitEdit returned false for existing id")
	}

	after := s.Snapshot()
	want := before[0]
	want.Title = "A2"
	want.Edit = false
	if after[0] != want {
		t.Errorf("edited task: got %+v, want %+v", after[0], want)
	}
	if after[1] != before[1] {
		t.Errorf("other task changed: got %+v, want %+v", after[1], before[1])
	}
	if after[1].ID != b.ID {
		t.Errorf("order changed")
	}
}

func TestCommitEditAllowsDuplicateTitle(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	a := mustAdd(t, s, "A")
	mustAdd(t, s, "B")

	s.SetEditing(a.ID)
	s.CommitEdit(a.ID, "B")

	if got := titles(s.Snapshot()); !reflect.DeepEqual(got, []string{"B", "B"}) {
		t.Errorf("titles: got %v, want [B B]", got)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	a := mustAdd(t, s, "A")

	snap := s.Snapshot()
	s.ToggleDone(a.ID)
	s.CommitEdit(a.ID, "changed")

	if snap[0].Done || snap[0].Title != "A" {
		t.Errorf("earlier snapshot was mutated: %+v", snap[0])
	}

	snap[0].Title = "tampered"
	if got, _ := s.Get(a.ID); got.Title != "changed" {
		t.Errorf("writing to a snapshot leaked into the store: %q", got.Title)
	}
}

func TestScenarios(t *testing.T) {
	t.Run("duplicate add", func(t *testing.T) {
		s := NewStore()
		mustAdd(t, s, "Buy milk")
		got := s.Snapshot()
		if len(got) != 1 || got[0].Title != "Buy milk" || got[0].Done || got[0].Edit {
			t.Fatalf("unexpected sequence: %+v", got)
		}
		if _, err := s.Add("Buy milk"); !errors.Is(err, ErrDuplicateTitle) {
			t.Fatalf("expected ErrDuplicateTitle, got %v", err)
		}
		if s.Len() != 1 {
			t.Errorf("Len: got %d, want 1", s.Len())
		}
	})

	t.Run("toggle first of two", func(t *testing.T) {
		s := NewStore()
		a := mustAdd(t, s, "A")
		mustAdd(t, s, "B")
		s.ToggleDone(a.ID)

		got := s.Snapshot()
		if got[0].Title != "A" || !got[0].Done {
			t.Errorf("first: got %+v", got[0])
		}
		if got[1].Title != "B" || got[1].Done {
			t.Errorf("second: got %+v", got[1])
		}
	})

	t.Run("edit and commit", func(t *testing.T) {
		s := NewStore()
		a := mustAdd(t, s, "A")
		s.SetEditing(a.ID)
		if got, _ := s.Get(a.ID); !got.Edit {
			t.Fatal("expected edit=true")
		}
		s.CommitEdit(a.ID, "A2")

		got := s.Snapshot()
		if len(got) != 1 || got[0].Title != "A2" || got[0].Edit {
			t.Errorf("unexpected sequence: %+v", got)
		}
	})

	t.Run("remove only task", func(t *testing.T) {
		s := NewStore()
		a := mustAdd(t, s, "A")
		s.Remove(a.ID)
		if got := s.Snapshot(); len(got) != 0 {
			t.Errorf("expected empty sequence, got %+v", got)
		}
	})
}
