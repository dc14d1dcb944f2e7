package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_ReadWindow_MissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope"), 4)
	window, err := s.ReadWindow()
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if len(window) != 0 {
		t.Errorf("expected empty window, got %d entries", len(window))
	}
}

func TestStore_WindowBound(t *testing.T) {
	for _, tc := range []struct {
		stored, window, want int
	}{
		{0, 4, 0},
		{2, 4, 2},
		{4, 4, 4},
		{9, 4, 4},
		{3, 0, 0},
	} {
		s := NewStore(t.TempDir(), tc.window)
		for i := 0; i < tc.stored; i++ {
			if err := s.Append(NewExchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i), false)); err != nil {
				t.Fatalf("append: %v", err)
			}
		}
		got, err := s.ReadWindow()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(got) != tc.want {
			t.Errorf("stored=%d window=%d: got %d entries, want %d", tc.stored, tc.window, len(got), tc.want)
		}
		// Chronological order, most recent last.
		if tc.want > 0 {
			last := got[len(got)-1]
			if last.UserText != fmt.Sprintf("q%d", tc.stored-1) {
				t.Errorf("most recent entry is %q, want q%d", last.UserText, tc.stored-1)
			}
			first := got[0]
			if first.UserText != fmt.Sprintf("q%d", tc.stored-tc.want) {
				t.Errorf("oldest entry is %q, want q%d", first.UserText, tc.stored-tc.want)
			}
		}
	}
}

func TestStore_RoundTripEmbeddedSpaces(t *testing.T) {
	s := NewStore(t.TempDir(), 4)
	ex := NewExchange("how tall is the Eiffel Tower?", "About 330 m, antennas included 📡", false)
	if err := s.Append(ex); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := s.ReadWindow()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	if got[0].UserText != ex.UserText || got[0].AssistantText != ex.AssistantText {
		t.Errorf("round trip mangled text: %+v", got[0])
	}
	if got[0].ID != ex.ID {
		t.Errorf("id changed: %q != %q", got[0].ID, ex.ID)
	}
}

func TestStore_SeedFlag(t *testing.T) {
	s := NewStore(t.TempDir(), 4)
	if err := s.Append(NewExchange("seed phrase", "Okay! How can I help?", true)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(NewExchange("real question", "real answer", false)); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, _ := s.ReadWindow()
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if !got[0].Seed || got[1].Seed {
		t.Errorf("seed flags wrong: %v %v", got[0].Seed, got[1].Seed)
	}
}

func TestStore_Clear_Idempotent(t *testing.T) {
	s := NewStore(t.TempDir(), 4)
	if err := s.Clear(); err != nil {
		t.Fatalf("clearing an absent log should be a no-op, got %v", err)
	}
	if err := s.Append(NewExchange("q", "a", false)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	window, err := s.ReadWindow()
	if err != nil || len(window) != 0 {
		t.Errorf("window after clear: %d entries, err %v", len(window), err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestStore_Append_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deep", "data")
	s := NewStore(dir, 4)
	if err := s.Append(NewExchange("q", "a", false)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestStore_SkipsMalformedRows(t *testing.T) {
	s := NewStore(t.TempDir(), 4)
	if err := s.Append(NewExchange("good", "row", false)); err != nil {
		t.Fatalf("append: %v", err)
	}
	f, err := os.OpenFile(s.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprintln(f, "short row")
	f.Close()

	got, err := s.ReadWindow()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].UserText != "good" {
		t.Errorf("malformed row not skipped: %+v", got)
	}
}
