package statefile

import (
	"os"
	"path/filepath"
	"testing"

	"flagdeck/internal/models"
	"flagdeck/internal/tour"
)

func TestLoadMissingFileYieldsZeroState(t *testing.T) {
	f := New(t.TempDir())
	st, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.BetaApproved || st.Session.Token != "" || len(st.SeenKeyIDs) != 0 {
		t.Errorf("expected zero state, got %+v", st)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	f := New(t.TempDir())

	want := &State{
		Tour:         tour.State{CurrentStep: tour.StepAPIKey},
		Session:      models.Session{Token: "tok-123", Email: "ops@example.com"},
		InviteToken:  "good123",
		BetaApproved: true,
		SeenKeyIDs:   []string{"key-1", "key-2"},
		Filters:      FilterState{SearchQuery: "checkout", SortField: "name", SortAsc: true},
	}

	if err := f.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Tour != want.Tour || got.Session != want.Session ||
		got.InviteToken != want.InviteToken || !got.BetaApproved {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Filters != want.Filters {
		t.Errorf("filters mismatch: %+v", got.Filters)
	}
}

func TestLoadMalformedFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, stateFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	f := New(dir)
	if _, err := f.Load(); err == nil {
		t.Error("malformed file should return an error")
	}

	// The tour machine built on top must fail open to a fresh tour.
	m := tour.New(f)
	if m.Step() != tour.StepWelcome || m.Complete() {
		t.Errorf("tour over corrupt file: step=%v complete=%v, want welcome/false",
			m.Step(), m.Complete())
	}
}

func TestTourStoreRoundTrip(t *testing.T) {
	f := New(t.TempDir())

	m := tour.New(f)
	if err := m.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := m.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	// A fresh machine over the same file resumes where the last one stopped.
	m2 := tour.New(f)
	if m2.Step() != tour.StepDocumentation {
		t.Errorf("resumed step = %v, want documentation", m2.Step())
	}
}

func TestSessionHelpers(t *testing.T) {
	f := New(t.TempDir())

	if err := f.SetSession(models.Session{Token: "tok", Email: "a@b.c"}); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	s, err := f.GetSession()
	if err != nil || s.Token != "tok" {
		t.Fatalf("GetSession = %+v, %v", s, err)
	}

	if err := f.ClearSession(); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	s, _ = f.GetSession()
	if s.Token != "" {
		t.Error("session should be cleared")
	}
}

func TestInvitePersistsOnlyOnSet(t *testing.T) {
	f := New(t.TempDir())

	ok, err := f.BetaApproved()
	if err != nil || ok {
		t.Fatalf("fresh state BetaApproved = %v, %v", ok, err)
	}

	if err := f.SetInvite("good123"); err != nil {
		t.Fatalf("SetInvite: %v", err)
	}
	ok, _ = f.BetaApproved()
	if !ok {
		t.Error("BetaApproved should be true after SetInvite")
	}

	st, _ := f.Load()
	if st.InviteToken != "good123" {
		t.Errorf("InviteToken = %q", st.InviteToken)
	}
}

func TestKeySeenTracking(t *testing.T) {
	f := New(t.TempDir())

	seen, _ := f.KeySeen("key-1")
	if seen {
		t.Error("unseen key reported as seen")
	}

	if err := f.MarkKeySeen("key-1"); err != nil {
		t.Fatalf("MarkKeySeen: %v", err)
	}
	// Marking twice must not duplicate.
	if err := f.MarkKeySeen("key-1"); err != nil {
		t.Fatalf("MarkKeySeen: %v", err)
	}

	seen, _ = f.KeySeen("key-1")
	if !seen {
		t.Error("marked key not reported as seen")
	}

	st, _ := f.Load()
	if len(st.SeenKeyIDs) != 1 {
		t.Errorf("SeenKeyIDs = %v, want single entry", st.SeenKeyIDs)
	}
}

func TestUpdateReplacesCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, stateFile)
	os.MkdirAll(filepath.Dir(path), 0755)
	os.WriteFile(path, []byte("garbage"), 0644)

	f := New(dir)
	if err := f.MarkKeySeen("key-9"); err != nil {
		t.Fatalf("MarkKeySeen over corrupt file: %v", err)
	}

	seen, err := f.KeySeen("key-9")
	if err != nil || !seen {
		t.Errorf("KeySeen = %v, %v after rewrite", seen, err)
	}
}
