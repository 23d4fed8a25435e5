package tour

import (
	"errors"
	"testing"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	state   State
	present bool
	loadErr error
	saves   int
}

func (s *memStore) LoadTour() (State, error) {
	if s.loadErr != nil {
		return State{}, s.loadErr
	}
	if !s.present {
		return State{}, nil
	}
	return s.state, nil
}

func (s *memStore) SaveTour(st State) error {
	s.state = st
	s.present = true
	s.saves++
	return nil
}

func TestNextWalksAllSteps(t *testing.T) {
	store := &memStore{}
	m := New(store)

	want := []Step{StepCreateFlag, StepDocumentation, StepAPIKey, StepCompleted}
	for i, expect := range want {
		if err := m.Next(); err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if m.Step() != expect {
			t.Fatalf("after %d Next calls: step = %v, want %v", i+1, m.Step(), expect)
		}
	}

	if !m.Complete() {
		t.Error("four Next calls from welcome should complete the tour")
	}
	if m.Active() {
		t.Error("completed tour should be inactive")
	}

	// Next past the terminal step is a no-op.
	saves := store.saves
	if err := m.Next(); err != nil {
		t.Fatalf("Next at terminal: %v", err)
	}
	if m.Step() != StepCompleted || store.saves != saves {
		t.Error("Next at terminal step should not transition or persist")
	}
}

func TestPrevStopsAtWelcome(t *testing.T) {
	store := &memStore{}
	m := New(store)

	m.Next()
	m.Next()
	if m.Step() != StepDocumentation {
		t.Fatalf("setup: step = %v", m.Step())
	}

	m.Prev()
	if m.Step() != StepCreateFlag {
		t.Errorf("Prev: step = %v, want create-flag", m.Step())
	}

	m.Prev()
	m.Prev() // extra Prev at welcome is a no-op
	if m.Step() != StepWelcome {
		t.Errorf("step = %v, want welcome", m.Step())
	}
}

func TestSkipFromEveryNonTerminalStep(t *testing.T) {
	for start := StepWelcome; start < StepCompleted; start++ {
		store := &memStore{state: State{CurrentStep: start}, present: true}
		m := New(store)

		if err := m.Skip(); err != nil {
			t.Fatalf("Skip from %v: %v", start, err)
		}
		if m.Step() != StepCompleted || !m.Complete() {
			t.Errorf("Skip from %v: step=%v complete=%v", start, m.Step(), m.Complete())
		}
	}
}

func TestResetClearsCompletion(t *testing.T) {
	store := &memStore{}
	m := New(store)
	m.Skip()

	if err := m.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if m.Step() != StepWelcome || m.Complete() {
		t.Errorf("after Reset: step=%v complete=%v, want welcome/false", m.Step(), m.Complete())
	}
	if !m.Active() {
		t.Error("reset tour should be active again")
	}
}

func TestTransitionsPersistSynchronously(t *testing.T) {
	store := &memStore{}
	m := New(store)

	m.Next()
	if store.state.CurrentStep != StepCreateFlag {
		t.Error("Next should persist before returning")
	}
	m.Skip()
	if !store.state.IsComplete {
		t.Error("Skip should persist before returning")
	}
	m.Reset()
	if store.state.CurrentStep != StepWelcome || store.state.IsComplete {
		t.Error("Reset should persist before returning")
	}
}

func TestHydrateFromStore(t *testing.T) {
	store := &memStore{state: State{CurrentStep: StepAPIKey}, present: true}
	m := New(store)
	if m.Step() != StepAPIKey || m.Complete() {
		t.Errorf("hydrated step=%v complete=%v, want api-key/false", m.Step(), m.Complete())
	}
}

func TestFailsOpenOnCorruptState(t *testing.T) {
	tests := []struct {
		name  string
		store *memStore
	}{
		{"load error", &memStore{loadErr: errors.New("corrupt json")}},
		{"step out of range", &memStore{state: State{CurrentStep: 42}, present: true}},
		{"negative step", &memStore{state: State{CurrentStep: -1}, present: true}},
		{"complete flag on non-terminal step", &memStore{state: State{CurrentStep: StepCreateFlag, IsComplete: true}, present: true}},
		{"terminal step without complete flag", &memStore{state: State{CurrentStep: StepCompleted}, present: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.store)
			if m.Step() != StepWelcome || m.Complete() {
				t.Errorf("corrupt state must fail open to welcome, got step=%v complete=%v",
					m.Step(), m.Complete())
			}
			if !m.Active() {
				t.Error("tour must be shown after corrupt state")
			}
		})
	}
}

func TestVisibleGatesOnRouteAndCompletion(t *testing.T) {
	adminOnly := func(step Step, route string) bool { return route == "admin" }

	store := &memStore{}
	m := New(store)

	if !m.Visible("admin", adminOnly) {
		t.Error("active tour on matching route should be visible")
	}
	if m.Visible("settings", adminOnly) {
		t.Error("non-matching route should hide the tooltip")
	}

	m.Skip()
	if m.Visible("admin", adminOnly) {
		t.Error("completed tour should never be visible")
	}
}
