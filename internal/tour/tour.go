// Package tour drives the guided onboarding sequence: a strictly linear
// five-step walkthrough whose progress survives restarts. Persistence goes
// through an injected Store so the machine itself never touches disk.
package tour

// Step identifies a position in the onboarding sequence.
type Step int

const (
	StepWelcome Step = iota
	StepCreateFlag
	StepDocumentation
	StepAPIKey
	StepCompleted
)

// String returns the step's display name.
func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepCreateFlag:
		return "create-flag"
	case StepDocumentation:
		return "documentation"
	case StepAPIKey:
		return "api-key"
	case StepCompleted:
		return "completed"
	}
	return "unknown"
}

// State is the persisted onboarding progress.
type State struct {
	CurrentStep Step `json:"currentStep"`
	IsComplete  bool `json:"isComplete"`
}

// Store abstracts durable client-side storage for onboarding state.
// Implementations: the statefile adapter in production, an in-memory map in
// tests.
type Store interface {
	LoadTour() (State, error)
	SaveTour(State) error
}

// RouteMatcher reports whether the current route is the page a step's
// tooltip belongs on. Routing is the host view's concern, injected here
// only for the visibility check.
type RouteMatcher func(step Step, route string) bool

// Machine is the onboarding step machine. Every transition persists
// synchronously before returning.
type Machine struct {
	store Store
	state State
}

// New hydrates a machine from the store. Absent or malformed persisted
// state fails open to a fresh tour at the welcome step: a corrupt file must
// never silently hide onboarding.
func New(store Store) *Machine {
	m := &Machine{store: store}
	st, err := store.LoadTour()
	if err != nil || !valid(st) {
		st = State{CurrentStep: StepWelcome}
	}
	m.state = st
	return m
}

func valid(st State) bool {
	if st.CurrentStep < StepWelcome || st.CurrentStep > StepCompleted {
		return false
	}
	// A completed flag on a non-terminal step (or the reverse) is corrupt.
	return st.IsComplete == (st.CurrentStep == StepCompleted)
}

// Step returns the current step.
func (m *Machine) Step() Step { return m.state.CurrentStep }

// Complete reports whether the tour has finished.
func (m *Machine) Complete() bool { return m.state.IsComplete }

// Active reports whether the tour should still be offered.
func (m *Machine) Active() bool { return !m.state.IsComplete }

// Next advances one step. Reaching the terminal step marks the tour
// complete and deactivates it.
func (m *Machine) Next() error {
	if m.state.CurrentStep >= StepCompleted {
		return nil
	}
	m.state.CurrentStep++
	m.state.IsComplete = m.state.CurrentStep == StepCompleted
	return m.store.SaveTour(m.state)
}

// Prev retreats one step, stopping at welcome.
func (m *Machine) Prev() error {
	if m.state.CurrentStep <= StepWelcome {
		return nil
	}
	m.state.CurrentStep--
	m.state.IsComplete = false
	return m.store.SaveTour(m.state)
}

// Skip jumps straight to the terminal step.
func (m *Machine) Skip() error {
	m.state = State{CurrentStep: StepCompleted, IsComplete: true}
	return m.store.SaveTour(m.state)
}

// Reset returns to the welcome step and clears completion.
func (m *Machine) Reset() error {
	m.state = State{CurrentStep: StepWelcome}
	return m.store.SaveTour(m.state)
}

// Visible reports whether the current step's tooltip may render on the
// given route: the tour must be active and the route must match the step's
// intended page.
func (m *Machine) Visible(route string, matches RouteMatcher) bool {
	if m.state.IsComplete {
		return false
	}
	if matches == nil {
		return true
	}
	return matches(m.state.CurrentStep, route)
}
