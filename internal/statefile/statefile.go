// Package statefile is the durable client-side storage for flagdeck: one
// small JSON document holding onboarding progress, the login session, the
// invite token, which API keys have had their one-time reveal, and the last
// console filter state. Access is single-process; writes are atomic
// (temp file + rename) and serialized with flock.
package statefile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"

	"flagdeck/internal/models"
	"flagdeck/internal/tour"
)

const stateFile = ".flagdeck/state.json"
const lockFile = ".flagdeck/state.json.lock"

// State is the persisted document. Zero value = fresh install.
type State struct {
	Tour         tour.State     `json:"tour,omitempty"`
	Session      models.Session `json:"session,omitempty"`
	InviteToken  string         `json:"invite_token,omitempty"`
	BetaApproved bool           `json:"beta_approved,omitempty"`
	SeenKeyIDs   []string       `json:"seen_key_ids,omitempty"`
	Filters      FilterState    `json:"filters,omitempty"`
}

// FilterState holds the console's saved filter/search state so the list
// views reopen where the operator left them.
type FilterState struct {
	SearchQuery string `json:"search_query,omitempty"`
	Environment string `json:"environment,omitempty"`
	Action      string `json:"action,omitempty"`
	SortField   string `json:"sort_field,omitempty"`
	SortAsc     bool   `json:"sort_asc,omitempty"`
}

// File reads and writes the state document rooted at baseDir.
type File struct {
	baseDir string
}

// New returns a File rooted at baseDir.
func New(baseDir string) *File {
	return &File{baseDir: baseDir}
}

// Load reads the state from disk. A missing file yields a zero state.
func (f *File) Load() (*State, error) {
	data, err := os.ReadFile(filepath.Join(f.baseDir, stateFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Save writes the state to disk using atomic write (temp file + rename)
func (f *File) Save(st *State) error {
	path := filepath.Join(f.baseDir, stateFile)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "state-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}

// Update applies fn to the current state and saves the result, holding the
// flock for the whole read-modify-write.
func (f *File) Update(fn func(*State) error) error {
	return f.withLock(func() error {
		st, err := f.Load()
		if err != nil {
			// A corrupt document is replaced rather than wedging every
			// write; the tour side separately fails open on load.
			st = &State{}
		}
		if err := fn(st); err != nil {
			return err
		}
		return f.Save(st)
	})
}

// withLock serializes access to the state file using flock
func (f *File) withLock(fn func() error) error {
	lockPath := filepath.Join(f.baseDir, lockFile)

	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return err
	}

	lf, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer lf.Close()

	if err := syscall.Flock(int(lf.Fd()), syscall.LOCK_EX); err != nil {
		return err
	}
	defer syscall.Flock(int(lf.Fd()), syscall.LOCK_UN)

	return fn()
}

// --- tour.Store ---

// LoadTour implements tour.Store.
func (f *File) LoadTour() (tour.State, error) {
	st, err := f.Load()
	if err != nil {
		return tour.State{}, err
	}
	return st.Tour, nil
}

// SaveTour implements tour.Store.
func (f *File) SaveTour(ts tour.State) error {
	return f.Update(func(st *State) error {
		st.Tour = ts
		return nil
	})
}

// --- session ---

// SetSession stores the login session.
func (f *File) SetSession(s models.Session) error {
	return f.Update(func(st *State) error {
		st.Session = s
		return nil
	})
}

// ClearSession removes the login session.
func (f *File) ClearSession() error {
	return f.SetSession(models.Session{})
}

// GetSession returns the stored session, if any.
func (f *File) GetSession() (models.Session, error) {
	st, err := f.Load()
	if err != nil {
		return models.Session{}, err
	}
	return st.Session, nil
}

// --- invite ---

// SetInvite records a verified invite token and flips the beta gate.
// Only valid tokens reach this; an invalid verification never persists.
func (f *File) SetInvite(token string) error {
	return f.Update(func(st *State) error {
		st.InviteToken = token
		st.BetaApproved = true
		return nil
	})
}

// BetaApproved reports whether a valid invite was previously verified.
func (f *File) BetaApproved() (bool, error) {
	st, err := f.Load()
	if err != nil {
		return false, err
	}
	return st.BetaApproved, nil
}

// --- one-time key reveal tracking ---

// MarkKeySeen records that the one-time reveal for a key id was shown.
func (f *File) MarkKeySeen(keyID string) error {
	return f.Update(func(st *State) error {
		for _, id := range st.SeenKeyIDs {
			if id == keyID {
				return nil
			}
		}
		st.SeenKeyIDs = append(st.SeenKeyIDs, keyID)
		return nil
	})
}

// KeySeen reports whether the one-time reveal for a key id was shown.
func (f *File) KeySeen(keyID string) (bool, error) {
	st, err := f.Load()
	if err != nil {
		return false, err
	}
	for _, id := range st.SeenKeyIDs {
		if id == keyID {
			return true, nil
		}
	}
	return false, nil
}

// --- console filters ---

// GetFilterState returns the saved filter state.
func (f *File) GetFilterState() (FilterState, error) {
	st, err := f.Load()
	if err != nil {
		return FilterState{}, err
	}
	return st.Filters, nil
}

// SetFilterState saves the filter state.
func (f *File) SetFilterState(fs FilterState) error {
	return f.Update(func(st *State) error {
		st.Filters = fs
		return nil
	})
}
