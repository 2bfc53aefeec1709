package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spigell/hh-interviewer/internal/interview"
)

// Store keeps active session state and completed reports in two disjoint spaces.
// An id is in neither space before first contact and in at most one afterwards.
type Store interface {
	// Create fails with ErrSessionExists or ErrSessionCompleted when the id is taken.
	Create(id string, state *interview.SessionState) error
	// Get returns nil when the session is absent.
	Get(id string) *interview.SessionState
	// Update fails with ErrSessionNotFound when the session is absent.
	Update(id string, state *interview.SessionState) error
	Delete(id string)
	Has(id string) bool

	// SaveReport moves the id into the report space, dropping its active state.
	SaveReport(id string, report *interview.Report) error
	GetReport(id string) *interview.Report
	HasReport(id string) bool

	// IdleSince lists active sessions with no activity after cutoff.
	IdleSince(cutoff time.Time) []string
	// DeleteIfIdle removes the session only if it is still idle at call time.
	DeleteIfIdle(id string, cutoff time.Time) bool
}

// MemoryStore is an in-process Store. Stored values are cloned on every
// read and write, so no caller holds a reference to the stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*interview.SessionState
	reports  map[string]*interview.Report
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*interview.SessionState),
		reports:  make(map[string]*interview.Report),
	}
}

func (s *MemoryStore) Create(id string, state *interview.SessionState) error {
	if state == nil {
		return fmt.Errorf("create session %q: state is required", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[id]; ok {
		return fmt.Errorf("create session %q: %w", id, interview.ErrSessionCompleted)
	}
	if _, ok := s.sessions[id]; ok {
		return fmt.Errorf("create session %q: %w", id, interview.ErrSessionExists)
	}

	s.sessions[id] = state.Clone()
	return nil
}

func (s *MemoryStore) Get(id string) *interview.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessions[id].Clone()
}

func (s *MemoryStore) Update(id string, state *interview.SessionState) error {
	if state == nil {
		return fmt.Errorf("update session %q: state is required", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("update session %q: %w", id, interview.ErrSessionNotFound)
	}

	s.sessions[id] = state.Clone()
	return nil
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

func (s *MemoryStore) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sessions[id]
	return ok
}

func (s *MemoryStore) SaveReport(id string, report *interview.Report) error {
	if report == nil {
		return fmt.Errorf("save report %q: report is required", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[id]; ok {
		return fmt.Errorf("save report %q: %w", id, interview.ErrSessionCompleted)
	}

	delete(s.sessions, id)
	s.reports[id] = report.Clone()
	return nil
}

func (s *MemoryStore) GetReport(id string) *interview.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reports[id].Clone()
}

func (s *MemoryStore) HasReport(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.reports[id]
	return ok
}

func (s *MemoryStore) IdleSince(cutoff time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, state := range s.sessions {
		if state.LastActivity.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *MemoryStore) DeleteIfIdle(id string, cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok || !state.LastActivity.Before(cutoff) {
		return false
	}
	delete(s.sessions, id)
	return true
}
