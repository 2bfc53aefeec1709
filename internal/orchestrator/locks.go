package orchestrator

import (
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/hh-interviewer/internal/interview"
)

// task is deferred work on a session. It reports whether the state changed.
type task func(s *interview.SessionState) bool

// entry serializes all work on one session id.
type entry struct {
	mu      sync.Mutex
	refs    int
	pending []task
}

func (o *Orchestrator) lock(id string) *entry {
	o.mu.Lock()
	e, ok := o.entries[id]
	if !ok {
		e = &entry{}
		o.entries[id] = e
	}
	e.refs++
	o.mu.Unlock()

	e.mu.Lock()
	return e
}

// tryLock acquires the session lock only if nobody holds it.
func (o *Orchestrator) tryLock(id string) (*entry, bool) {
	o.mu.Lock()
	e, ok := o.entries[id]
	if !ok {
		e = &entry{}
		o.entries[id] = e
	}
	e.refs++
	o.mu.Unlock()

	if e.mu.TryLock() {
		return e, true
	}

	o.mu.Lock()
	e.refs--
	o.mu.Unlock()
	return nil, false
}

func (o *Orchestrator) unlock(id string, e *entry) {
	idle := len(e.pending) == 0
	e.mu.Unlock()

	o.mu.Lock()
	defer o.mu.Unlock()
	e.refs--
	if e.refs == 0 && idle {
		delete(o.entries, id)
	}
}

// schedule queues t behind the session lock. The caller must hold it.
func (o *Orchestrator) schedule(id string, e *entry, t task) {
	e.pending = append(e.pending, t)
	go func() {
		e := o.lock(id)
		defer o.unlock(id, e)
		o.drain(id, e)
	}()
}

// drain runs the queued tasks. The caller must hold the session lock.
func (o *Orchestrator) drain(id string, e *entry) {
	if len(e.pending) == 0 {
		return
	}
	tasks := e.pending
	e.pending = nil

	s := o.store.Get(id)
	if s == nil {
		return
	}

	changed := false
	for _, t := range tasks {
		if t(s) {
			changed = true
		}
	}
	if !changed {
		return
	}
	if err := o.store.Update(id, s); err != nil {
		o.logger.Warn("deferred session update failed", zap.String("session_id", id), zap.Error(err))
	}
}

// pendingTasks reports the number of queued tasks for tests and diagnostics.
func (o *Orchestrator) pendingTasks(id string) int {
	o.mu.Lock()
	e, ok := o.entries[id]
	o.mu.Unlock()
	if !ok {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}
