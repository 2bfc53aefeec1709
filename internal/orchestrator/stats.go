package orchestrator

import (
	"maps"
	"sync"

	"github.com/spigell/hh-interviewer/internal/interview"
)

// Stats are process-wide counters of finished interviews.
type Stats struct {
	Completed        int
	ByReason         map[interview.CompletionReason]int
	ByRecommendation map[string]int
	ByKind           map[interview.ReportKind]int
}

type stats struct {
	mu sync.Mutex
	s  Stats
}

func (st *stats) record(r *interview.Report) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.s.ByReason == nil {
		st.s.ByReason = make(map[interview.CompletionReason]int)
		st.s.ByRecommendation = make(map[string]int)
		st.s.ByKind = make(map[interview.ReportKind]int)
	}
	st.s.Completed++
	st.s.ByReason[r.CompletionReason]++
	st.s.ByRecommendation[r.Recommendation]++
	st.s.ByKind[r.Kind]++
}

// Stats returns a snapshot of the counters.
func (o *Orchestrator) Stats() Stats {
	o.stats.mu.Lock()
	defer o.stats.mu.Unlock()

	out := o.stats.s
	out.ByReason = maps.Clone(o.stats.s.ByReason)
	out.ByRecommendation = maps.Clone(o.stats.s.ByRecommendation)
	out.ByKind = maps.Clone(o.stats.s.ByKind)
	return out
}
