package trainer

// TrialResult is the outcome of one finished trial.
type TrialResult struct {
	Trial int // 1-based trial index
	Score int // Pipes passed before the crash
	Ticks int // Ticks survived, including the crash tick
}

// ResultLog is the ordered, append-only history of finished trials.
type ResultLog struct {
	entries []TrialResult
}

// NewResultLog creates an empty log.
func NewResultLog() *ResultLog {
	return &ResultLog{}
}

// Append records a finished trial.
func (l *ResultLog) Append(r TrialResult) {
	l.entries = append(l.entries, r)
}

// Len returns the number of recorded trials.
func (l *ResultLog) Len() int {
	return len(l.entries)
}

// Results returns a copy of the log in trial order.
func (l *ResultLog) Results() []TrialResult {
	out := make([]TrialResult, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns the most recent trial, if any.
func (l *ResultLog) Last() (TrialResult, bool) {
	if len(l.entries) == 0 {
		return TrialResult{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Best returns the highest-scoring trial; the earliest wins ties.
func (l *ResultLog) Best() (TrialResult, bool) {
	if len(l.entries) == 0 {
		return TrialResult{}, false
	}
	best := l.entries[0]
	for _, r := range l.entries[1:] {
		if r.Score > best.Score {
			best = r
		}
	}
	return best, true
}

// Mean returns the average score over the last n trials (all trials when n <= 0).
func (l *ResultLog) Mean(n int) float64 {
	entries := l.entries
	if n > 0 && n < len(entries) {
		entries = entries[len(entries)-n:]
	}
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, r := range entries {
		sum += r.Score
	}
	return float64(sum) / float64(len(entries))
}
