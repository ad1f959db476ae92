package batch

import (
	"time"

	"github.com/google/uuid"
)

// Failure records one file that could not be processed.
type Failure struct {
	File string
	Kind string
	Err  error
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID    uuid.UUID
	Matched  int
	Written  int
	Skipped  int
	Failures []Failure
	Elapsed  time.Duration
}

// Failed returns the number of files that failed.
func (s *Summary) Failed() int {
	return len(s.Failures)
}

// OK reports whether every matched file was written or deliberately skipped.
func (s *Summary) OK() bool {
	return len(s.Failures) == 0
}
