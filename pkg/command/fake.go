package command

import (
	"context"
	"sync"
)

// Static is an Executor that returns canned results keyed by command line.
// Unknown command lines yield Fallback. It records every call and is safe
// for concurrent use.
type Static struct {
	mu       sync.Mutex
	Results  map[string]Result
	Fallback Result
	calls    []string
}

// NewStatic creates a Static executor from a map of canned results.
func NewStatic(results map[string]Result) *Static {
	return &Static{Results: results}
}

// Execute implements Executor
func (s *Static) Execute(_ context.Context, commandLine string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, commandLine)
	if r, ok := s.Results[commandLine]; ok {
		return r
	}
	return s.Fallback
}

// Calls returns the command lines executed so far.
func (s *Static) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
