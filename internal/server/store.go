package server

import (
	"sync"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// Store caches completed analyses in memory for the API to serve back.
// It is a per-process cache, not persistence: restarting the server starts
// empty. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	results map[string]model.AnalysisResult
	order   []string
}

// NewStore returns an empty result store.
func NewStore() *Store {
	return &Store{results: make(map[string]model.AnalysisResult)}
}

// Put saves a result under its analysis id, replacing any previous entry.
func (s *Store) Put(result model.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[result.AnalysisID]; !exists {
		s.order = append(s.order, result.AnalysisID)
	}
	s.results[result.AnalysisID] = result
}

// Get looks up a result by analysis id.
func (s *Store) Get(id string) (model.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[id]
	return r, ok
}

// All returns every stored result in insertion order.
func (s *Store) All() []model.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.AnalysisResult, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.results[id])
	}
	return out
}

// Len reports how many results are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Clear drops every stored result and reports how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.results)
	s.results = make(map[string]model.AnalysisResult)
	s.order = nil
	return n
}
