package rag

import "sync"

// Store is an append-only, ordered document list.
type Store interface {
	Append(text string) int
	All() []string
	Len() int
}

// MemoryStore keeps documents for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds text and returns the new document count.
func (s *MemoryStore) Append(text string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, text)
	return len(s.docs)
}

// All returns a copy in insertion order.
func (s *MemoryStore) All() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.docs))
	copy(out, s.docs)
	return out
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

var _ Store = (*MemoryStore)(nil)
