package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps challenges in process memory. Expiry is enforced on
// read, so no janitor goroutine is needed for the small key space involved.
type MemoryStore struct {
	mu         sync.Mutex
	challenges map[string]Challenge
}

// NewMemoryStore creates an empty in-memory challenge store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		challenges: make(map[string]Challenge),
	}
}

// Put stores a challenge for the phone number, replacing any pending one
func (s *MemoryStore) Put(_ context.Context, phone string, ch Challenge, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch.ExpiresAt = time.Now().Add(ttl)
	s.challenges[phone] = ch
	return nil
}

// Get returns the pending challenge for the phone number
func (s *MemoryStore) Get(_ context.Context, phone string) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.challenges[phone]
	if !ok {
		return Challenge{}, ErrNotFound
	}
	if time.Now().After(ch.ExpiresAt) {
		delete(s.challenges, phone)
		return Challenge{}, ErrExpired
	}
	return ch, nil
}

// Delete removes the pending challenge for the phone number
func (s *MemoryStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, phone)
	return nil
}
