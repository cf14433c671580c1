package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDs generates compile IDs "compile-0001", "compile-0002", ...
//
// Used in place of random UUIDs so log output and golden files are
// reproducible. Safe for concurrent use.
type SequenceIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequenceIDs creates a generator whose first ID ends in 0001.
// An empty prefix means "compile".
func NewSequenceIDs(prefix string) *SequenceIDs {
	if prefix == "" {
		prefix = "compile"
	}
	return &SequenceIDs{prefix: prefix}
}

// Next returns the next ID.
func (s *SequenceIDs) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("%s-%04d", s.prefix, s.seq)
}

// Count returns how many IDs have been issued.
func (s *SequenceIDs) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset restarts the sequence; the next ID ends in 0001 again.
func (s *SequenceIDs) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
}

// FixedID returns a generator that always yields id ("compile-fixed" when
// empty).
func FixedID(id string) func() string {
	if id == "" {
		id = "compile-fixed"
	}
	return func() string { return id }
}
