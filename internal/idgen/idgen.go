// Package idgen provides identifiers: short URL-safe string ids backed by
// nanoid, and a monotonic integer sequence for record ids and freshness tokens.
package idgen

import (
	"fmt"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for generated string ids.
const (
	ProductPrefix    = "prd-"
	GenerationPrefix = "gen-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// Sequence hands out strictly increasing int64 values. Values track the wall
// clock in milliseconds while it moves forward, and fall back to last+1 when
// two calls land in the same millisecond or the clock steps backwards.
type Sequence struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewSequence returns a Sequence driven by time.Now.
func NewSequence() *Sequence {
	return &Sequence{now: time.Now}
}

// NewSequenceWithClock returns a Sequence driven by now. Intended for tests.
func NewSequenceWithClock(now func() time.Time) *Sequence {
	return &Sequence{now: now}
}

// Next returns a value greater than every value previously returned or observed.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.now().UnixMilli()
	if v <= s.last {
		v = s.last + 1
	}
	s.last = v
	return v
}

// Observe records an externally assigned value (e.g. an id loaded from
// storage) so later values are never lower or equal to it.
func (s *Sequence) Observe(v int64) {
	s.mu.Lock()
	if v > s.last {
		s.last = v
	}
	s.mu.Unlock()
}
