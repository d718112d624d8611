package viewmodel

import (
	"errors"
	"sync/atomic"
)

// ErrStaleBatch is returned when a newer batch was issued while this one was in flight
var ErrStaleBatch = errors.New("stale batch discarded")

// Sequencer hands out increasing batch tokens. A batch may only be applied
// while its token is still the latest one issued, so a slow reload can never
// overwrite the state of a newer one.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a new token
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// Latest returns the most recently issued token
func (s *Sequencer) Latest() uint64 {
	return s.latest.Load()
}

// IsLatest reports whether seq is still the newest token
func (s *Sequencer) IsLatest(seq uint64) bool {
	return seq == s.latest.Load()
}
