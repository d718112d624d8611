// Package screens holds one controller per client screen. A controller owns
// the collections it fetched, turns them into a view model on demand and
// merges the results of its own writes back into those collections.
//
// Controllers are bound to a lifetime: Close cancels every request still in
// flight, and a reload that finishes after a newer one started is dropped.
package screens

import (
	"context"
	"errors"
	"sync"
	"time"

	"sitedash/lib/models"
	"sitedash/lib/viewmodel"

	"github.com/sirupsen/logrus"
)

// ErrNotLoaded is returned by View before the first batch was applied
var ErrNotLoaded = errors.New("screen has not loaded yet")

type screen struct {
	name    string
	fetcher *viewmodel.Fetcher
	logger  *logrus.Logger
	now     func() time.Time

	seq    viewmodel.Sequencer
	life   context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	meta models.ViewMeta
}

func (s *screen) init(name string, fetcher *viewmodel.Fetcher, logger *logrus.Logger) {
	s.name = name
	s.fetcher = fetcher
	s.logger = logger
	s.now = time.Now
	s.life, s.cancel = context.WithCancel(context.Background())
}

// Close cancels in-flight loads and writes. The screen is unusable afterwards.
func (s *screen) Close() {
	s.cancel()
}

// bind derives a context that ends with either the caller or the screen
func (s *screen) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// load fetches one batch and hands it to apply, unless a newer load was
// started meanwhile or the screen was closed
func (s *screen) load(ctx context.Context, resources []viewmodel.Resource, apply func(*viewmodel.Batch)) error {
	seq := s.seq.Next()
	ctx, done := s.bind(ctx)
	defer done()

	batch := s.fetcher.Fetch(ctx, seq, resources...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.life.Err(); err != nil {
		return err
	}
	if !s.seq.IsLatest(seq) {
		s.logger.WithFields(logrus.Fields{
			"operation": "Load",
			"screen":    s.name,
			"batch_seq": seq,
			"latest":    s.seq.Latest(),
		}).Info("Discarding stale batch")
		return viewmodel.ErrStaleBatch
	}

	apply(batch)
	s.meta = models.ViewMeta{
		BatchSeq: seq,
		LoadedAt: s.now().UTC(),
		Notice:   batch.Notice(),
	}

	s.logger.WithFields(logrus.Fields{
		"operation": "Load",
		"screen":    s.name,
		"batch_seq": seq,
		"failed":    batch.Failed(),
	}).Debug("Applied batch")
	return nil
}

// viewMeta returns the metadata of the applied batch
func (s *screen) viewMeta() (models.ViewMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.meta.BatchSeq == 0 {
		return models.ViewMeta{}, ErrNotLoaded
	}
	return s.meta, nil
}

// write runs a mutation bound to the screen lifetime
func (s *screen) write(ctx context.Context, fn func(context.Context) error) error {
	ctx, done := s.bind(ctx)
	defer done()
	return fn(ctx)
}
