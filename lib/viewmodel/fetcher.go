package viewmodel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Resource describes one REST collection needed by a screen
type Resource struct {
	Name  string
	Path  string
	Query url.Values
}

// Filtered returns a copy of r with one query filter added, e.g. ?project=3
func (r Resource) Filtered(key string, id int64) Resource {
	query := url.Values{}
	for k, v := range r.Query {
		query[k] = append([]string(nil), v...)
	}
	query.Set(key, strconv.FormatInt(id, 10))
	r.Query = query
	return r
}

// CollectionGetter is the slice of the REST client the fetcher needs
type CollectionGetter interface {
	GetCollection(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
}

// Result is the outcome of one resource in a batch
type Result struct {
	Data json.RawMessage
	Err  error
}

// Batch is the settled outcome of one Fetch call
type Batch struct {
	Seq     uint64
	results map[string]Result
	mu      sync.Mutex
}

// NewBatch builds a settled batch from known results
func NewBatch(seq uint64, results map[string]Result) *Batch {
	if results == nil {
		results = map[string]Result{}
	}
	return &Batch{Seq: seq, results: results}
}

// Err returns the recorded failure of a resource, if any
func (b *Batch) Err(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	result, ok := b.results[name]
	if !ok {
		return fmt.Errorf("resource %s was not part of the batch", name)
	}
	return result.Err
}

// Failed lists the names of resources that did not load, sorted
func (b *Batch) Failed() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var failed []string
	for name, result := range b.results {
		if result.Err != nil {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}

// Notice is the single user-facing message for the batch, empty when
// everything loaded
func (b *Batch) Notice() string {
	failed := b.Failed()
	if len(failed) == 0 {
		return ""
	}
	return "Some data could not be loaded: " + strings.ReplaceAll(strings.Join(failed, ", "), "_", " ")
}

func (b *Batch) raw(name string) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	result, ok := b.results[name]
	if !ok {
		return nil, fmt.Errorf("resource %s was not part of the batch", name)
	}
	return result.Data, result.Err
}

func (b *Batch) fail(name string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results[name] = Result{Err: err}
}

// Items decodes a resource as a list. A failed or undecodable resource
// yields an empty, non-nil slice and the failure is kept on the batch.
func Items[T any](b *Batch, name string) []T {
	data, err := b.raw(name)
	if err != nil || len(data) == 0 || string(data) == "null" {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		b.fail(name, fmt.Errorf("failed to decode %s: %w", name, err))
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Item decodes a single-record resource
func Item[T any](b *Batch, name string) (T, bool) {
	var item T
	data, err := b.raw(name)
	if err != nil || len(data) == 0 || string(data) == "null" {
		return item, false
	}
	if err := json.Unmarshal(data, &item); err != nil {
		b.fail(name, fmt.Errorf("failed to decode %s: %w", name, err))
		return item, false
	}
	return item, true
}

// Fetcher loads a screen's resources concurrently with per-resource
// failure isolation
type Fetcher struct {
	client CollectionGetter
	limit  int
	logger *logrus.Logger
}

// NewFetcher creates a fetcher issuing at most limit requests at once
// (limit < 1 means unbounded)
func NewFetcher(client CollectionGetter, limit int, logger *logrus.Logger) *Fetcher {
	return &Fetcher{client: client, limit: limit, logger: logger}
}

// Fetch issues every resource request and returns once all have settled.
// It never fails as a whole; each resource carries its own error.
func (f *Fetcher) Fetch(ctx context.Context, seq uint64, resources ...Resource) *Batch {
	results := make([]Result, len(resources))

	var group errgroup.Group
	if f.limit > 0 {
		group.SetLimit(f.limit)
	}

	for i, resource := range resources {
		i, resource := i, resource
		group.Go(func() error {
			data, err := f.client.GetCollection(ctx, resource.Path, resource.Query)
			if err != nil {
				f.logger.WithFields(logrus.Fields{
					"operation": "Fetch",
					"resource":  resource.Name,
					"path":      resource.Path,
					"batch_seq": seq,
				}).WithError(err).Warn("Resource failed to load")
			}
			results[i] = Result{Data: data, Err: err}
			return nil
		})
	}
	_ = group.Wait()

	batch := NewBatch(seq, make(map[string]Result, len(resources)))
	for i, resource := range resources {
		batch.results[resource.Name] = results[i]
	}

	f.logger.WithFields(logrus.Fields{
		"operation": "Fetch",
		"batch_seq": seq,
		"resources": len(resources),
		"failed":    len(batch.Failed()),
	}).Debug("Batch settled")

	return batch
}
