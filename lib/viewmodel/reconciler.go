package viewmodel

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"sitedash/lib/clients"

	"github.com/sirupsen/logrus"
)

// GenericFailureNotice is shown when a failed write carries no usable server message
const GenericFailureNotice = "Failed to save. Please try again."

var (
	// ErrSubmissionInFlight is returned while a previous submit of the same form is pending
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	// ErrInvalidTransition is returned for status changes the client may not perform
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrNotFound is returned when a record is not in the loaded collection
	ErrNotFound = errors.New("record not found")
)

// Identifiable is any record carrying a server id
type Identifiable interface {
	GetID() int64
}

// ValidationError is a client-side form rejection in the same shape as the
// API's field validation map
type ValidationError struct {
	FieldErrors map[string][]string
}

// NewValidationError starts an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{FieldErrors: map[string][]string{}}
}

// Add records a message against field
func (v *ValidationError) Add(field, message string) {
	v.FieldErrors[field] = append(v.FieldErrors[field], message)
}

// OrNil returns nil when nothing was recorded
func (v *ValidationError) OrNil() error {
	if len(v.FieldErrors) == 0 {
		return nil
	}
	return v
}

// FieldMessages flattens errors as "<field>: <message>" sorted by field
func (v *ValidationError) FieldMessages() []string {
	return (&clients.APIError{FieldErrors: v.FieldErrors}).FieldMessages()
}

func (v *ValidationError) Error() string {
	return "validation failed: " + strings.Join(v.FieldMessages(), "; ")
}

// FieldMessages returns the per-field lines of a validation failure, or nil
func FieldMessages(err error) []string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		return apiErr.FieldMessages()
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.FieldMessages()
	}
	return nil
}

// FormatError renders a failed write for the user. Field errors win over a
// detail message, which wins over a plain string body; anything else gets
// the generic notice.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	if messages := FieldMessages(err); len(messages) > 0 {
		return strings.Join(messages, "\n")
	}
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return GenericFailureNotice
}

// Prepend puts a created record at the front, newest first
func Prepend[T any](items []T, created T) []T {
	merged := make([]T, 0, len(items)+1)
	merged = append(merged, created)
	return append(merged, items...)
}

// ReplaceByID swaps the record with the same id in place, keeping order.
// It reports false and returns items untouched when no record matches.
func ReplaceByID[T Identifiable](items []T, updated T) ([]T, bool) {
	for i, item := range items {
		if item.GetID() == updated.GetID() {
			merged := append([]T(nil), items...)
			merged[i] = updated
			return merged, true
		}
	}
	return items, false
}

// FindByID returns the record with id
func FindByID[T Identifiable](items []T, id int64) (T, bool) {
	for _, item := range items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Collection is a screen's in-memory copy of one REST collection
type Collection[T Identifiable] struct {
	mu    sync.RWMutex
	items []T
}

// Items returns a copy of the current records
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return items
}

// Set replaces the records wholesale, as a reload does
func (c *Collection[T]) Set(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
}

// Update applies fn to the records atomically
func (c *Collection[T]) Update(fn func([]T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = fn(c.items)
}

// Find looks a record up by id
func (c *Collection[T]) Find(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FindByID(c.items, id)
}

// Len returns the number of records
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Reconciler runs one form's writes: it refuses overlapping submits, calls
// the API and merges the server's record into the collection on success.
// Writes are not idempotent; a retried submit may create a duplicate.
type Reconciler[T Identifiable] struct {
	name   string
	busy   atomic.Bool
	logger *logrus.Logger
}

// NewReconciler creates a reconciler for the named form
func NewReconciler[T Identifiable](name string, logger *logrus.Logger) *Reconciler[T] {
	return &Reconciler[T]{name: name, logger: logger}
}

// Busy reports whether a submit is in flight
func (r *Reconciler[T]) Busy() bool {
	return r.busy.Load()
}

// Create submits a new record and prepends the server's copy
func (r *Reconciler[T]) Create(ctx context.Context, collection *Collection[T], submit func(context.Context) (T, error)) (T, error) {
	return r.run(ctx, "Create", submit, func(created T) {
		collection.Update(func(items []T) []T {
			return Prepend(items, created)
		})
	})
}

// Update submits a change and replaces the matching record in place
func (r *Reconciler[T]) Update(ctx context.Context, collection *Collection[T], submit func(context.Context) (T, error)) (T, error) {
	return r.run(ctx, "Update", submit, func(updated T) {
		collection.Update(func(items []T) []T {
			merged, found := ReplaceByID(items, updated)
			if !found {
				r.logger.WithFields(logrus.Fields{
					"operation": "Update",
					"form":      r.name,
					"id":        updated.GetID(),
				}).Debug("Updated record no longer in collection")
			}
			return merged
		})
	})
}

func (r *Reconciler[T]) run(ctx context.Context, operation string, submit func(context.Context) (T, error), merge func(T)) (T, error) {
	var zero T
	if !r.busy.CompareAndSwap(false, true) {
		return zero, ErrSubmissionInFlight
	}
	defer r.busy.Store(false)

	record, err := submit(ctx)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"operation": operation,
			"form":      r.name,
		}).WithError(err).Warn("Submission failed, collection left unchanged")
		return zero, err
	}

	merge(record)
	r.logger.WithFields(logrus.Fields{
		"operation": operation,
		"form":      r.name,
		"id":        record.GetID(),
	}).Debug("Submission reconciled")
	return record, nil
}
