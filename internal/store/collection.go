// Package store provides a small in-memory record store keyed by generated ids.
package store

import (
	"sync"

	"github.com/google/uuid"
)

// Record pairs a stored entity with its identifier.
type Record[T any] struct {
	ID     string `json:"id"`
	Entity T      `json:"entity"`
}

// Collection keeps records in insertion order. It is safe for concurrent use.
type Collection[T any] struct {
	mu      sync.RWMutex
	records []Record[T]
}

// NewCollection returns a collection seeded with the given entities.
func NewCollection[T any](seed ...T) *Collection[T] {
	c := &Collection[T]{}
	for _, e := range seed {
		c.Save(e)
	}
	return c
}

// Save stores the entity under a fresh id and returns the new record.
func (c *Collection[T]) Save(entity T) Record[T] {
	rec := Record[T]{ID: uuid.NewString(), Entity: entity}
	c.mu.Lock()
	c.records = append(c.records, rec)
	c.mu.Unlock()
	return rec
}

// Remove deletes the record with the given id and reports whether it existed.
func (c *Collection[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, rec := range c.records {
		if rec.ID == id {
			c.records = append(c.records[:i:i], c.records[i+1:]...)
			return true
		}
	}
	return false
}

// Fetch returns the records whose entity satisfies match, or nil when none do.
// A nil match selects every record.
func (c *Collection[T]) Fetch(match func(T) bool) []Record[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Record[T]
	for _, rec := range c.records {
		if match == nil || match(rec.Entity) {
			out = append(out, rec)
		}
	}
	return out
}

// All returns a copy of every record.
func (c *Collection[T]) All() []Record[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Record[T], len(c.records))
	copy(out, c.records)
	return out
}

// Entities returns the stored entities in insertion order.
func (c *Collection[T]) Entities() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.records))
	for i, rec := range c.records {
		out[i] = rec.Entity
	}
	return out
}
