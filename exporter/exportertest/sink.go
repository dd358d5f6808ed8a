// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package exportertest provides exporters for tests.
package exportertest // import "go.opentelemetry.io/telemetrycore/exporter/exportertest"

import (
	"context"
	"sync"

	"go.opentelemetry.io/telemetrycore/exporter"
)

// Sink is an exporter.Exporter that acts like a sink that stores all
// batches and allows querying them for testing.
type Sink[T any] struct {
	mu         sync.Mutex
	batches    [][]T
	itemCount  int
	shutdowns  int
	exportHook func([]T)
}

var _ exporter.Exporter[int] = (*Sink[int])(nil)

// Export stores batch to this sink.
func (s *Sink[T]) Export(_ context.Context, batch []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batches = append(s.batches, batch)
	s.itemCount += len(batch)
	if s.exportHook != nil {
		s.exportHook(batch)
	}
	return nil
}

// Shutdown counts the calls.
func (s *Sink[T]) Shutdown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdowns++
	return nil
}

// OnExport registers fn to be called, under the sink lock, for every batch.
func (s *Sink[T]) OnExport(fn func([]T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exportHook = fn
}

// AllBatches returns the batches stored by this sink since last Reset.
func (s *Sink[T]) AllBatches() [][]T {
	s.mu.Lock()
	defer s.mu.Unlock()

	copyBatches := make([][]T, len(s.batches))
	copy(copyBatches, s.batches)
	return copyBatches
}

// AllItems returns every stored item in export order.
func (s *Sink[T]) AllItems() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]T, 0, s.itemCount)
	for _, b := range s.batches {
		items = append(items, b...)
	}
	return items
}

// ItemCount returns the number of items sent to this sink.
func (s *Sink[T]) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCount
}

// ShutdownCount returns how many times Shutdown was called.
func (s *Sink[T]) ShutdownCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdowns
}

// Reset deletes any stored data.
func (s *Sink[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batches = nil
	s.itemCount = 0
}
