// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package sharedcomponent lets the traces and metrics exporters of one
// backend share a single underlying resource (a file, a producer).
package sharedcomponent // import "go.opentelemetry.io/telemetrycore/internal/sharedcomponent"

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// Component is anything that must be shut down once.
type Component interface {
	Shutdown(ctx context.Context) error
}

// Map keeps reference of all created instances for a given shared key such as a component configuration.
type Map[K comparable, V Component] struct {
	mu    sync.Mutex
	comps map[K]*SharedComponent[V]
}

// NewMap returns an empty Map.
func NewMap[K comparable, V Component]() *Map[K, V] {
	return &Map[K, V]{comps: map[K]*SharedComponent[V]{}}
}

// LoadOrStore returns the already created instance if exists, otherwise creates a new instance
// and adds it to the map of references. Every call counts as one active usage.
func (m *Map[K, V]) LoadOrStore(key K, create func() (V, error)) (*SharedComponent[V], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.comps[key]; ok {
		c.activeCount.Inc()
		return c, nil
	}
	comp, err := create()
	if err != nil {
		return nil, err
	}
	newComp := &SharedComponent[V]{
		component: comp,
		removeFunc: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.comps, key)
		},
	}
	newComp.activeCount.Inc()
	m.comps[key] = newComp
	return newComp, nil
}

// Len returns the number of live shared components.
func (m *Map[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.comps)
}

// SharedComponent ensures that the wrapped component is stopped only once.
// When stopped it is removed from the Map.
type SharedComponent[V Component] struct {
	component V

	activeCount atomic.Int32 // number of LoadOrStore calls not yet matched by Shutdown
	stopOnce    sync.Once
	removeFunc  func()
}

// Unwrap returns the original component.
func (r *SharedComponent[V]) Unwrap() V {
	return r.component
}

// Shutdown shuts down the underlying component once every usage obtained
// from LoadOrStore has been shut down.
func (r *SharedComponent[V]) Shutdown(ctx context.Context) error {
	if r.activeCount.Dec() > 0 {
		return nil
	}
	var err error
	r.stopOnce.Do(func() {
		err = r.component.Shutdown(ctx)
		r.removeFunc()
	})
	return err
}
