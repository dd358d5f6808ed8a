// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package baggage // import "go.opentelemetry.io/telemetrycore/baggage"

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
)

type baggageKey struct{}

// ContextWithBaggage returns a copy of parent carrying b.
func ContextWithBaggage(parent context.Context, b Baggage) context.Context {
	return context.WithValue(parent, baggageKey{}, b)
}

// FromContext returns the baggage carried by ctx, or empty Baggage.
func FromContext(ctx context.Context) Baggage {
	if ctx == nil {
		return Baggage{}
	}
	b, _ := ctx.Value(baggageKey{}).(Baggage)
	return b
}

// Scope is a guard returned by Attach. While attached, Context returns the
// derived context; after Detach it returns the parent again. A Scope must
// not be shared between goroutines that expect different current contexts;
// hand the derived context to spawned goroutines explicitly instead.
type Scope struct {
	mu       sync.Mutex
	parent   context.Context
	current  context.Context
	detached bool
}

// Attach derives a context whose baggage is the parent's merged with
// members, and returns a guard for it. Attaching never fails: a zero
// Member, or a new key beyond the member limit, is skipped and reported
// to the otel error handler while the other members are kept.
func Attach(parent context.Context, members ...Member) *Scope {
	var b Baggage
	skipped := 0
	for _, m := range members {
		if m.key == "" {
			skipped++
			continue
		}
		b.members = upsert(b.members, m)
	}
	if skipped > 0 {
		otel.Handle(componenterror.Validationf("skipped %d baggage members with an empty key", skipped))
	}

	if parent == nil {
		parent = context.Background()
	}
	merged := FromContext(parent).Merge(b)
	if over := overflow(FromContext(parent), b); over > 0 {
		otel.Handle(componenterror.Validationf("dropped %d baggage members over the limit of %d", over, maxMembers))
	}
	return newScope(parent, merged)
}

// AttachBaggage is Attach for an already built Baggage.
func AttachBaggage(parent context.Context, b Baggage) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	return newScope(parent, FromContext(parent).Merge(b))
}

func newScope(parent context.Context, b Baggage) *Scope {
	return &Scope{
		parent:  parent,
		current: ContextWithBaggage(parent, b),
	}
}

// Context returns the current context of the scope.
func (s *Scope) Context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return s.parent
	}
	return s.current
}

// Detach restores the parent context and returns it. Calling Detach more
// than once is a no-op.
func (s *Scope) Detach() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
	return s.parent
}
