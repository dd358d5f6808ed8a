// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/telemetrycore/trace"

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// IDGenerator allocates trace and span identifiers. Implementations must be
// safe for concurrent use and never return invalid (all-zero) IDs.
type IDGenerator interface {
	NewIDs() (oteltrace.TraceID, oteltrace.SpanID)
	NewSpanID(traceID oteltrace.TraceID) oteltrace.SpanID
}

type randomIDGenerator struct {
	mu   sync.Mutex
	rand *rand.Rand
}

var _ IDGenerator = (*randomIDGenerator)(nil)

func newRandomIDGenerator() *randomIDGenerator {
	var seed int64
	_ = binary.Read(crand.Reader, binary.LittleEndian, &seed)
	return &randomIDGenerator{rand: rand.New(rand.NewSource(seed))}
}

func (g *randomIDGenerator) NewIDs() (oteltrace.TraceID, oteltrace.SpanID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	tid := oteltrace.TraceID{}
	for !tid.IsValid() {
		_, _ = g.rand.Read(tid[:])
	}
	return tid, g.spanIDLocked()
}

func (g *randomIDGenerator) NewSpanID(oteltrace.TraceID) oteltrace.SpanID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.spanIDLocked()
}

func (g *randomIDGenerator) spanIDLocked() oteltrace.SpanID {
	sid := oteltrace.SpanID{}
	for !sid.IsValid() {
		_, _ = g.rand.Read(sid[:])
	}
	return sid
}
