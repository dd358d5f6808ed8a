// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package lifecycle // import "go.opentelemetry.io/telemetrycore/internal/lifecycle"

import "go.uber.org/atomic"

// State is a stage of the export cycle.
type State int32

const (
	Idle State = iota
	Draining
	Exporting
	ShuttingDown
	Drained
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Draining:
		return "Draining"
	case Exporting:
		return "Exporting"
	case ShuttingDown:
		return "ShuttingDown"
	case Drained:
		return "Drained"
	}
	return "Unknown"
}

// Machine holds the current State and is safe for concurrent use.
// Idle -> Draining -> Exporting -> Idle is driven by the owner of the
// export loop; ShuttingDown -> Drained is terminal.
type Machine struct {
	current *atomic.Int32
}

func NewMachine() *Machine {
	return &Machine{current: atomic.NewInt32(int32(Idle))}
}

// Load returns the current state.
func (m *Machine) Load() State {
	return State(m.current.Load())
}

// Transition atomically moves from -> to and reports whether it happened.
func (m *Machine) Transition(from, to State) bool {
	return m.current.CompareAndSwap(int32(from), int32(to))
}

// BeginShutdown moves any non-terminal state to ShuttingDown. It returns
// false if shutdown already began.
func (m *Machine) BeginShutdown() bool {
	for {
		cur := m.current.Load()
		if State(cur) == ShuttingDown || State(cur) == Drained {
			return false
		}
		if m.current.CompareAndSwap(cur, int32(ShuttingDown)) {
			return true
		}
	}
}

// Finish marks the machine Drained.
func (m *Machine) Finish() {
	m.current.Store(int32(Drained))
}
