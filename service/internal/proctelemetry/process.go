// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package proctelemetry reports the resource usage of the running process
// through ValueObservers.
package proctelemetry // import "go.opentelemetry.io/telemetrycore/service/internal/proctelemetry"

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
	"go.uber.org/multierr"

	"go.opentelemetry.io/telemetrycore/metric"
)

// MeterName is the instrumentation name of the process observers.
const MeterName = "go.opentelemetry.io/telemetrycore/process"

type processMetrics struct {
	startTime time.Time
	proc      *process.Process
}

// Register adds the process.* observers to meter.
func Register(meter *metric.Meter) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	pm := &processMetrics{startTime: time.Now(), proc: proc}

	var errs error
	for _, obs := range []struct {
		name, desc, unit string
		cb               metric.ObserverCallback
	}{
		{"process.uptime", "Uptime of the process", "s", pm.observeUptime},
		{"process.runtime.heap_alloc_bytes", "Bytes of allocated heap objects (see 'go doc runtime.MemStats.HeapAlloc')", "By", pm.observeHeapAlloc},
		{"process.runtime.total_alloc_bytes", "Cumulative bytes allocated for heap objects (see 'go doc runtime.MemStats.TotalAlloc')", "By", pm.observeTotalAlloc},
		{"process.runtime.total_sys_memory_bytes", "Total bytes of memory obtained from the OS (see 'go doc runtime.MemStats.Sys')", "By", pm.observeSysMemory},
		{"process.cpu_seconds", "Total CPU user and system time in seconds", "s", pm.observeCPUSeconds},
		{"process.memory.rss", "Total physical memory (resident set size)", "By", pm.observeRSS},
	} {
		_, err := meter.ValueObserver(obs.name, obs.cb, metric.WithDescription(obs.desc), metric.WithUnit(obs.unit))
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (pm *processMetrics) observeUptime(_ context.Context, result metric.ObserverResult) {
	result.Observe(time.Since(pm.startTime).Seconds())
}

func (pm *processMetrics) observeHeapAlloc(_ context.Context, result metric.ObserverResult) {
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	result.Observe(float64(ms.HeapAlloc))
}

func (pm *processMetrics) observeTotalAlloc(_ context.Context, result metric.ObserverResult) {
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	result.Observe(float64(ms.TotalAlloc))
}

func (pm *processMetrics) observeSysMemory(_ context.Context, result metric.ObserverResult) {
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	result.Observe(float64(ms.Sys))
}

// Failed reads are skipped; the observer reports nothing for that cycle.
func (pm *processMetrics) observeCPUSeconds(ctx context.Context, result metric.ObserverResult) {
	if times, err := pm.proc.TimesWithContext(ctx); err == nil {
		result.Observe(times.User + times.System)
	}
}

func (pm *processMetrics) observeRSS(ctx context.Context, result metric.ObserverResult) {
	if mem, err := pm.proc.MemoryInfoWithContext(ctx); err == nil {
		result.Observe(float64(mem.RSS))
	}
}
