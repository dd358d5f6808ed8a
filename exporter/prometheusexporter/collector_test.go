// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package prometheusexporter

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/internal/testdata"
	"go.opentelemetry.io/telemetrycore/metric"
)

func newTestCollector(namespace string) *collector {
	cfg := NewDefaultConfig()
	cfg.Namespace = namespace
	cfg.ConstLabels = prometheus.Labels{"job": "test"}
	return newCollector(cfg, zap.NewNop())
}

func TestCollectorAccumulatesCounters(t *testing.T) {
	c := newTestCollector("")
	records := testdata.GenerateRecords()

	c.processRecords(records)
	// The next cycle adds 2 to the counter and replaces the gauge.
	next := testdata.GenerateRecords()
	for i := range next {
		next[i].EndTime = next[i].EndTime.Add(time.Second)
	}
	next[0].Aggregation.Sum = 2
	next[2].Aggregation.LastValue = 7
	c.processRecords(next)

	expected := `
# HELP counter_int a counter
# TYPE counter_int counter
counter_int{job="test",label_1="label-value-1"} 5
# HELP observer_double A ValueObserver set to 1.0
# TYPE observer_double gauge
observer_double{job="test",label_1="label-value-1"} 7
`
	require.NoError(t, promtestutil.CollectAndCompare(c, strings.NewReader(expected), "counter_int", "observer_double"))
}

func TestCollectorSummary(t *testing.T) {
	c := newTestCollector("demo")
	records := testdata.GenerateRecords()[1:2]
	records[0].Descriptor.Description = "a recorder"
	c.processRecords(records)

	expected := `
# HELP demo_recorder_double a recorder
# TYPE demo_recorder_double summary
demo_recorder_double{job="test",label_1="label-value-1",label_2="label-value-2",quantile="0"} 1
demo_recorder_double{job="test",label_1="label-value-1",label_2="label-value-2",quantile="1"} 2
demo_recorder_double_sum{job="test",label_1="label-value-1",label_2="label-value-2"} 3
demo_recorder_double_count{job="test",label_1="label-value-1",label_2="label-value-2"} 2
`
	require.NoError(t, promtestutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestCollectorIgnoresOutOfOrderRecords(t *testing.T) {
	c := newTestCollector("")
	latest := testdata.GenerateRecords()[2:]
	latest[0].Aggregation.LastValue = 10
	c.processRecords(latest)

	stale := testdata.GenerateRecords()[2:]
	stale[0].EndTime = stale[0].EndTime.Add(-time.Hour)
	c.processRecords(stale)

	assert.Equal(t, float64(10), promtestutil.ToFloat64(c))
}

func TestCollectorExpiration(t *testing.T) {
	c := newTestCollector("")
	now := time.Now()
	c.now = func() time.Time { return now }
	c.processRecords(testdata.GenerateRecords())
	assert.Equal(t, 3, promtestutil.CollectAndCount(c))

	c.now = func() time.Time { return now.Add(c.config.MetricExpiration + time.Second) }
	assert.Equal(t, 0, promtestutil.CollectAndCount(c))
	assert.Empty(t, c.registeredMetrics)
}

func TestCollectorSendTimestamps(t *testing.T) {
	c := newTestCollector("")
	c.config.SendTimestamps = true
	records := testdata.GenerateRecords()[:1]
	c.processRecords(records)

	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	var pb dto.Metric
	require.NoError(t, (<-ch).Write(&pb))
	require.NotNil(t, pb.TimestampMs)
	assert.Equal(t, records[0].EndTime.UnixMilli(), pb.GetTimestampMs())
	assert.Equal(t, float64(3), pb.GetCounter().GetValue())
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"ex.com.one":     "ex_com_one",
		"ex.com/another": "ex_com_another",
		"valid_name:x":   "valid_name:x",
		"1st":            "key_1st",
		"héllo":          "h_llo",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitize(in), in)
	}
}

func TestCollectLabels(t *testing.T) {
	r := metric.Record{Attributes: attribute.NewSet(attribute.Int("b.key", 2), attribute.String("a", "x"))}
	keys, values := collectLabels(&r)
	assert.Equal(t, []string{"a", "b_key"}, keys)
	assert.Equal(t, []string{"x", "2"}, values)

	keys, values = collectLabels(&metric.Record{})
	assert.Nil(t, keys)
	assert.Nil(t, values)
}
