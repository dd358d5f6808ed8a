// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package prometheusexporter // import "go.opentelemetry.io/telemetrycore/exporter/prometheusexporter"

import (
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/metric"
)

type metricValue struct {
	desc *prometheus.Desc

	labelValues []string
	metricType  prometheus.ValueType
	timestamp   time.Time
	updated     time.Time
	isSummary   bool

	value float64

	summaryCount     uint64
	summarySum       float64
	summaryQuantiles map[float64]float64
}

// collector turns the per-cycle records into cumulative Prometheus series.
// Counters add up the cycle sums, observers keep the last value and value
// recorders become summaries whose 0 and 1 quantiles are the min and max of
// the latest cycle.
type collector struct {
	config            *Config
	mu                sync.Mutex
	registeredMetrics map[string]*metricValue
	logger            *zap.Logger
	now               func() time.Time
}

func newCollector(config *Config, logger *zap.Logger) *collector {
	return &collector{
		config:            config,
		registeredMetrics: make(map[string]*metricValue),
		logger:            logger,
		now:               time.Now,
	}
}

// Collector dynamically allocates metrics, describe should be noop
func (c *collector) Describe(_ chan<- *prometheus.Desc) {}

/*
	Processing
*/
func (c *collector) processRecords(records []metric.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range records {
		c.accumulateRecord(&records[i])
	}
}

func (c *collector) accumulateRecord(r *metric.Record) {
	keys, labelValues := collectLabels(r)
	name := metricName(c.config.Namespace, r.Descriptor.Name)
	signature := metricSignature(name, keys, labelValues)

	v, ok := c.registeredMetrics[signature]
	if !ok {
		v = &metricValue{
			desc:        prometheus.NewDesc(name, r.Descriptor.Description, keys, c.config.ConstLabels),
			labelValues: labelValues,
		}
		c.registeredMetrics[signature] = v
	}
	if v.timestamp.After(r.EndTime) {
		return
	}

	agg := r.Aggregation
	switch agg.Kind {
	case metric.SumAggregation:
		v.metricType = prometheus.CounterValue
		v.value += agg.Sum
	case metric.LastValueAggregation:
		v.metricType = prometheus.GaugeValue
		v.value = agg.LastValue
	case metric.MinMaxSumCountAggregation:
		v.isSummary = true
		v.summaryCount += agg.Count
		v.summarySum += agg.Sum
		v.summaryQuantiles = map[float64]float64{0: agg.Min, 1: agg.Max}
	}
	v.timestamp = r.EndTime
	v.updated = c.now()

	c.logger.Debug("metric accumulated", zap.String("signature", signature))
}

/*
	Reporting
*/
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	c.logger.Debug("collect called")

	c.mu.Lock()
	metrics := make([]prometheus.Metric, 0, len(c.registeredMetrics))
	now := c.now()

	for k, v := range c.registeredMetrics {
		if now.Sub(v.updated) > c.config.MetricExpiration {
			c.logger.Debug("metric expired", zap.String("signature", k))
			delete(c.registeredMetrics, k)
			continue
		}

		var m prometheus.Metric
		var err error
		if v.isSummary {
			m, err = prometheus.NewConstSummary(v.desc, v.summaryCount, v.summarySum, v.summaryQuantiles, v.labelValues...)
		} else {
			m, err = prometheus.NewConstMetric(v.desc, v.metricType, v.value, v.labelValues...)
		}
		if err != nil {
			c.logger.Debug("failed to build metric", zap.String("signature", k), zap.Error(err))
			continue
		}
		if c.config.SendTimestamps {
			m = prometheus.NewMetricWithTimestamp(v.timestamp, m)
		}
		metrics = append(metrics, m)
	}

	c.mu.Unlock()

	for _, m := range metrics {
		ch <- m
	}
}

/*
	Helpers
*/

// collectLabels returns the sanitized attribute keys, already sorted by
// attribute.Set, and their values in the same order.
func collectLabels(r *metric.Record) ([]string, []string) {
	if r.Attributes.Len() == 0 {
		return nil, nil
	}
	keys := make([]string, 0, r.Attributes.Len())
	values := make([]string, 0, r.Attributes.Len())
	iter := r.Attributes.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		keys = append(keys, sanitize(string(kv.Key)))
		values = append(values, kv.Value.Emit())
	}
	return keys, values
}

func metricSignature(name string, keys, values []string) string {
	var b strings.Builder
	b.WriteString(name)
	for i, k := range keys {
		b.WriteString("-" + k + "=" + values[i])
	}
	return b.String()
}

func metricName(namespace, name string) string {
	if namespace != "" {
		return sanitize(namespace) + "_" + sanitize(name)
	}
	return sanitize(name)
}

// sanitize replaces every character Prometheus does not accept in metric
// and label names with an underscore.
func sanitize(s string) string {
	if s == "" {
		return s
	}
	s = strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == ':') {
			return r
		}
		return '_'
	}, s)
	if unicode.IsDigit(rune(s[0])) {
		s = "key_" + s
	}
	return s
}
