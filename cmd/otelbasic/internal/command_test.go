// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package internal

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"go.opentelemetry.io/telemetrycore/internal/version"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func execute(t *testing.T, args ...string) (string, error) {
	cmd, err := Command()
	require.NoError(t, err)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "otelbasic version "+version.Version+"\n")
	assert.Contains(t, out, "Architecture")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "--config", filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "configuration is valid, exporters: file\n", out)

	out, err = execute(t, "validate")
	require.NoError(t, err)
	assert.Equal(t, "configuration is valid, exporters: none\n", out)

	_, err = execute(t, "validate", "--max-batch-size=-1")
	assert.ErrorContains(t, err, "max_batch_size must be positive")
}

func TestRejectsArguments(t *testing.T) {
	_, err := execute(t, "unexpected")
	assert.Error(t, err)
}

type span struct {
	Name         string `json:"name"`
	TraceID      string `json:"trace_id"`
	SpanID       string `json:"span_id"`
	ParentSpanID string `json:"parent_span_id"`
	Events       []struct {
		Name string `json:"name"`
	} `json:"events"`
	Resource []struct {
		Key   string      `json:"key"`
		Value interface{} `json:"value"`
	} `json:"resource"`
}

type record struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Aggregation struct {
		Kind      string  `json:"kind"`
		Sum       float64 `json:"sum"`
		LastValue float64 `json:"last_value"`
		Min       float64 `json:"min"`
		Max       float64 `json:"max"`
		Count     uint64  `json:"count,string"`
	} `json:"aggregation"`
}

func TestRunDemo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.json")
	_, err := execute(t, "--config", filepath.Join("testdata", "config.yaml"), "--exporters.file.path", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var spans []span
	var records []record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line struct {
			Spans   []span   `json:"spans"`
			Records []record `json:"records"`
		}
		require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(scanner.Bytes(), &line))
		spans = append(spans, line.Spans...)
		records = append(records, line.Records...)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, spans, 2)
	sub, op := spans[0], spans[1]
	assert.Equal(t, "Sub operation...", sub.Name)
	assert.Equal(t, "operation", op.Name)
	assert.Equal(t, op.SpanID, sub.ParentSpanID)
	assert.Equal(t, op.TraceID, sub.TraceID)
	assert.Empty(t, op.ParentSpanID)
	require.Len(t, op.Events, 1)
	assert.Equal(t, "Nice operation!", op.Events[0].Name)
	require.Len(t, sub.Events, 1)
	assert.Equal(t, "Sub span event", sub.Events[0].Name)

	resource := map[string]interface{}{}
	for _, kv := range op.Resource {
		resource[kv.Key] = kv.Value
	}
	assert.Equal(t, "trace-demo", resource["service.name"])
	assert.Equal(t, "file", resource["exporter"])
	assert.Equal(t, 312.23, resource["float"])

	byName := map[string]record{}
	for _, r := range records {
		byName[r.Name] = r
	}
	require.Contains(t, byName, "ex.com.one")
	assert.Equal(t, "A ValueObserver set to 1.0", byName["ex.com.one"].Description)
	assert.Equal(t, 1.0, byName["ex.com.one"].Aggregation.LastValue)

	require.Contains(t, byName, "ex.com.two")
	two := byName["ex.com.two"].Aggregation
	assert.EqualValues(t, 2, two.Count)
	assert.InDelta(t, 3.3, two.Sum, 1e-9)
	assert.Equal(t, 1.3, two.Min)
	assert.Equal(t, 2.0, two.Max)
}
