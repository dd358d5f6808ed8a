// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package testutil // import "go.opentelemetry.io/telemetrycore/internal/testutil"

import (
	"bytes"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GetAvailableLocalAddress finds an available local port and returns an endpoint
// describing it. The port is available for opening when this function returns
// provided that there is no race by some other code to grab the same port
// immediately.
func GetAvailableLocalAddress(tb testing.TB) string {
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(tb, err, "Failed to get a free local port")
	// There is a possible race if something else takes this same port before
	// the test uses it, however, that is unlikely in practice.
	defer func() {
		assert.NoError(tb, ln.Close())
	}()
	return ln.Addr().String()
}

// LimitedWriter is an io.Writer that will return an EOF error after MaxLen has
// been reached.  If MaxLen is 0, Writes will always succeed.
type LimitedWriter struct {
	bytes.Buffer
	MaxLen int
}

var _ io.WriteCloser = new(LimitedWriter)

func (lw *LimitedWriter) Write(p []byte) (n int, err error) {
	if lw.MaxLen != 0 && len(p)+lw.Len() > lw.MaxLen {
		return 0, io.EOF
	}
	return lw.Buffer.Write(p)
}

func (lw *LimitedWriter) Close() error {
	return nil
}
