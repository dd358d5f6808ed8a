// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Program otelbasic builds the telemetry pipelines from its configuration
// and drives them through one traced operation with metrics.
package main

import (
	"github.com/spf13/cobra"

	"go.opentelemetry.io/telemetrycore/cmd/otelbasic/internal"
)

func main() {
	cmd, err := internal.Command()
	cobra.CheckErr(err)
	cobra.CheckErr(cmd.Execute())
}
