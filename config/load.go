// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package config // import "go.opentelemetry.io/telemetrycore/config"

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/magiconair/properties"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"

	"go.opentelemetry.io/telemetrycore/exporter/fileexporter"
	"go.opentelemetry.io/telemetrycore/exporter/kafkaexporter"
	"go.opentelemetry.io/telemetrycore/exporter/loggingexporter"
	"go.opentelemetry.io/telemetrycore/exporter/prometheusexporter"
	"go.opentelemetry.io/telemetrycore/exporter/zipkinexporter"
)

// EnvPrefix is the prefix of the environment variables read by Load.
// A double underscore separates nested keys:
// TELEMETRY_EXPORTERS__ZIPKIN__ENDPOINT sets exporters.zipkin.endpoint.
const EnvPrefix = "TELEMETRY_"

const (
	delim = "."
	// flagAnnotation marks the flags registered by Flags. Other flags of
	// the same set, such as --config, are not configuration keys.
	flagAnnotation = "telemetrycore.config"
	setFlagName    = "set"
)

// Flags registers the command line overrides understood by Load. Flag
// names are configuration keys with dashes for underscores.
func Flags(fs *pflag.FlagSet) {
	fs.String("service-name", "", "service.name resource attribute")
	fs.Duration("flush-interval", 0, "time after which a batch is exported regardless of size")
	fs.Int("max-batch-size", 0, "number of buffered items that triggers an export")
	fs.Duration("shutdown-timeout", 0, "upper bound of the final export on shutdown")
	fs.Duration("export-timeout", 0, "timeout of a single export call")
	fs.Duration("collect-interval", 0, "period of metric collection")
	fs.Bool("strict", false, "return errors when recording after shutdown")
	fs.String("log.level", "", "minimum enabled log level")
	fs.String("exporters.logging.verbosity", "", "enables the logging exporter with the given verbosity")
	fs.String("exporters.file.path", "", "enables the file exporter writing to the given path")
	fs.String("exporters.zipkin.endpoint", "", "enables the zipkin exporter posting to the given URL")
	fs.String("exporters.prometheus.endpoint", "", "enables the prometheus exporter listening on the given address")
	fs.StringArray(setFlagName, nil, "sets any configuration key, for example --set=exporters.kafka.topic=spans (repeatable)")

	for _, name := range []string{
		"service-name", "flush-interval", "max-batch-size", "shutdown-timeout",
		"export-timeout", "collect-interval", "strict", "log.level",
		"exporters.logging.verbosity", "exporters.file.path",
		"exporters.zipkin.endpoint", "exporters.prometheus.endpoint", setFlagName,
	} {
		// Only fails for unknown flags.
		_ = fs.SetAnnotation(name, flagAnnotation, []string{"true"})
	}
}

// Load builds a Config from, in increasing priority, the defaults, the YAML
// file at path (skipped when empty), EnvPrefix environment variables, the
// flags of fs that were set and finally the --set properties. The result
// is validated.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(delim)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load configuration file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, delim, envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if fs != nil {
		if err := k.Load(posflag.ProviderWithFlag(fs, delim, k, flagKey), nil); err != nil {
			return nil, fmt.Errorf("failed to load command line arguments: %w", err)
		}
		if err := loadSetFlag(k, fs); err != nil {
			return nil, fmt.Errorf("failed to load --%s properties: %w", setFlagName, err)
		}
	}

	cfg := NewDefaultConfig()
	enableExporters(k, &cfg.Exporters)
	if err := unmarshal(k, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", delim)
}

// flagKey skips flags left at their default so that they do not hide
// values coming from the file or the environment.
func flagKey(f *pflag.Flag) (string, interface{}) {
	if _, ok := f.Annotations[flagAnnotation]; !ok || !f.Changed || f.Name == setFlagName {
		return "", nil
	}
	return strings.ReplaceAll(f.Name, "-", "_"), f.Value.String()
}

// loadSetFlag reads the --set values as a Java properties file with "." as
// key delimiter, e.g. ["exporters.zipkin.timeout=2s"].
func loadSetFlag(k *koanf.Koanf, fs *pflag.FlagSet) error {
	f := fs.Lookup(setFlagName)
	if f == nil || !f.Changed {
		return nil
	}
	if _, ok := f.Annotations[flagAnnotation]; !ok {
		return nil
	}
	values, err := fs.GetStringArray(setFlagName)
	if err != nil {
		return err
	}

	b := &bytes.Buffer{}
	for _, property := range values {
		b.WriteString(strings.TrimSpace(property))
		b.WriteString("\n")
	}
	props, err := properties.Load(b.Bytes(), properties.UTF8)
	if err != nil {
		return err
	}

	parsed := make(map[string]interface{}, props.Len())
	for _, key := range props.Keys() {
		value, _ := props.Get(key)
		parsed[key] = value
	}
	return k.Load(confmap.Provider(parsed, delim), nil)
}

// enableExporters allocates the default config of every exporter present in
// k so that keys left out by the user keep their defaults.
func enableExporters(k *koanf.Koanf, e *Exporters) {
	if k.Exists("exporters.logging") {
		e.Logging = loggingexporter.NewDefaultConfig()
	}
	if k.Exists("exporters.file") {
		e.File = &fileexporter.Config{}
	}
	if k.Exists("exporters.zipkin") {
		e.Zipkin = zipkinexporter.NewDefaultConfig()
	}
	if k.Exists("exporters.prometheus") {
		e.Prometheus = prometheusexporter.NewDefaultConfig()
	}
	if k.Exists("exporters.kafka") {
		e.Kafka = kafkaexporter.NewDefaultConfig()
	}
}

func unmarshal(k *koanf.Koanf, cfg *Config) error {
	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "mapstructure",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			// If ErrorUnused is true, then it is an error for there to exist
			// keys in the original map that were unused in the decoding process
			// (extra keys).
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			TagName:          "mapstructure",
			Result:           cfg,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return nil
}
