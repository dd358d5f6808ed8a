// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package resource describes the entity producing telemetry. A Resource is
// attached to every exported span and metric record.
package resource // import "go.opentelemetry.io/telemetrycore/resource"

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	// AttributeServiceName is the logical name of the service.
	AttributeServiceName = "service.name"
	// AttributeServiceInstanceID identifies one process of the service.
	AttributeServiceInstanceID = "service.instance.id"
	// AttributeServiceVersion is the version of the service.
	AttributeServiceVersion = "service.version"
)

// Resource is an immutable set of attributes. The zero value and nil are
// both valid, empty resources.
type Resource struct {
	attrs attribute.Set
}

var empty = &Resource{}

// Empty returns a resource without attributes.
func Empty() *Resource {
	return empty
}

// New returns a resource holding attrs. For duplicate keys the last value wins.
func New(attrs ...attribute.KeyValue) *Resource {
	if len(attrs) == 0 {
		return empty
	}
	return &Resource{attrs: attribute.NewSet(attrs...)}
}

// Merge returns a new resource with the attributes of r overridden by those of other.
func Merge(r, other *Resource) *Resource {
	if r.Len() == 0 {
		return orEmpty(other)
	}
	if other.Len() == 0 {
		return r
	}
	combined := append(r.Attributes(), other.Attributes()...)
	return New(combined...)
}

// Attributes returns the attributes sorted by key.
func (r *Resource) Attributes() []attribute.KeyValue {
	if r == nil {
		return nil
	}
	return r.attrs.ToSlice()
}

// Set returns the underlying attribute set.
func (r *Resource) Set() *attribute.Set {
	if r == nil {
		return attribute.EmptySet()
	}
	return &r.attrs
}

// Len returns the number of attributes.
func (r *Resource) Len() int {
	if r == nil {
		return 0
	}
	return r.attrs.Len()
}

// ServiceName returns the value of service.name or "" if unset.
func (r *Resource) ServiceName() string {
	if r == nil {
		return ""
	}
	v, ok := r.attrs.Value(attribute.Key(AttributeServiceName))
	if !ok {
		return ""
	}
	return v.Emit()
}

// Equal reports whether both resources hold the same attributes.
func (r *Resource) Equal(other *Resource) bool {
	return r.Set().Equals(other.Set())
}

func orEmpty(r *Resource) *Resource {
	if r == nil {
		return empty
	}
	return r
}
