// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package baggage implements the key-value data propagated alongside a
// context.Context across call boundaries. Baggage is immutable: every
// modification returns a new value derived by copy.
package baggage // import "go.opentelemetry.io/telemetrycore/baggage"

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
)

const (
	maxMembers     = 180
	maxKeyBytes    = 256
	maxValueBytes  = 4096
	listDelimiter  = ","
	keyValueDelim  = "="
	invalidKeyRune = ",;=\"\\"
)

// Member is a single baggage entry.
type Member struct {
	key   string
	value string
}

// NewMember validates key and value and returns a Member.
func NewMember(key, value string) (Member, error) {
	if err := validateKey(key); err != nil {
		return Member{}, err
	}
	if err := validateValue(key, value); err != nil {
		return Member{}, err
	}
	return Member{key: key, value: value}, nil
}

// Key returns the member key.
func (m Member) Key() string { return m.key }

// Value returns the member value.
func (m Member) Value() string { return m.value }

// String encodes m as key=value with the value percent-escaped.
func (m Member) String() string {
	return m.key + keyValueDelim + url.PathEscape(m.value)
}

// Baggage is an immutable, ordered set of members with unique keys.
// The zero value is empty and ready to use.
type Baggage struct {
	members []Member
}

// New returns Baggage containing members. Duplicate keys resolve to the
// last occurrence, keeping the position of the first.
func New(members ...Member) (Baggage, error) {
	var b Baggage
	for _, m := range members {
		if m.key == "" {
			return Baggage{}, componenterror.Validationf("baggage member has an empty key")
		}
		b.members = upsert(b.members, m)
	}
	if len(b.members) > maxMembers {
		return Baggage{}, componenterror.Validationf("baggage has %d members, limit is %d", len(b.members), maxMembers)
	}
	return b, nil
}

// Member returns the member stored under key and whether it exists.
func (b Baggage) Member(key string) (Member, bool) {
	for _, m := range b.members {
		if m.key == key {
			return m, true
		}
	}
	return Member{}, false
}

// Members returns a copy of the members in insertion order.
func (b Baggage) Members() []Member {
	if len(b.members) == 0 {
		return nil
	}
	out := make([]Member, len(b.members))
	copy(out, b.members)
	return out
}

// Len returns the number of members.
func (b Baggage) Len() int { return len(b.members) }

// Merge returns a new Baggage holding the members of b overridden by the
// members of other. Keys of other that would take the result past the
// member limit are dropped, so the result always parses back.
func (b Baggage) Merge(other Baggage) Baggage {
	if other.Len() == 0 {
		return b
	}
	merged := make([]Member, len(b.members), len(b.members)+len(other.members))
	copy(merged, b.members)
	for _, m := range other.members {
		if i := indexOf(merged, m.key); i >= 0 {
			merged[i] = m
			continue
		}
		if len(merged) < maxMembers {
			merged = append(merged, m)
		}
	}
	return Baggage{members: merged}
}

// overflow counts the members Merge drops when merging other into b.
func overflow(b, other Baggage) int {
	n := b.Len()
	for _, m := range other.members {
		if _, ok := b.Member(m.key); !ok {
			n++
		}
	}
	if n <= maxMembers {
		return 0
	}
	return n - maxMembers
}

// String renders b in the W3C baggage header format.
func (b Baggage) String() string {
	parts := make([]string, 0, len(b.members))
	for _, m := range b.members {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, listDelimiter)
}

// Parse decodes a W3C baggage header. Member properties (";k=v") are
// accepted and discarded.
func Parse(header string) (Baggage, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Baggage{}, nil
	}
	var members []Member
	for _, raw := range strings.Split(header, listDelimiter) {
		raw = strings.TrimSpace(raw)
		if idx := strings.Index(raw, ";"); idx >= 0 {
			raw = raw[:idx]
		}
		k, v, ok := strings.Cut(raw, keyValueDelim)
		if !ok {
			return Baggage{}, componenterror.Validationf("baggage member %q has no value", raw)
		}
		value, err := url.PathUnescape(strings.TrimSpace(v))
		if err != nil {
			return Baggage{}, componenterror.Validationf("baggage member %q: %v", raw, err)
		}
		m, err := NewMember(strings.TrimSpace(k), value)
		if err != nil {
			return Baggage{}, err
		}
		members = append(members, m)
	}
	return New(members...)
}

func upsert(members []Member, m Member) []Member {
	if i := indexOf(members, m.key); i >= 0 {
		members[i] = m
		return members
	}
	return append(members, m)
}

func indexOf(members []Member, key string) int {
	for i := range members {
		if members[i].key == key {
			return i
		}
	}
	return -1
}

func validateKey(key string) error {
	if key == "" {
		return componenterror.Validationf("baggage key is empty")
	}
	if len(key) > maxKeyBytes {
		return componenterror.Validationf("baggage key %q exceeds %d bytes", key, maxKeyBytes)
	}
	for _, r := range key {
		if r <= ' ' || r >= 0x7f || strings.ContainsRune(invalidKeyRune, r) {
			return componenterror.Validationf("baggage key %q contains invalid character %q", key, r)
		}
	}
	return nil
}

func validateValue(key, value string) error {
	if len(value) > maxValueBytes {
		return componenterror.Validationf("baggage value for %q exceeds %d bytes", key, maxValueBytes)
	}
	if !utf8.ValidString(value) {
		return componenterror.Validationf("baggage value for %q is not valid UTF-8", key)
	}
	return nil
}
