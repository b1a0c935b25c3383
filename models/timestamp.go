// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts lists the textual formats accepted for item timestamps,
// most specific first. Date-only values are interpreted as midnight UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is an ISO-8601 point in time attached to a SyncableItem.
//
// It is decoded leniently (RFC3339, local date-time, date-only strings or
// epoch milliseconds as a JSON number) and always encoded as an RFC3339Nano
// string in UTC.
type Timestamp struct {
	time.Time
}

// NewTimestamp returns a pointer to a UTC Timestamp for t.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t.UTC()}
}

// ParseTimestamp parses raw using the accepted layouts.
// Returns an error wrapping [ErrInvalidTimestamp] if no layout matches.
func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Timestamp{Time: t.UTC()}, nil
		}
	}

	return Timestamp{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
}

// MustParseTimestamp is like [ParseTimestamp] but panics on error.
// Intended for constants and tests.
func MustParseTimestamp(raw string) *Timestamp {
	ts, err := ParseTimestamp(raw)
	if err != nil {
		panic(err)
	}
	return &ts
}

// String returns the RFC3339Nano UTC representation.
func (t Timestamp) String() string {
	return t.UTC().Format(time.RFC3339Nano)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTimestamp, err)
	}

	switch value := v.(type) {
	case string:
		parsed, err := ParseTimestamp(value)
		if err != nil {
			return err
		}
		*t = parsed
	case float64:
		*t = Timestamp{Time: time.UnixMilli(int64(value)).UTC()}
	default:
		return fmt.Errorf("%w: unsupported value %s", ErrInvalidTimestamp, string(b))
	}

	return nil
}
