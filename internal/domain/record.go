package domain

import (
	"strings"
	"time"
)

// Instant is a UTC timestamp serialized with millisecond precision.
type Instant struct {
	time.Time
}

// NewInstant normalizes t to UTC milliseconds.
func NewInstant(t time.Time) Instant {
	return Instant{Time: t.UTC().Truncate(time.Millisecond)}
}

// String renders the instant in TimestampFormat.
func (i Instant) String() string {
	return i.UTC().Format(TimestampFormat)
}

// Equal reports whether both instants denote the same moment.
func (i Instant) Equal(other Instant) bool {
	return i.Time.Equal(other.Time)
}

// MarshalJSON implements json.Marshaler.
func (i Instant) MarshalJSON() ([]byte, error) {
	return []byte(`"` + i.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Instant) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		i.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return err
	}
	*i = NewInstant(t)
	return nil
}

// AttemptRecord summarizes one generation action in the session log.
type AttemptRecord struct {
	Prompt    string  `json:"prompt"`
	Code      string  `json:"code"`
	Output    string  `json:"output"`
	Timestamp Instant `json:"timestamp"`
	Retries   int     `json:"retries"`
}

// ArchivedRecord is an AttemptRecord kept in the cross-session history.
type ArchivedRecord struct {
	SessionID string  `json:"session_id"`
	Outcome   Outcome `json:"outcome"`
	AttemptRecord
}

// Succeeded reports whether the archived action produced a result.
func (r ArchivedRecord) Succeeded() bool {
	return r.Outcome == OutcomeSucceeded
}
