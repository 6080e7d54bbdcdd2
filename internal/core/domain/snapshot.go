package domain

import "time"

// Measurement is one numeric reading with its unit and, when the device
// reports one, the required/target companion value.
type Measurement struct {
	Name     string
	Value    float64
	Unit     string
	Required *float64
	Decimals uint
}

// Severity of a warning, ordered INFO < WARNING < CRITICAL.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "WARNING"
	}
}

// Warning is one active device condition, keyed by a symbolic type that is
// stable across firmware versions.
type Warning struct {
	Type     string
	Severity Severity
	Message  string
	Detail   string
}

// Snapshot is the complete decoded state of one unit at one poll instant.
// Fields absent from the device payload are absent from the maps; a missing
// measurement is never represented as zero.
type Snapshot struct {
	SerialNumber string
	Name         string
	Brand        string
	Online       bool
	Measurements map[string]Measurement
	States       map[string]string
	Conditions   map[string]bool
	Warnings     []Warning
	FetchedAt    time.Time
}

// HasWarning reports whether any warning is active. The warning_active
// condition in Conditions is derived from this, never read from the payload.
func (s *Snapshot) HasWarning() bool {
	return len(s.Warnings) > 0
}

// WarningTypes returns the distinct active symbolic types in payload order.
func (s *Snapshot) WarningTypes() []string {
	types := make([]string, 0, len(s.Warnings))
	for _, w := range s.Warnings {
		types = append(types, w.Type)
	}
	return types
}

// MarkOffline clones the snapshot flipping only connectivity, keeping the
// last-known measurements visible. Used when a poll fails at transport level.
func (s *Snapshot) MarkOffline(at time.Time) *Snapshot {
	clone := *s
	clone.Online = false
	clone.Conditions = make(map[string]bool, len(s.Conditions))
	for k, v := range s.Conditions {
		clone.Conditions[k] = v
	}
	clone.Conditions[ConditionOnline] = false
	clone.FetchedAt = at
	return &clone
}
