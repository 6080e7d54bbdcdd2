package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/berfenger/aseko2mqtt/internal/core/domain"
	"github.com/berfenger/aseko2mqtt/pkg/asekoapi"

	"go.uber.org/zap"
)

// DecodeError means a payload is structurally unusable: not a unit payload
// at all, or missing the device identity. Missing or unknown optional fields
// never produce a DecodeError.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "cannot decode unit payload: " + e.Reason
}

// Decoder turns raw API payloads into normalized snapshots. Device models
// expose different subsets of statusValues; anything absent is decoded as
// absent, never as a zero reading.
type Decoder struct {
	logger *zap.Logger
}

func NewDecoder(logger *zap.Logger) *Decoder {
	return &Decoder{
		logger: logger.With(zap.String("component", "decoder")),
	}
}

func (d *Decoder) Decode(raw *asekoapi.RawUnit, at time.Time) (*domain.Snapshot, error) {
	if raw == nil {
		return nil, &DecodeError{Reason: "empty payload"}
	}
	if raw.SerialNumber == "" {
		return nil, &DecodeError{Reason: "missing serial number"}
	}

	snap := &domain.Snapshot{
		SerialNumber: raw.SerialNumber,
		Name:         raw.Name,
		Brand:        raw.BrandLabel(),
		Online:       raw.Online,
		Measurements: make(map[string]domain.Measurement),
		States:       make(map[string]string),
		Conditions:   make(map[string]bool),
		FetchedAt:    at,
	}

	for _, f := range domain.MeasurementFields {
		value, ok := floatValue(raw.StatusValues, f.StatusKey)
		if !ok {
			continue
		}
		m := domain.Measurement{
			Name:     f.Name,
			Value:    value,
			Unit:     f.Unit,
			Decimals: f.Decimals,
		}
		if f.RequiredKey != "" {
			if required, ok := floatValue(raw.StatusValues, f.RequiredKey); ok {
				m.Required = &required
			}
		}
		snap.Measurements[f.Name] = m
	}

	for _, f := range domain.StateFields {
		rawState, ok := stringValue(raw.StatusValues, f.StatusKey)
		if !ok {
			continue
		}
		state := f.Parse(rawState)
		if state == domain.StateUnknown {
			d.logger.Debug("unknown state code",
				zap.String("serial", raw.SerialNumber),
				zap.String("field", f.Name),
				zap.String("code", rawState))
		}
		snap.States[f.Name] = state
	}

	snap.Conditions[domain.ConditionOnline] = raw.Online
	for _, f := range domain.ConditionFields {
		value, ok := boolValue(raw.StatusValues, f.StatusKey)
		if !ok {
			// absent flag decodes as false, lower confidence than an
			// explicit false from the device
			d.logger.Debug("condition flag absent, defaulting to false",
				zap.String("serial", raw.SerialNumber),
				zap.String("field", f.Name))
			value = false
		}
		snap.Conditions[f.Name] = value
	}

	for _, msg := range raw.StatusMessages {
		if msg.Severity != "ERROR" && msg.Severity != "WARNING" {
			continue
		}
		warning := ResolveWarning(msg.Type, msg.Message, msg.Detail)
		if hasWarningType(snap.Warnings, warning.Type) {
			// first occurrence wins
			continue
		}
		snap.Warnings = append(snap.Warnings, warning)
	}
	snap.Conditions[domain.ConditionWarningActive] = snap.HasWarning()

	return snap, nil
}

func hasWarningType(warnings []domain.Warning, warningType string) bool {
	for _, w := range warnings {
		if w.Type == warningType {
			return true
		}
	}
	return false
}

// floatValue coerces a statusValues entry to a float. The cloud reports
// numbers both as JSON numbers and as strings, and uses "---" for a reading
// the device cannot currently provide.
func floatValue(values map[string]any, key string) (float64, bool) {
	raw, ok := values[key]
	if !ok || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || trimmed == "---" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func stringValue(values map[string]any, key string) (string, bool) {
	raw, ok := values[key]
	if !ok || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "---" {
		return "", false
	}
	return trimmed, true
}

func boolValue(values map[string]any, key string) (bool, bool) {
	raw, ok := values[key]
	if !ok || raw == nil {
		return false, false
	}
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || trimmed == "---" {
			return false, false
		}
		switch strings.ToUpper(trimmed) {
		case "YES", "ON", "TRUE", "1":
			return true, true
		default:
			return false, true
		}
	case float64:
		return v != 0, true
	default:
		return false, false
	}
}
