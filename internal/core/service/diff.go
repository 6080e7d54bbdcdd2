package service

import (
	"math"

	"github.com/berfenger/aseko2mqtt/internal/core/domain"
)

// ChangeDetector compares two snapshots of the same unit and produces the
// minimal ordered set of field-level change events. Output order is fixed:
// binary conditions, discrete states, measurements, warnings, each in schema
// declaration order. It never mutates either snapshot.
type ChangeDetector struct {
	thresholds map[string]float64
}

// NewChangeDetector builds a detector with per-measurement noise thresholds.
// A measurement without an entry changes on any inequality.
func NewChangeDetector(thresholds map[string]float64) *ChangeDetector {
	if thresholds == nil {
		thresholds = map[string]float64{}
	}
	return &ChangeDetector{thresholds: thresholds}
}

// Diff returns the change events between old and new. old == nil is the
// first observation: every populated field of new is emitted as a change
// from none, plus one warning-added event per active warning.
func (d *ChangeDetector) Diff(old, new *domain.Snapshot) []domain.ChangeEvent {
	var events []domain.ChangeEvent
	events = append(events, d.diffConditions(old, new)...)
	events = append(events, d.diffStates(old, new)...)
	events = append(events, d.diffMeasurements(old, new)...)
	events = append(events, d.diffWarnings(old, new)...)
	return events
}

func (d *ChangeDetector) diffConditions(old, new *domain.Snapshot) []domain.ChangeEvent {
	var events []domain.ChangeEvent
	for _, name := range domain.ConditionOrder() {
		newValue, newOk := new.Conditions[name]
		if !newOk {
			continue
		}
		if old == nil {
			events = append(events, domain.ChangeEvent{
				SerialNumber: new.SerialNumber,
				Category:     domain.CategoryBinaryCondition,
				Field:        name,
				New:          newValue,
			})
			continue
		}
		oldValue, oldOk := old.Conditions[name]
		if !oldOk {
			events = append(events, domain.ChangeEvent{
				SerialNumber: new.SerialNumber,
				Category:     domain.CategoryBinaryCondition,
				Field:        name,
				New:          newValue,
			})
		} else if oldValue != newValue {
			events = append(events, domain.ChangeEvent{
				SerialNumber: new.SerialNumber,
				Category:     domain.CategoryBinaryCondition,
				Field:        name,
				Old:          oldValue,
				New:          newValue,
			})
		}
	}
	return events
}

func (d *ChangeDetector) diffStates(old, new *domain.Snapshot) []domain.ChangeEvent {
	var events []domain.ChangeEvent
	for _, f := range domain.StateFields {
		newValue, newOk := new.States[f.Name]
		var oldValue string
		oldOk := false
		if old != nil {
			oldValue, oldOk = old.States[f.Name]
		}
		switch {
		case newOk && !oldOk:
			events = append(events, domain.ChangeEvent{
				SerialNumber: new.SerialNumber,
				Category:     domain.CategoryDiscreteState,
				Field:        f.Name,
				New:          newValue,
			})
		case newOk && oldOk && oldValue != newValue:
			events = append(events, domain.ChangeEvent{
				SerialNumber: new.SerialNumber,
				Category:     domain.CategoryDiscreteState,
				Field:        f.Name,
				Old:          oldValue,
				New:          newValue,
			})
		case !newOk && oldOk:
			events = append(events, domain.ChangeEvent{
				SerialNumber: new.SerialNumber,
				Category:     domain.CategoryDiscreteState,
				Field:        f.Name,
				Old:          oldValue,
			})
		}
	}
	return events
}

func (d *ChangeDetector) diffMeasurements(old, new *domain.Snapshot) []domain.ChangeEvent {
	var events []domain.ChangeEvent
	for _, f := range domain.MeasurementFields {
		newValue, newOk := new.Measurements[f.Name]
		var oldValue domain.Measurement
		oldOk := false
		if old != nil {
			oldValue, oldOk = old.Measurements[f.Name]
		}
		switch {
		case newOk && !oldOk:
			events = append(events, domain.ChangeEvent{
				SerialNumber: new.SerialNumber,
				Category:     domain.CategoryMeasurement,
				Field:        f.Name,
				New:          newValue,
			})
		case newOk && oldOk && d.measurementChanged(f.Name, oldValue, newValue):
			events = append(events, domain.ChangeEvent{
				SerialNumber: new.SerialNumber,
				Category:     domain.CategoryMeasurement,
				Field:        f.Name,
				Old:          oldValue,
				New:          newValue,
			})
		case !newOk && oldOk:
			events = append(events, domain.ChangeEvent{
				SerialNumber: new.SerialNumber,
				Category:     domain.CategoryMeasurement,
				Field:        f.Name,
				Old:          oldValue,
			})
		}
	}
	return events
}

// measurementChanged applies the per-field noise threshold to the value and
// exact comparison to the required companion. Default threshold is zero:
// precise by default, tolerant only where configured.
func (d *ChangeDetector) measurementChanged(name string, old, new domain.Measurement) bool {
	if math.Abs(new.Value-old.Value) > d.thresholds[name] {
		return true
	}
	switch {
	case old.Required == nil && new.Required == nil:
		return false
	case old.Required == nil || new.Required == nil:
		return true
	default:
		return *old.Required != *new.Required
	}
}

func (d *ChangeDetector) diffWarnings(old, new *domain.Snapshot) []domain.ChangeEvent {
	var events []domain.ChangeEvent

	oldTypes := map[string]domain.Warning{}
	if old != nil {
		for _, w := range old.Warnings {
			oldTypes[w.Type] = w
		}
	}
	newTypes := map[string]domain.Warning{}
	for _, w := range new.Warnings {
		newTypes[w.Type] = w
	}

	// added, in payload order of the new snapshot
	for _, w := range new.Warnings {
		if _, ok := oldTypes[w.Type]; !ok {
			events = append(events, domain.ChangeEvent{
				SerialNumber: new.SerialNumber,
				Category:     domain.CategoryWarning,
				Field:        w.Type,
				New:          w,
			})
		}
	}
	// cleared, in payload order of the old snapshot
	if old != nil {
		for _, w := range old.Warnings {
			if _, ok := newTypes[w.Type]; !ok {
				events = append(events, domain.ChangeEvent{
					SerialNumber: new.SerialNumber,
					Category:     domain.CategoryWarning,
					Field:        w.Type,
					Old:          w,
				})
			}
		}
	}
	return events
}
