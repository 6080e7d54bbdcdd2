package events

import (
	"strings"

	. "github.com/berfenger/aseko2mqtt/internal/core/domain"
)

// ChangeEventsToUpdateEvents turns an ordered snapshot diff into sensor
// update events, preserving order. Warning add/clear events collapse into a
// single attributes update of the warning aggregate, built from the current
// snapshot warning list.
func ChangeEventsToUpdateEvents(snapshot *Snapshot, changes []ChangeEvent) []any {
	var events []any
	warningsTouched := false
	for _, change := range changes {
		switch change.Category {
		case CategoryBinaryCondition:
			events = append(events, BinarySensorUpdateEvent{
				SensorUpdateEventMixIn: SensorUpdateEventMixIn{
					Id: SensorId(change.SerialNumber, change.Field),
				},
				Value: change.New.(bool),
			})
		case CategoryDiscreteState:
			events = append(events, discreteStateUpdateEvents(change)...)
		case CategoryMeasurement:
			events = append(events, measurementUpdateEvents(change)...)
		case CategoryWarning:
			warningsTouched = true
		}
	}
	if warningsTouched {
		events = append(events, WarningAttributesUpdateEvent(snapshot))
	}
	return events
}

func discreteStateUpdateEvents(change ChangeEvent) []any {
	id := SensorId(change.SerialNumber, change.Field)
	if change.New == nil {
		return []any{UnavailableSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: id},
		}}
	}
	return []any{TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: id},
		Value:                  change.New.(string),
	}}
}

func measurementUpdateEvents(change ChangeEvent) []any {
	var events []any
	id := SensorId(change.SerialNumber, change.Field)
	requiredId := SensorId(change.SerialNumber, change.Field+requiredSuffix)

	if change.New == nil {
		events = append(events, UnavailableSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: id},
		})
		if old, ok := change.Old.(Measurement); ok && old.Required != nil {
			events = append(events, UnavailableSensorUpdateEvent{
				SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: requiredId},
			})
		}
		return events
	}

	m := change.New.(Measurement)
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: id},
		Value:                  m.Value,
		Decimals:               m.Decimals,
	})
	if m.Required != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: requiredId},
			Value:                  *m.Required,
			Decimals:               m.Decimals,
		})
	}
	return events
}

// WarningAttributesUpdateEvent rebuilds the attributes document of the
// warning aggregate: the distinct active types comma-joined plus the full
// warning list.
func WarningAttributesUpdateEvent(snapshot *Snapshot) any {
	warnings := make([]map[string]any, 0, len(snapshot.Warnings))
	for _, w := range snapshot.Warnings {
		warnings = append(warnings, map[string]any{
			"type":     w.Type,
			"severity": w.Severity.String(),
			"message":  w.Message,
			"detail":   w.Detail,
		})
	}
	return AttributesUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SensorId(snapshot.SerialNumber, ConditionWarningActive),
		},
		Attributes: map[string]any{
			"error_types": strings.Join(snapshot.WarningTypes(), ","),
			"errors":      warnings,
		},
	}
}
