package events

import (
	"testing"

	"github.com/berfenger/aseko2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func warningSnapshot() *domain.Snapshot {
	required := 7.0
	return &domain.Snapshot{
		SerialNumber: "ABC123",
		Name:         "Pool",
		Online:       true,
		Measurements: map[string]domain.Measurement{
			domain.MeasurementPH: {
				Name:     domain.MeasurementPH,
				Value:    7.2,
				Required: &required,
				Decimals: 1,
			},
		},
		States: map[string]string{
			domain.StateMode: "AUTO",
		},
		Conditions: map[string]bool{
			domain.ConditionOnline:        true,
			domain.ConditionWarningActive: true,
		},
		Warnings: []domain.Warning{
			{Type: "PH_TOO_HIGH", Severity: domain.SeverityWarning, Message: "pH too high"},
		},
	}
}

func TestChangeEventsToUpdateEventsOrder(t *testing.T) {

	require := require.New(t)

	snapshot := warningSnapshot()
	changes := []domain.ChangeEvent{
		{SerialNumber: "ABC123", Category: domain.CategoryBinaryCondition, Field: domain.ConditionOnline, New: true},
		{SerialNumber: "ABC123", Category: domain.CategoryDiscreteState, Field: domain.StateMode, New: "AUTO"},
		{SerialNumber: "ABC123", Category: domain.CategoryMeasurement, Field: domain.MeasurementPH, New: snapshot.Measurements[domain.MeasurementPH]},
		{SerialNumber: "ABC123", Category: domain.CategoryWarning, Field: "PH_TOO_HIGH", New: snapshot.Warnings[0]},
	}

	events := ChangeEventsToUpdateEvents(snapshot, changes)
	require.Len(events, 5)

	_, ok := events[0].(domain.BinarySensorUpdateEvent)
	assert.True(t, ok, "condition first")
	_, ok = events[1].(domain.TextSensorUpdateEvent)
	assert.True(t, ok, "state second")
	value, ok := events[2].(domain.FloatSensorUpdateEvent)
	require.True(ok, "measurement third")
	assert.InDelta(t, 7.2, value.Value, 0.0001)
	target, ok := events[3].(domain.FloatSensorUpdateEvent)
	require.True(ok, "required companion fourth")
	assert.InDelta(t, 7.0, target.Value, 0.0001)
	_, ok = events[4].(domain.AttributesUpdateEvent)
	assert.True(t, ok, "warning attributes last")
}

func TestWarningAttributes(t *testing.T) {

	require := require.New(t)

	snapshot := warningSnapshot()
	snapshot.Warnings[0].Detail = "check the acid canister"
	snapshot.Warnings = append(snapshot.Warnings, domain.Warning{
		Type: "NO_FLOW_TO_PROBES", Severity: domain.SeverityCritical, Message: "No water flow to probes",
	})

	event, ok := WarningAttributesUpdateEvent(snapshot).(domain.AttributesUpdateEvent)
	require.True(ok)

	assert.Equal(t, "PH_TOO_HIGH,NO_FLOW_TO_PROBES", event.Attributes["error_types"])
	errors, ok := event.Attributes["errors"].([]map[string]any)
	require.True(ok)
	require.Len(errors, 2)
	assert.Equal(t, "CRITICAL", errors[1]["severity"])
	assert.Equal(t, "check the acid canister", errors[0]["detail"], "warning detail must reach consumers")
}

func TestMeasurementDisappearsClearsCompanion(t *testing.T) {

	snapshot := warningSnapshot()
	old := snapshot.Measurements[domain.MeasurementPH]
	changes := []domain.ChangeEvent{
		{SerialNumber: "ABC123", Category: domain.CategoryMeasurement, Field: domain.MeasurementPH, Old: old},
	}

	events := ChangeEventsToUpdateEvents(snapshot, changes)
	require.Len(t, events, 2)

	_, ok := events[0].(domain.UnavailableSensorUpdateEvent)
	assert.True(t, ok)
	_, ok = events[1].(domain.UnavailableSensorUpdateEvent)
	assert.True(t, ok)
}

func TestUnitSensorsFollowSnapshotShape(t *testing.T) {

	snapshot := warningSnapshot()
	device := UnitDevice(snapshot)
	sensors := UnitSensors(device, snapshot)

	ids := map[string]bool{}
	for _, s := range sensors {
		ids[s.Id] = true
	}

	assert.True(t, ids[SensorId("ABC123", domain.MeasurementPH)])
	assert.True(t, ids[SensorId("ABC123", domain.MeasurementPH+requiredSuffix)])
	assert.True(t, ids[SensorId("ABC123", domain.StateMode)])
	assert.True(t, ids[SensorId("ABC123", domain.ConditionWarningActive)])
	assert.False(t, ids[SensorId("ABC123", domain.MeasurementSalinity)], "unreported measurement gets no entity")
}
