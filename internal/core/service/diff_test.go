package service

import (
	"testing"
	"time"

	"github.com/berfenger/aseko2mqtt/internal/core/domain"
	"github.com/berfenger/aseko2mqtt/pkg/asekoapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTestUnit(t *testing.T, raw *asekoapi.RawUnit) *domain.Snapshot {
	t.Helper()
	snap, err := testDecoder().Decode(raw, time.Now())
	require.NoError(t, err)
	return snap
}

func TestDiffIdempotent(t *testing.T) {

	snap := decodeTestUnit(t, asekoapi.TestUnit("d1"))

	events := NewChangeDetector(nil).Diff(snap, snap)
	assert.Empty(t, events, "diff of a snapshot against itself must be empty")
}

func TestDiffInitialObservation(t *testing.T) {

	snap := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		Online:       true,
		StatusValues: map[string]any{
			"waterTemperature": 24.5,
			"mode":             "AUTO",
		},
		StatusMessages: []asekoapi.RawStatusMessage{
			{Type: "PH_TOO_LOW", Severity: "WARNING"},
		},
	})

	events := NewChangeDetector(nil).Diff(nil, snap)

	// all conditions (online + warning_active + 6 schema flags), one state,
	// one measurement, one warning
	assert.Len(t, events, 8+1+1+1)
	for _, ev := range events {
		assert.Nil(t, ev.Old, "initial burst events have no old value")
		assert.Equal(t, "d1", ev.SerialNumber)
	}
}

func TestDiffCategoryOrder(t *testing.T) {

	require := require.New(t)

	old := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		Online:       true,
		StatusValues: map[string]any{
			"waterTemperature": 24.0,
			"mode":             "AUTO",
		},
	})
	new := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		Online:       false,
		StatusValues: map[string]any{
			"waterTemperature": 25.0,
			"mode":             "ECO",
		},
		StatusMessages: []asekoapi.RawStatusMessage{
			{Type: "PH_TOO_LOW", Severity: "WARNING"},
		},
	})

	events := NewChangeDetector(nil).Diff(old, new)
	require.Len(events, 5)

	assert.Equal(t, domain.CategoryBinaryCondition, events[0].Category)
	assert.Equal(t, domain.ConditionOnline, events[0].Field)
	assert.Equal(t, domain.CategoryBinaryCondition, events[1].Category)
	assert.Equal(t, domain.ConditionWarningActive, events[1].Field)
	assert.Equal(t, domain.CategoryDiscreteState, events[2].Category)
	assert.Equal(t, domain.StateMode, events[2].Field)
	assert.Equal(t, domain.CategoryMeasurement, events[3].Category)
	assert.Equal(t, domain.MeasurementWaterTemperature, events[3].Field)
	assert.Equal(t, domain.CategoryWarning, events[4].Category)
	assert.True(t, events[4].WarningAdded())
}

func TestDiffNoiseThreshold(t *testing.T) {

	old := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		StatusValues: map[string]any{"waterTemperature": 24.50},
	})
	new := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		StatusValues: map[string]any{"waterTemperature": 24.55},
	})

	detector := NewChangeDetector(map[string]float64{
		domain.MeasurementWaterTemperature: 0.1,
	})
	assert.Empty(t, detector.Diff(old, new), "sub-threshold jitter must not emit")

	// default is exact inequality
	assert.Len(t, NewChangeDetector(nil).Diff(old, new), 1)
}

func TestDiffRequiredValueChange(t *testing.T) {

	old := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		StatusValues: map[string]any{"ph": "7.0", "requiredPh": "7.0"},
	})
	new := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		StatusValues: map[string]any{"ph": "7.0", "requiredPh": "7.2"},
	})

	events := NewChangeDetector(nil).Diff(old, new)
	assert.Len(t, events, 1, "target value change must emit")
}

func TestDiffMeasurementDisappears(t *testing.T) {

	require := require.New(t)

	old := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		StatusValues: map[string]any{"salinity": "3.2"},
	})
	new := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		StatusValues: map[string]any{"salinity": "---"},
	})

	events := NewChangeDetector(nil).Diff(old, new)
	require.Len(events, 1)
	assert.Equal(t, domain.MeasurementSalinity, events[0].Field)
	assert.Nil(t, events[0].New)
	assert.NotNil(t, events[0].Old)
}

func TestDiffWarningAddedAndCleared(t *testing.T) {

	require := require.New(t)

	old := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		StatusMessages: []asekoapi.RawStatusMessage{
			{Type: "PH_TOO_LOW", Severity: "WARNING"},
		},
	})
	new := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		StatusMessages: []asekoapi.RawStatusMessage{
			{Type: "WATER_LEVEL_TOO_LOW", Severity: "WARNING"},
		},
	})

	events := NewChangeDetector(nil).Diff(old, new)

	// warning_active stays true, so only the two warning deltas remain
	require.Len(events, 2)
	assert.Equal(t, "WATER_LEVEL_TOO_LOW", events[0].Field)
	assert.True(t, events[0].WarningAdded())
	assert.Equal(t, "PH_TOO_LOW", events[1].Field)
	assert.False(t, events[1].WarningAdded())
}

func TestDiffWarningActiveAggregate(t *testing.T) {

	require := require.New(t)

	clean := decodeTestUnit(t, &asekoapi.RawUnit{SerialNumber: "d1"})
	alerting := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		StatusMessages: []asekoapi.RawStatusMessage{
			{Type: "PH_TOO_LOW", Severity: "WARNING"},
		},
	})

	events := NewChangeDetector(nil).Diff(clean, alerting)
	require.Len(events, 2)
	assert.Equal(t, domain.ConditionWarningActive, events[0].Field)
	assert.Equal(t, true, events[0].New)
	assert.Equal(t, domain.CategoryWarning, events[1].Category)

	events = NewChangeDetector(nil).Diff(alerting, clean)
	require.Len(events, 2)
	assert.Equal(t, domain.ConditionWarningActive, events[0].Field)
	assert.Equal(t, false, events[0].New)
	assert.False(t, events[1].WarningAdded())
}

func TestDiffOfflineMarkPreservesState(t *testing.T) {

	require := require.New(t)

	snap := decodeTestUnit(t, &asekoapi.RawUnit{
		SerialNumber: "d1",
		Online:       true,
		StatusValues: map[string]any{
			"mode":             "AUTO",
			"waterTemperature": 24.5,
		},
	})

	offline := snap.MarkOffline(time.Now())
	events := NewChangeDetector(nil).Diff(snap, offline)

	require.Len(events, 1, "only the online flip may be published")
	assert.Equal(t, domain.ConditionOnline, events[0].Field)
	assert.Equal(t, true, events[0].Old)
	assert.Equal(t, false, events[0].New)
	assert.Equal(t, "AUTO", offline.States[domain.StateMode], "last-known state is kept")
}
