package domain

import "fmt"

type SensorUpdateEventMixIn struct {
	Id string
}

type SensorUpdateEvent interface {
	SensorUpdateEvent() string
	SensorId() string
}

func (e SensorUpdateEventMixIn) SensorUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e SensorUpdateEventMixIn) SensorId() string {
	return e.Id
}

type FloatSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value    float64
	Decimals uint
}

type BinarySensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}

type TextSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value string
}

// UnavailableSensorUpdateEvent clears a sensor whose backing field left the
// payload (device variant stopped reporting it).
type UnavailableSensorUpdateEvent struct {
	SensorUpdateEventMixIn
}

// AttributesUpdateEvent publishes a JSON attributes document next to a
// sensor state, e.g. the active warning list of warning_active.
type AttributesUpdateEvent struct {
	SensorUpdateEventMixIn
	Attributes map[string]any
}

type BridgeStateUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}
