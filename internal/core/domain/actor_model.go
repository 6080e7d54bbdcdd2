package domain

import "github.com/berfenger/aseko2mqtt/pkg/asekoapi"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_ASEKO        = "aseko"
	ACTOR_ID_POLLER       = "poller"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type CheckAuthRequest struct {
	ActorRequestMixIn
}

type CheckAuthResponse struct {
	ActorResponseMixIn
}

type GetUnitsRequest struct {
	ActorRequestMixIn
}

type GetUnitsResponse struct {
	ActorResponseMixIn
	Units []*asekoapi.RawUnit
}

type GetUnitSnapshotRequest struct {
	ActorRequestMixIn
	SerialNumber string
}

type GetUnitSnapshotResponse struct {
	ActorResponseMixIn
	Snapshot *Snapshot
}

type GetKnownUnitsRequest struct {
	ActorRequestMixIn
}

type GetKnownUnitsResponse struct {
	ActorResponseMixIn
	Snapshots []*Snapshot
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

// UnitDiscovered is broadcast by the poller when a serial number is seen for
// the first time, so discovery config can be published for its entities.
type UnitDiscovered struct {
	Snapshot *Snapshot
}

// AuthFailed is broadcast when the cloud rejects the API key. Polling halts
// until the credential is replaced and the process restarted.
type AuthFailed struct {
	Err error
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
