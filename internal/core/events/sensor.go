package events

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/berfenger/aseko2mqtt/internal/core/domain"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE    = "bridge"
	STATE_CLASS_MEASUREMENT   = "measurement"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	DEVICE_CLASS_PROBLEM      = "problem"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"

	requiredSuffix = "_required"
)

func BridgeDevice(baseTopic string) domain.Device {
	return domain.Device{
		Id:           fmt.Sprintf("aseko_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "Aseko2MQTT",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Aseko2MQTT %s", md5HashShort(baseTopic)),
	}
}

func UnitDevice(snapshot *domain.Snapshot) domain.Device {
	name := snapshot.Name
	if name == "" {
		name = fmt.Sprintf("Unit %s", snapshot.SerialNumber)
	}
	return domain.Device{
		Id:           fmt.Sprintf("aseko_unit_%s", md5HashShort(snapshot.SerialNumber)),
		Manufacturer: "Aseko",
		Model:        snapshot.Brand,
		Name:         name,
	}
}

func BridgeSensors(bridgeDevice domain.Device) []domain.GenericSensor {

	var sensors []domain.GenericSensor

	// Bridge connection state
	sensors = append(sensors, domain.GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	return sensors
}

// UnitSensors builds the entity set for one unit from its first snapshot.
// Measurements and states the device variant never reported get no entity;
// binary conditions always do since the decoder fills them all.
func UnitSensors(unitDevice domain.Device, snapshot *domain.Snapshot) []domain.GenericSensor {

	var sensors []domain.GenericSensor

	for _, f := range domain.MeasurementFields {
		m, ok := snapshot.Measurements[f.Name]
		if !ok {
			continue
		}
		sensors = append(sensors, domain.GenericSensor{
			Device:            unitDevice,
			Id:                SensorId(snapshot.SerialNumber, f.Name),
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              displayName(f.Name),
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       f.DeviceClass,
			UnitOfMeasurement: f.Unit,
			Icon:              f.Icon,
			UniqueId:          uniqueId(unitDevice.Id, f.Name),
		})
		if m.Required != nil {
			sensors = append(sensors, domain.GenericSensor{
				Device:            unitDevice,
				Id:                SensorId(snapshot.SerialNumber, f.Name+requiredSuffix),
				SensorType:        SENSOR_TYPE_SENSOR,
				Name:              displayName(f.Name) + " target",
				StateClass:        STATE_CLASS_MEASUREMENT,
				DeviceClass:       f.DeviceClass,
				UnitOfMeasurement: f.Unit,
				Icon:              "mdi:target",
				UniqueId:          uniqueId(unitDevice.Id, f.Name+requiredSuffix),
			})
		}
	}

	for _, f := range domain.StateFields {
		if _, ok := snapshot.States[f.Name]; !ok {
			continue
		}
		sensors = append(sensors, domain.GenericSensor{
			Device:     unitDevice,
			Id:         SensorId(snapshot.SerialNumber, f.Name),
			SensorType: SENSOR_TYPE_SENSOR,
			Name:       displayName(f.Name),
			Icon:       f.Icon,
			UniqueId:   uniqueId(unitDevice.Id, f.Name),
		})
	}

	// Unit connectivity
	sensors = append(sensors, domain.GenericSensor{
		Device:         unitDevice,
		Id:             SensorId(snapshot.SerialNumber, domain.ConditionOnline),
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Online",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(unitDevice.Id, domain.ConditionOnline),
	})

	// Warning aggregate, with the active warning list as attributes
	sensors = append(sensors, domain.GenericSensor{
		Device:         unitDevice,
		Id:             SensorId(snapshot.SerialNumber, domain.ConditionWarningActive),
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Warning",
		DeviceClass:    DEVICE_CLASS_PROBLEM,
		UniqueId:       uniqueId(unitDevice.Id, domain.ConditionWarningActive),
		JSONAttributes: true,
	})

	for _, f := range domain.ConditionFields {
		sensors = append(sensors, domain.GenericSensor{
			Device:      unitDevice,
			Id:          SensorId(snapshot.SerialNumber, f.Name),
			SensorType:  SENSOR_TYPE_BINARY,
			Name:        displayName(f.Name),
			DeviceClass: f.DeviceClass,
			UniqueId:    uniqueId(unitDevice.Id, f.Name),
		})
	}

	return sensors
}

// SensorId scopes a field name to one unit so state topics of different
// units never collide.
func SensorId(serial, field string) string {
	return fmt.Sprintf("%s_%s", md5HashShort(serial), field)
}

func displayName(field string) string {
	name := strings.ReplaceAll(field, "_", " ")
	if len(name) > 0 {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}
