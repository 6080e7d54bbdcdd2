package domain

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

type GenericSensor struct {
	Device            Device
	Id                string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string // measurement, nil for text sensors
	DeviceClass       string // temperature, voltage, connectivity, problem...
	EntityCategory    string // diagnostic, config, nil
	EnabledByDefault  *bool
	Icon              string
	JSONAttributes    bool
}
