package domain

// Field schema for the unit payload. Declaration order here fixes the order
// of decoded fields, change events and discovery publication; nothing may
// iterate payload maps directly.

// Measurement field names.
const (
	MeasurementWaterTemperature = "water_temperature"
	MeasurementAirTemperature   = "air_temperature"
	MeasurementPH               = "ph"
	MeasurementRedox            = "redox"
	MeasurementClFree           = "cl_free"
	MeasurementSalinity         = "salinity"
	MeasurementWaterLevel       = "water_level"
	MeasurementElectrolyzer     = "electrolyzer_power"
	MeasurementDose             = "dose"
	MeasurementFilterPressure   = "filter_pressure"
	MeasurementFilterFlowSpeed  = "filter_flow_speed"
)

// Discrete state field names.
const (
	StateMode                  = "mode"
	StateFiltrationSpeed       = "filtration_speed"
	StateElectrolyzerDirection = "electrolyzer_direction"
	StatePoolFlow              = "pool_flow"
	StateWaterLevelState       = "water_level_state"
)

// Binary condition field names.
const (
	ConditionOnline              = "online"
	ConditionWarningActive       = "warning_active"
	ConditionWaterFlowToProbes   = "water_flow_to_probes"
	ConditionHeatingRunning      = "heating_running"
	ConditionElectrolyzerRunning = "electrolyzer_running"
	ConditionSolarRunning        = "solar_running"
	ConditionFiltrationRunning   = "filtration_running"
	ConditionWaterFillingRunning = "water_filling_running"
)

type MeasurementField struct {
	Name        string
	StatusKey   string
	RequiredKey string
	Unit        string
	Decimals    uint
	DeviceClass string
	Icon        string
}

type StateField struct {
	Name      string
	StatusKey string
	Parse     func(string) string
	Icon      string
}

type ConditionField struct {
	Name        string
	StatusKey   string
	DeviceClass string
}

// MeasurementFields lists every measurement a unit may expose. Devices
// without the matching hardware simply omit the status key.
var MeasurementFields = []MeasurementField{
	{Name: MeasurementWaterTemperature, StatusKey: "waterTemperature", RequiredKey: "requiredTemperature", Unit: "°C", Decimals: 1, DeviceClass: "temperature"},
	{Name: MeasurementAirTemperature, StatusKey: "airTemperature", Unit: "°C", Decimals: 1, DeviceClass: "temperature"},
	{Name: MeasurementPH, StatusKey: "ph", RequiredKey: "requiredPh", Unit: "", Decimals: 1, DeviceClass: "ph"},
	{Name: MeasurementRedox, StatusKey: "redox", RequiredKey: "requiredRedox", Unit: "mV", Decimals: 0, DeviceClass: "voltage"},
	{Name: MeasurementClFree, StatusKey: "clFree", RequiredKey: "requiredClFree", Unit: "ppm", Decimals: 2},
	{Name: MeasurementSalinity, StatusKey: "salinity", Unit: "g/L", Decimals: 1, Icon: "mdi:shaker-outline"},
	{Name: MeasurementWaterLevel, StatusKey: "waterLevel", Unit: "cm", Decimals: 0, Icon: "mdi:waves-arrow-up"},
	{Name: MeasurementElectrolyzer, StatusKey: "electrolyzer", Unit: "%", Decimals: 0, Icon: "mdi:lightning-bolt"},
	{Name: MeasurementDose, StatusKey: "dose", Unit: "%", Decimals: 0, Icon: "mdi:cup-water"},
	{Name: MeasurementFilterPressure, StatusKey: "filterPressure", Unit: "bar", Decimals: 2, DeviceClass: "pressure"},
	{Name: MeasurementFilterFlowSpeed, StatusKey: "filterFlowSpeed", Unit: "m³/h", Decimals: 1, Icon: "mdi:pump"},
}

var StateFields = []StateField{
	{Name: StateMode, StatusKey: "mode", Parse: ParseMode, Icon: "mdi:cog-outline"},
	{Name: StateFiltrationSpeed, StatusKey: "filtrationSpeed", Parse: ParseFiltrationSpeed, Icon: "mdi:speedometer"},
	{Name: StateElectrolyzerDirection, StatusKey: "electrolyzerDirection", Parse: ParseElectrolyzerDirection, Icon: "mdi:swap-horizontal"},
	{Name: StatePoolFlow, StatusKey: "poolFlow", Parse: ParsePoolFlow, Icon: "mdi:waves"},
	{Name: StateWaterLevelState, StatusKey: "waterLevelState", Parse: ParseWaterLevelState, Icon: "mdi:water-percent"},
}

// ConditionFields lists the payload-backed binary conditions. The online and
// warning_active conditions are not here: online is a top-level payload field
// and warning_active is derived from the warning list.
var ConditionFields = []ConditionField{
	{Name: ConditionWaterFlowToProbes, StatusKey: "waterFlowToProbes", DeviceClass: "running"},
	{Name: ConditionHeatingRunning, StatusKey: "heatingRunning", DeviceClass: "heat"},
	{Name: ConditionElectrolyzerRunning, StatusKey: "electrolyzerRunning", DeviceClass: "running"},
	{Name: ConditionSolarRunning, StatusKey: "solarRunning", DeviceClass: "running"},
	{Name: ConditionFiltrationRunning, StatusKey: "filtrationRunning", DeviceClass: "running"},
	{Name: ConditionWaterFillingRunning, StatusKey: "waterFillingRunning", DeviceClass: "running"},
}

// ConditionOrder is the fixed publication order for binary conditions.
func ConditionOrder() []string {
	order := []string{ConditionOnline, ConditionWarningActive}
	for _, f := range ConditionFields {
		order = append(order, f.Name)
	}
	return order
}
