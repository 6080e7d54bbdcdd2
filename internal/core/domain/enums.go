package domain

// Discrete state enumerations. Raw codes come straight from the cloud API;
// any code not listed maps to the UNKNOWN sentinel so a firmware update that
// introduces a new code degrades to "unknown" instead of a decode failure.

const StateUnknown = "UNKNOWN"

var modeValues = []string{"AUTO", "ECO", "OFF", "ON", "PARTY", "WINTER"}

var filtrationSpeedValues = []string{"BOOST", "HIGH", "LOW", "MEDIUM", "OFF"}

var electrolyzerDirectionValues = []string{"LEFT", "RIGHT", "WAITING"}

var poolFlowValues = []string{"OVERFLOW", "BOTTOM"}

var waterLevelStateValues = []string{"OK", "FILLING", "LOW", "HIGH"}

func parseEnum(values []string) func(string) string {
	return func(raw string) string {
		for _, v := range values {
			if v == raw {
				return v
			}
		}
		return StateUnknown
	}
}

var (
	ParseMode                  = parseEnum(modeValues)
	ParseFiltrationSpeed       = parseEnum(filtrationSpeedValues)
	ParseElectrolyzerDirection = parseEnum(electrolyzerDirectionValues)
	ParsePoolFlow              = parseEnum(poolFlowValues)
	ParseWaterLevelState       = parseEnum(waterLevelStateValues)
)
