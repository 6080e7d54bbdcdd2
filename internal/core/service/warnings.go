package service

import (
	"fmt"

	"github.com/berfenger/aseko2mqtt/internal/core/domain"
)

// WarningTypeUnrecognized is the fallback symbolic type for raw codes the
// catalog does not know. The raw code stays visible in the message so it is
// never silently dropped.
const WarningTypeUnrecognized = "UNRECOGNIZED"

type catalogEntry struct {
	severity domain.Severity
	message  string
}

// warningCatalog maps raw cloud status codes to stable entries. Loaded once,
// never mutated after init.
var warningCatalog = map[string]catalogEntry{
	"WATER_LEVEL_TOO_LOW":       {domain.SeverityWarning, "Water level is too low"},
	"WATER_LEVEL_TOO_HIGH":      {domain.SeverityWarning, "Water level is too high"},
	"NO_FLOW_TO_PROBES":         {domain.SeverityCritical, "No water flow to measurement probes"},
	"NO_WATER_FLOW":             {domain.SeverityCritical, "No water flow detected"},
	"PH_TOO_LOW":                {domain.SeverityWarning, "pH is below the required value"},
	"PH_TOO_HIGH":               {domain.SeverityWarning, "pH is above the required value"},
	"REDOX_TOO_LOW":             {domain.SeverityWarning, "Redox potential is below the required value"},
	"REDOX_TOO_HIGH":            {domain.SeverityWarning, "Redox potential is above the required value"},
	"CL_FREE_TOO_LOW":           {domain.SeverityWarning, "Free chlorine is below the required value"},
	"CL_FREE_TOO_HIGH":          {domain.SeverityWarning, "Free chlorine is above the required value"},
	"WATER_TEMPERATURE_TOO_LOW": {domain.SeverityInfo, "Water temperature is low"},
	"SALINITY_TOO_LOW":          {domain.SeverityWarning, "Salinity is below the electrolyzer working range"},
	"SALINITY_TOO_HIGH":         {domain.SeverityWarning, "Salinity is above the electrolyzer working range"},
	"ELECTROLYZER_FAULT":        {domain.SeverityCritical, "Electrolyzer failure"},
	"DOSING_PUMP_FAULT":         {domain.SeverityCritical, "Dosing pump failure"},
	"PROBE_FAULT":               {domain.SeverityCritical, "Measurement probe failure"},
	"FILTER_PRESSURE_TOO_HIGH":  {domain.SeverityWarning, "Filter pressure is too high"},
}

// ResolveWarning maps a raw status message to a catalog-backed Warning.
// Unknown codes resolve to an UNRECOGNIZED entry instead of failing.
func ResolveWarning(rawType, rawMessage, rawDetail string) domain.Warning {
	if entry, ok := warningCatalog[rawType]; ok {
		message := entry.message
		if message == "" {
			message = rawMessage
		}
		return domain.Warning{
			Type:     rawType,
			Severity: entry.severity,
			Message:  message,
			Detail:   rawDetail,
		}
	}
	message := rawMessage
	if message == "" {
		message = fmt.Sprintf("unrecognized device code %s", rawType)
	}
	return domain.Warning{
		Type:     WarningTypeUnrecognized,
		Severity: domain.SeverityWarning,
		Message:  message,
		Detail:   rawDetail,
	}
}
