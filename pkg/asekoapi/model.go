package asekoapi

import "strings"

// RawUnit is the unparsed state of one pool unit as returned by the
// /paired-units/{serial} endpoint. Field sets vary between device models
// and firmware versions, so everything beyond the serial number is optional.
type RawUnit struct {
	SerialNumber   string             `json:"serialNumber"`
	Name           string             `json:"name"`
	Note           string             `json:"note"`
	Online         bool               `json:"online"`
	BrandName      *RawBrandName      `json:"brandName"`
	StatusMessages []RawStatusMessage `json:"statusMessages"`
	StatusValues   map[string]any     `json:"statusValues"`
}

type RawBrandName struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// RawStatusMessage is one warning/error entry as reported by the cloud.
// Type is a raw code subject to drift across firmware versions.
type RawStatusMessage struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Detail   string `json:"detail"`
}

type pagedUnitsResponse struct {
	Items      []pagedUnitItem `json:"items"`
	TotalItems int             `json:"totalItems"`
}

type pagedUnitItem struct {
	SerialNumber string `json:"serialNumber"`
}

type authCheckResponse struct {
	Valid bool `json:"valid"`
}

// BrandLabel joins the primary and secondary brand names ("ASIN AQUA Home").
// Returns "" when the unit reports no brand.
func (u *RawUnit) BrandLabel() string {
	if u.BrandName == nil {
		return ""
	}
	return strings.TrimSpace(u.BrandName.Primary + " " + u.BrandName.Secondary)
}
