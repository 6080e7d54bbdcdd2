package asekoapi

import "context"

// TestUnitReader is a canned-data UnitReader for actor and service tests.
type TestUnitReader struct {
	Units []*RawUnit
	Err   error
}

func (r *TestUnitReader) CheckAuth(ctx context.Context) error {
	return r.Err
}

func (r *TestUnitReader) ListUnitSerials(ctx context.Context) ([]string, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	var serials []string
	for _, u := range r.Units {
		serials = append(serials, u.SerialNumber)
	}
	return serials, nil
}

func (r *TestUnitReader) GetUnit(ctx context.Context, serialNumber string) (*RawUnit, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.Units {
		if u.SerialNumber == serialNumber {
			return u, nil
		}
	}
	return nil, &NotFoundError{Endpoint: "/paired-units/" + serialNumber}
}

func (r *TestUnitReader) GetUnits(ctx context.Context) ([]*RawUnit, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Units, nil
}

func TestUnit(serial string) *RawUnit {
	return &RawUnit{
		SerialNumber: serial,
		Name:         "Test Pool",
		Online:       true,
		BrandName: &RawBrandName{
			Primary:   "ASIN",
			Secondary: "AQUA Home",
		},
		StatusValues: map[string]any{
			"waterTemperature":      "24.5",
			"requiredTemperature":   "26.0",
			"ph":                    "7.1",
			"requiredPh":            "7.0",
			"redox":                 "712",
			"requiredRedox":         "700",
			"salinity":              "3.2",
			"electrolyzer":          "80",
			"mode":                  "AUTO",
			"filtrationSpeed":       "LOW",
			"waterFlowToProbes":     true,
			"filtrationRunning":     true,
			"electrolyzerRunning":   false,
			"electrolyzerDirection": "LEFT",
		},
	}
}

// ensure interface compliance
var _ UnitReader = (*TestUnitReader)(nil)
