// aero/params.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aero

import (
	"fmt"
	"os"

	"github.com/mmp/aloft/util"
)

// Airframe limits. These are fixed properties of the simulated aircraft
// rather than part of the loadable parameter set.
const (
	MaxSpeed       = 250   // m/s
	MinSpeed       = 60    // m/s
	ServiceCeiling = 12000 // m
	MaxLoadFactor  = 2.5

	// CLMax bounds the lift coefficient to model stall limiting.
	CLMax = 1.5
)

// Parameters is the aircraft parameter set, optionally loaded from a JSON
// file at construction.
type Parameters struct {
	Mass         float32 `json:"mass"`           // kg, structural (no fuel)
	WingArea     float32 `json:"wing_area"`      // m^2
	MaxThrust    float32 `json:"max_thrust"`     // N
	FuelCapacity float32 `json:"fuel_capacity"`  // kg
	FuelFlowRate float32 `json:"fuel_flow_rate"` // kg/s at full throttle
}

func DefaultParameters() Parameters {
	return Parameters{
		Mass:         50000,
		WingArea:     150,
		MaxThrust:    200000,
		FuelCapacity: 15000,
		FuelFlowRate: 2,
	}
}

// LoadParameters reads a parameter file, layering its values over the
// defaults. On any error the defaults are returned along with the error;
// the caller logs it and carries on, so a bad file never blocks flying.
func LoadParameters(path string) (Parameters, error) {
	p := DefaultParameters()

	f, err := os.Open(path)
	if err != nil {
		return p, err
	}
	defer f.Close()

	if err := util.UnmarshalJSON(f, &p); err != nil {
		return DefaultParameters(), fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Polar holds the drag polar constants that define the lift and drag
// curves; constant per aircraft instance.
type Polar struct {
	CL0      float32 `json:"cl0"`       // lift coefficient at zero angle of attack
	CLAlpha  float32 `json:"cl_alpha"`  // lift curve slope, per radian
	CD0      float32 `json:"cd0"`       // parasitic drag coefficient
	InducedK float32 `json:"induced_k"` // induced drag factor
}

func DefaultPolar() Polar {
	return Polar{
		CL0:      0.2,
		CLAlpha:  5.0,
		CD0:      0.025,
		InducedK: 0.04,
	}
}
