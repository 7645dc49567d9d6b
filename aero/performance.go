// aero/performance.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aero

import (
	"github.com/mmp/aloft/math"
)

// Standard performance quantities, each a closed-form function of weight,
// density, wing area, and the drag polar. Degenerate denominators give 0 or
// +Inf rather than an error; callers check before computing further.

// SpecificRange returns distance per unit fuel, V/FF (m/kg).
func SpecificRange(velocity, fuelFlow float32) float32 {
	if fuelFlow > 0 {
		return velocity / fuelFlow
	}
	return 0
}

// SpecificEndurance returns time per unit fuel, 1/FF (s/kg).
func SpecificEndurance(fuelFlow float32) float32 {
	if fuelFlow > 0 {
		return 1 / fuelFlow
	}
	return 0
}

// SpecificExcessPower returns (T-D)*V/W (m/s), the climb rate available at
// the current thrust and drag.
func SpecificExcessPower(thrust, drag, weight, velocity float32) float32 {
	if weight > 0 {
		return (thrust - drag) * velocity / weight
	}
	return 0
}

// TurnRadius returns V^2/(g tan(bank)) in meters, +Inf for wings level.
func TurnRadius(velocity, bank float32) float32 {
	if bank == 0 {
		return math.Inf(1)
	}
	return math.Sqr(velocity) / (9.81 * math.Tan(bank))
}

// TurnRate returns the coordinated turn rate g tan(bank)/V in rad/s.
func TurnRate(velocity, bank float32) float32 {
	if velocity > 0 {
		return 9.81 * math.Tan(bank) / velocity
	}
	return 0
}

// LoadFactor returns 1/cos(bank), the g loading in a level banked turn.
func LoadFactor(bank float32) float32 {
	return 1 / math.Cos(bank)
}

// StallSpeed returns sqrt(2W/(rho S CLmax)) in m/s.
func StallSpeed(weight, density, wingArea, clMax float32) float32 {
	if density > 0 && wingArea > 0 && clMax > 0 {
		return math.Sqrt(2 * weight / (density * wingArea * clMax))
	}
	return 0
}

// BestClimbSpeed returns the speed for maximum climb rate from the drag
// polar, sqrt(2W/(rho S)) * (K/CD0)^(1/4).
func BestClimbSpeed(weight, density, wingArea, cd0, k float32) float32 {
	if density > 0 && wingArea > 0 && cd0 > 0 {
		return math.Sqrt(2*weight/(density*wingArea)) * math.Pow(k/cd0, 0.25)
	}
	return 0
}

// BestRangeSpeed returns the maximum-range speed,
// sqrt(2W/(rho S sqrt(CD0 K))).
func BestRangeSpeed(weight, density, wingArea, cd0, k float32) float32 {
	if density > 0 && wingArea > 0 && cd0 > 0 {
		return math.Sqrt(2 * weight / (density * wingArea * math.Sqrt(cd0*k)))
	}
	return 0
}

// BestEnduranceSpeed returns the maximum-endurance speed,
// sqrt(2W/(rho S sqrt(3 CD0 K))).
func BestEnduranceSpeed(weight, density, wingArea, cd0, k float32) float32 {
	if density > 0 && wingArea > 0 && cd0 > 0 {
		return math.Sqrt(2 * weight / (density * wingArea * math.Sqrt(3*cd0*k)))
	}
	return 0
}

///////////////////////////////////////////////////////////////////////////
// Fuel planning

// FuelFlow returns thrust * TSFC in kg/s.
func FuelFlow(thrust, tsfc float32) float32 {
	return thrust * tsfc
}

// Range returns the distance achievable with the available fuel at the
// given specific range.
func Range(fuelAvailable, specificRange float32) float32 {
	return fuelAvailable * specificRange
}

// Endurance returns the time achievable with the available fuel.
func Endurance(fuelAvailable, fuelFlow float32) float32 {
	if fuelFlow > 0 {
		return fuelAvailable / fuelFlow
	}
	return 0
}

// ReserveFuel returns the fuel needed to hold for the given time at the
// cruise fuel flow.
func ReserveFuel(cruiseFuelFlow, reserveTime float32) float32 {
	return cruiseFuelFlow * reserveTime
}
