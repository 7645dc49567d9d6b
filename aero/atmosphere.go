// aero/atmosphere.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aero

import (
	"github.com/mmp/aloft/math"
)

// Two atmosphere models live here at different fidelity levels: Density is
// the single-exponential approximation the flight loop integrates with,
// while the ISA* functions implement the layered standard atmosphere for
// the performance readouts. They disagree numerically at the same altitude;
// callers pick the one matching their fidelity needs rather than unifying.

const (
	seaLevelTemp     = 288.15  // K
	seaLevelPressure = 101325  // Pa
	seaLevelDensity  = 1.225   // kg/m^3
	tempLapseRate    = -0.0065 // K/m, troposphere
	gasConstant      = 287.05  // J/(kg K), dry air
	gravity          = 9.80665 // m/s^2

	tropopauseAltitude = 11000  // m
	stratosphereTemp   = 216.65 // K, isothermal above the tropopause
)

// Density returns air density from the exponential-decay approximation
// with an 8 km scale height.
func Density(altitude float32) float32 {
	return seaLevelDensity * math.Exp(-altitude/8000)
}

// ISATemperature returns the standard atmosphere temperature in Kelvin.
func ISATemperature(altitude float32) float32 {
	if altitude <= tropopauseAltitude {
		return seaLevelTemp + tempLapseRate*altitude
	}
	return stratosphereTemp
}

// ISAPressure returns the standard atmosphere pressure in Pascals.
func ISAPressure(altitude float32) float32 {
	if altitude <= tropopauseAltitude {
		// https://en.wikipedia.org/wiki/Barometric_formula
		t := ISATemperature(altitude)
		return seaLevelPressure * math.Pow(t/seaLevelTemp, -gravity/(tempLapseRate*gasConstant))
	}

	// Isothermal layer: exponential decay from the tropopause pressure.
	p11 := ISAPressure(tropopauseAltitude)
	return p11 * math.Exp(-gravity*(altitude-tropopauseAltitude)/(gasConstant*stratosphereTemp))
}

// ISADensity returns the standard atmosphere density in kg/m^3.
func ISADensity(altitude float32) float32 {
	return ISAPressure(altitude) / (gasConstant * ISATemperature(altitude))
}

// SpeedOfSound returns the speed of sound in m/s at the given altitude.
func SpeedOfSound(altitude float32) float32 {
	const gamma = 1.4 // ratio of specific heats for air
	return math.Sqrt(gamma * gasConstant * ISATemperature(altitude))
}
