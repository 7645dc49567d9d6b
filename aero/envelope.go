// aero/envelope.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aero

type EnvelopeStatus int

const (
	EnvelopeNormal EnvelopeStatus = iota
	EnvelopeStall
	EnvelopeOverspeed
	EnvelopeOverG
	EnvelopeNegativeG
	EnvelopeCeiling
	EnvelopeTerrain
)

func (e EnvelopeStatus) String() string {
	return []string{"NORMAL", "STALL_WARNING", "OVERSPEED_WARNING", "OVER_G_WARNING",
		"NEGATIVE_G_WARNING", "CEILING_WARNING", "TERRAIN_WARNING"}[e]
}

// CheckSpeedLimits classifies the current speed against the airframe's
// minimum and maximum.
func CheckSpeedLimits(velocity, minSpeed, maxSpeed float32) EnvelopeStatus {
	if velocity < minSpeed {
		return EnvelopeStall
	} else if velocity > maxSpeed {
		return EnvelopeOverspeed
	}
	return EnvelopeNormal
}

// CheckGLimits classifies the load factor against the positive and negative
// structural limits.
func CheckGLimits(loadFactor, maxPositiveG, maxNegativeG float32) EnvelopeStatus {
	if loadFactor > maxPositiveG {
		return EnvelopeOverG
	} else if loadFactor < maxNegativeG {
		return EnvelopeNegativeG
	}
	return EnvelopeNormal
}

// CheckAltitudeLimits classifies the altitude against the service ceiling
// and the ground.
func CheckAltitudeLimits(altitude, serviceCeiling float32) EnvelopeStatus {
	if altitude > serviceCeiling {
		return EnvelopeCeiling
	} else if altitude < 0 {
		return EnvelopeTerrain
	}
	return EnvelopeNormal
}
