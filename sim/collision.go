// sim/collision.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"log/slog"
)

const (
	// Proximity bands for terrain clearance and building distance.
	warningThreshold  = 100 // m
	criticalThreshold = 30  // m

	// Inside the critical band, these are the distances at which proximity
	// becomes a crash.
	terrainCrashAGL       = 5  // m
	buildingCrashDistance = 10 // m
)

// CollisionState is the per-tick result of checking the aircraft against
// the world's terrain and buildings. Crashed is terminal until a reset.
type CollisionState struct {
	Warning      bool    `json:"collision_warning"`
	WarningTimer float32 `json:"warning_timer"` // s, accumulates while Warning is set
	Crashed      bool    `json:"crashed"`
}

// checkCollisions evaluates the aircraft's proximity to terrain and
// buildings and updates the collision state: within 100 m a warning is
// active and its timer accumulates; within 5 m of terrain or 10 m of a
// building the aircraft crashes, which zeroes its velocity and throttle
// and freezes the simulation until the next reset.
func (s *Sim) checkCollisions(dt float32) {
	pos := s.Aircraft.Position
	agl := pos[1] - s.World.TerrainHeight(pos[0], pos[2])
	buildingDist := s.World.MinBuildingDistance(pos)

	wasWarning := s.Collision.Warning

	switch {
	case agl < criticalThreshold || buildingDist < criticalThreshold:
		s.Collision.Warning = true
		s.Collision.WarningTimer += dt

		if agl <= terrainCrashAGL || buildingDist <= buildingCrashDistance {
			s.Collision.Crashed = true
			s.Aircraft.Velocity = [3]float32{}
			s.Aircraft.Throttle = 0
		}

	case agl < warningThreshold || buildingDist < warningThreshold:
		s.Collision.Warning = true
		s.Collision.WarningTimer += dt

	default:
		s.Collision.Warning = false
		s.Collision.WarningTimer = 0
	}

	if s.Collision.Warning && !wasWarning {
		s.eventStream.Post(Event{Type: CollisionWarningEvent, Message: "TERRAIN WARNING"})
	} else if !s.Collision.Warning && wasWarning {
		s.eventStream.Post(Event{Type: CollisionClearedEvent, Message: "warning cleared"})
	}

	if s.Collision.Crashed {
		cause := "terrain impact"
		if buildingDist <= buildingCrashDistance && agl > terrainCrashAGL {
			cause = "building impact"
		}
		s.eventStream.Post(Event{Type: CrashEvent, Message: cause})
		s.lg.Info("aircraft crashed", slog.String("cause", cause),
			slog.Float64("agl", float64(agl)),
			slog.Float64("building_distance", float64(buildingDist)),
			slog.Float64("mission_time", float64(s.Aircraft.MissionTime)))
	}
}
