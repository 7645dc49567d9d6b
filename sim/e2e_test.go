// sim/e2e_test.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mmp/aloft/aero"
	"github.com/mmp/aloft/log"
	"github.com/mmp/aloft/mission"
	"github.com/mmp/aloft/sim"
	"github.com/mmp/aloft/world"
)

// TestSimulationInvariants flies the full stack (real world, real mission)
// for two minutes of simulated time and checks the state invariants that
// must hold at every point along the way, whatever the dynamics do.
func TestSimulationInvariants(t *testing.T) {
	lg := &log.Logger{Logger: slog.New(slog.NewJSONHandler(io.Discard, nil))}

	w := world.Generate(1)
	s := sim.New(aero.DefaultParameters(), w, lg)
	defer s.Destroy()

	sub := s.Subscribe()
	defer sub.Unsubscribe()

	prevFuel := float32(15000)
	prevTime := float32(0)
	prevCrashed := false

	for range 120 {
		s.RunFor(time.Second)
		snap := s.Snapshot()

		if snap.Aircraft.FuelMass < 0 || snap.Aircraft.FuelMass > prevFuel {
			t.Fatalf("got fuel %v after %v, expected non-negative and non-increasing",
				snap.Aircraft.FuelMass, prevFuel)
		}
		prevFuel = snap.Aircraft.FuelMass

		if alt := snap.Aircraft.Position[1]; alt < 10 || alt > 12000 {
			t.Fatalf("got altitude %v, expected it within [10, 12000]", alt)
		}
		if speed := snap.Aircraft.Speed(); speed > 250.01 {
			t.Fatalf("got speed %v, expected at most 250", speed)
		}

		if !snap.Collision.Warning && snap.Collision.WarningTimer != 0 {
			t.Fatalf("got warning timer %v with no active warning, expected 0",
				snap.Collision.WarningTimer)
		}
		if snap.Collision.WarningTimer < 0 {
			t.Fatalf("got warning timer %v, expected non-negative", snap.Collision.WarningTimer)
		}

		if p := snap.Mission.Phase(); p < mission.PhaseWUTO || p > mission.PhaseComplete {
			t.Fatalf("got phase %d, expected a defined one", p)
		}

		if snap.Collision.Crashed {
			if snap.Aircraft.Velocity != ([3]float32{}) {
				t.Fatalf("got velocity %v while crashed, expected zero", snap.Aircraft.Velocity)
			}
			if prevCrashed && snap.Aircraft.MissionTime != prevTime {
				t.Fatalf("got mission time %v while crashed, expected frozen at %v",
					snap.Aircraft.MissionTime, prevTime)
			}
		} else if snap.Aircraft.MissionTime <= prevTime {
			t.Fatalf("got mission time %v, expected it to advance past %v",
				snap.Aircraft.MissionTime, prevTime)
		}
		prevCrashed = snap.Collision.Crashed
		prevTime = snap.Aircraft.MissionTime

		for _, e := range sub.Get() {
			if e.Type < 0 || e.Type >= sim.NumEventTypes {
				t.Fatalf("got event type %d, expected a defined one", e.Type)
			}
		}
	}
}
