// sim/collision_test.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"testing"
	"time"
)

func TestCollisionBands(t *testing.T) {
	for _, tc := range []struct {
		name     string
		terrain  float32 // spawn altitude is 500
		building float32
		warning  bool
		crashed  bool
	}{
		{name: "clear", terrain: 0, building: 1e9, warning: false, crashed: false},
		{name: "terrain warning at 50m", terrain: 450, building: 1e9, warning: true, crashed: false},
		{name: "terrain critical at 20m", terrain: 480, building: 1e9, warning: true, crashed: false},
		{name: "terrain crash at 3m", terrain: 497, building: 1e9, warning: true, crashed: true},
		{name: "building warning", terrain: 0, building: 50, warning: true, crashed: false},
		{name: "building critical", terrain: 0, building: 15, warning: true, crashed: false},
		{name: "building crash", terrain: 0, building: 3, warning: true, crashed: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, env := newTestSim()
			env.terrain = tc.terrain
			env.building = tc.building

			s.RunFor(tick)

			if s.Collision.Warning != tc.warning {
				t.Errorf("got warning %v, expected %v", s.Collision.Warning, tc.warning)
			}
			if s.Collision.Crashed != tc.crashed {
				t.Errorf("got crashed %v, expected %v", s.Collision.Crashed, tc.crashed)
			}
		})
	}
}

func TestWarningTimerAccumulates(t *testing.T) {
	s, env := newTestSim()
	env.terrain = 450 // 50 m clearance: warning band, no crash

	s.RunFor(time.Second)

	if !s.Collision.Warning {
		t.Fatalf("expected an active warning")
	}
	if !near(s.Collision.WarningTimer, 1) {
		t.Errorf("got timer %v, expected 1", s.Collision.WarningTimer)
	}
	if s.Collision.Crashed {
		t.Errorf("got a crash at 50 m clearance, expected none")
	}
}

func TestWarningClears(t *testing.T) {
	s, env := newTestSim()
	env.terrain = 450

	sub := s.Subscribe()
	defer sub.Unsubscribe()

	s.RunFor(time.Second)
	if !s.Collision.Warning {
		t.Fatalf("expected an active warning")
	}

	env.terrain = 0
	s.RunFor(tick)

	if s.Collision.Warning {
		t.Errorf("expected the warning cleared")
	}
	if s.Collision.WarningTimer != 0 {
		t.Errorf("got timer %v, expected reset to 0", s.Collision.WarningTimer)
	}

	events := sub.Get()
	if !containsEvent(events, CollisionWarningEvent) {
		t.Errorf("expected a warning event")
	}
	if !containsEvent(events, CollisionClearedEvent) {
		t.Errorf("expected a cleared event")
	}

	// The warning event fires on the transition, not every tick.
	n := 0
	for _, e := range events {
		if e.Type == CollisionWarningEvent {
			n++
		}
	}
	if n != 1 {
		t.Errorf("got %d warning events, expected 1", n)
	}
}

func TestCrashCause(t *testing.T) {
	s, env := newTestSim()
	env.terrain = 0
	env.building = 3

	sub := s.Subscribe()
	defer sub.Unsubscribe()

	s.RunFor(tick)

	if !s.Collision.Crashed {
		t.Fatalf("expected a crash")
	}
	for _, e := range sub.Get() {
		if e.Type == CrashEvent && e.Message != "building impact" {
			t.Errorf("got crash cause %q, expected building impact", e.Message)
		}
	}
}
