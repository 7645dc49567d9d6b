// mission/mission_test.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import (
	"testing"

	"github.com/mmp/aloft/math"
)

func near(a, b float32) bool {
	return math.Abs(a-b) < 1e-4
}

// tick runs n updates against a fixed flight state and returns the last
// command.
func tick(mp *Profile, fs FlightState, dt float32, n int) ControlCommand {
	var cmd ControlCommand
	for range n {
		cmd = mp.Update(dt, fs)
	}
	return cmd
}

func TestDefaultProfile(t *testing.T) {
	mp := NewProfile()
	if len(mp.Segments) != 6 {
		t.Fatalf("got %d segments, expected 6", len(mp.Segments))
	}

	expected := []Phase{PhaseWUTO, PhaseClimb, PhaseCruise, PhaseTurn, PhaseDescent, PhaseLanding}
	for i, ph := range expected {
		if mp.Segments[i].Phase != ph {
			t.Errorf("segment %d phase = %v, expected %v", i, mp.Segments[i].Phase, ph)
		}
	}

	if seg := mp.Segments[2]; seg.TargetAltitude != 5000 || seg.TargetSpeed != 200 || seg.Distance != 200000 {
		t.Errorf("cruise segment = %+v, expected alt 5000 speed 200 distance 200000", seg)
	}
	if seg := mp.Segments[3]; seg.Duration != 120 {
		t.Errorf("turn duration = %v, expected 120", seg.Duration)
	}
	if mp.Phase() != PhaseWUTO {
		t.Errorf("initial phase = %v, expected %v", mp.Phase(), PhaseWUTO)
	}
}

func TestPhaseString(t *testing.T) {
	for ph, s := range map[Phase]string{
		PhaseWUTO:     "WUTO",
		PhaseCruise:   "CRUISE",
		PhaseLanding:  "LANDING",
		PhaseComplete: "COMPLETE",
	} {
		if ph.String() != s {
			t.Errorf("got %q, expected %q", ph.String(), s)
		}
	}
}

func TestWUTOWarmup(t *testing.T) {
	mp := NewProfile()
	fs := FlightState{Altitude: 0, Speed: 0, Throttle: 0.5}

	// 30 seconds of warm-up at 30% throttle.
	cmd := tick(mp, fs, 0.5, 60)
	if cmd.Throttle == nil || !near(*cmd.Throttle, 0.3) {
		t.Errorf("warm-up throttle = %v, expected 0.3", cmd.Throttle)
	}

	// Past warm-up: full throttle for take-off.
	cmd = mp.Update(0.5, fs)
	if cmd.Throttle == nil || *cmd.Throttle != 1 {
		t.Errorf("take-off throttle = %v, expected 1", cmd.Throttle)
	}
	if mp.Phase() != PhaseWUTO {
		t.Errorf("phase = %v, expected still %v below target altitude", mp.Phase(), PhaseWUTO)
	}

	// Reaching 100 m completes the segment.
	mp.Update(0.5, FlightState{Altitude: 120, Speed: 85})
	if mp.Phase() != PhaseClimb {
		t.Errorf("phase = %v, expected %v after take-off", mp.Phase(), PhaseClimb)
	}
	if !mp.Segments[0].Completed {
		t.Errorf("WUTO segment not marked completed")
	}
}

func TestWUTOAltitudeIgnoredDuringWarmup(t *testing.T) {
	mp := NewProfile()
	// Altitude above target must not complete the segment while warming up.
	cmd := tick(mp, FlightState{Altitude: 500}, 0.5, 30)
	if mp.Segments[0].Completed {
		t.Errorf("segment completed during warm-up")
	}
	if cmd.Throttle == nil || !near(*cmd.Throttle, 0.3) {
		t.Errorf("warm-up throttle = %v, expected 0.3", cmd.Throttle)
	}
}

func TestWUTOAfter31Seconds(t *testing.T) {
	mp := NewProfile()
	cmd := tick(mp, FlightState{Altitude: 20, Speed: 40}, 0.5, 62)
	if cmd.Throttle == nil || *cmd.Throttle != 1 {
		t.Errorf("throttle at 31s = %v, expected 1", cmd.Throttle)
	}
	if mp.Phase() != PhaseWUTO {
		t.Errorf("phase at 31s = %v, expected %v", mp.Phase(), PhaseWUTO)
	}
}

func TestClimbPolicy(t *testing.T) {
	const dt = 0.1

	for _, tc := range []struct {
		fs          FlightState
		expPitch    float32
		expThrottle float32
	}{
		// Far below target: full 0.3 rad pitch target, nose comes up.
		{fs: FlightState{Altitude: 1000, Speed: 100, Pitch: 0, Throttle: 0.8},
			expPitch: 0 + 0.5*dt, expThrottle: 0.85},
		// Near target: small desired pitch, nose comes down.
		{fs: FlightState{Altitude: 4990, Speed: 160, Pitch: 0.3, Throttle: 0.6},
			expPitch: 0.3 - 0.5*dt, expThrottle: 0.55},
	} {
		mp := NewProfile()
		mp.Current = 1
		cmd := mp.Update(dt, tc.fs)
		if cmd.Pitch == nil || !near(*cmd.Pitch, tc.expPitch) {
			t.Errorf("climb pitch = %v, expected %v", cmd.Pitch, tc.expPitch)
		}
		if cmd.Throttle == nil || !near(*cmd.Throttle, tc.expThrottle) {
			t.Errorf("climb throttle = %v, expected %v", cmd.Throttle, tc.expThrottle)
		}
	}
}

func TestClimbThrottleFloors(t *testing.T) {
	mp := NewProfile()
	mp.Current = 1

	// Fast and already at minimum cruise throttle: held at the 0.5 floor.
	cmd := mp.Update(0.1, FlightState{Altitude: 2000, Speed: 200, Throttle: 0.5})
	if cmd.Throttle == nil || !near(*cmd.Throttle, 0.5) {
		t.Errorf("climb throttle = %v, expected 0.5 floor", cmd.Throttle)
	}

	// Slow at full throttle: capped at 1.
	cmd = mp.Update(0.1, FlightState{Altitude: 2000, Speed: 100, Throttle: 1})
	if cmd.Throttle == nil || *cmd.Throttle != 1 {
		t.Errorf("climb throttle = %v, expected 1 cap", cmd.Throttle)
	}
}

func TestClimbCompletion(t *testing.T) {
	mp := NewProfile()
	mp.Current = 1
	cmd := mp.Update(0.1, FlightState{Altitude: 5000, Speed: 150, Pitch: 0.2})
	if !mp.Segments[1].Completed {
		t.Fatalf("climb not completed at target altitude")
	}
	if cmd.Pitch == nil || *cmd.Pitch != 0 {
		t.Errorf("completion pitch = %v, expected level 0", cmd.Pitch)
	}
	if cmd.Throttle != nil {
		t.Errorf("completion throttle = %v, expected nil", *cmd.Throttle)
	}
	if mp.Phase() != PhaseCruise {
		t.Errorf("phase = %v, expected %v", mp.Phase(), PhaseCruise)
	}
}

func TestCruiseThrottle(t *testing.T) {
	// 50 m/s slow: +0.5 throttle correction.
	mp := NewProfile()
	mp.Current = 2
	cmd := mp.Update(0.1, FlightState{Altitude: 5000, Speed: 150, Throttle: 0.4})
	if cmd.Throttle == nil || !near(*cmd.Throttle, 0.9) {
		t.Errorf("cruise throttle = %v, expected 0.9", cmd.Throttle)
	}

	// Inside the 5 m/s deadband: no throttle command.
	cmd = mp.Update(0.1, FlightState{Altitude: 5000, Speed: 198, Throttle: 0.7})
	if cmd.Throttle != nil {
		t.Errorf("cruise throttle = %v, expected nil inside deadband", *cmd.Throttle)
	}

	// Fast: correction clamped at the 0.3 floor.
	cmd = mp.Update(0.1, FlightState{Altitude: 5000, Speed: 250, Throttle: 0.4})
	if cmd.Throttle == nil || !near(*cmd.Throttle, 0.3) {
		t.Errorf("cruise throttle = %v, expected 0.3 floor", cmd.Throttle)
	}
}

func TestCruisePitchHold(t *testing.T) {
	mp := NewProfile()
	mp.Current = 2
	cmd := mp.Update(0.1, FlightState{Altitude: 4800, Speed: 200})
	if cmd.Pitch == nil || !near(*cmd.Pitch, 0.2) {
		t.Errorf("cruise pitch = %v, expected 0.2", cmd.Pitch)
	}

	cmd = mp.Update(0.1, FlightState{Altitude: 5200, Speed: 200})
	if cmd.Pitch == nil || !near(*cmd.Pitch, -0.2) {
		t.Errorf("cruise pitch = %v, expected -0.2", cmd.Pitch)
	}
}

func TestCruiseCompletion(t *testing.T) {
	mp := NewProfile()
	mp.Current = 2

	mp.Update(0.1, FlightState{Altitude: 5000, Speed: 200, TotalRange: 199999})
	if mp.Segments[2].Completed {
		t.Fatalf("cruise completed before range")
	}
	mp.Update(0.1, FlightState{Altitude: 5000, Speed: 200, TotalRange: 200000})
	if !mp.Segments[2].Completed {
		t.Fatalf("cruise not completed at range")
	}
	if !near(mp.Segments[2].Progress, 200000) {
		t.Errorf("cruise progress = %v, expected 200000", mp.Segments[2].Progress)
	}
	if mp.Phase() != PhaseTurn {
		t.Errorf("phase = %v, expected %v", mp.Phase(), PhaseTurn)
	}
}

func TestTurn(t *testing.T) {
	mp := NewProfile()
	mp.Current = 3
	fs := FlightState{Altitude: 5000, Speed: 180}

	cmd := tick(mp, fs, 0.5, 239)
	if cmd.Bank == nil || !near(*cmd.Bank, math.Pi/6) {
		t.Errorf("turn bank = %v, expected %v", cmd.Bank, float32(math.Pi/6))
	}
	expRate := 9.81 * math.Tan(math.Pi/6) / 180
	if cmd.YawRate == nil || !near(*cmd.YawRate, expRate) {
		t.Errorf("turn yaw rate = %v, expected %v", cmd.YawRate, expRate)
	}
	if mp.Segments[3].Completed {
		t.Fatalf("turn completed before 120s")
	}

	// 120 seconds of segment time: wings level, segment done.
	cmd = mp.Update(0.5, fs)
	if !mp.Segments[3].Completed {
		t.Fatalf("turn not completed at 120s")
	}
	if cmd.Bank == nil || *cmd.Bank != 0 {
		t.Errorf("completion bank = %v, expected 0", cmd.Bank)
	}
	if !near(mp.Segments[3].LocalElapsed, 120) {
		t.Errorf("turn local elapsed = %v, expected 120", mp.Segments[3].LocalElapsed)
	}
}

func TestDescent(t *testing.T) {
	const dt = 0.5
	mp := NewProfile()
	mp.Current = 4

	// High above target: nose eases down, throttle bleeds off.
	cmd := mp.Update(dt, FlightState{Altitude: 3000, Speed: 160, Pitch: 0, Throttle: 0.8})
	if cmd.Pitch == nil || !near(*cmd.Pitch, -0.3*dt) {
		t.Errorf("descent pitch = %v, expected %v", cmd.Pitch, -0.3*dt)
	}
	if cmd.Throttle == nil || !near(*cmd.Throttle, 0.65) {
		t.Errorf("descent throttle = %v, expected 0.65", cmd.Throttle)
	}

	// Pitch already below the desired descent attitude: left alone.
	cmd = mp.Update(dt, FlightState{Altitude: 3000, Speed: 160, Pitch: -0.3, Throttle: 0.3})
	if cmd.Pitch != nil {
		t.Errorf("descent pitch = %v, expected nil below target attitude", *cmd.Pitch)
	}
	if cmd.Throttle == nil || !near(*cmd.Throttle, 0.2) {
		t.Errorf("descent throttle = %v, expected 0.2 floor", cmd.Throttle)
	}

	// At target altitude: level off and advance.
	cmd = mp.Update(dt, FlightState{Altitude: 500, Speed: 150, Pitch: -0.1})
	if !mp.Segments[4].Completed {
		t.Fatalf("descent not completed at target altitude")
	}
	if cmd.Pitch == nil || *cmd.Pitch != 0 {
		t.Errorf("completion pitch = %v, expected 0", cmd.Pitch)
	}
	if mp.Phase() != PhaseLanding {
		t.Errorf("phase = %v, expected %v", mp.Phase(), PhaseLanding)
	}
}

func TestLanding(t *testing.T) {
	const dt = 0.5
	mp := NewProfile()
	mp.Current = 5

	// On final: slowing down, shallow nose-down attitude.
	cmd := mp.Update(dt, FlightState{Altitude: 50, Speed: 100, Throttle: 0.5})
	if cmd.Throttle == nil || !near(*cmd.Throttle, 0.25) {
		t.Errorf("landing throttle = %v, expected 0.25", cmd.Throttle)
	}
	if cmd.Pitch == nil || !near(*cmd.Pitch, -0.1) {
		t.Errorf("landing pitch = %v, expected -0.1", cmd.Pitch)
	}
	if cmd.Stop {
		t.Errorf("stop commanded above touchdown altitude")
	}

	// Throttle floor while still fast.
	cmd = mp.Update(dt, FlightState{Altitude: 50, Speed: 100, Throttle: 0.1})
	if cmd.Throttle == nil || !near(*cmd.Throttle, 0.1) {
		t.Errorf("landing throttle = %v, expected 0.1 floor", cmd.Throttle)
	}

	// At target speed: throttle left alone.
	cmd = mp.Update(dt, FlightState{Altitude: 50, Speed: 65, Throttle: 0.2})
	if cmd.Throttle != nil {
		t.Errorf("landing throttle = %v, expected nil at target speed", *cmd.Throttle)
	}

	// Touchdown: hard stop and mission complete.
	cmd = mp.Update(dt, FlightState{Altitude: 8, Speed: 65})
	if !cmd.Stop {
		t.Errorf("expected stop command at touchdown")
	}
	if cmd.Throttle == nil || *cmd.Throttle != 0 {
		t.Errorf("touchdown throttle = %v, expected 0", cmd.Throttle)
	}
	if !mp.Complete {
		t.Errorf("mission not complete after landing")
	}
	if mp.Phase() != PhaseComplete {
		t.Errorf("phase = %v, expected %v", mp.Phase(), PhaseComplete)
	}
	if mp.Progress() != 100 {
		t.Errorf("progress = %v, expected 100", mp.Progress())
	}
}

func TestCompleteMissionIsInert(t *testing.T) {
	mp := NewProfile()
	mp.Current = len(mp.Segments)
	mp.Complete = true
	mp.TotalTime = 500

	cmd := mp.Update(0.5, FlightState{Altitude: 100, Speed: 50})
	if cmd.Pitch != nil || cmd.Bank != nil || cmd.Throttle != nil || cmd.YawRate != nil || cmd.Stop {
		t.Errorf("got %+v, expected empty command after completion", cmd)
	}
	if mp.TotalTime != 500 {
		t.Errorf("total time = %v, expected frozen at 500", mp.TotalTime)
	}
}

func TestLocalElapsedOnlyWhileActive(t *testing.T) {
	mp := NewProfile()
	tick(mp, FlightState{}, 0.5, 10)
	if mp.Segments[0].LocalElapsed != 5 {
		t.Errorf("WUTO local elapsed = %v, expected 5", mp.Segments[0].LocalElapsed)
	}
	for i := 1; i < len(mp.Segments); i++ {
		if mp.Segments[i].LocalElapsed != 0 {
			t.Errorf("segment %d local elapsed = %v, expected 0", i, mp.Segments[i].LocalElapsed)
		}
	}
}

func TestProfileSampling(t *testing.T) {
	mp := NewProfile()
	fs := FlightState{Altitude: 42, FuelMass: 12000, TotalRange: 1000}

	mp.Update(0.5, fs)
	if len(mp.History) != 0 {
		t.Errorf("got %d samples before one second, expected 0", len(mp.History))
	}
	mp.Update(0.5, fs)
	if len(mp.History) != 1 {
		t.Fatalf("got %d samples at one second, expected 1", len(mp.History))
	}
	mp.Update(0.5, fs)
	if len(mp.History) != 1 {
		t.Errorf("got %d samples at 1.5s, expected still 1", len(mp.History))
	}
	mp.Update(0.5, fs)
	if len(mp.History) != 2 {
		t.Errorf("got %d samples at two seconds, expected 2", len(mp.History))
	}

	s := mp.History[0]
	if s.Altitude != 42 || s.Fuel != 12000 || s.Range != 1000 || s.Phase != PhaseWUTO {
		t.Errorf("sample = %+v, expected altitude 42 fuel 12000 range 1000 WUTO", s)
	}
}

func TestProgress(t *testing.T) {
	mp := NewProfile()
	if mp.Progress() != 0 {
		t.Errorf("initial progress = %v, expected 0", mp.Progress())
	}
	mp.Current = 3
	if mp.Progress() != 50 {
		t.Errorf("progress = %v, expected 50", mp.Progress())
	}
}

func TestReset(t *testing.T) {
	mp := NewProfile()
	tick(mp, FlightState{Altitude: 42, TotalRange: 100}, 0.5, 10)
	mp.Current = 3
	mp.Segments[0].Completed = true
	mp.Complete = true

	mp.Reset()
	if mp.Current != 0 || mp.Complete {
		t.Errorf("cursor %d complete %v, expected 0 and false", mp.Current, mp.Complete)
	}
	if mp.TotalTime != 0 || mp.TotalDistance != 0 {
		t.Errorf("totals %v/%v, expected 0/0", mp.TotalTime, mp.TotalDistance)
	}
	if len(mp.History) != 0 {
		t.Errorf("got %d samples after reset, expected 0", len(mp.History))
	}
	for i, seg := range mp.Segments {
		if seg.Completed || seg.Progress != 0 || seg.LocalElapsed != 0 {
			t.Errorf("segment %d = %+v, expected cleared", i, seg)
		}
	}
}
