// mission/mission.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package mission implements the scripted mission autopilot: a fixed
// sequence of flight segments (warm-up and take-off through landing), each
// with its own control policy, flown one after another until the mission
// completes.
package mission

import "fmt"

type Phase int

const (
	PhaseWUTO Phase = iota
	PhaseClimb
	PhaseCruise
	PhaseTurn
	PhaseDescent
	PhaseLanding
	PhaseComplete
)

func (p Phase) String() string {
	return []string{"WUTO", "CLIMB", "CRUISE", "TURN", "DESCENT", "LANDING", "COMPLETE"}[p]
}

// Segment is one leg of the mission profile. LocalElapsed accumulates only
// while the segment is active and is zeroed on mission reset. Progress is
// segment-defined: WUTO uses it as its warm-up timer, CRUISE mirrors the
// cumulative range into it.
type Segment struct {
	Phase          Phase   `json:"phase"`
	TargetAltitude float32 `json:"target_altitude"` // m
	TargetSpeed    float32 `json:"target_speed"`    // m/s
	Duration       float32 `json:"duration"`        // s; 0 for distance-based segments
	Distance       float32 `json:"distance"`        // m; 0 for time-based segments
	Completed      bool    `json:"completed"`
	Progress       float32 `json:"progress"`
	LocalElapsed   float32 `json:"local_elapsed"` // s
}

// Sample is one entry of the recorded mission profile, taken at most once
// per whole second of mission time.
type Sample struct {
	Altitude float32 `json:"altitude"`
	Range    float32 `json:"range"`
	Fuel     float32 `json:"fuel"`
	Phase    Phase   `json:"phase"`
}

// Profile is the mission state: the segment list, the cursor into it, and
// the accumulated bookkeeping.
type Profile struct {
	Segments []Segment `json:"segments"`
	Current  int       `json:"current"` // active segment index; len(Segments) once complete
	Complete bool      `json:"complete"`

	TotalTime     float32 `json:"total_time"`     // s of mission time
	TotalDistance float32 `json:"total_distance"` // m, mirrors the aircraft's cumulative range

	History []Sample `json:"history"`
}

// NewProfile returns the standard six-segment mission: warm-up and
// take-off, minimum-fuel climb, cruise, sustained turn, descent, and
// landing approach.
func NewProfile() *Profile {
	return &Profile{
		Segments: []Segment{
			{Phase: PhaseWUTO, TargetAltitude: 100, TargetSpeed: 80, Duration: 60},
			{Phase: PhaseClimb, TargetAltitude: 5000, TargetSpeed: 150, Distance: 50000},
			{Phase: PhaseCruise, TargetAltitude: 5000, TargetSpeed: 200, Distance: 200000},
			{Phase: PhaseTurn, TargetAltitude: 5000, TargetSpeed: 180, Duration: 120},
			{Phase: PhaseDescent, TargetAltitude: 500, TargetSpeed: 150, Distance: 40000},
			{Phase: PhaseLanding, TargetAltitude: 0, TargetSpeed: 70, Distance: 10000},
		},
	}
}

// Update advances the mission by dt given the aircraft's current state and
// returns the control command for this tick. Once the mission is complete
// it returns an empty command and accumulates nothing further.
func (mp *Profile) Update(dt float32, fs FlightState) ControlCommand {
	var cmd ControlCommand
	if mp.Complete || mp.Current >= len(mp.Segments) {
		return cmd
	}

	seg := &mp.Segments[mp.Current]
	seg.LocalElapsed += dt

	switch seg.Phase {
	case PhaseWUTO:
		mp.updateWUTO(seg, dt, fs, &cmd)
	case PhaseClimb:
		mp.updateClimb(seg, dt, fs, &cmd)
	case PhaseCruise:
		mp.updateCruise(seg, fs, &cmd)
	case PhaseTurn:
		mp.updateTurn(seg, fs, &cmd)
	case PhaseDescent:
		mp.updateDescent(seg, dt, fs, &cmd)
	case PhaseLanding:
		mp.updateLanding(seg, dt, fs, &cmd)
	default:
		panic(fmt.Sprintf("unexpected segment phase %v", seg.Phase))
	}

	mp.TotalTime += dt
	mp.TotalDistance = fs.TotalRange
	mp.recordSample(fs)

	if seg.Completed {
		mp.Current++
		if mp.Current >= len(mp.Segments) {
			mp.Complete = true
		}
	}
	return cmd
}

// recordSample appends at most one history sample per whole second of
// mission time.
func (mp *Profile) recordSample(fs FlightState) {
	if int(mp.TotalTime) > len(mp.History) {
		mp.History = append(mp.History, Sample{
			Altitude: fs.Altitude,
			Range:    fs.TotalRange,
			Fuel:     fs.FuelMass,
			Phase:    mp.Phase(),
		})
	}
}

// Phase returns the active mission phase, PhaseComplete once all segments
// are done.
func (mp *Profile) Phase() Phase {
	if mp.Current < len(mp.Segments) {
		return mp.Segments[mp.Current].Phase
	}
	return PhaseComplete
}

// CurrentSegment returns the active segment, or nil once the mission is
// complete.
func (mp *Profile) CurrentSegment() *Segment {
	if mp.Current < len(mp.Segments) {
		return &mp.Segments[mp.Current]
	}
	return nil
}

// Progress returns overall mission completion as a percentage of segments
// finished.
func (mp *Profile) Progress() float32 {
	if len(mp.Segments) == 0 {
		return 0
	}
	return float32(mp.Current) / float32(len(mp.Segments)) * 100
}

// Reset rewinds the mission to its start: cursor, bookkeeping, per-segment
// state, and the recorded history.
func (mp *Profile) Reset() {
	mp.Current = 0
	mp.Complete = false
	mp.TotalTime = 0
	mp.TotalDistance = 0
	mp.History = nil
	for i := range mp.Segments {
		mp.Segments[i].Completed = false
		mp.Segments[i].Progress = 0
		mp.Segments[i].LocalElapsed = 0
	}
}
