// mission/segments.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import "github.com/mmp/aloft/math"

// updateWUTO holds 30% throttle through a 30 second engine warm-up, then
// goes to full throttle for the take-off run. Completion is only checked
// once the warm-up is over.
func (mp *Profile) updateWUTO(seg *Segment, dt float32, fs FlightState, cmd *ControlCommand) {
	if seg.Progress < 30 {
		throttle := float32(0.3)
		cmd.Throttle = &throttle
		seg.Progress += dt
		return
	}

	throttle := float32(1)
	cmd.Throttle = &throttle
	if fs.Altitude >= seg.TargetAltitude {
		seg.Completed = true
	}
}

// updateClimb flies the minimum-fuel climb: pitch walks toward a target
// scaled by the remaining altitude error while the throttle chases the
// segment speed.
func (mp *Profile) updateClimb(seg *Segment, dt float32, fs FlightState, cmd *ControlCommand) {
	if fs.Altitude >= seg.TargetAltitude {
		seg.Completed = true
		pitch := float32(0)
		cmd.Pitch = &pitch
		return
	}

	desired := min(0.3, (seg.TargetAltitude-fs.Altitude)/1000)
	pitch := fs.Pitch
	if pitch < desired {
		pitch += 0.5 * dt
	} else if pitch > desired {
		pitch -= 0.5 * dt
	}
	cmd.Pitch = &pitch

	throttle := fs.Throttle
	if fs.Speed < seg.TargetSpeed {
		throttle = min(1, throttle+dt*0.5)
	} else {
		throttle = max(0.5, throttle-dt*0.5)
	}
	cmd.Throttle = &throttle
}

// updateCruise holds altitude with a proportional pitch and trims the
// throttle toward the segment speed, leaving it alone inside a 5 m/s
// deadband.
func (mp *Profile) updateCruise(seg *Segment, fs FlightState, cmd *ControlCommand) {
	pitch := (seg.TargetAltitude - fs.Altitude) * 0.001
	cmd.Pitch = &pitch

	if speedError := seg.TargetSpeed - fs.Speed; math.Abs(speedError) > 5 {
		throttle := math.Clamp(fs.Throttle+speedError*0.01, 0.3, 1)
		cmd.Throttle = &throttle
	}

	seg.Progress = fs.TotalRange
	if seg.Progress >= seg.Distance {
		seg.Completed = true
	}
}

// updateTurn flies a sustained 30 degree banked turn, holding altitude and
// yawing at the coordinated turn rate for the segment speed. The wings
// come level when the turn time is up.
func (mp *Profile) updateTurn(seg *Segment, fs FlightState, cmd *ControlCommand) {
	const bankAngle = math.Pi / 6

	pitch := (seg.TargetAltitude - fs.Altitude) * 0.001
	cmd.Pitch = &pitch

	bank := float32(bankAngle)
	cmd.Bank = &bank
	yawRate := 9.81 * math.Tan(bankAngle) / seg.TargetSpeed
	cmd.YawRate = &yawRate

	if seg.LocalElapsed >= seg.Duration {
		seg.Completed = true
		level := float32(0)
		cmd.Bank = &level
	}
}

// updateDescent eases the nose down toward a shallow descent attitude and
// bleeds off throttle until reaching the target altitude. Pitch is only
// ever lowered here; leveling off happens on completion.
func (mp *Profile) updateDescent(seg *Segment, dt float32, fs FlightState, cmd *ControlCommand) {
	if fs.Altitude <= seg.TargetAltitude {
		seg.Completed = true
		pitch := float32(0)
		cmd.Pitch = &pitch
		return
	}

	desired := -min(0.2, (fs.Altitude-seg.TargetAltitude)/2000)
	if fs.Pitch > desired {
		pitch := fs.Pitch - 0.3*dt
		cmd.Pitch = &pitch
	}

	throttle := max(0.2, fs.Throttle-dt*0.3)
	cmd.Throttle = &throttle
}

// updateLanding bleeds speed on final and holds a shallow nose-down
// attitude until below 10 m, where the aircraft is stopped and the mission
// segment ends.
func (mp *Profile) updateLanding(seg *Segment, dt float32, fs FlightState, cmd *ControlCommand) {
	if fs.Speed > seg.TargetSpeed {
		throttle := max(0.1, fs.Throttle-dt*0.5)
		cmd.Throttle = &throttle
	}

	if fs.Altitude > 10 {
		pitch := float32(-0.1)
		cmd.Pitch = &pitch
	} else {
		seg.Completed = true
		throttle := float32(0)
		cmd.Throttle = &throttle
		cmd.Stop = true
	}
}
