// sim/aircraft.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"github.com/mmp/aloft/aero"
	"github.com/mmp/aloft/math"
	"github.com/mmp/aloft/mission"
)

const (
	// Manual control rates, all per second of simulated time.
	pitchRate    = 1.5 // radians
	rollRate     = 2.0 // radians
	yawInputRate = 1.0 // radians
	throttleRate = 1.0 // full scale

	// Manual pitch and roll are clamped; the autopilot is not subject to
	// these and writes attitude directly.
	maxManualPitch = math.Pi / 6
	maxManualRoll  = math.Pi / 3

	// The ground plane for the physics integrator. Collision handling
	// happens against the terrain elsewhere; this is just the floor that
	// keeps the integrator out of negative altitudes.
	floorAltitude = 10 // m

	gravity = 9.81 // m/s^2

	initialAltitude     = 500 // m
	initialSpeed        = 100 // m/s
	initialFuelFraction = 0.8
)

// ControlInput carries one tick's worth of manual control: each field is
// true if the corresponding control was active during the tick. Inputs
// accumulate between ticks and are consumed by the first tick that sees
// them.
type ControlInput struct {
	PitchUp      bool
	PitchDown    bool
	RollLeft     bool
	RollRight    bool
	YawLeft      bool
	YawRight     bool
	ThrottleUp   bool
	ThrottleDown bool
	Level        bool // damp pitch and roll toward zero
}

// Merge folds another tick's input into this one.
func (ci *ControlInput) Merge(other ControlInput) {
	ci.PitchUp = ci.PitchUp || other.PitchUp
	ci.PitchDown = ci.PitchDown || other.PitchDown
	ci.RollLeft = ci.RollLeft || other.RollLeft
	ci.RollRight = ci.RollRight || other.RollRight
	ci.YawLeft = ci.YawLeft || other.YawLeft
	ci.YawRight = ci.YawRight || other.YawRight
	ci.ThrottleUp = ci.ThrottleUp || other.ThrottleUp
	ci.ThrottleDown = ci.ThrottleDown || other.ThrottleDown
	ci.Level = ci.Level || other.Level
}

// TrackPoint is one sample of the flight track, recorded once per second
// of mission time.
type TrackPoint struct {
	Time     float32 `json:"time"`
	Altitude float32 `json:"altitude"`
	Speed    float32 `json:"speed"`
	Fuel     float32 `json:"fuel"`
	Range    float32 `json:"range"`
}

// Aircraft is the point-mass flight dynamics model. Position is world
// space [x, altitude, z] in meters with +y up; attitude is Euler angles in
// radians with pitch doubling as the angle of attack.
type Aircraft struct {
	Position [3]float32 `json:"position"`
	Velocity [3]float32 `json:"velocity"`
	Pitch    float32    `json:"pitch"`
	Yaw      float32    `json:"yaw"`
	Roll     float32    `json:"roll"`

	Params aero.Parameters `json:"params"`
	Polar  aero.Polar      `json:"polar"`

	FuelMass float32 `json:"fuel_mass"` // kg
	Throttle float32 `json:"throttle"`  // [0,1]

	MissionTime float32 `json:"mission_time"` // s
	TotalRange  float32 `json:"total_range"`  // m, cumulative horizontal distance

	Track []TrackPoint `json:"track"`
}

func NewAircraft(params aero.Parameters) *Aircraft {
	ac := &Aircraft{
		Params: params,
		Polar:  aero.DefaultPolar(),
	}
	ac.Reset()
	return ac
}

// Reset returns the aircraft to its spawn state: airborne at 500 m, flying
// straight and level along +z at 100 m/s with 80% fuel.
func (ac *Aircraft) Reset() {
	ac.Position = [3]float32{0, initialAltitude, 0}
	ac.Velocity = [3]float32{0, 0, initialSpeed}
	ac.Pitch, ac.Yaw, ac.Roll = 0, 0, 0
	ac.Throttle = 0.5
	ac.FuelMass = ac.Params.FuelCapacity * initialFuelFraction
	ac.MissionTime = 0
	ac.TotalRange = 0
	ac.Track = nil
}

func (ac *Aircraft) Altitude() float32 { return ac.Position[1] }

func (ac *Aircraft) Speed() float32 { return math.Length3f(ac.Velocity) }

func (ac *Aircraft) VerticalSpeed() float32 { return ac.Velocity[1] }

// Heading returns the aircraft's heading in degrees, [0,360).
func (ac *Aircraft) Heading() float32 {
	return math.NormalizeHeading(math.Degrees(ac.Yaw))
}

func (ac *Aircraft) TotalMass() float32 {
	return ac.Params.Mass + ac.FuelMass
}

// FlightState returns the read-only view of the aircraft that the mission
// autopilot plans against.
func (ac *Aircraft) FlightState() mission.FlightState {
	return mission.FlightState{
		Altitude:   ac.Position[1],
		Speed:      ac.Speed(),
		Pitch:      ac.Pitch,
		Throttle:   ac.Throttle,
		FuelMass:   ac.FuelMass,
		TotalRange: ac.TotalRange,
	}
}

// Update advances the aircraft by dt seconds: manual control inputs are
// applied first, then the forces are integrated, fuel is burned, and the
// flight track sampled. Fuel exhaustion forces the throttle to zero before
// anything else so that a dry tank can't hold thrust for even one tick.
func (ac *Aircraft) Update(dt float32, input ControlInput) {
	if ac.FuelMass <= 0 {
		ac.Throttle = 0
	}

	if input.PitchUp {
		ac.Pitch = min(maxManualPitch, ac.Pitch+pitchRate*dt)
	}
	if input.PitchDown {
		ac.Pitch = max(-maxManualPitch, ac.Pitch-pitchRate*dt)
	}
	if input.RollLeft {
		ac.Roll = max(-maxManualRoll, ac.Roll-rollRate*dt)
	}
	if input.RollRight {
		ac.Roll = min(maxManualRoll, ac.Roll+rollRate*dt)
	}
	if input.YawLeft {
		ac.Yaw -= yawInputRate * dt
	}
	if input.YawRight {
		ac.Yaw += yawInputRate * dt
	}
	if input.ThrottleUp {
		ac.Throttle = min(1, ac.Throttle+throttleRate*dt)
	}
	if input.ThrottleDown {
		ac.Throttle = max(0, ac.Throttle-throttleRate*dt)
	}
	if input.Level {
		ac.Pitch *= 0.95
		ac.Roll *= 0.95
	}

	ac.updatePhysics(dt)
	ac.updateFuel(dt)
	ac.updateTrack(dt)
}

// ApplyCommand applies one tick's autopilot outputs. Attitude and throttle
// settings are absolute and bypass the manual clamps; the yaw rate is
// integrated over the tick.
func (ac *Aircraft) ApplyCommand(cmd mission.ControlCommand, dt float32) {
	if cmd.Pitch != nil {
		ac.Pitch = *cmd.Pitch
	}
	if cmd.Bank != nil {
		ac.Roll = *cmd.Bank
	}
	if cmd.Throttle != nil {
		ac.Throttle = *cmd.Throttle
	}
	if cmd.YawRate != nil {
		ac.Yaw += *cmd.YawRate * dt
	}
	if cmd.Stop {
		ac.Throttle = 0
		ac.Velocity = [3]float32{}
	}
}

// thrust returns the current engine thrust in Newtons. Available thrust
// falls off linearly with altitude and with speed.
func (ac *Aircraft) thrust() float32 {
	altitudeFactor := float32(0.5)
	if alt := ac.Position[1]; alt < 20000 {
		altitudeFactor = 1 - alt/20000
	}

	speedFactor := float32(0)
	if speed := ac.Speed(); speed < 1000 {
		speedFactor = 1 - speed/1000
	}

	return ac.Params.MaxThrust * ac.Throttle * altitudeFactor * speedFactor
}

// lift returns the lift force in Newtons for the given angle of attack.
func (ac *Aircraft) lift(alpha float32) float32 {
	v := ac.Speed()
	if v < 0.1 {
		return 0
	}

	rho := aero.Density(ac.Position[1])
	cl := math.Clamp(ac.Polar.CL0+ac.Polar.CLAlpha*alpha, -aero.CLMax, aero.CLMax)

	return 0.5 * rho * v * v * ac.Params.WingArea * cl
}

// drag returns the drag force in Newtons for the given angle of attack.
// Note that the induced term uses the unclamped lift coefficient, so drag
// keeps growing past the stall limit even though lift does not.
func (ac *Aircraft) drag(alpha float32) float32 {
	v := ac.Speed()
	if v < 0.1 {
		return 0
	}

	rho := aero.Density(ac.Position[1])
	cl := ac.Polar.CL0 + ac.Polar.CLAlpha*alpha
	cd := ac.Polar.CD0 + ac.Polar.InducedK*cl*cl

	return 0.5 * rho * v * v * ac.Params.WingArea * cd
}

func (ac *Aircraft) updatePhysics(dt float32) {
	speed := ac.Speed()

	// Treat the pitch angle as the angle of attack; good enough for a
	// point-mass model that doesn't track the flight path angle separately.
	var alpha float32
	if speed > 0.1 {
		alpha = ac.Pitch
	}

	thrust := ac.thrust()
	lift := ac.lift(alpha)
	drag := ac.drag(alpha)

	// Thrust acts along the body axis: pitch tilts it out of the horizontal
	// plane and yaw swings it around +y.
	cosPitch, sinPitch := math.Cos(ac.Pitch), math.Sin(ac.Pitch)
	cosYaw, sinYaw := math.Cos(ac.Yaw), math.Sin(ac.Yaw)
	thrustDir := [3]float32{cosPitch * sinYaw, sinPitch, cosPitch * cosYaw}

	mass := ac.TotalMass()
	accel := math.Scale3f(thrustDir, thrust/mass)
	if speed > 0.1 {
		accel = math.Add3f(accel, math.Scale3f(math.Normalize3f(ac.Velocity), -drag/mass))
	}
	accel[1] += lift/mass - gravity

	ac.Velocity = math.Add3f(ac.Velocity, math.Scale3f(accel, dt))

	if s := math.Length3f(ac.Velocity); s > aero.MaxSpeed {
		ac.Velocity = math.Scale3f(math.Normalize3f(ac.Velocity), aero.MaxSpeed)
	}

	ac.Position = math.Add3f(ac.Position, math.Scale3f(ac.Velocity, dt))

	if ac.Position[1] < floorAltitude {
		ac.Position[1] = floorAltitude
		if ac.Velocity[1] < 0 {
			ac.Velocity[1] = 0
		}
	}
	if ac.Position[1] > aero.ServiceCeiling {
		ac.Position[1] = aero.ServiceCeiling
	}
}

// updateFuel burns fuel in proportion to throttle, with a bonus to
// efficiency at altitude.
func (ac *Aircraft) updateFuel(dt float32) {
	burn := ac.Params.FuelFlowRate * ac.Throttle * dt

	efficiency := float32(0.5)
	if alt := ac.Position[1]; alt < 15000 {
		efficiency = 1 - alt/30000
	}
	burn *= efficiency

	ac.FuelMass = max(0, ac.FuelMass-burn)
}

// updateTrack advances the mission clock and range and records a track
// sample once per second of mission time.
func (ac *Aircraft) updateTrack(dt float32) {
	ac.MissionTime += dt
	ac.TotalRange += math.Length2f([2]float32{ac.Velocity[0], ac.Velocity[2]}) * dt

	if int(ac.MissionTime) > len(ac.Track) {
		ac.Track = append(ac.Track, TrackPoint{
			Time:     ac.MissionTime,
			Altitude: ac.Position[1],
			Speed:    ac.Speed(),
			Fuel:     ac.FuelMass,
			Range:    ac.TotalRange,
		})
	}
}
