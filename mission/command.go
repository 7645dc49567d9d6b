// mission/command.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

// FlightState is the read-only view of the aircraft that segment policies
// work from; the mission never touches the aircraft directly.
type FlightState struct {
	Altitude   float32 // m
	Speed      float32 // m/s
	Pitch      float32 // radians
	Throttle   float32 // [0,1]
	FuelMass   float32 // kg
	TotalRange float32 // m, cumulative horizontal distance flown
}

// ControlCommand carries one tick's autopilot outputs. Pitch, Bank, and
// Throttle are absolute settings; YawRate is integrated over the tick's dt
// by the applier. Nil fields leave the corresponding control untouched.
type ControlCommand struct {
	Pitch    *float32 // radians
	Bank     *float32 // radians
	Throttle *float32 // [0,1]
	YawRate  *float32 // radians/s
	Stop     bool     // hard landing stop: throttle 0, velocity zeroed
}
