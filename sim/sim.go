// sim/sim.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"io"
	"log/slog"
	"time"

	"github.com/mmp/aloft/aero"
	"github.com/mmp/aloft/log"
	"github.com/mmp/aloft/math"
	"github.com/mmp/aloft/mission"
	"github.com/mmp/aloft/util"

	"github.com/brunoga/deep"
	"github.com/goforj/godump"
)

// TickRate is the fixed physics step frequency; all simulation state
// advances in increments of 1/TickRate seconds of simulated time.
const TickRate = 60

// tick is the wall-clock duration of one step at 1x sim rate.
const tick = time.Second / TickRate

const (
	MinSimRate = 0.25
	MaxSimRate = 8
)

// Environment is the slice of the world that the simulation queries each
// tick: terrain height under a point, distance to the nearest building,
// and whatever ambient animation the world carries.
type Environment interface {
	TerrainHeight(x, z float32) float32
	MinBuildingDistance(p [3]float32) float32
	Update(dt float32)
}

// Sim owns all mutable simulation state and advances it in fixed steps.
// All state is touched only with the mutex held; the HUD and the HTTP
// server work from Snapshot copies.
type Sim struct {
	Aircraft  *Aircraft
	Mission   *mission.Profile
	World     Environment
	Collision CollisionState

	SimRate float32
	Paused  bool

	mu util.LoggingMutex
	lg *log.Logger

	eventStream *EventStream

	lastUpdateTime time.Time
	updateTimeSlop time.Duration

	// Manual control that has arrived since the last tick; consumed by the
	// next tick to run.
	pendingInput ControlInput

	prevPhase mission.Phase
}

func New(params aero.Parameters, env Environment, lg *log.Logger) *Sim {
	s := &Sim{
		Aircraft:       NewAircraft(params),
		Mission:        mission.NewProfile(),
		World:          env,
		SimRate:        1,
		lg:             lg,
		eventStream:    NewEventStream(lg),
		lastUpdateTime: time.Now(),
	}
	s.prevPhase = s.Mission.Phase()
	return s
}

// Update advances the simulation to account for the wall-clock time that
// has passed since the last call, scaled by the sim rate. Callers drive it
// at whatever cadence they like; the fixed steps are carved out of the
// elapsed time here.
func (s *Sim) Update() {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	startUpdate := time.Now()
	defer func() {
		if d := time.Since(startUpdate); d > 200*time.Millisecond {
			s.lg.Warn("unexpectedly long Sim Update() call", slog.Duration("duration", d),
				slog.Any("sim", s))
		}
	}()

	if s.Paused {
		return
	}

	// Wallclock time is scaled by the sim rate; any partial tick left over
	// is accounted for next time.
	elapsed := time.Duration(s.SimRate * float32(time.Since(s.lastUpdateTime)))
	s.step(elapsed)
	s.lastUpdateTime = time.Now()
}

// RunFor advances the simulation by the given amount of simulated time
// without regard to wall-clock pacing; it's the entry point for batch
// runs.
func (s *Sim) RunFor(d time.Duration) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	for d > 0 {
		chunk := min(d, time.Second)
		s.step(chunk)
		d -= chunk
	}
}

// step carves the elapsed simulated time into whole fixed ticks and banks
// the remainder. The caller must hold the mutex.
func (s *Sim) step(elapsed time.Duration) {
	elapsed += s.updateTimeSlop

	nticks := int(elapsed / tick)
	if nticks > 10*TickRate {
		s.lg.Warn("unexpected hitch in update rate", slog.Duration("elapsed", elapsed),
			slog.Int("ticks", nticks), slog.Duration("slop", s.updateTimeSlop))
	}

	for range nticks {
		s.updateState(1.0 / TickRate)
	}

	s.updateTimeSlop = elapsed - time.Duration(nticks)*tick
}

// updateState runs one fixed simulation tick, in load-bearing order: the
// aircraft integrates manual input and physics, the mission plans against
// the state the aircraft just wrote, its command lands on the aircraft for
// the next tick to integrate, the world animates, and the collision state
// is reevaluated last. A crashed simulation is inert until Reset.
func (s *Sim) updateState(dt float32) {
	if s.Collision.Crashed {
		return
	}

	input := s.pendingInput
	s.pendingInput = ControlInput{}

	s.Aircraft.Update(dt, input)

	cmd := s.Mission.Update(dt, s.Aircraft.FlightState())
	s.Aircraft.ApplyCommand(cmd, dt)

	s.World.Update(dt)

	s.checkCollisions(dt)

	if phase := s.Mission.Phase(); phase != s.prevPhase {
		s.prevPhase = phase
		s.eventStream.Post(Event{Type: PhaseChangeEvent, Phase: phase})
		s.lg.Info("mission phase change", slog.String("phase", phase.String()),
			slog.Float64("mission_time", float64(s.Aircraft.MissionTime)))

		if phase == mission.PhaseComplete {
			s.eventStream.Post(Event{Type: MissionCompleteEvent, Message: "mission complete"})
		}
	}
}

// Reset restores the aircraft, the mission, and the collision state to
// their initial values as a single atomic operation. The world is left
// alone.
func (s *Sim) Reset() {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.Aircraft.Reset()
	s.Mission.Reset()
	s.Collision = CollisionState{}
	s.pendingInput = ControlInput{}
	s.prevPhase = s.Mission.Phase()
	s.lastUpdateTime = time.Now()
	s.updateTimeSlop = 0

	s.eventStream.Post(Event{Type: StatusMessageEvent, Message: "simulation reset"})
	s.lg.Info("simulation reset")
}

func (s *Sim) TogglePause() {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.Paused = !s.Paused
	s.lastUpdateTime = time.Now() // ignore time passage...
}

func (s *Sim) SetPaused(paused bool) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.Paused = paused
	s.lastUpdateTime = time.Now()
}

// SetSimRate sets the time-scale multiplier, clamped to [MinSimRate,
// MaxSimRate].
func (s *Sim) SetSimRate(rate float32) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.SimRate = math.Clamp(rate, MinSimRate, MaxSimRate)
	s.lg.Infof("sim rate set to %f", s.SimRate)
}

// AddControlInput merges manual control into the input consumed by the
// next tick to run. Input arriving while paused is held until the
// simulation resumes.
func (s *Sim) AddControlInput(input ControlInput) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.pendingInput.Merge(input)
}

func (s *Sim) Subscribe() *EventsSubscription {
	return s.eventStream.Subscribe()
}

func (s *Sim) PostEvent(e Event) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.eventStream.Post(e)
}

func (s *Sim) Destroy() {
	s.eventStream.Destroy()
}

// Snapshot is a consistent copy of everything the HUD and the HTTP server
// display; it shares no storage with the live simulation.
type Snapshot struct {
	Aircraft  Aircraft        `json:"aircraft"`
	Mission   mission.Profile `json:"mission"`
	Collision CollisionState  `json:"collision"`
	Paused    bool            `json:"paused"`
	SimRate   float32         `json:"sim_rate"`
}

func (s *Sim) Snapshot() *Snapshot {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	snap := Snapshot{
		Aircraft:  *s.Aircraft,
		Mission:   *s.Mission,
		Collision: s.Collision,
		Paused:    s.Paused,
		SimRate:   s.SimRate,
	}

	// The shallow copies above still share the track and history slices
	// with the live sim, so a deep copy is necessary to avoid races once
	// the lock is released.
	snap = deep.MustCopy(snap)
	return &snap
}

// DumpState writes a human-readable dump of the full simulation state.
func (s *Sim) DumpState(w io.Writer) {
	godump.Fdump(w, s.Snapshot())
}

// implements slog.LogValuer
func (s *Sim) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("mission_time", float64(s.Aircraft.MissionTime)),
		slog.String("phase", s.Mission.Phase().String()),
		slog.Float64("sim_rate", float64(s.SimRate)),
		slog.Bool("paused", s.Paused),
		slog.Bool("crashed", s.Collision.Crashed))
}
