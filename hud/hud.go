// hud/hud.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package hud implements the terminal cockpit display: a bubbletea program
// that redraws the simulation state at 30 Hz and translates keystrokes into
// control inputs. The display only ever reads snapshots; the simulation
// ticks on its own schedule.
package hud

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmp/aloft/sim"
)

// refreshRate is the display redraw rate in frames per second, independent
// of sim.TickRate.
const refreshRate = 30

// maxMessages bounds the event message log at the bottom of the display.
const maxMessages = 3

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model for the cockpit display.
type Model struct {
	sim  *sim.Sim
	snap *sim.Snapshot

	events   *sim.EventsSubscription
	messages []string

	showProfile bool
	showDetail  bool
	camera      int

	width  int
	height int
}

var cameraModes = []string{"CHASE", "COCKPIT", "ORBIT"}

func New(s *sim.Sim) Model {
	return Model{
		sim:         s,
		snap:        s.Snapshot(),
		events:      s.Subscribe(),
		showProfile: true,
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		// Flight controls. Terminals report no key-up, so each keypress
		// contributes one tick's worth of control deflection and holding a
		// key rides on the terminal's repeat rate.
		case "w":
			m.sim.AddControlInput(sim.ControlInput{PitchUp: true})
		case "s":
			m.sim.AddControlInput(sim.ControlInput{PitchDown: true})
		case "a":
			m.sim.AddControlInput(sim.ControlInput{RollLeft: true})
		case "d":
			m.sim.AddControlInput(sim.ControlInput{RollRight: true})
		case "q":
			m.sim.AddControlInput(sim.ControlInput{YawLeft: true})
		case "e":
			m.sim.AddControlInput(sim.ControlInput{YawRight: true})
		case "+", "=", "shift+up":
			m.sim.AddControlInput(sim.ControlInput{ThrottleUp: true})
		case "-", "_", "shift+down":
			m.sim.AddControlInput(sim.ControlInput{ThrottleDown: true})
		case " ", "space":
			m.sim.AddControlInput(sim.ControlInput{Level: true})

		case "p":
			m.sim.TogglePause()
		case "[":
			m.sim.SetSimRate(m.snap.SimRate / 2)
		case "]":
			m.sim.SetSimRate(m.snap.SimRate * 2)
		case "r":
			// Restarting mid-flight is not allowed; the key only works
			// once the flight has ended one way or the other.
			if m.snap.Collision.Crashed || m.snap.Mission.Complete {
				m.sim.Reset()
			}
		case "m":
			m.showProfile = !m.showProfile
		case "tab":
			m.showDetail = !m.showDetail
		case "c":
			// Purely a label; the terminal display has no camera to move.
			m.camera = (m.camera + 1) % len(cameraModes)
		}

	case tickMsg:
		m.snap = m.sim.Snapshot()
		for _, e := range m.events.Get() {
			m.messages = append(m.messages, e.String())
		}
		if n := len(m.messages); n > maxMessages {
			m.messages = m.messages[n-maxMessages:]
		}
		return m, tick()
	}

	return m, nil
}
