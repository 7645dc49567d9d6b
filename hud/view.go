// hud/view.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package hud

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmp/aloft/aero"
	"github.com/mmp/aloft/math"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Background(lipgloss.Color("235")).Padding(0, 1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	cautionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

const profileWidth = 48

const helpText = "w/s pitch | a/d roll | q/e yaw | +/- throttle | space level | " +
	"p pause | [/] rate | tab detail | m profile | c camera | r restart | esc quit"

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderFlightData(), m.renderMissionInfo()))
	b.WriteString("\n")

	switch {
	case m.showDetail && m.showProfile:
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderDetail(), m.renderProfile()))
		b.WriteString("\n")
	case m.showDetail:
		b.WriteString(m.renderDetail())
		b.WriteString("\n")
	case m.showProfile:
		b.WriteString(m.renderProfile())
		b.WriteString("\n")
	}

	for _, msg := range m.messages {
		b.WriteString(dimStyle.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(helpText))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderTitle() string {
	s := titleStyle.Render(" ALOFT ") +
		dimStyle.Render(fmt.Sprintf(" %gx  CAM %s", m.snap.SimRate, cameraModes[m.camera]))
	if m.snap.Paused {
		s += "  " + cautionStyle.Render("PAUSED")
	}
	return s
}

// renderBanner always occupies two lines so that the warning blink doesn't
// shift the layout below it.
func (m Model) renderBanner() string {
	var line1, line2 string
	switch {
	case m.snap.Collision.Crashed:
		line1 = alertStyle.Render("CRASHED!")
		line2 = labelStyle.Render("Press R to Restart")
	case m.snap.Mission.Complete:
		line1 = valueStyle.Render("MISSION COMPLETE")
		line2 = labelStyle.Render("Press R to Restart")
	case m.snap.Collision.Warning && int(m.snap.Collision.WarningTimer*4)%2 == 0:
		// Flash at 4 Hz against the warning timer so the blink runs on
		// simulation time and freezes with it when paused.
		line1 = alertStyle.Render("⚠ TERRAIN WARNING ⚠")
		line2 = cautionStyle.Render("PULL UP!")
	}
	if m.width > 0 {
		line1 = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, line1)
		line2 = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, line2)
	}
	return line1 + "\n" + line2
}

func (m Model) renderFlightData() string {
	ac := &m.snap.Aircraft

	fuelFrac := float32(0)
	if ac.Params.FuelCapacity > 0 {
		fuelFrac = ac.FuelMass / ac.Params.FuelCapacity
	}
	fuelStyle := valueStyle
	switch {
	case fuelFrac < 0.1:
		fuelStyle = alertStyle
	case fuelFrac < 0.2:
		fuelStyle = cautionStyle
	}

	rows := []string{
		row("ALTITUDE", fmt.Sprintf("%d m", int(ac.Altitude())), valueStyle),
		row("SPEED", fmt.Sprintf("%d m/s", int(ac.Speed())), valueStyle),
		row("HEADING", fmt.Sprintf("%03d°", int(ac.Heading())), valueStyle),
		row("PITCH", fmt.Sprintf("%+d°", int(math.Degrees(ac.Pitch))), valueStyle),
		row("ROLL", fmt.Sprintf("%+d°", int(math.Degrees(ac.Roll))), valueStyle),
		row("THROTTLE", fmt.Sprintf("%3d%% %s", int(ac.Throttle*100), gauge(ac.Throttle, 10)), valueStyle),
		row("FUEL", fmt.Sprintf("%d kg (%d%%) %s", int(ac.FuelMass), int(fuelFrac*100), gauge(fuelFrac, 10)), fuelStyle),
		row("RANGE", fmt.Sprintf("%.1f km", ac.TotalRange/1000), valueStyle),
	}

	return panelStyle.Render(headerStyle.Render("FLIGHT DATA") + "\n" + strings.Join(rows, "\n"))
}

func (m Model) renderMissionInfo() string {
	mp := &m.snap.Mission

	rows := []string{
		row("PHASE", mp.Phase().String(), valueStyle),
		row("PROGRESS", fmt.Sprintf("%.1f%%", mp.Progress()), valueStyle),
		row("TIME", fmt.Sprintf("%02d:%02d", int(mp.TotalTime)/60, int(mp.TotalTime)%60), valueStyle),
		row("DISTANCE", fmt.Sprintf("%.1f km", mp.TotalDistance/1000), valueStyle),
	}
	if seg := mp.CurrentSegment(); seg != nil {
		rows = append(rows,
			row("TGT ALT", fmt.Sprintf("%d m", int(seg.TargetAltitude)), valueStyle),
			row("TGT SPD", fmt.Sprintf("%d m/s", int(seg.TargetSpeed)), valueStyle))
	}

	return panelStyle.Render(headerStyle.Render("MISSION") + "\n" + strings.Join(rows, "\n"))
}

func (m Model) renderDetail() string {
	ac := &m.snap.Aircraft
	speed := ac.Speed()
	alt := ac.Altitude()

	// The drag polar evaluated at the current angle of attack, with the
	// same unclamped coefficients the dynamics use.
	cl := ac.Polar.CL0 + ac.Polar.CLAlpha*ac.Pitch
	cd := ac.Polar.CD0 + ac.Polar.InducedK*cl*cl
	var ld float32
	if cd > 0 {
		ld = cl / cd
	}

	fuelFlow := ac.Params.FuelFlowRate * ac.Throttle
	endurance := aero.Endurance(ac.FuelMass, fuelFlow)
	rangeEstimate := aero.Range(ac.FuelMass, aero.SpecificRange(speed, fuelFlow))

	weight := ac.TotalMass() * 9.81
	density := aero.Density(alt)
	stall := aero.StallSpeed(weight, density, ac.Params.WingArea, aero.CLMax)
	bestRange := aero.BestRangeSpeed(weight, density, ac.Params.WingArea, ac.Polar.CD0, ac.Polar.InducedK)
	bestLoiter := aero.BestEnduranceSpeed(weight, density, ac.Params.WingArea, ac.Polar.CD0, ac.Polar.InducedK)
	n := aero.LoadFactor(ac.Roll)

	status := aero.CheckSpeedLimits(speed, aero.MinSpeed, aero.MaxSpeed)
	if status == aero.EnvelopeNormal {
		status = aero.CheckGLimits(n, aero.MaxLoadFactor, -1)
	}
	if status == aero.EnvelopeNormal {
		status = aero.CheckAltitudeLimits(alt, aero.ServiceCeiling)
	}
	statusStyle := valueStyle
	if status != aero.EnvelopeNormal {
		statusStyle = cautionStyle
	}

	lines := []string{
		headerStyle.Render("PERFORMANCE DATA"),
		row("L/D RATIO", fmt.Sprintf("%.2f", ld), valueStyle),
		row("CLIMB RATE", fmt.Sprintf("%+.1f m/s", ac.VerticalSpeed()), valueStyle),
		row("EST RANGE", fmt.Sprintf("%.1f km", rangeEstimate/1000), valueStyle),
		row("ENDURANCE", fmt.Sprintf("%.1f min", endurance/60), valueStyle),
		row("BEST RNG V", fmt.Sprintf("%d m/s", int(bestRange)), valueStyle),
		row("BEST LTR V", fmt.Sprintf("%d m/s", int(bestLoiter)), valueStyle),
		row("ENVELOPE", status.String(), statusStyle),
		"",
		headerStyle.Render("WEIGHT & BALANCE"),
		row("TOTAL MASS", fmt.Sprintf("%d kg", int(ac.TotalMass())), valueStyle),
		row("EMPTY MASS", fmt.Sprintf("%d kg", int(ac.Params.Mass)), valueStyle),
		row("FUEL MASS", fmt.Sprintf("%d kg", int(ac.FuelMass)), valueStyle),
		"",
		headerStyle.Render("ATMOSPHERE"),
		row("OAT", fmt.Sprintf("%.1f °C", aero.ISATemperature(alt)-273.15), valueStyle),
		row("PRESSURE", fmt.Sprintf("%.0f hPa", aero.ISAPressure(alt)/100), valueStyle),
		row("DENSITY", fmt.Sprintf("%.3f kg/m³", density), valueStyle),
		row("MACH", fmt.Sprintf("%.3f", speed/aero.SpeedOfSound(alt)), valueStyle),
		row("STALL SPD", fmt.Sprintf("%d m/s", int(stall)), valueStyle),
		row("LOAD", fmt.Sprintf("%.2f g", n), valueStyle),
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderProfile() string {
	mp := &m.snap.Mission

	alts := make([]float32, len(mp.History))
	var maxAlt float32
	for i, s := range mp.History {
		alts[i] = s.Altitude
		maxAlt = max(maxAlt, s.Altitude)
	}

	var segs []string
	for i, seg := range mp.Segments {
		name := seg.Phase.String()
		switch {
		case seg.Completed:
			segs = append(segs, valueStyle.Render("✓"+name))
		case i == mp.Current && !mp.Complete:
			segs = append(segs, cautionStyle.Render("▶"+name))
		default:
			segs = append(segs, dimStyle.Render(" "+name))
		}
	}

	lines := []string{
		headerStyle.Render("MISSION PROFILE"),
		valueStyle.Render(sparkline(alts, profileWidth)),
		dimStyle.Render(fmt.Sprintf("max alt %d m  range %.1f km", int(maxAlt), mp.TotalDistance/1000)),
		strings.Join(segs, " "),
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func row(label, value string, style lipgloss.Style) string {
	return labelStyle.Render(fmt.Sprintf("%-10s", label)) + " " + style.Render(value)
}

func gauge(frac float32, width int) string {
	frac = math.Clamp(frac, 0, 1)
	filled := int(frac*float32(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// sparkline renders the values as a fixed-width strip of block characters,
// scaled so the largest value uses the full block.
func sparkline(values []float32, width int) string {
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}
	blocks := []rune("▁▂▃▄▅▆▇█")
	maxVal := float32(1)
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	var b strings.Builder
	for i := range width {
		v := values[i*len(values)/width]
		b.WriteRune(blocks[math.Clamp(int(v/maxVal*float32(len(blocks)-1)), 0, len(blocks)-1)])
	}
	return b.String()
}
