// server/status.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package server

import (
	"log/slog"
	"net/http"
	"net/http/pprof"
	"runtime"
	"text/template"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shirou/gopsutil/cpu"

	"github.com/mmp/aloft/math"
)

type serverStats struct {
	Uptime           time.Duration
	AllocMemory      uint64
	TotalAllocMemory uint64
	SysMemory        uint64
	NumGC            uint32
	NumGoRoutines    int
	CPUUsage         int

	Sim simStatus
}

type simStatus struct {
	Phase        string
	MissionTime  float32
	Progress     float32
	Altitude     float32
	Speed        float32
	Fuel         float32
	SimRate      float32
	Paused       bool
	Crashed      bool
	EventClients int
}

func (ss simStatus) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("phase", ss.Phase),
		slog.Float64("mission_time", float64(ss.MissionTime)),
		slog.Float64("sim_rate", float64(ss.SimRate)),
		slog.Bool("paused", ss.Paused),
		slog.Bool("crashed", ss.Crashed))
}

///////////////////////////////////////////////////////////////////////////
// Status / statistics via HTTP...

func (srv *Server) routeStatus(r chi.Router) {
	r.Get("/sup", func(w http.ResponseWriter, req *http.Request) {
		srv.statsHandler(w, req)
		srv.lg.Infof("%s: served stats request", req.URL.String())
	})

	r.Get("/debug/pprof/", pprof.Index)
	r.Get("/debug/pprof/cmdline", pprof.Cmdline)
	r.Get("/debug/pprof/profile", pprof.Profile)
	r.Get("/debug/pprof/symbol", pprof.Symbol)
	r.Get("/debug/pprof/trace", pprof.Trace)
}

func (srv *Server) getSimStatus() simStatus {
	snap := srv.sim.Snapshot()
	return simStatus{
		Phase:       snap.Mission.Phase().String(),
		MissionTime: snap.Aircraft.MissionTime,
		Progress:    snap.Mission.Progress(),
		Altitude:    snap.Aircraft.Altitude(),
		Speed:       snap.Aircraft.Speed(),
		Fuel:        snap.Aircraft.FuelMass,
		SimRate:     snap.SimRate,
		Paused:      snap.Paused,
		Crashed:     snap.Collision.Crashed,
	}
}

var statsTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html>
<head>
<title>aloft</title>
</head>
<style>
table {
  border-collapse: collapse;
  width: 100%;
}

th, td {
  border: 1px solid #dddddd;
  padding: 8px;
  text-align: left;
}

tr:nth-child(even) {
  background-color: #f2f2f2;
}
</style>
<body>
<h1>Server Status</h1>
<ul>
  <li>Uptime: {{.Uptime}}</li>
  <li>CPU usage: {{.CPUUsage}}%</li>
  <li>Allocated memory: {{.AllocMemory}} MB</li>
  <li>Total allocated memory: {{.TotalAllocMemory}} MB</li>
  <li>System memory: {{.SysMemory}} MB</li>
  <li>Garbage collection passes: {{.NumGC}}</li>
  <li>Running goroutines: {{.NumGoRoutines}}</li>
</ul>

<h1>Sim Status</h1>
<table>
  <tr>
  <th>Phase</th>
  <th>Mission Time</th>
  <th>Progress</th>
  <th>Altitude</th>
  <th>Speed</th>
  <th>Fuel</th>
  <th>Rate</th>
  <th>Paused</th>
  <th>Crashed</th>
  </tr>
  <tr>
  <td>{{.Sim.Phase}}</td>
  <td>{{printf "%.0f s" .Sim.MissionTime}}</td>
  <td>{{printf "%.1f%%" .Sim.Progress}}</td>
  <td>{{printf "%.0f m" .Sim.Altitude}}</td>
  <td>{{printf "%.0f m/s" .Sim.Speed}}</td>
  <td>{{printf "%.0f kg" .Sim.Fuel}}</td>
  <td>{{.Sim.SimRate}}x</td>
  <td>{{.Sim.Paused}}</td>
  <td>{{.Sim.Crashed}}</td>
</tr>
</table>

</body>
</html>
`))

func (srv *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage, _ := cpu.Percent(time.Second, false)
	cpuUsage := 0
	if len(usage) > 0 {
		cpuUsage = int(math.Round(float32(usage[0])))
	}

	stats := serverStats{
		Uptime:           time.Since(srv.startTime).Round(time.Second),
		AllocMemory:      m.Alloc / (1024 * 1024),
		TotalAllocMemory: m.TotalAlloc / (1024 * 1024),
		SysMemory:        m.Sys / (1024 * 1024),
		NumGC:            m.NumGC,
		NumGoRoutines:    runtime.NumGoroutine(),
		CPUUsage:         cpuUsage,

		Sim: srv.getSimStatus(),
	}

	statsTemplate.Execute(w, stats)
}
