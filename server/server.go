// server/server.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package server exposes the simulation over a small HTTP control surface
// for scripting and external instrumentation: state snapshots plus
// pause/resume/reset/rate controls, a status page, and pprof.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mmp/aloft/log"
	"github.com/mmp/aloft/sim"
)

// snapshotTTL bounds how often polling clients can force a fresh snapshot
// and JSON encode; within the TTL everyone gets the same bytes.
const snapshotTTL = 50 * time.Millisecond

type Server struct {
	sim       *sim.Sim
	lg        *log.Logger
	cache     *expirable.LRU[string, []byte]
	startTime time.Time
}

// New constructs the HTTP handler wired to the simulation.
func New(s *sim.Sim, lg *log.Logger) http.Handler {
	srv := &Server{
		sim:       s,
		lg:        lg,
		cache:     expirable.NewLRU[string, []byte](4, nil, snapshotTTL),
		startTime: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(srv.logRequests)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", srv.handleState)
		r.Get("/mission", srv.handleMission)
		r.Get("/health", srv.handleHealth)

		r.Post("/sim/pause", srv.handlePause)
		r.Post("/sim/resume", srv.handleResume)
		r.Post("/sim/reset", srv.handleReset)
		r.Post("/sim/rate", srv.handleRate)
	})

	srv.routeStatus(r)

	return r
}

func (srv *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		srv.lg.Infof("%s %s %s %s", middleware.GetReqID(r.Context()), r.Method,
			r.URL.Path, time.Since(start))
	})
}

// cachedJSON returns the encoded response for key, re-encoding from a fresh
// snapshot at most once per snapshotTTL.
func (srv *Server) cachedJSON(key string, fill func() any) ([]byte, error) {
	if b, ok := srv.cache.Get(key); ok {
		return b, nil
	}
	b, err := json.Marshal(fill())
	if err != nil {
		return nil, err
	}
	srv.cache.Add(key, b)
	return b, nil
}

func (srv *Server) writeCached(w http.ResponseWriter, key string, fill func() any) {
	b, err := srv.cachedJSON(key, fill)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func (srv *Server) handleState(w http.ResponseWriter, r *http.Request) {
	srv.writeCached(w, "state", func() any { return srv.sim.Snapshot() })
}

func (srv *Server) handleMission(w http.ResponseWriter, r *http.Request) {
	srv.writeCached(w, "mission", func() any { return srv.sim.Snapshot().Mission })
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// respondState answers a mutating request with a fresh, uncached snapshot.
func (srv *Server) respondState(w http.ResponseWriter) {
	srv.cache.Purge()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(srv.sim.Snapshot())
}

func (srv *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	srv.sim.SetPaused(true)
	srv.respondState(w)
}

func (srv *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	srv.sim.SetPaused(false)
	srv.respondState(w)
}

func (srv *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	srv.sim.Reset()
	srv.respondState(w)
}

func (srv *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rate float32 `json:"rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Rate <= 0 {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	srv.sim.SetSimRate(req.Rate)
	srv.respondState(w)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
