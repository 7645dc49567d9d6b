// cmd/aloft/main.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// This file contains the implementation of the main() function, which
// initializes the system and then runs the simulation until the process
// exits.

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mmp/aloft/aero"
	"github.com/mmp/aloft/hud"
	"github.com/mmp/aloft/log"
	"github.com/mmp/aloft/server"
	"github.com/mmp/aloft/sim"
	"github.com/mmp/aloft/util"
	"github.com/mmp/aloft/world"
)

var (
	configFilename = flag.String("config", "", "filename of JSON file with aircraft parameters")
	seed           = flag.Int64("seed", 1, "world generation seed")
	listenAddr     = flag.String("listen", "", "address for the HTTP control API (e.g. :6502); disabled if empty")
	logLevel       = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir         = flag.String("logdir", "", "log file directory")
	simRate        = flag.Float64("rate", 1, "initial simulation rate multiplier")
	startPaused    = flag.Bool("paused", false, "start with the simulation paused")
	headless       = flag.Bool("headless", false, "run without the cockpit display")
	runFor         = flag.Float64("runfor", 0, "with -headless, simulated seconds to run before exiting")
	dumpState      = flag.Bool("dumpstate", false, "with -headless, dump the final simulation state on exit")
	cpuprofile     = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile     = flag.String("memprofile", "", "write memory profile to this file")
)

// maxCacheBytes bounds the on-disk cache of generated worlds.
const maxCacheBytes = 256 * 1024 * 1024

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndLogCrash()

	profiler, err := util.CreateProfiler(*cpuprofile, *memprofile)
	if err != nil {
		lg.Errorf("%v", err)
	}
	defer profiler.Cleanup()

	if err := util.CacheCullObjects(maxCacheBytes); err != nil {
		lg.Warnf("unable to cull object cache: %v", err)
	}

	params := aero.DefaultParameters()
	if *configFilename != "" {
		if params, err = aero.LoadParameters(*configFilename); err != nil {
			lg.Errorf("%v; flying with default parameters", err)
		}
	}

	w := world.Load(*seed, lg)
	s := sim.New(params, w, lg)
	if *simRate != 1 {
		s.SetSimRate(float32(*simRate))
	}
	if *startPaused {
		s.SetPaused(true)
	}

	if *headless {
		runHeadless(s, lg)
	} else {
		runInteractive(s, lg)
	}
}

// runHeadless batch-advances the simulation with no display and prints a
// mission summary, for scripted runs and debugging.
func runHeadless(s *sim.Sim, lg *log.Logger) {
	if *runFor <= 0 {
		fmt.Fprintln(os.Stderr, "-headless requires -runfor to be set")
		os.Exit(1)
	}

	sub := s.Subscribe()

	fmt.Printf("Running mission: seed %d, %.0f simulated seconds\n", *seed, *runFor)
	startTime := time.Now()
	s.RunFor(time.Duration(*runFor * float64(time.Second)))
	elapsed := time.Since(startTime)
	fmt.Printf("Simulation complete: %.0f simulated seconds in %.2f seconds (%.1fx real-time)\n",
		*runFor, elapsed.Seconds(), *runFor/elapsed.Seconds())

	for _, e := range sub.Get() {
		fmt.Printf("  %s\n", e.String())
	}

	snap := s.Snapshot()
	fmt.Printf("Mission: phase %s, %.1f%% complete, %.1f km flown in %02d:%02d\n",
		snap.Mission.Phase(), snap.Mission.Progress(), snap.Mission.TotalDistance/1000,
		int(snap.Mission.TotalTime)/60, int(snap.Mission.TotalTime)%60)
	fmt.Printf("Aircraft: altitude %.0f m, speed %.0f m/s, fuel %.0f kg remaining\n",
		snap.Aircraft.Altitude(), snap.Aircraft.Speed(), snap.Aircraft.FuelMass)
	if snap.Collision.Crashed {
		fmt.Println("Aircraft crashed")
	}

	if *dumpState {
		s.DumpState(os.Stdout)
	}

	s.Destroy()
}

func runInteractive(s *sim.Sim, lg *log.Logger) {
	go func() {
		t := time.Tick(15 * time.Second)
		for {
			<-t
			// Try to more aggressively return freed memory to the OS.
			debug.FreeOSMemory()
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)

	// The simulation advances at its own fixed cadence, independent of the
	// display refresh rate.
	eg.Go(func() error {
		lim := rate.NewLimiter(sim.TickRate, 1)
		for {
			if err := lim.Wait(ctx); err != nil {
				return nil
			}
			s.Update()
		}
	})

	if *listenAddr != "" {
		srv := &http.Server{Addr: *listenAddr, Handler: server.New(s, lg)}
		eg.Go(func() error {
			lg.Infof("control API listening on %s", *listenAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	lg.Info("starting main loop")
	prog := tea.NewProgram(hud.New(s), tea.WithAltScreen())
	eg.Go(func() error {
		defer cancel()
		_, err := prog.Run()
		return err
	})
	eg.Go(func() error {
		<-ctx.Done()
		prog.Quit()
		return nil
	})

	if err := eg.Wait(); err != nil {
		lg.Errorf("%v", err)
	}
	s.Destroy()
}
