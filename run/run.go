// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package run is the single entry point into the solver: it loads the
// five-or-six document set, advances one macro step, writes the updated
// AgentDynamics and AgentInteractions documents, and returns. The original
// engine exposed this as a C-callable function for a Python host; this
// rewrite exposes the same operation as both a plain Go call (Step) and,
// via cmd/crowdsolve, a CLI.
package run

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mechyard/crowdsolve/journal"
	"github.com/mechyard/crowdsolve/physics"
	"github.com/mechyard/crowdsolve/scene"
	"github.com/mechyard/crowdsolve/xmlio"
)

// Config names the five ordered document paths from spec.md §6: the first
// (Parameters) is absolute, the rest are filenames resolved against the
// Static/Dynamic directories Parameters declares. Interactions, if empty,
// defaults to "<cwd>/AgentInteractions.xml".
type Config struct {
	Parameters    string
	MaterialsFile string
	GeometryFile  string
	AgentsFile    string
	DynamicsFile  string
	Interactions  string

	// WarmStart, when true and an AgentInteractions document already
	// exists at Interactions, seeds the journal from it instead of
	// starting from an empty history.
	WarmStart bool

	Log *slog.Logger
}

// Step loads the document set named by cfg, advances the scene by one
// macro step, writes the post-step AgentDynamics and AgentInteractions
// documents, and returns the World it built (useful for tests and for a
// caller that wants to inspect post-step state directly). Any load error
// is returned unwrapped; the caller maps it to exit code 1.
func Step(cfg Config) (*physics.World, error) {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	times, paths, err := xmlio.LoadParameters(cfg.Parameters, cfg.MaterialsFile, cfg.GeometryFile, cfg.AgentsFile, cfg.DynamicsFile)
	if err != nil {
		return nil, err
	}
	interactions := cfg.Interactions
	if interactions == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		interactions = filepath.Join(cwd, "AgentInteractions.xml")
	}

	materials, err := xmlio.LoadMaterials(paths.Materials)
	if err != nil {
		return nil, err
	}
	lx, ly, walls, err := xmlio.LoadGeometry(paths.Geometry)
	if err != nil {
		return nil, err
	}
	agents, err := xmlio.LoadAgents(paths.Agents)
	if err != nil {
		return nil, err
	}

	sc := &scene.Scene{Lx: lx, Ly: ly, Walls: walls, Agents: agents, Materials: materials}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	j := journal.New()
	if cfg.WarmStart {
		if err := xmlio.LoadInteractions(interactions, j); err != nil {
			var loadErr *xmlio.DocumentLoadError
			if !errors.As(err, &loadErr) || !os.IsNotExist(loadErr.Err) {
				return nil, err
			}
			log.Debug("no prior interactions document found, starting with an empty journal", slog.String("path", interactions))
		}
	}

	w := physics.NewWorld(sc, j, times.DT, times.DTMech, log)
	if err := xmlio.LoadAgentDynamics(paths.AgentDynamics, w); err != nil {
		return nil, err
	}

	w.Step()

	if err := xmlio.SaveAgentDynamics(paths.AgentDynamics, w); err != nil {
		return nil, err
	}
	if err := xmlio.SaveInteractions(interactions, w.Journal); err != nil {
		return nil, err
	}
	return w, nil
}

// ExitCode runs Step and maps its outcome to the process exit codes
// spec.md §6 mandates: 0 on success, 1 on any ingest/parse/runtime error.
func ExitCode(cfg Config) int {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	if _, err := Step(cfg); err != nil {
		log.Error("step failed", slog.Any("error", err))
		return 1
	}
	return 0
}
