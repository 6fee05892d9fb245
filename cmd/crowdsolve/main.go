// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Command crowdsolve advances a crowd simulation scene by one macro step.
// It reads the ordered Parameters/Materials/Geometry/Agents/AgentDynamics
// document set, resolves Materials/Geometry/Agents relative to the
// Static/Dynamic directories Parameters declares, and overwrites
// AgentDynamics and AgentInteractions.xml on exit.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mechyard/crowdsolve/run"
)

func main() {
	os.Exit(runMain(os.Args[1:]))
}

func runMain(args []string) int {
	fs := flag.NewFlagSet("crowdsolve", flag.ContinueOnError)
	materials := fs.String("materials", "Materials.xml", "Materials document filename, resolved against Parameters' Static directory")
	geometry := fs.String("geometry", "Geometry.xml", "Geometry document filename, resolved against Parameters' Static directory")
	agents := fs.String("agents", "Agents.xml", "Agents document filename, resolved against Parameters' Static directory")
	dynamics := fs.String("dynamics", "AgentDynamics.xml", "AgentDynamics document filename, resolved against Parameters' Dynamic directory")
	interactions := fs.String("interactions", "", "AgentInteractions path (default <cwd>/AgentInteractions.xml)")
	warmStart := fs.Bool("reload", false, "seed the interaction journal from an existing AgentInteractions document")
	verbose := fs.Bool("verbose", false, "enable debug-level logging")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: crowdsolve [flags] <parameters.xml>")
		fs.PrintDefaults()
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return run.ExitCode(run.Config{
		Parameters:    fs.Arg(0),
		MaterialsFile: *materials,
		GeometryFile:  *geometry,
		AgentsFile:    *agents,
		DynamicsFile:  *dynamics,
		Interactions:  *interactions,
		WarmStart:     *warmStart,
		Log:           log,
	})
}
