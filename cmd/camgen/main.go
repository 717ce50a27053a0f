// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Camgen is a tool for adaptive multi-channel Monte Carlo generation
// of particle-physics phase-space events.
package main

import (
	"github.com/js-arias/command"

	"github.com/js-arias/camgen/cmd/camgen/cut"
	"github.com/js-arias/camgen/cmd/camgen/inspect"
	"github.com/js-arias/camgen/cmd/camgen/plot"
	"github.com/js-arias/camgen/cmd/camgen/replay"
	"github.com/js-arias/camgen/cmd/camgen/run"
)

var app = &command.Command{
	Usage: "camgen <command> [<argument>...]",
	Short: "adaptive multi-channel Monte Carlo event generation",
}

func init() {
	app.Add(run.Command)
	app.Add(inspect.Command)
	app.Add(cut.Command)
	app.Add(replay.Command)
	app.Add(plot.Command)
}

func main() {
	app.Main()
}
