// Package pkg provides the core libraries for Rebarplan reinforcement design.
//
// # Overview
//
// Rebarplan proposes longitudinal and transverse reinforcement for the
// continuous concrete beams of a floor. For every beam it enumerates bar
// diameters, backbone counts, layer distributions and stirrups, rejects what
// does not fit or violates a critical check, scores the rest and returns a
// short ranked list. The pkg directory is organized into four areas:
//
//  1. Domain model - [model], [severity], [config]
//  2. Design logic - [filling], [rules], [constraints], [scoring]
//  3. Orchestration - [pipeline], [orchestrator]
//  4. Support - [errors], [observability], [io], [buildinfo]
//
// # Architecture
//
// The data flow for one floor:
//
//	Floor file (TOML/YAML/JSON) + Settings
//	         ↓
//	    [orchestrator] (beams in order, project state threaded through)
//	         ↓
//	    [pipeline] per beam: Diameter → Backbone → Filling → Stirrup → Assembly → Rules
//	         ↓
//	    ranked proposals, accepted design fed back into the project state
//
// # Quick Start
//
// Design every beam of a floor file:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/rebarplan/pkg/config"
//	    "github.com/matzehuels/rebarplan/pkg/orchestrator"
//	    "github.com/matzehuels/rebarplan/pkg/pipeline"
//	)
//
//	s, _ := config.Load("project.toml")
//	f, _ := config.LoadFloor("level-2.toml")
//	beams, pc, _ := orchestrator.FromFloor(f, s)
//
//	p, _ := pipeline.New(pipeline.Options{})
//	res, _ := orchestrator.New(p, nil).SolveFloor(context.Background(), beams, s, &pc)
//	for _, name := range res.Order {
//	    fmt.Println(name, res.Solutions[name].OptionName)
//	}
//
// # Main Packages
//
// ## Design Logic
//
// [filling] - Strategies that distribute the bars of one section face over
// layers (greedy and balanced) and a bounded memo around them.
//
// [rules] - The rule engine run on every assembled candidate. Rules are
// ordered by priority and may drop, penalise or reward a candidate.
//
// [constraints] - The constraint registry, with checks for arrangements,
// backbones, whole solutions and neighboring section pairs.
//
// [scoring] - Constructability scoring and the weight/constructability blend.
//
// ## Orchestration
//
// [pipeline] - The staged candidate search for a single beam. Custom stages
// can be inserted by order.
//
// [orchestrator] - Solves the beams of a floor in sequence and carries the
// preferred diameters and neighbor designs from one beam to the next.
//
// ## Support
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hook registry for stage, beam and memo events.
//
// [io] - Saving floor results as JSON or YAML and reading them back.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/pipeline/...           # Specific package
//
// [model]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/model
// [severity]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/severity
// [config]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/config
// [filling]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/filling
// [rules]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/rules
// [constraints]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/constraints
// [scoring]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/scoring
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/pipeline
// [orchestrator]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/orchestrator
// [errors]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/observability
// [io]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/io
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/rebarplan/pkg/buildinfo
package pkg
