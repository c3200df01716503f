// Package engine orchestrates one Centralized Network Configuration run:
// it owns the topology, the growing flow table, the precomputed candidate
// routes, and the live Solution, and drives whichever optimizer
// config.Config names across successive Configure calls (spec §1's "thin
// dispatch from algorithm name to algorithm instance" and the two-pass CLI
// flow of spec §6).
//
// Grounded on tsp.Solve's validate-then-dispatch shape: Configure validates
// nothing algorithm-specific itself (config.Config.Validate already ran at
// load time) and dispatches purely on cfg.Algorithm.
package engine

import (
	"context"
	"errors"

	"github.com/katalvlaran/cnc-tsn/candidates"
	"github.com/katalvlaran/cnc-tsn/cnclog"
	"github.com/katalvlaran/cnc-tsn/config"
	"github.com/katalvlaran/cnc-tsn/cost"
	"github.com/katalvlaran/cnc-tsn/gcl"
	"github.com/katalvlaran/cnc-tsn/graph"
	"github.com/katalvlaran/cnc-tsn/optimizer/aco"
	"github.com/katalvlaran/cnc-tsn/optimizer/ro"
	"github.com/katalvlaran/cnc-tsn/optimizer/spf"
	"github.com/katalvlaran/cnc-tsn/solution"
	"github.com/katalvlaran/cnc-tsn/streamtable"
	"github.com/katalvlaran/cnc-tsn/yen"
)

// DefaultCandidateK bounds the number of candidate routes Yen's algorithm
// computes per stream (spec §3 "a vector of up to K paths"). The logical
// schemas of spec §6 do not surface K as a tunable, so it lives here as the
// engine's own constant rather than in config.Config.
const DefaultCandidateK = 8

// Engine holds everything that survives across successive Configure calls:
// topology, flow table, candidate routes, and the live Solution (spec §3
// Lifecycle: "Graph and candidate routes are built once. The flow table is
// appended to between configure calls.").
type Engine struct {
	g          *graph.Graph
	streams    *streamtable.Table
	cands      *candidates.Table
	sol        *solution.Solution
	cfg        config.Config
	log        cnclog.Logger
	candidateK int
	pass       int
}

// New returns an Engine over topology g, configured by cfg, logging via log.
func New(g *graph.Graph, cfg config.Config, log cnclog.Logger) *Engine {
	return &Engine{
		g:          g,
		streams:    streamtable.New(),
		cands:      candidates.New(),
		cfg:        cfg,
		log:        log,
		candidateK: DefaultCandidateK,
	}
}

// Configure appends tsns and avbs as one batch (spec §6's "backgrounds" on
// the first call, "inputs" on the second), grows candidate routes and the
// Solution to cover them, recomputes the hyperperiod if it changed, and
// runs the configured optimizer under its wall-clock budget. It returns a
// Summary suitable for the per-pass printing spec §7 describes.
func (e *Engine) Configure(ctx context.Context, tsns []streamtable.TSNSpec, avbs []streamtable.AVBSpec) (Summary, error) {
	e.pass++

	appended := e.streams.Append(tsns, avbs)

	if err := e.growCandidates(appended); err != nil {
		return Summary{}, err
	}

	hyperperiod, err := e.computeHyperperiod()
	if err != nil {
		return Summary{}, err
	}

	switch {
	case e.sol == nil:
		e.sol = solution.New(e.streams.Len(), hyperperiod)
	case hyperperiod != e.sol.Schedule.Hyperperiod:
		e.sol.Resize(e.streams.Len())
		e.rebuildScheduleForHyperperiod(hyperperiod)
	default:
		e.sol.Resize(e.streams.Len())
	}

	e.log.PassStart(e.pass, string(e.cfg.Algorithm), len(e.streams.TSNs()), len(e.streams.AVBs()))

	runCtx, cancel := context.WithTimeout(ctx, e.cfg.TLimit)
	defer cancel()

	var res cost.Result
	switch e.cfg.Algorithm {
	case config.AlgorithmACO:
		opt := aco.New(e.g, e.streams, e.cands, e.cfg)
		e.sol, res, err = opt.Run(runCtx, e.sol)
	case config.AlgorithmRO:
		opt := ro.New(e.g, e.streams, e.cands, e.cfg)
		e.sol, res, err = opt.Run(runCtx, e.sol)
	case config.AlgorithmSPF:
		opt := spf.New(e.g, e.streams, e.cands, e.cfg)
		e.sol, res, err = opt.Run(e.sol)
	default:
		return Summary{}, config.ErrBadAlgorithm
	}
	if err != nil {
		return Summary{}, err
	}

	e.log.PassResult(e.pass, res.TSNScheduleFail, res.Scalar)

	return e.summarize(res), nil
}

// growCandidates computes and stores Yen's candidate routes for every
// stream id in appended, skipping (leaving candidate count 0) any pair with
// no path at all — callers downstream treat that as spec §7's Unreachable
// error kind, not a fatal error.
func (e *Engine) growCandidates(appended streamtable.AppendRange) error {
	for id := appended.Start; id < appended.End; id++ {
		src, dst, err := e.streams.Ends(id)
		if err != nil {
			return err
		}

		// Edge weight is the duration of one byte on the hop (spec §4.C).
		routes, err := yen.KShortestPaths(e.g, src, dst, e.candidateK, 1)
		if err != nil {
			if errors.Is(err, yen.ErrNoPath) {
				continue
			}

			return err
		}

		e.cands.Set(id, routes)
	}

	return nil
}

// computeHyperperiod returns the LCM of every TSN stream's period currently
// in the flow table (spec §3 "Hyperperiod is the LCM of all TSN periods"),
// or 1 when there are no TSN streams yet (an empty Schedule needs some
// positive hyperperiod even before the first TSN stream arrives).
func (e *Engine) computeHyperperiod() (int64, error) {
	var periods []int64
	for id := range e.streams.TSNs() {
		spec, _ := e.streams.TSNSpec(id)
		periods = append(periods, spec.Period)
	}
	if len(periods) == 0 {
		return 1, nil
	}

	return gcl.Hyperperiod(periods)
}

// rebuildScheduleForHyperperiod replaces the Solution's GCL with an empty
// one at the new hyperperiod and forces every TSN stream back to Pending,
// since every window previously computed is only valid under the old
// hyperperiod's replica count (solution.Solution.ForcePending exists
// exactly for this situation).
func (e *Engine) rebuildScheduleForHyperperiod(hyperperiod int64) {
	e.sol.Schedule = gcl.NewSchedule(hyperperiod)
	for id := range e.streams.TSNs() {
		e.sol.ForcePending(id)
	}
}

