// Package cnclog is a thin structured-logging wrapper around zerolog.Logger
// (spec §7 user-visible behavior is printed summaries, not a verbose trace).
// The engine logs PassStart and PassResult around each configure pass; Epoch
// and FastStop are available but no optimizer calls them.
package cnclog

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger with the handful of events this engine
// emits, keeping call sites free of field-name repetition.
type Logger struct {
	zl zerolog.Logger
}

// New returns a Logger writing human-readable console output to stderr.
func New() Logger {
	return Logger{zl: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()}
}

// PassStart logs the beginning of one configure pass.
func (l Logger) PassStart(pass int, algorithm string, tsnCount, avbCount int) {
	l.zl.Info().Int("pass", pass).Str("algorithm", algorithm).Int("tsns", tsnCount).Int("avbs", avbCount).Msg("configure pass starting")
}

// Epoch logs one optimizer epoch's best cost so far.
func (l Logger) Epoch(epoch int, bestCost float64) {
	l.zl.Debug().Int("epoch", epoch).Float64("best_cost", bestCost).Msg("epoch complete")
}

// FastStop logs that fast-stop short-circuited the search.
func (l Logger) FastStop(epoch int) {
	l.zl.Info().Int("epoch", epoch).Msg("fast-stop: feasible configuration found")
}

// PassResult logs the outcome of one configure pass.
func (l Logger) PassResult(pass int, tsnScheduleFail bool, scalarCost float64) {
	l.zl.Info().Int("pass", pass).Bool("tsn_schedule_fail", tsnScheduleFail).Float64("cost", scalarCost).Msg("configure pass complete")
}
