// Package gcl implements the Gate Control List: per-port and per-(port,
// queue) interval maps over one hyperperiod, with periodic replication
// (spec §3 GCL state, §4.G).
package gcl

import (
	"errors"
	"math/big"
)

// NumQueues is the fixed number of traffic-class queues per egress port.
const NumQueues = 8

// Sentinel errors.
var (
	// ErrNoPeriods indicates Hyperperiod was computed over an empty period set.
	ErrNoPeriods = errors.New("gcl: cannot compute hyperperiod of zero periods")

	// ErrBadPeriod indicates a non-positive period was supplied.
	ErrBadPeriod = errors.New("gcl: period must be positive")

	// ErrHyperperiodOverflow indicates the LCM of the given periods does not
	// fit in an int64 (spec §9: "must never silently overflow").
	ErrHyperperiodOverflow = errors.New("gcl: hyperperiod overflows int64")

	// ErrBadQueue indicates a queue index outside [0, NumQueues).
	ErrBadQueue = errors.New("gcl: queue index out of range")
)

// Hyperperiod computes the least common multiple of periods, the
// repetition unit of the entire schedule (spec §3, Glossary). Returns
// ErrHyperperiodOverflow rather than silently wrapping.
func Hyperperiod(periods []int64) (int64, error) {
	if len(periods) == 0 {
		return 0, ErrNoPeriods
	}

	acc := big.NewInt(1)
	for _, p := range periods {
		if p <= 0 {
			return 0, ErrBadPeriod
		}
		acc = lcmBig(acc, big.NewInt(p))
	}

	if !acc.IsInt64() {
		return 0, ErrHyperperiodOverflow
	}

	return acc.Int64(), nil
}

func lcmBig(a, b *big.Int) *big.Int {
	gcd := new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
	prod := new(big.Int).Mul(a, b)

	return new(big.Int).Div(prod, gcd)
}
