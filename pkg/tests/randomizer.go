package tests

import (
	"math/rand"
	"time"
)

type Randomizer struct {
	Float64  func() float64
	Bool     func() bool
	Intn     func(n int) int
	Duration func(minD, maxD time.Duration) time.Duration
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().Unix())) //nolint:gosec // for tests

	return Randomizer{
		Float64: random.Float64,
		Bool:    func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
		Intn:    random.Intn,
		Duration: func(minD, maxD time.Duration) time.Duration {
			if maxD <= minD {
				return minD
			}
			return minD + time.Duration(random.Int63n(int64(maxD-minD)))
		},
	}
}
