package services

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"
)

// syntheticSeed derives a stable small seed from the given key parts, so
// fallback output is reproducible for the same film (and time bucket) while
// differing across films.
func syntheticSeed(parts ...string) int64 {
	h := fnv.New32a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
	}
	return int64(h.Sum32() % 10000)
}

// hourBucket coarsens a timestamp so repeated fallback calls inside the same
// UTC hour share a seed.
func hourBucket(t time.Time) string {
	return t.UTC().Format("2006-01-02T15")
}

func newSyntheticRand(parts ...string) *rand.Rand {
	return rand.New(rand.NewSource(syntheticSeed(parts...)))
}

// randBetween returns an int in [lo, hi] inclusive.
func randBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
