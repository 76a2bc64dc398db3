package sheetdata

import (
	"math"
	"math/rand/v2"
)

// Months labels the placeholder revenue series, oldest first.
var Months = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

// maxVariance is the largest relative deviation applied to a month.
const maxVariance = 0.2

// RandomSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// SynthesizeRevenueSeries spreads total revenue evenly over six months and
// perturbs each month by up to ±20%. The output is a chart placeholder, not
// real per-month data, and differs between calls unless rng is deterministic.
// A nil rng uses the process-wide generator.
func SynthesizeRevenueSeries(records []ClientRecord, rng RandomSource) []RevenuePoint {
	if rng == nil {
		rng = globalSource{}
	}

	n := float64(len(Months))
	avgRevenue := float64(TotalRevenue(records)) / n
	avgClients := float64(len(records)) / n

	points := make([]RevenuePoint, 0, len(Months))
	for _, month := range Months {
		variance := (rng.Float64() - 0.5) * 2 * maxVariance
		points = append(points, RevenuePoint{
			Month:   month,
			Revenue: roundHalfUp(avgRevenue * (1 + variance)),
			Clients: max(1, roundHalfUp(avgClients*(1+variance*0.5))),
		})
	}
	return points
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
