package sheetdata_test

import (
	"math/rand/v2"
	"testing"

	"github.com/rpggio/shutterboard/internal/domain/sheetdata"
	"github.com/stretchr/testify/require"
)

type fixedSource []float64

func (f *fixedSource) Float64() float64 {
	v := (*f)[0]
	*f = (*f)[1:]
	return v
}

func TestSynthesizeRevenueSeries_Shape(t *testing.T) {
	inputs := [][]sheetdata.ClientRecord{
		nil,
		{{Price: 0}},
		{{Price: 6000}, {Price: 3000}},
	}

	for _, records := range inputs {
		for i := 0; i < 20; i++ {
			points := sheetdata.SynthesizeRevenueSeries(records, nil)
			require.Len(t, points, 6)
			for j, p := range points {
				require.Equal(t, sheetdata.Months[j], p.Month)
				require.GreaterOrEqual(t, p.Clients, 1)
			}
		}
	}
}

func TestSynthesizeRevenueSeries_Deterministic(t *testing.T) {
	records := make([]sheetdata.ClientRecord, 12)
	for i := range records {
		records[i].Price = 500
	}

	// 0.5 → no variance, 1.0 → +20%, 0.0 → -20%.
	src := fixedSource{0.5, 1.0, 0.0, 0.5, 0.5, 0.5}
	points := sheetdata.SynthesizeRevenueSeries(records, &src)

	require.Equal(t, sheetdata.RevenuePoint{Month: "Jan", Revenue: 1000, Clients: 2}, points[0])
	require.Equal(t, sheetdata.RevenuePoint{Month: "Feb", Revenue: 1200, Clients: 2}, points[1])
	require.Equal(t, sheetdata.RevenuePoint{Month: "Mar", Revenue: 800, Clients: 2}, points[2])
}

func TestSynthesizeRevenueSeries_Bounds(t *testing.T) {
	records := []sheetdata.ClientRecord{{Price: 60000}}
	rng := rand.New(rand.NewPCG(1, 2))

	for _, p := range sheetdata.SynthesizeRevenueSeries(records, rng) {
		require.GreaterOrEqual(t, p.Revenue, 8000)
		require.LessOrEqual(t, p.Revenue, 12000)
		require.Equal(t, 1, p.Clients)
	}
}
