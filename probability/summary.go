package probability

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the empirical statistics of a simulated loss distribution.
type Summary struct {
	Mean              float64 `json:"mean"`
	StdDev            float64 `json:"std_dev"`
	Q                 float64 `json:"q"`                  // quantile level the run was summarized at
	Quantile          float64 `json:"quantile"`           // empirical loss quantile at level Q
	ExpectedShortfall float64 `json:"expected_shortfall"` // mean loss in the tail at or beyond Q
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
}

// Summarize computes the empirical statistics of a loss vector at quantile
// level q. The input is copied before sorting, so the caller's scenario
// ordering survives.
func Summarize(losses []float64, q float64) (Summary, error) {
	if len(losses) == 0 {
		return Summary{}, errors.New("cannot summarize an empty loss vector")
	}
	if !(q > 0 && q < 1) {
		return Summary{}, errors.Errorf("quantile must be inside (0, 1), got %v", q)
	}

	sorted := make([]float64, len(losses))
	copy(sorted, losses)
	sort.Float64s(sorted)

	tailStart := int(q * float64(len(sorted)))
	if tailStart >= len(sorted) {
		tailStart = len(sorted) - 1
	}

	stdDev := 0.0
	if len(sorted) > 1 {
		stdDev = stat.StdDev(sorted, nil)
	}

	return Summary{
		Mean:              stat.Mean(sorted, nil),
		StdDev:            stdDev,
		Q:                 q,
		Quantile:          stat.Quantile(q, stat.LinInterp, sorted, nil),
		ExpectedShortfall: stat.Mean(sorted[tailStart:], nil),
		Min:               sorted[0],
		Max:               sorted[len(sorted)-1],
	}, nil
}
