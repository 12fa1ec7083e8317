package probability

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"

	"github.com/jpconher/cquant/models"
	"github.com/jpconher/cquant/portfolio"
)

// ProgressFunc receives the cumulative number of completed scenarios while a
// simulation runs. It is called from worker goroutines, so implementations
// must be safe for concurrent use.
type ProgressFunc func(completed, total int)

// NewRand creates the generator behind every draw of a run. A zero seed picks
// one from the clock; any other seed reproduces the exact same loss vector.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// SampleNormals draws n independent standard normal variates from rng.
func SampleNormals(n int, rng *rand.Rand) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = rng.NormFloat64()
	}
	return samples
}

// CountDefaults compares every obligor's latent value against the model
// threshold for one systemic draw. This is the definitional form of a
// scenario; the batch runner reproduces it with a binary search.
func CountDefaults(model *models.VasicekModel, y float64, idiosyncratic []float64) int {
	defaults := 0
	for _, eps := range idiosyncratic {
		if model.LatentValue(y, eps) < model.T {
			defaults++
		}
	}
	return defaults
}

// SimulateLosses runs the full scenario loop on a single worker.
func SimulateLosses(params portfolio.Parameters, rng *rand.Rand) ([]float64, error) {
	return SimulateLossesBatch(params, rng, 1, nil)
}

// SimulateLossesBatch simulates the portfolio loss distribution across the
// given number of workers and returns one aggregate loss per scenario.
//
// All randomness is drawn up front from rng in a fixed order, first the n
// idiosyncratic variates and then the t systemic variates, so the result
// depends only on the seed: scenario i consumes the i-th systemic draw no
// matter which worker runs it, and a parallel run is bit-identical to a
// sequential one.
//
// Each scenario reduces to counting idiosyncratic draws below the scenario
// cutoff, so the loop sorts the idiosyncratic vector once and counts with a
// binary search instead of scanning all n obligors per scenario.
func SimulateLossesBatch(params portfolio.Parameters, rng *rand.Rand, workers int, progress ProgressFunc) ([]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	model, err := models.NewVasicekModel(params.PD, params.Rho)
	if err != nil {
		return nil, err
	}

	idiosyncratic := SampleNormals(params.Obligors, rng)
	systemic := SampleNormals(params.Scenarios, rng)

	sorted := make([]float64, len(idiosyncratic))
	copy(sorted, idiosyncratic)
	sort.Float64s(sorted)

	total := params.Scenarios
	losses := make([]float64, total)
	lossPerDefault := params.LossPerDefault()

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > total {
		workers = total
	}

	// Coarse progress: report about once per percent, not per scenario.
	step := total / 100
	if step < 1 {
		step = 1
	}

	var completed int64
	scenariosPerWorker := total / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * scenariosPerWorker
		end := start + scenariosPerWorker
		if w == workers-1 {
			end = total
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			pending := 0
			for i := start; i < end; i++ {
				cutoff := model.DefaultCutoff(systemic[i])
				defaults := sort.SearchFloat64s(sorted, cutoff)
				losses[i] = float64(defaults) * lossPerDefault

				pending++
				if progress != nil && pending >= step {
					progress(int(atomic.AddInt64(&completed, int64(pending))), total)
					pending = 0
				}
			}
			if progress != nil && pending > 0 {
				progress(int(atomic.AddInt64(&completed, int64(pending))), total)
			}
		}(start, end)
	}
	wg.Wait()

	return losses, nil
}
