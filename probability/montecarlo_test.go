package probability

import (
	"math"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpconher/cquant/models"
	"github.com/jpconher/cquant/portfolio"
)

func testParameters() portfolio.Parameters {
	return portfolio.Parameters{
		PD:        0.1,
		LGD:       1.0,
		EAD:       1000,
		Rho:       0.2,
		Obligors:  20_000,
		Scenarios: 50_000,
		Quantile:  0.999,
	}
}

func TestSampleNormals(t *testing.T) {
	rng := NewRand(42)
	samples := SampleNormals(100_000, rng)
	require.Len(t, samples, 100_000)

	sum, sumSq := 0.0, 0.0
	for _, s := range samples {
		sum += s
		sumSq += s * s
	}
	mean := sum / float64(len(samples))
	variance := sumSq/float64(len(samples)) - mean*mean

	assert.InDelta(t, 0.0, mean, 0.02)
	assert.InDelta(t, 1.0, variance, 0.03)
}

func TestSimulateLossesDeterministicBySeed(t *testing.T) {
	params := testParameters()

	first, err := SimulateLosses(params, NewRand(99))
	require.NoError(t, err)
	second, err := SimulateLosses(params, NewRand(99))
	require.NoError(t, err)

	require.Equal(t, first, second)

	third, err := SimulateLosses(params, NewRand(100))
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestSimulateLossesBatchMatchesSequential(t *testing.T) {
	params := testParameters()

	sequential, err := SimulateLossesBatch(params, NewRand(7), 1, nil)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8, 64} {
		parallel, err := SimulateLossesBatch(params, NewRand(7), workers, nil)
		require.NoError(t, err)
		require.Equal(t, sequential, parallel, "workers=%d", workers)
	}
}

func TestSimulateLossesLossGrid(t *testing.T) {
	params := testParameters()
	params.Obligors = 5000
	params.Scenarios = 2000

	losses, err := SimulateLosses(params, NewRand(3))
	require.NoError(t, err)
	require.Len(t, losses, params.Scenarios)

	// Losses live on the default-count grid between zero and total wipeout.
	unit := params.LossPerDefault()
	for _, loss := range losses {
		defaults := loss / unit
		assert.Equal(t, float64(int(defaults+0.5)), defaults)
		assert.GreaterOrEqual(t, loss, 0.0)
		assert.LessOrEqual(t, loss, params.MaxLoss())
	}
}

func TestSimulateLossesZeroRho(t *testing.T) {
	params := testParameters()
	params.Rho = 0
	params.Obligors = 100_000
	params.Scenarios = 200

	losses, err := SimulateLosses(params, NewRand(21))
	require.NoError(t, err)

	// Without a systemic factor every economy defaults the exact same
	// obligors, so the loss vector is constant.
	for i, loss := range losses {
		require.Equal(t, losses[0], loss, "scenario %d", i)
	}

	defaultedFraction := losses[0] / params.LossPerDefault() / float64(params.Obligors)
	assert.InDelta(t, params.PD, defaultedFraction, 0.005)
}

func TestSimulateLossesMatchesClosedForms(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping the full-scale convergence run in short mode")
	}

	params := portfolio.Default()
	params.Seed = 12345

	losses, err := SimulateLossesBatch(params, NewRand(params.Seed), params.NumWorkers(), nil)
	require.NoError(t, err)

	summary, err := Summarize(losses, params.Quantile)
	require.NoError(t, err)

	el := models.ExpectedLoss(params.Obligors, params.EAD, params.PD, params.LGD)
	ul, err := models.UnexpectedLoss(params.Obligors, params.EAD, params.LGD, params.Rho, params.PD, params.Quantile)
	require.NoError(t, err)

	// One shared idiosyncratic sample bounds how close the run can get, so
	// the tolerance is a few standard errors wide rather than tight.
	assert.InEpsilon(t, el, summary.Mean, 0.04)
	assert.InEpsilon(t, ul, summary.Quantile, 0.04)
}

func TestCountDefaultsMatchesBinarySearch(t *testing.T) {
	model, err := models.NewVasicekModel(0.1, 0.2)
	require.NoError(t, err)

	rng := NewRand(5)
	idiosyncratic := SampleNormals(5000, rng)

	sorted := make([]float64, len(idiosyncratic))
	copy(sorted, idiosyncratic)
	sort.Float64s(sorted)

	for i := 0; i < 50; i++ {
		y := rng.NormFloat64()
		direct := CountDefaults(model, y, idiosyncratic)
		searched := sort.SearchFloat64s(sorted, model.DefaultCutoff(y))
		require.Equal(t, direct, searched, "y=%v", y)
	}
}

func TestSimulateLossesRejectsBadParameters(t *testing.T) {
	params := testParameters()
	params.PD = 0

	_, err := SimulateLosses(params, NewRand(1))
	assert.Error(t, err)

	params = testParameters()
	params.Scenarios = 0
	_, err = SimulateLosses(params, NewRand(1))
	assert.Error(t, err)

	// A NaN correlation must fail up front. Left through, every cutoff
	// comparison would count the whole book as defaulted.
	params = testParameters()
	params.Rho = math.NaN()
	_, err = SimulateLosses(params, NewRand(1))
	assert.Error(t, err)
}

func TestSimulateLossesBatchReportsProgress(t *testing.T) {
	params := testParameters()
	params.Obligors = 1000
	params.Scenarios = 10_000

	var mu sync.Mutex
	maxCompleted := 0
	calls := 0
	progress := func(completed, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		assert.Equal(t, params.Scenarios, total)
		if completed > maxCompleted {
			maxCompleted = completed
		}
	}

	_, err := SimulateLossesBatch(params, NewRand(9), 3, progress)
	require.NoError(t, err)

	assert.Equal(t, params.Scenarios, maxCompleted)
	assert.GreaterOrEqual(t, calls, 10)
}
