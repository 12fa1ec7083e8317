package models

import (
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/optimize"
)

// ImpliedCorrelation inverts the closed form unexpected loss for the asset
// correlation: it finds the rho at which UnexpectedLoss matches targetUL for
// the given book. The quantile must sit above 0.5, the branch on which the
// unexpected loss increases in rho. The objective is the squared relative
// pricing error, minimized with Nelder-Mead; draws outside [0, 1) are priced
// at +Inf so the simplex stays inside the model domain.
func ImpliedCorrelation(targetUL float64, n int, ead, lgd, pd, quantile float64) (float64, error) {
	if !(targetUL > 0) {
		return 0, errors.Errorf("target unexpected loss must be positive, got %v", targetUL)
	}

	// Above the median quantile UL is strictly increasing in rho, so the
	// target is only attainable between the uncorrelated level (the
	// expected loss) and the rho -> 1 limit where the whole book moves
	// with the systemic factor. At or below the median the stress term
	// Phi^-1(quantile) is non-positive and that bracket no longer exists.
	floor, err := UnexpectedLoss(n, ead, lgd, 0, pd, quantile)
	if err != nil {
		return 0, err
	}
	if !(quantile > 0.5) {
		return 0, errors.Errorf("quantile must be above 0.5 to invert for rho, got %v", quantile)
	}
	threshold, _ := DefaultThreshold(pd)
	stress, _ := DefaultThreshold(quantile)
	ceiling := stdNormal.CDF(threshold+stress) * ead * lgd * float64(n)
	if targetUL < floor || targetUL >= ceiling {
		return 0, errors.Errorf("target unexpected loss %v is outside the attainable range [%v, %v)", targetUL, floor, ceiling)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			rho := x[0]
			if rho < 0 || rho >= 1 {
				return math.Inf(1)
			}
			ul, err := UnexpectedLoss(n, ead, lgd, rho, pd, quantile)
			if err != nil {
				return math.Inf(1)
			}
			diff := (ul - targetUL) / targetUL
			return diff * diff
		},
	}

	result, err := optimize.Minimize(problem, []float64{0.15}, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, errors.Wrap(err, "implied correlation search failed")
	}
	if !(result.F <= 1e-6) {
		return 0, errors.Errorf("implied correlation search did not converge, residual %v at rho %v", result.F, result.X[0])
	}

	rho := result.X[0]
	log.Debugf("implied correlation converged: rho=%.6f residual=%.3g evaluations=%d", rho, result.F, result.Stats.FuncEvaluations)
	return rho, nil
}
