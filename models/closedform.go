package models

import (
	"math"

	"github.com/pkg/errors"
)

// ExpectedLoss computes the closed form portfolio expected loss
// n * ead * pd * lgd.
func ExpectedLoss(n int, ead, pd, lgd float64) float64 {
	return float64(n) * ead * pd * lgd
}

// UnexpectedLoss computes the large-portfolio approximation of the quantile-th
// percentile of aggregate loss,
//
//	UL = Phi(Phi^-1(pd) + sqrt(rho)*Phi^-1(quantile)) * ead * lgd * n
//
// The approximation treats idiosyncratic risk as fully diversified, leaving
// only the systemic factor, so it tightens as n grows. At rho = 0 the formula
// collapses to the expected loss: without a common factor the book loses the
// same amount in every economy.
func UnexpectedLoss(n int, ead, lgd, rho, pd, quantile float64) (float64, error) {
	threshold, err := DefaultThreshold(pd)
	if err != nil {
		return 0, err
	}
	stress, err := DefaultThreshold(quantile)
	if err != nil {
		return 0, errors.Errorf("quantile must be inside (0, 1), got %v", quantile)
	}
	if !(rho >= 0 && rho < 1) {
		return 0, errors.Errorf("rho must be inside [0, 1), got %v", rho)
	}

	worstCasePD := stdNormal.CDF(threshold + math.Sqrt(rho)*stress)
	return worstCasePD * ead * lgd * float64(n), nil
}
