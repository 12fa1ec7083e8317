package models

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// stdNormal backs every Phi and Phi^-1 in the package.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// VasicekModel represents the one-factor Gaussian copula credit model.
// An obligor's creditworthiness is a weighted sum of one systemic factor
// shared by the whole book and an idiosyncratic factor of its own; the
// obligor defaults when that sum falls below the threshold T.
type VasicekModel struct {
	PD  float64 // mean probability of default
	Rho float64 // asset correlation against the systemic factor
	T   float64 // default threshold, Phi^-1(PD)
}

// NewVasicekModel creates a new one-factor model for the given default
// probability and asset correlation.
func NewVasicekModel(pd, rho float64) (*VasicekModel, error) {
	threshold, err := DefaultThreshold(pd)
	if err != nil {
		return nil, err
	}
	if !(rho >= 0 && rho < 1) {
		return nil, errors.Errorf("rho must be inside [0, 1), got %v", rho)
	}

	return &VasicekModel{
		PD:  pd,
		Rho: rho,
		T:   threshold,
	}, nil
}

// DefaultThreshold maps a default probability to the latent barrier Phi^-1(pd).
// The inverse normal CDF diverges at 0 and 1, so boundary probabilities are
// rejected rather than clamped.
func DefaultThreshold(pd float64) (float64, error) {
	if !(pd > 0 && pd < 1) {
		return 0, errors.Errorf("pd_mean must be inside (0, 1), got %v", pd)
	}
	return stdNormal.Quantile(pd), nil
}

// LatentValue computes the obligor's creditworthiness for one scenario from
// the systemic draw y and the obligor's idiosyncratic draw eps. The obligor
// defaults when the value is below T.
func (v *VasicekModel) LatentValue(y, eps float64) float64 {
	return math.Sqrt(v.Rho)*y + math.Sqrt(1-v.Rho)*eps
}

// DefaultCutoff translates a systemic draw into the idiosyncratic level below
// which an obligor defaults. eps < DefaultCutoff(y) is the same event as
// LatentValue(y, eps) < T, which lets a scenario count defaults against a
// sorted idiosyncratic vector instead of recomputing every latent value.
func (v *VasicekModel) DefaultCutoff(y float64) float64 {
	return (v.T - math.Sqrt(v.Rho)*y) / math.Sqrt(1-v.Rho)
}

// ConditionalPD is the obligor default probability once the systemic factor
// is known, Phi((T - sqrt(rho)*y) / sqrt(1-rho)). Averaged over y it recovers
// the unconditional PD.
func (v *VasicekModel) ConditionalPD(y float64) float64 {
	return stdNormal.CDF(v.DefaultCutoff(y))
}
