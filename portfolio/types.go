package portfolio

import (
	"runtime"

	"github.com/pkg/errors"
)

// Parameters describes a homogeneous loan book and the simulation run over it.
// Every obligor shares the same default probability, exposure, severity and
// asset correlation, so the per-scenario loss is a default count times a
// constant.
type Parameters struct {
	PD        float64 `json:"pd_mean" mapstructure:"pd_mean"`   // mean obligor default probability, in (0,1)
	LGD       float64 `json:"lgd" mapstructure:"lgd"`           // loss given default
	EAD       float64 `json:"ead" mapstructure:"ead"`           // exposure at default per obligor
	Rho       float64 `json:"rho" mapstructure:"rho"`           // asset correlation against the systemic factor, in [0,1)
	Obligors  int     `json:"n" mapstructure:"n"`               // number of obligors
	Scenarios int     `json:"t" mapstructure:"t"`               // number of simulated economies
	Quantile  float64 `json:"quantile" mapstructure:"quantile"` // loss quantile backing unexpected loss, in (0,1)
	Seed      uint64  `json:"seed" mapstructure:"seed"`         // RNG seed, 0 picks one at run time
	Workers   int     `json:"workers" mapstructure:"workers"`   // scenario workers, 0 uses every CPU
}

// Default returns the reference configuration: a hundred-thousand obligor
// book with a 10% default probability and 20% asset correlation, pushed
// through a million scenarios at the regulatory 99.9% quantile.
func Default() Parameters {
	return Parameters{
		PD:        0.1,
		LGD:       1.0,
		EAD:       1000,
		Rho:       0.2,
		Obligors:  100_000,
		Scenarios: 1_000_000,
		Quantile:  0.999,
	}
}

// Validate rejects parameters outside the model domain before any simulation
// work happens. Boundary probabilities are refused rather than clamped
// because the normal quantile diverges there, and rho = 1 would zero the
// idiosyncratic weight. The checks are written in negated form so a NaN
// value fails its range check instead of slipping through.
func (p Parameters) Validate() error {
	if !(p.PD > 0 && p.PD < 1) {
		return errors.Errorf("pd_mean must be inside (0, 1), got %v", p.PD)
	}
	if !(p.LGD >= 0) {
		return errors.Errorf("lgd must be non-negative, got %v", p.LGD)
	}
	if !(p.EAD >= 0) {
		return errors.Errorf("ead must be non-negative, got %v", p.EAD)
	}
	if !(p.Rho >= 0 && p.Rho < 1) {
		return errors.Errorf("rho must be inside [0, 1), got %v", p.Rho)
	}
	if p.Obligors <= 0 {
		return errors.Errorf("n must be a positive obligor count, got %d", p.Obligors)
	}
	if p.Scenarios <= 0 {
		return errors.Errorf("t must be a positive scenario count, got %d", p.Scenarios)
	}
	if !(p.Quantile > 0 && p.Quantile < 1) {
		return errors.Errorf("quantile must be inside (0, 1), got %v", p.Quantile)
	}
	return nil
}

// NumWorkers resolves the worker count, falling back to GOMAXPROCS when the
// configuration leaves it unset.
func (p Parameters) NumWorkers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// LossPerDefault is the loss a single defaulted obligor contributes.
func (p Parameters) LossPerDefault() float64 {
	return p.EAD * p.LGD
}

// MaxLoss is the loss of a scenario in which the whole book defaults.
func (p Parameters) MaxLoss() float64 {
	return float64(p.Obligors) * p.LossPerDefault()
}
