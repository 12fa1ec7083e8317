package report

import (
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xhhuango/json"

	"github.com/jpconher/cquant/models"
	"github.com/jpconher/cquant/portfolio"
	"github.com/jpconher/cquant/probability"
)

// LossReport pairs the empirical statistics of a simulated run with the
// closed form benchmarks for the same book, so a reader can judge the Monte
// Carlo error at a glance.
type LossReport struct {
	Parameters  portfolio.Parameters `json:"parameters"`
	GeneratedAt time.Time            `json:"generated_at"`
	ElapsedSecs float64              `json:"elapsed_seconds"`

	ExpectedLoss   float64 `json:"expected_loss"`   // closed form, n*ead*pd*lgd
	UnexpectedLoss float64 `json:"unexpected_loss"` // closed form loss quantile

	Summary probability.Summary `json:"summary"`

	// Relative deviations of the empirical statistics from the closed forms.
	MeanDeviation     float64 `json:"mean_deviation"`
	QuantileDeviation float64 `json:"quantile_deviation"`

	// Losses carries the raw per-scenario loss vector when the caller asks
	// for it; at a million scenarios it dominates the file size, so it stays
	// optional.
	Losses []float64 `json:"losses,omitempty"`
}

// Build assembles a report from a finished run.
func Build(params portfolio.Parameters, summary probability.Summary, elapsed time.Duration) (*LossReport, error) {
	el := models.ExpectedLoss(params.Obligors, params.EAD, params.PD, params.LGD)
	ul, err := models.UnexpectedLoss(params.Obligors, params.EAD, params.LGD, params.Rho, params.PD, params.Quantile)
	if err != nil {
		return nil, err
	}

	r := &LossReport{
		Parameters:     params,
		GeneratedAt:    time.Now(),
		ElapsedSecs:    elapsed.Seconds(),
		ExpectedLoss:   el,
		UnexpectedLoss: ul,
		Summary:        summary,
	}
	if el != 0 {
		r.MeanDeviation = (summary.Mean - el) / el
	}
	if ul != 0 {
		r.QuantileDeviation = (summary.Quantile - ul) / ul
	}
	return r, nil
}

// JSON renders the report as indented JSON.
func (r *LossReport) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteJSON writes the report to path.
func (r *LossReport) WriteJSON(path string) error {
	data, err := r.JSON()
	if err != nil {
		return errors.Wrap(err, "marshal loss report")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write loss report %s", path)
	}
	return nil
}

// Print logs the report in a readable form.
func (r *LossReport) Print() {
	p := r.Parameters
	log.Infof("PORTFOLIO: n=%d ead=%v lgd=%v pd=%v rho=%v", p.Obligors, p.EAD, p.LGD, p.PD, p.Rho)
	log.Infof("SCENARIOS: %d (%.2fs)", p.Scenarios, r.ElapsedSecs)
	log.Infof("EXPECTED LOSS (CLOSED FORM): %.2f", r.ExpectedLoss)
	log.Infof("EMPIRICAL MEAN LOSS: %.2f (%+.4f%%)", r.Summary.Mean, r.MeanDeviation*100)
	log.Infof("UNEXPECTED LOSS (CLOSED FORM, q=%v): %.2f", p.Quantile, r.UnexpectedLoss)
	log.Infof("EMPIRICAL LOSS QUANTILE: %.2f (%+.4f%%)", r.Summary.Quantile, r.QuantileDeviation*100)
	log.Infof("EXPECTED SHORTFALL: %.2f", r.Summary.ExpectedShortfall)
	log.Infof("LOSS STD DEV: %.2f", r.Summary.StdDev)
	log.Infof("LOSS RANGE: [%.2f, %.2f]", r.Summary.Min, r.Summary.Max)
}
