package cmd

import (
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"

	"github.com/jpconher/cquant/portfolio"
	"github.com/jpconher/cquant/probability"
	"github.com/jpconher/cquant/report"
)

func init() {
	registerParameterFlags(RunCmd)
	RunCmd.Flags().String("output", "", "write the report as JSON to this path")
	RunCmd.Flags().Bool("with-losses", false, "include the raw loss vector in the JSON report")
	RunCmd.Flags().String("chart", "", "render a loss histogram PNG to this path")
	RunCmd.Flags().Int("bins", 50, "histogram bins")
	RunCmd.Flags().Bool("no-progress", false, "disable the progress bar")
	RootCmd.AddCommand(RunCmd)
}

var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "simulate the portfolio loss distribution",

	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := loadParameters(cmd)
		if err != nil {
			return err
		}
		if err := params.Validate(); err != nil {
			return err
		}

		log.Infof("simulating %d scenarios over %d obligors (pd=%v rho=%v workers=%d)",
			params.Scenarios, params.Obligors, params.PD, params.Rho, params.NumWorkers())

		var progressFn probability.ProgressFunc
		var progress *mpb.Progress
		if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress {
			progress = mpb.New(mpb.WithWidth(64))
			bar := progress.AddBar(int64(params.Scenarios),
				mpb.PrependDecorators(
					decor.Name("scenarios"),
					decor.Percentage(decor.WCSyncSpace),
				),
				mpb.AppendDecorators(
					decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
				),
			)
			progressFn = func(completed, total int) {
				bar.SetCurrent(int64(completed))
			}
		}

		rng := probability.NewRand(params.Seed)

		started := time.Now()
		losses, err := probability.SimulateLossesBatch(params, rng, params.NumWorkers(), progressFn)
		if err != nil {
			return err
		}
		if progress != nil {
			progress.Wait()
		}
		elapsed := time.Since(started)

		summary, err := probability.Summarize(losses, params.Quantile)
		if err != nil {
			return err
		}

		rep, err := report.Build(params, summary, elapsed)
		if err != nil {
			return err
		}
		rep.Print()

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			if withLosses, _ := cmd.Flags().GetBool("with-losses"); withLosses {
				rep.Losses = losses
			}
			if err := rep.WriteJSON(output); err != nil {
				return err
			}
			log.Infof("report written to %s", output)
		}

		if chartPath, _ := cmd.Flags().GetString("chart"); chartPath != "" {
			bins, _ := cmd.Flags().GetInt("bins")
			if err := renderHistogramFile(losses, bins, chartPath); err != nil {
				return err
			}
			log.Infof("histogram written to %s", chartPath)
		}

		return nil
	},
}

func renderHistogramFile(losses []float64, bins int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create histogram file %s", path)
	}
	defer f.Close()
	return report.RenderHistogram(losses, bins, f)
}

// registerParameterFlags declares the portfolio parameter flags shared by the
// simulation and calibration commands.
func registerParameterFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("pd", 0, "mean obligor default probability, in (0,1)")
	cmd.Flags().Float64("lgd", 0, "loss given default")
	cmd.Flags().Float64("ead", 0, "exposure at default per obligor")
	cmd.Flags().Float64("rho", 0, "asset correlation, in [0,1)")
	cmd.Flags().Int("obligors", 0, "number of obligors")
	cmd.Flags().Int("scenarios", 0, "number of simulated scenarios")
	cmd.Flags().Float64("quantile", 0, "loss quantile for unexpected loss, in (0,1)")
	cmd.Flags().Uint64("seed", 0, "random seed, 0 picks one")
	cmd.Flags().Int("workers", 0, "scenario workers, 0 uses every CPU")
}

// loadParameters resolves the effective parameters: the reference defaults,
// overridden by the config file if one is given, overridden by any flag the
// user set explicitly.
func loadParameters(cmd *cobra.Command) (portfolio.Parameters, error) {
	params := portfolio.Default()

	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		loaded, err := portfolio.Load(configFile)
		if err != nil {
			return portfolio.Parameters{}, err
		}
		params = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("pd") {
		params.PD, _ = flags.GetFloat64("pd")
	}
	if flags.Changed("lgd") {
		params.LGD, _ = flags.GetFloat64("lgd")
	}
	if flags.Changed("ead") {
		params.EAD, _ = flags.GetFloat64("ead")
	}
	if flags.Changed("rho") {
		params.Rho, _ = flags.GetFloat64("rho")
	}
	if flags.Changed("obligors") {
		params.Obligors, _ = flags.GetInt("obligors")
	}
	if flags.Changed("scenarios") {
		params.Scenarios, _ = flags.GetInt("scenarios")
	}
	if flags.Changed("quantile") {
		params.Quantile, _ = flags.GetFloat64("quantile")
	}
	if flags.Changed("seed") {
		params.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("workers") {
		params.Workers, _ = flags.GetInt("workers")
	}
	return params, nil
}
