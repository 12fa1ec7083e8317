package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jpconher/cquant/models"
)

func init() {
	registerParameterFlags(CalibrateCmd)
	CalibrateCmd.Flags().Float64("target-ul", 0, "observed loss quantile to invert for the asset correlation")
	RootCmd.AddCommand(CalibrateCmd)
}

var CalibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "solve for the asset correlation implied by a target unexpected loss",

	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := loadParameters(cmd)
		if err != nil {
			return err
		}
		if err := params.Validate(); err != nil {
			return err
		}

		targetUL, err := cmd.Flags().GetFloat64("target-ul")
		if err != nil {
			return err
		}
		if !(targetUL > 0) {
			return errors.New("--target-ul must be a positive loss amount")
		}

		rho, err := models.ImpliedCorrelation(targetUL, params.Obligors, params.EAD, params.LGD, params.PD, params.Quantile)
		if err != nil {
			return err
		}

		ul, err := models.UnexpectedLoss(params.Obligors, params.EAD, params.LGD, rho, params.PD, params.Quantile)
		if err != nil {
			return err
		}

		log.Infof("IMPLIED RHO: %.6f", rho)
		log.Infof("UNEXPECTED LOSS AT IMPLIED RHO: %.2f (target %.2f)", ul, targetUL)
		return nil
	},
}
