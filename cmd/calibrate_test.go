package cmd

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpconher/cquant/models"
)

func TestCalibrateCommandRequiresTarget(t *testing.T) {
	// Pin the flag back to its zero so earlier executions cannot leak a
	// positive target into this one.
	require.NoError(t, CalibrateCmd.Flags().Set("target-ul", "0"))

	RootCmd.SetArgs([]string{"calibrate"})
	err := RootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target-ul")
}

func TestCalibrateCommandRejectsOutOfRangeParameters(t *testing.T) {
	RootCmd.SetArgs([]string{"calibrate", "--pd", "1.5", "--target-ul", "1000"})

	err := RootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pd_mean")
}

func TestCalibrateCommandRecoversCorrelation(t *testing.T) {
	target, err := models.UnexpectedLoss(5000, 200, 0.45, 0.2, 0.03, 0.999)
	require.NoError(t, err)

	RootCmd.SetArgs([]string{
		"calibrate",
		"--pd", "0.03", "--lgd", "0.45", "--ead", "200", "--rho", "0",
		"--obligors", "5000", "--scenarios", "1000",
		"--quantile", "0.999",
		"--target-ul", strconv.FormatFloat(target, 'f', -1, 64),
	})
	require.NoError(t, RootCmd.Execute())
}
