package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at release time via -ldflags.
var Version = "0.2.0-dev"

func init() {
	RootCmd.AddCommand(VersionCmd)
}

var VersionCmd = &cobra.Command{
	Use:          "version",
	Short:        "show version name",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}
