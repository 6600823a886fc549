package main

import (
	"carsurvey/internal/service"
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate-bmw <model>...",
	Short: "Check BMW model names",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, m := range args {
			verdict := "invalid"
			if service.ValidateBMWModel(m) {
				verdict = "valid"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", m, verdict)
		}
	},
}
