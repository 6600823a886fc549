package main

import (
	"carsurvey/internal/service"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics over all responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore(a)

		stats, err := service.NewStatisticsService(a.Responses).Compute(cmd.Context())
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Total respondents\t%d\t\n", stats.TotalRespondents)
		fmt.Fprintf(w, "Under 18\t%d\t%.2f%%\n", stats.Adolescents, stats.PercentageAdolescents)
		fmt.Fprintf(w, "Unlicensed\t%d\t%.2f%%\n", stats.Unlicensed, stats.PercentageUnlicensed)
		fmt.Fprintf(w, "First-time owners 18-25\t%d\t%.2f%%\n", stats.FirstTimers, stats.PercentageFirstTimers)
		fmt.Fprintf(w, "Targetable\t%d\t%.2f%%\n", stats.Targetables, stats.PercentageTargetables)
		fmt.Fprintf(w, "Targetable, fuel-concerned\t%d\t%.2f%%\n", stats.TargetablesWithFuelEmissions, stats.PercentageFuelEmissionsCare)
		fmt.Fprintf(w, "Targetable, FWD or unsure\t%d\t%.2f%%\n", stats.TargetablesWithFwdOrIdk, stats.PercentageFwdOrUnknownDrivetrain)
		fmt.Fprintf(w, "Cars in families\t%d\tavg %.2f\n", stats.TotalCarsInFamily, stats.AverageCarsInFamily)
		return w.Flush()
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print statistics as JSON")
}
