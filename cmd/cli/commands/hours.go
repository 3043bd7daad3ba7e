package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// HoursCmd creates the hours command
func HoursCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Generate a roster and print each nurse's net hours total",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := rangeFlags(cmd)
			if err != nil {
				return err
			}
			policyName, _ := cmd.Flags().GetString("policy")
			seed, _ := cmd.Flags().GetInt64("seed")

			result, inputs, err := runEngine(app, from, to, policyName, seed)
			if err != nil {
				return err
			}

			roster := append([]model.Nurse(nil), inputs.Roster...)
			sort.Slice(roster, func(i, j int) bool { return roster[i].Order < roster[j].Order })

			fmt.Printf("\n⏱  Net hours %s to %s\n\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
			for _, nurse := range roster {
				total := 0.0
				days := 0
				for _, net := range result.Hours[nurse.ID] {
					total += net
					days++
				}
				fmt.Printf("  %-20s %8.2fh over %d days\n", nurse.Name, total, days)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("from", "", "Range start, YYYY-MM-DD (required)")
	cmd.Flags().String("to", "", "Range end, YYYY-MM-DD (required)")
	cmd.Flags().String("policy", "rotation", "Allocation policy: equity or rotation")
	cmd.Flags().Int64("seed", 0, "Seed for the equity policy's tie-break (0 = clock)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}
