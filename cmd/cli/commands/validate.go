package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuriabp/ambulatori-rota/pkg/core/engine"
	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
	"github.com/nuriabp/ambulatori-rota/pkg/core/rules"
)

// ValidateCmd creates the validate command
func ValidateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Generate a roster and check it against the schedule rules",
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

			cal, err := engine.NewCalendar(inputs.Agenda, inputs.HolidayDates, inputs.HolidayRules, from, to)
			if err != nil {
				return err
			}

			violations := rules.Validate(result.Schedule, inputs.Roster, cal, from, to)
			if len(violations) == 0 {
				fmt.Printf("\n✅ No rule violations\n\n")
				return nil
			}

			fmt.Printf("\n⚠️  Rule violations (%d):\n\n", len(violations))
			for _, v := range violations {
				where := string(v.Date)
				if where == "" {
					where = string(v.Week)
				}
				who := v.NurseID
				if who == model.GlobalNurseID {
					who = "(all)"
				}
				marker := "•"
				if v.Severity == model.SeverityError {
					marker = "✗"
				}
				fmt.Printf("  %s [%s] %s %s: %s\n", marker, v.Severity, where, who, v.Message)
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
