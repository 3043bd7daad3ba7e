package commands

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nuriabp/ambulatori-rota/pkg/core/engine"
	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// ANSI color codes for terminal tables
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the duty roster for a date range",
		Long:  "Run the allocation engine over a date range and print the resulting roster and hours",
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

			printRoster(result, inputs)
			return nil
		},
	}

	cmd.Flags().String("from", "", "Range start, YYYY-MM-DD (required)")
	cmd.Flags().String("to", "", "Range end, YYYY-MM-DD (required)")
	cmd.Flags().String("policy", "equity", "Allocation policy: equity or rotation")
	cmd.Flags().Int64("seed", 0, "Seed for the equity policy's tie-break (0 = clock)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

// rangeFlags parses the shared --from/--to flags.
func rangeFlags(cmd *cobra.Command) (time.Time, time.Time, error) {
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q: %w", fromStr, err)
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q: %w", toStr, err)
	}
	return from, to, nil
}

// runEngine converts config to inputs and runs one generation.
func runEngine(app *AppContext, from, to time.Time, policyName string, seed int64) (*engine.Result, engine.Inputs, error) {
	inputs, err := app.Cfg.Inputs(from, to)
	if err != nil {
		return nil, engine.Inputs{}, fmt.Errorf("bad configuration: %w", err)
	}

	opts := engine.Options{Logger: app.Logger}
	switch policyName {
	case "equity":
		opts.Policy = engine.PolicyEquity
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		opts.Rand = rand.New(rand.NewSource(seed))
	case "rotation":
		opts.Policy = engine.PolicyRotation
	default:
		return nil, engine.Inputs{}, fmt.Errorf("unknown policy %q (want equity or rotation)", policyName)
	}

	app.Logger.Debug("running generation",
		zap.String("policy", policyName),
		zap.Int64("seed", seed))

	result, err := engine.Generate(inputs, opts)
	if err != nil {
		return nil, engine.Inputs{}, fmt.Errorf("generation failed: %w", err)
	}
	return result, inputs, nil
}

// printRoster renders the generated schedule day by day.
func printRoster(result *engine.Result, inputs engine.Inputs) {
	fmt.Printf("\n📅 Duty Roster  %srun %s%s\n\n", colorBold, result.RunID, colorReset)

	roster := append([]model.Nurse(nil), inputs.Roster...)
	sort.Slice(roster, func(i, j int) bool { return roster[i].Order < roster[j].Order })

	for date := inputs.From; !date.After(inputs.To); date = date.AddDate(0, 0, 1) {
		key := model.DateKeyFor(date)

		var lines []string
		for _, nurse := range roster {
			cell, ok := result.Schedule.Get(nurse.ID, key)
			if !ok {
				continue
			}
			net := result.Hours[nurse.ID][key]
			lines = append(lines, fmt.Sprintf("  %-20s %s%-24s%s %5.2fh", nurse.Name, colorGreen, cell.String(), colorReset, net))
		}
		if len(lines) == 0 {
			continue
		}

		fmt.Printf("%s%s (%s)%s\n", colorBold, key, date.Weekday(), colorReset)
		for _, line := range lines {
			fmt.Println(line)
		}
		fmt.Println()
	}

	if len(result.Unfilled) > 0 {
		fmt.Printf("%s⚠️  Unfilled needs (%d):%s\n", colorYellow, len(result.Unfilled), colorReset)
		for _, u := range result.Unfilled {
			fmt.Printf("  • %s: %s\n", u.Date, u.Category.Label())
		}
		fmt.Println()
	}
	if len(result.HourProblems) > 0 {
		fmt.Printf("%s⚠️  Hour calculation problems (%d):%s\n", colorYellow, len(result.HourProblems), colorReset)
		for _, p := range result.HourProblems {
			fmt.Printf("  • %s %s: %s\n", p.Date, p.NurseID, p.Err)
		}
		fmt.Println()
	}
}
