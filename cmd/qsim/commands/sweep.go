package commands

import (
	"fmt"
	"os"
	"path/filepath"

	gfn "github.com/panyam/goutils/fn"
	"github.com/spf13/cobra"

	"github.com/panyam/qsim/experiment"
	"github.com/panyam/qsim/queueing"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep arrival rates and capacities, comparing simulation against theory",
	Long: `Runs the classic M/M/1/K experiment: for each capacity, sweep the
arrival rate across a grid, run one simulation per cell, and render an
SVG chart per capacity overlaying the measured blocking probability on
the closed form curve. The raw rows are saved as JSON next to the
charts.

Without --scenario the built-in grid is used: arrival rates 5 through
95 in steps of 5 against a service rate of 100, capacities 10, 20
and 50.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		scenarioPath, _ := cmd.Flags().GetString("scenario")
		outDir, _ := cmd.Flags().GetString("out")
		jsonName, _ := cmd.Flags().GetString("json")
		noPlots, _ := cmd.Flags().GetBool("no-plots")

		scenario := experiment.DefaultScenario()
		if scenarioPath != "" {
			var err error
			scenario, err = experiment.LoadScenario(scenarioPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}

		// The closed forms first, then the simulated grid.
		for _, k := range scenario.Capacities {
			for _, rate := range scenario.Rates() {
				fmt.Printf("Arrival rate=%g, K=%d, Theoretical block probability = %f\n",
					rate, k, queueing.BlockingProbability(rate, scenario.ServiceRate, k))
			}
		}

		runner := &experiment.Runner{Scenario: scenario, Progress: os.Stdout}
		res, err := runner.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running sweep: %v\n", err)
			os.Exit(1)
		}

		if err := os.MkdirAll(outDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", outDir, err)
			os.Exit(1)
		}

		if jsonName != "" {
			jsonPath := filepath.Join(outDir, jsonName)
			if err := experiment.WriteJSON(res, jsonPath); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Printf("Results written to %s\n", jsonPath)
		}

		if !noPlots {
			for _, cr := range res.Capacities {
				plotComparison(outDir, cr)
			}
		}
	},
}

// plotComparison renders one capacity's theory and simulation curves
// into an SVG file under dir.
func plotComparison(dir string, cr experiment.CapacityResult) {
	theory := gfn.Map(cr.Rows, func(row experiment.Row) DataPoint {
		return DataPoint{X: row.ArrivalRate, Y: row.TheoreticalPB}
	})
	simulated := gfn.Map(cr.Rows, func(row experiment.Row) DataPoint {
		return DataPoint{X: row.ArrivalRate, Y: row.SimulatedPB}
	})
	series := []Series{
		{Name: "Theory", Color: "#dc2626", Points: theory},
		{Name: "Simulation", Color: "#3b82f6", Points: simulated},
	}
	outfile := filepath.Join(dir, fmt.Sprintf("blocking_k%d.svg", cr.Capacity))
	plot(outfile, series, "Arrival rate", "Blocking probability",
		fmt.Sprintf("M/M/1/K blocking, K = %d", cr.Capacity))
}

func init() {
	AddCommand(sweepCmd)
	sweepCmd.Flags().String("scenario", "", "YAML scenario file; empty uses the built-in grid.")
	sweepCmd.Flags().StringP("out", "o", ".", "Directory for the JSON results and SVG charts.")
	sweepCmd.Flags().String("json", "results.json", "File name for the JSON rows; empty skips writing them.")
	sweepCmd.Flags().Bool("no-plots", false, "Skip rendering the SVG charts.")
}
