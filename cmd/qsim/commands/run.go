package commands

import (
	"fmt"
	"os"

	"github.com/panyam/qsim/core"
	"github.com/panyam/qsim/queueing"
	"github.com/panyam/qsim/sim"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single M/M/1/K simulation",
	Long: `Runs one discrete event simulation of a single server queue with a
finite waiting room and reports the measured loss fraction and average
waiting time next to the closed form M/M/1/K values.

By default every arrival, service grant, drop and departure is echoed
as it happens; pass --trace=false for the summary alone.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		meanIA, _ := cmd.Flags().GetFloat64("mean-ia-time")
		meanSrv, _ := cmd.Flags().GetFloat64("mean-srv-time")
		customers, _ := cmd.Flags().GetInt("customers")
		capacity, _ := cmd.Flags().GetInt("capacity")
		seed, _ := cmd.Flags().GetInt64("seed")
		trace, _ := cmd.Flags().GetBool("trace")

		cfg := queueing.Config{
			MeanInterarrival: core.Duration(meanIA),
			MeanService:      core.Duration(meanSrv),
			Capacity:         capacity,
			Customers:        customers,
			Seed:             seed,
		}
		if trace {
			cfg.Tracer = sim.NewTracer().Echo(os.Stdout)
		}

		res, err := queueing.Run(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running simulation: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Served %d customers, dropped %d of %d\n", res.Served, res.Losses, customers)
		if customers > 0 {
			lambda := 1.0 / meanIA
			mu := 1.0 / meanSrv
			fmt.Printf("Simulation block probability = %f\n", float64(res.Losses)/float64(customers))
			fmt.Printf("Theoretical block probability = %f\n", queueing.BlockingProbability(lambda, mu, capacity))
		}
		fmt.Printf("Average waiting time = %.4Es\n", res.MeanWait)
	},
}

func init() {
	AddCommand(runCmd)
	runCmd.Flags().Float64P("mean-ia-time", "A", 0.0105, "Mean interarrival time in seconds.")
	runCmd.Flags().Float64P("mean-srv-time", "S", 0.01, "Mean service time in seconds.")
	runCmd.Flags().IntP("customers", "N", 1000, "Number of customers to generate.")
	runCmd.Flags().IntP("capacity", "K", 10, "Station capacity, the slot in service included.")
	runCmd.Flags().Int64P("seed", "R", 1234, "Random number generator seed.")
	runCmd.Flags().Bool("trace", true, "Echo each arrival, grant, drop and departure as it happens.")
}
