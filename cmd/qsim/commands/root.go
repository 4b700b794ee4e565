package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/panyam/qsim/sim"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "qsim",
	Short: "qsim simulates and analyzes M/M/1/K queueing systems",
	Long: `qsim runs discrete event simulations of a single server queue with
exponential interarrival and service times and a finite waiting room,
and compares the measured loss behavior against the closed form
M/M/1/K results.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.qsim.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "engine log level: debug, info, warn, error, off")

	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".qsim")
	}

	viper.SetEnvPrefix("QSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		sim.Debug("using config file: %s", viper.ConfigFileUsed())
	}

	if lvl := viper.GetString("log-level"); lvl != "" {
		level, err := sim.ParseLogLevel(lvl)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		sim.SetLogLevel(level)
	}
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
