package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/panyam/qsim/cmd/qsim/commands"
	"github.com/panyam/qsim/sim"
)

func main() {
	if os.Getenv("QSIM_ENV") == "dev" {
		logger := slog.New(NewPrettyHandler(os.Stdout, PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		}))
		slog.SetDefault(logger)
		sim.SetGlobal(sim.NewSlogLogger(logger))
		sim.SetLogLevel(sim.LogLevelDebug)
	}

	// A missing .env is fine; flags and QSIM_* variables cover the rest.
	_ = godotenv.Load()

	commands.Execute()
}
