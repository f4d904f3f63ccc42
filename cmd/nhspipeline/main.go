package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"nhspipeline/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "nhspipeline",
	Short: "NHS healthcare data integration pipeline",
	Long: `nhspipeline reads the four hospital source feeds (PAS patients,
EHR encounters, LIMS lab results, appointment bookings), validates NHS
numbers, builds a star schema, and loads it into PostgreSQL.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(snapshotCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}
