package main

import (
	"github.com/spf13/cobra"

	"nhspipeline/internal/config"
	"nhspipeline/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: extract, transform, load",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		log := newLogger(cfg)

		_, err = pipeline.Run(cmd.Context(), cfg, log)
		if err != nil {
			log.Error().Err(err).Msg("pipeline run failed")
		}
		return err
	},
}
