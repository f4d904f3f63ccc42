package main

import (
	"github.com/spf13/cobra"

	"nhspipeline/internal/config"
	"nhspipeline/internal/pipeline"
	"nhspipeline/internal/snapshot"
	"nhspipeline/internal/warehouse"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Build the star schema and export it as Parquet files",
	Long: `Snapshot reads the source feeds, builds the star schema in memory,
and writes one Parquet file per table into SNAPSHOT_DIR. PostgreSQL is
not touched, so DATABASE_URL is not needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		sources, err := pipeline.ReadSources(cfg, log)
		if err != nil {
			return err
		}
		w, err := warehouse.Build(sources.Patients, sources.Encounters,
			sources.LabResults, sources.Appointments)
		if err != nil {
			return err
		}
		if err := snapshot.Export(cfg.SnapshotDir, w); err != nil {
			return err
		}
		log.Info().Str("dir", cfg.SnapshotDir).Msg("parquet snapshot written")
		return nil
	},
}
