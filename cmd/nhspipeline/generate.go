package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nhspipeline/internal/config"
	"nhspipeline/internal/synth"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the four synthetic source feeds",
	Long: `Generate writes a deterministic synthetic feed set into DATA_DIR:
patients.csv, encounters.json, lab_results.csv, and appointments.csv.
Sizes and the seed come from the environment (NUM_PATIENTS, SEED, ...).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}

		g := synth.New(cfg.Seed)

		patients := g.Patients(cfg.NumPatients)
		if err := synth.WritePatientsCSV(cfg.PatientsPath(), patients); err != nil {
			return err
		}
		log.Info().Int("records", len(patients)).Str("path", cfg.PatientsPath()).Msg("PAS feed written")

		encounters := g.Encounters(patients, cfg.NumEncounters)
		if err := synth.WriteEncountersJSON(cfg.EncountersPath(), encounters); err != nil {
			return err
		}
		log.Info().Int("records", len(encounters)).Str("path", cfg.EncountersPath()).Msg("EHR feed written")

		labs := g.LabResults(patients, cfg.NumLabOrders)
		if err := synth.WriteLabResultsCSV(cfg.LabResultsPath(), labs); err != nil {
			return err
		}
		log.Info().Int("records", len(labs)).Str("path", cfg.LabResultsPath()).Msg("LIMS feed written")

		appointments := g.Appointments(patients, cfg.NumAppointments)
		if err := synth.WriteAppointmentsCSV(cfg.AppointmentsPath(), appointments); err != nil {
			return err
		}
		log.Info().Int("records", len(appointments)).Str("path", cfg.AppointmentsPath()).Msg("appointments feed written")

		return nil
	},
}
