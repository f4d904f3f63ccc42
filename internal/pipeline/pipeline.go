// Package pipeline wires the run end to end: read the four source
// feeds, assess quality, build the star schema, load PostgreSQL, and
// optionally export a Parquet snapshot.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"nhspipeline/internal/config"
	"nhspipeline/internal/load"
	"nhspipeline/internal/quality"
	"nhspipeline/internal/snapshot"
	"nhspipeline/internal/source"
	"nhspipeline/internal/warehouse"
)

// Sources holds one full read of the four feeds.
type Sources struct {
	Patients     []source.Patient
	Encounters   []source.Encounter
	LabResults   []source.LabResult
	Appointments []source.Appointment
}

// Result summarizes a completed run.
type Result struct {
	RunID    uuid.UUID
	Report   *quality.Report
	Tables   []load.TableCount
	Duration time.Duration
}

// ReadSources loads the four feeds from the configured data directory.
// Any unreadable feed aborts the run: the transform joins across all
// four, so a partial read would silently produce empty facts.
func ReadSources(cfg *config.Config, log zerolog.Logger) (*Sources, error) {
	s := &Sources{}
	var err error

	if s.Patients, err = source.ReadPatients(cfg.PatientsPath()); err != nil {
		return nil, fmt.Errorf("read patients: %w", err)
	}
	log.Info().Int("records", len(s.Patients)).Str("path", cfg.PatientsPath()).Msg("read PAS feed")

	if s.Encounters, err = source.ReadEncounters(cfg.EncountersPath()); err != nil {
		return nil, fmt.Errorf("read encounters: %w", err)
	}
	log.Info().Int("records", len(s.Encounters)).Str("path", cfg.EncountersPath()).Msg("read EHR feed")

	if s.LabResults, err = source.ReadLabResults(cfg.LabResultsPath()); err != nil {
		return nil, fmt.Errorf("read lab results: %w", err)
	}
	log.Info().Int("records", len(s.LabResults)).Str("path", cfg.LabResultsPath()).Msg("read LIMS feed")

	if s.Appointments, err = source.ReadAppointments(cfg.AppointmentsPath()); err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}
	log.Info().Int("records", len(s.Appointments)).Str("path", cfg.AppointmentsPath()).Msg("read appointments feed")

	return s, nil
}

// Run executes a full pipeline run. The quality report is produced
// before the warehouse load, so a load failure still leaves the report
// in the logs.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Result, error) {
	start := time.Now()
	runID := uuid.New()
	log = log.With().Stringer("run_id", runID).Logger()
	log.Info().Msg("pipeline run starting")

	sources, err := ReadSources(cfg, log)
	if err != nil {
		return nil, err
	}

	report := quality.Assess(runID, sources.Patients, sources.Encounters,
		sources.LabResults, sources.Appointments)
	logReport(log, report)

	w, err := warehouse.Build(sources.Patients, sources.Encounters,
		sources.LabResults, sources.Appointments)
	if err != nil {
		return nil, fmt.Errorf("build warehouse: %w", err)
	}
	// Build stamps its own id; the run id covers the whole pipeline.
	w.RunID = runID
	log.Info().
		Int("dim_patient", len(w.Patients)).
		Int("dim_date", len(w.Dates)).
		Int("dim_diagnosis", len(w.Diagnoses)).
		Int("fact_encounters", len(w.Encounters)).
		Int("fact_lab_tests", len(w.LabTests)).
		Int("fact_appointments", len(w.Appointments)).
		Msg("star schema built")

	pool, err := load.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect warehouse: %w", err)
	}
	defer pool.Close()

	if err := load.Replace(ctx, pool, w); err != nil {
		return nil, fmt.Errorf("load warehouse: %w", err)
	}
	counts, err := load.TableCounts(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("count warehouse tables: %w", err)
	}
	for _, c := range counts {
		log.Info().Str("table", c.Table).Int64("rows", c.Rows).Msg("table loaded")
	}

	if cfg.SnapshotDir != "" {
		if err := snapshot.Export(cfg.SnapshotDir, w); err != nil {
			return nil, fmt.Errorf("export snapshot: %w", err)
		}
		log.Info().Str("dir", cfg.SnapshotDir).Msg("parquet snapshot written")
	}

	elapsed := time.Since(start)
	log.Info().Dur("elapsed", elapsed).Msg("pipeline run complete")

	return &Result{
		RunID:    runID,
		Report:   report,
		Tables:   counts,
		Duration: elapsed,
	}, nil
}

func logReport(log zerolog.Logger, r *quality.Report) {
	for _, s := range []quality.SourceStats{
		r.Patients, r.Encounters, r.LabResults, r.Appointments,
	} {
		log.Info().
			Str("source", s.Source).
			Int("records", s.Records).
			Int("valid_nhs_numbers", s.ValidNHSNumbers).
			Float64("nhs_number_rate", s.NHSNumberRate).
			Float64("field_completeness", s.FieldCompleteness).
			Msg("source quality")
	}
	log.Info().
		Int("with_primary_diagnosis", r.WithPrimaryDiagnosis).
		Int("completed_lab_tests", r.CompletedLabTests).
		Int("resolved_appointments", r.ResolvedAppointments).
		Int("attended_appointments", r.AttendedAppointments).
		Float64("attendance_rate", r.AttendanceRate()).
		Msg("quality summary")
}
