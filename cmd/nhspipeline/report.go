package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"nhspipeline/internal/config"
	"nhspipeline/internal/load"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the loaded warehouse",
	Long: `Report queries the loaded warehouse tables and prints row counts,
patient demographics, encounter and lab mixes, appointment attendance,
and the busiest patient pathways.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		pool, err := load.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		return printReport(ctx, pool)
	},
}

func printReport(ctx context.Context, pool *pgxpool.Pool) error {
	counts, err := load.TableCounts(ctx, pool)
	if err != nil {
		return err
	}
	fmt.Println("Warehouse tables")
	for _, c := range counts {
		fmt.Printf("  %-20s %10d rows\n", c.Table, c.Rows)
	}

	ages, err := load.PatientAgeStats(ctx, pool)
	if err != nil {
		return err
	}
	fmt.Printf("\nPatient ages: %d-%d (mean %.1f)\n", ages.Min, ages.Max, ages.Avg)

	sections := []struct {
		title string
		query func(context.Context, *pgxpool.Pool) ([]load.CountRow, error)
	}{
		{"Gender distribution", load.GenderDistribution},
		{"Encounters by type", load.EncountersByType},
		{"Lab test mix", load.LabTestMix},
		{"Lab results", load.AbnormalSplit},
		{"Appointments by type", load.AppointmentsByType},
		{"Attendance", load.AttendanceBreakdown},
	}
	for _, s := range sections {
		rows, err := s.query(ctx, pool)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n", s.title)
		for _, r := range rows {
			fmt.Printf("  %-30s %10d\n", r.Label, r.Count)
		}
	}

	pathways, err := load.TopPatientPathways(ctx, pool, 10)
	if err != nil {
		return err
	}
	fmt.Println("\nBusiest patient pathways")
	for _, p := range pathways {
		fmt.Printf("  %-10s %-24s age %3d  %3d encounters  %3d labs  %3d appointments\n",
			p.PatientID, p.FirstName+" "+p.LastName, p.Age,
			p.Encounters, p.LabTests, p.Appointments)
	}
	return nil
}
