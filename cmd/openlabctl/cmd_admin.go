package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/bootstrap"
	"github.com/yigit/openlab/internal/config"
	"github.com/yigit/openlab/internal/db"
)

// session is an open database plus the wired services
type session struct {
	cfg      *config.Config
	database *db.PostgresDB
	deps     *bootstrap.Dependencies
}

func (s *session) Close() {
	s.deps.Close()
	s.database.Close()
}

// openSession connects without running migrations. adjust may change the
// configuration before services are built.
func openSession(ctx context.Context, opts *options, adjust func(*config.Config)) (*session, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(opts.configPath)
	if err != nil {
		return nil, err
	}
	if adjust != nil {
		adjust(cfg)
	}

	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, database, lgr)
	if err != nil {
		database.Close()
		return nil, err
	}
	return &session{cfg: cfg, database: database, deps: deps}, nil
}

func runMigrate(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := bootstrap.RunMigrations(ctx, s.cfg, s.database, s.deps.Logger); err != nil {
		return err
	}
	bootstrap.SeedDefaults(ctx, s.deps.Repos, s.deps.Logger)

	fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
	return nil
}

func runAutoAssign(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, opts, func(cfg *config.Config) {
		if cmd.Flags().Changed("seed") {
			cfg.Solver.Seed = opts.seed
		}
	})
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.deps.AssignmentService.AutoAssign(ctx)
	if err != nil {
		return err
	}
	return printAutoAssign(cmd.OutOrStdout(), result)
}

func runReset(cmd *cobra.Command, opts *options) error {
	target := models.ResetTarget(opts.target)
	if !target.Valid() {
		return fmt.Errorf("unknown reset target %q: use all, students or assignments", opts.target)
	}

	ctx := cmd.Context()
	s, err := openSession(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.deps.AssignmentService.Reset(ctx, target); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", target)
	return nil
}

func runOccupancy(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	rows, err := s.deps.AssignmentService.Occupancy(ctx)
	if err != nil {
		return err
	}
	return printOccupancy(cmd.OutOrStdout(), rows)
}

func printAutoAssign(w io.Writer, result *models.AutoAssignResult) error {
	fmt.Fprintf(w, "assigned %d\n", result.Assigned)
	if len(result.Overbooked) == 0 {
		return nil
	}
	fmt.Fprintln(w, "over capacity:")
	return printOccupancy(w, result.Overbooked)
}

func printOccupancy(w io.Writer, rows []models.SlotOccupancy) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LAB\tNAME\tSESSION\tOCCUPANCY\tCAPACITY\t")
	for _, r := range rows {
		mark := ""
		if r.Overbooked {
			mark = "!"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n", r.LabID, r.LabName, r.Session, r.Occupancy, r.Capacity, mark)
	}
	return tw.Flush()
}
