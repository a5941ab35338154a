package main

import (
	"github.com/spf13/cobra"
	"github.com/yigit/openlab/internal/bootstrap"
)

// options shared by every subcommand
type options struct {
	configPath string
	seed       int64
	target     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "openlabctl",
		Short:         "Administer the OpenLab registration database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", bootstrap.DefaultConfigPath, "path to the YAML configuration file")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations and seed the default labs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, opts)
		},
	}

	autoAssignCmd := &cobra.Command{
		Use:   "auto-assign",
		Short: "Fill every open session from the students' preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAutoAssign(cmd, opts)
		},
	}
	autoAssignCmd.Flags().Int64Var(&opts.seed, "seed", 0, "seed for the student order (0 keeps the configured seed)")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete assignments, or students and their assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd, opts)
		},
	}
	resetCmd.Flags().StringVar(&opts.target, "target", "", "all, students or assignments")
	_ = resetCmd.MarkFlagRequired("target")

	occupancyCmd := &cobra.Command{
		Use:   "occupancy",
		Short: "Print how many students each lab hosts per session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOccupancy(cmd, opts)
		},
	}

	rootCmd.AddCommand(migrateCmd, autoAssignCmd, resetCmd, occupancyCmd)
	return rootCmd
}
