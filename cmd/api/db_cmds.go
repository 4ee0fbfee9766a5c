package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/aklinic/internal/config"
	dbpkg "github.com/BruksfildServices01/aklinic/internal/db"
	"github.com/BruksfildServices01/aklinic/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			log := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.OutOrStdout())

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return err
			}

			log.Info().Msg("schema up to date")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo staff accounts and service catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(password) < 8 {
				return errors.New("--password must have at least 8 characters")
			}

			cfg := config.Load()
			log := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.OutOrStdout())

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return err
			}
			if err := dbpkg.Seed(context.Background(), db, dbpkg.DefaultSeed(password)); err != nil {
				return err
			}

			log.Info().Msg("seed complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password shared by every seeded account")
	return cmd
}
