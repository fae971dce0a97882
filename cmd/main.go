package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/yungbote/roomfinder-backend/internal/app"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

type env struct {
	cfg app.Config
	log *logger.Logger
}

func main() {
	e := &env{}
	root := &cobra.Command{
		Use:           "roomfinder",
		Short:         "Messenger bot that finds vacant rooms on campus",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogMode)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			e.cfg, e.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				e.log.Sync()
			}
		},
	}
	serve := serveCmd(e)
	root.RunE = serve.RunE
	root.AddCommand(serve, migrateCmd(e), configureProfileCmd(e), seedRoomsCmd(e))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "roomfinder: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), e.log, e.cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			a.Start()
			return a.Run(cmd.Context())
		},
	}
}

func migrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.OpenMigratedDB(e.log, e.cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			e.log.Info("Migrations applied")
			return nil
		},
	}
}

func configureProfileCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "configure-profile",
		Short: "Push the get-started button, menu and greeting to the page",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := roombot.DefaultProfile()
			if err != nil {
				return err
			}
			client, err := messenger.NewClient(e.log, e.cfg.Messenger(), nil)
			if err != nil {
				return err
			}
			if err := client.ConfigureProfile(cmd.Context(), profile.Messenger()); err != nil {
				return fmt.Errorf("configure profile: %w", err)
			}
			e.log.Info("Messenger profile configured")
			return nil
		},
	}
}

func seedRoomsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-rooms <file.yaml>",
		Short: "Load rooms and their class timetable from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := app.ParseSeed(raw)
			if err != nil {
				return err
			}
			campus, err := e.cfg.Campus()
			if err != nil {
				return err
			}
			db, err := app.OpenMigratedDB(e.log, e.cfg)
			if err != nil {
				return err
			}
			defer func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()
			res, err := app.SeedRooms(cmd.Context(), e.log, db, f, campus)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rooms, %d classes\n", res.Rooms, res.Classes)
			return nil
		},
	}
}
