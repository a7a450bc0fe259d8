package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/projectflow/config"
	"github.com/yeremiapane/projectflow/database"
	"github.com/yeremiapane/projectflow/mailer"
	"github.com/yeremiapane/projectflow/realtime"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/router"
	"github.com/yeremiapane/projectflow/scheduler"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/storage"
	"github.com/yeremiapane/projectflow/utils"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "projectflow",
		Short:        "Project and task management backend",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newReconcileCmd(),
	)
	return rootCmd
}

// bootstrap loads config, configures logging and JWT, and opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	utils.ConfigureLogger(utils.LogOptions{
		Level:      cfg.Log.Level,
		Output:     cfg.Log.Output,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.TTLHours, cfg.JWT.Issuer)

	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Args:  cobra.NoArgs,
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			return database.Migrate(db)
		},
	}
}

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Args:  cobra.NoArgs,
		Short: "Mark past-due projects and tasks as OVER_DUE once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			reconciler := services.NewStatusReconciler(repository.NewProjectRepository(db), repository.NewTaskRepository(db))
			result, err := reconciler.Run(cmd.Context())
			utils.InfoLogger.WithField("projects", result.ProjectsUpdated).
				WithField("tasks", result.TasksUpdated).
				WithField("failures", result.Failures).
				Info("Status reconciliation finished")
			return err
		},
	}
}

func newServeCmd() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Run the HTTP API, websocket hub and scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			if !skipMigrate {
				if err := database.Migrate(db); err != nil {
					return err
				}
			}
			return serve(cfg, db)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run AutoMigrate on startup")
	return cmd
}

func serve(cfg *config.Config, db *gorm.DB) error {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	files, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	var sender mailer.Sender
	if cfg.Mail.Notify {
		if sender, err = mailer.New(cfg.Mail); err != nil {
			return fmt.Errorf("init mailer: %w", err)
		}
	}

	pool, err := ants.NewPool(cfg.Worker.PoolSize)
	if err != nil {
		return fmt.Errorf("init worker pool: %w", err)
	}
	defer pool.Release()

	hub := realtime.NewHub()
	defer hub.Close()

	reconciler := services.NewStatusReconciler(repository.NewProjectRepository(db), repository.NewTaskRepository(db))
	manager, err := scheduler.NewManager(reconciler, hub)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	if cfg.Scheduler.Enabled {
		if err := manager.RegisterOverdueJob(cfg.Scheduler.OverdueCron); err != nil {
			return fmt.Errorf("schedule overdue sweep: %w", err)
		}
	}
	manager.Start()
	defer manager.Stop()

	r := router.SetupRouter(router.Deps{
		DB:        db,
		Server:    cfg.Server,
		Hub:       hub,
		Files:     files,
		Mail:      sender,
		Pool:      pool,
		Scheduler: manager,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		utils.InfoLogger.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Server forced to shutdown: %v", err)
		return err
	}
	utils.InfoLogger.Println("Server exited")
	return nil
}
