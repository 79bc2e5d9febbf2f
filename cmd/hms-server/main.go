package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/domain/opd"
	"github.com/hms/hms/internal/domain/registry"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/document"
	"github.com/hms/hms/internal/platform/kvstore"
	"github.com/hms/hms/internal/platform/middleware"
	"github.com/hms/hms/internal/platform/reporting"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hms-server",
		Short: "Hospital OPD Management API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HMS API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// seedData maps department names to their doctors.
var seedData = map[string][]registry.Doctor{
	"Cardiology": {
		{Name: "Dr. Sarah Mitchell", Qualification: "MD, DM (Cardiology)", ConsultationFee: 800, Available: true},
		{Name: "Dr. Rajesh Kumar", Qualification: "MD (Cardiology)", ConsultationFee: 700, Available: true},
	},
	"Orthopedics": {
		{Name: "Dr. James Carter", Qualification: "MS (Ortho)", ConsultationFee: 600, Available: true},
	},
	"Pediatrics": {
		{Name: "Dr. Priya Sharma", Qualification: "MD (Pediatrics)", ConsultationFee: 500, Available: true},
	},
	"General Medicine": {
		{Name: "Dr. Anil Gupta", Qualification: "MBBS, MD", ConsultationFee: 400, Available: true},
		{Name: "Dr. Emily Watson", Qualification: "MBBS", ConsultationFee: 350, Available: true},
	},
	"Dermatology": {
		{Name: "Dr. Neha Verma", Qualification: "MD (Dermatology)", ConsultationFee: 550, Available: true},
	},
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed departments and doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := registry.NewService(
				registry.NewDepartmentRepoPG(pool),
				registry.NewDoctorRepoPG(pool),
				registry.NewPatientRepoPG(pool),
				registry.NewStaffRepoPG(pool),
			)

			for deptName, doctors := range seedData {
				dept, err := svc.GetDepartmentByName(ctx, deptName)
				if err != nil {
					dept = &registry.Department{Name: deptName}
					if err := svc.CreateDepartment(ctx, dept); err != nil {
						return fmt.Errorf("seed department %s: %w", deptName, err)
					}
					fmt.Printf("created department %s\n", deptName)
				}
				for _, d := range doctors {
					doc := d
					doc.DepartmentID = dept.ID
					if err := svc.CreateDoctor(ctx, &doc); err != nil {
						return fmt.Errorf("seed doctor %s: %w", doc.Name, err)
					}
					fmt.Printf("created doctor %s (%s)\n", doc.Name, deptName)
				}
			}
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Redis (OPD queue store)
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	logger.Info().Msg("connected to redis")

	letterhead := document.Letterhead{
		HospitalName: cfg.HospitalName,
		Address:      cfg.HospitalAddress,
		Phone:        cfg.HospitalPhone,
	}
	renderer := document.NewTextRenderer()

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	api := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))

	// Registry domain (departments, doctors, patients, staff)
	registrySvc := registry.NewService(
		registry.NewDepartmentRepoPG(pool),
		registry.NewDoctorRepoPG(pool),
		registry.NewPatientRepoPG(pool),
		registry.NewStaffRepoPG(pool),
	)
	registry.NewHandler(registrySvc).RegisterRoutes(api)

	// OPD queue manager
	queueStore := kvstore.NewRedisStore(rdb)
	opdSvc := opd.NewService(opd.NewKVRepo(queueStore, cfg.OPDQueueKey), registrySvc)
	opd.NewHandler(opdSvc, renderer, letterhead).RegisterRoutes(api)

	// Billing
	billingSvc := billing.NewService(billing.NewInvoiceRepoPG(pool), opdSvc, registrySvc, cfg.TaxRatePercent)
	billing.NewHandler(billingSvc, renderer, letterhead).RegisterRoutes(api)

	// Reporting dashboard
	reporting.NewHandler(pool, opdSvc, billingSvc).RegisterRoutes(api)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/health/ready", db.ReadyHandler(pool, rdb))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
