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

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/config"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	v1 "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/identity"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/notify"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/service"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/ratelimit"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/tracer"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "usalclinic",
		Short:        "UsalClinic clinic management API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create schemas, tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.Connect(cfg.Database, log)
			if err != nil {
				return err
			}
			defer closeDB(db, log)

			return database.Migrate(db, log)
		},
	}
}

func seedAdminCmd() *cobra.Command {
	var email, name, password string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.Connect(cfg.Database, log)
			if err != nil {
				return err
			}
			defer closeDB(db, log)

			mustChange := password == ""
			if mustChange {
				password = cfg.Provisioning.DefaultPassword
			}

			ids := identity.NewProvider(repository.NewUserRepository(db), log)
			ctx := cmd.Context()
			u, err := ids.CreateIdentity(ctx, identity.Profile{
				FullName:           name,
				Email:              email,
				EmailConfirmed:     true,
				MustChangePassword: mustChange,
			}, password)
			if err != nil {
				return err
			}
			if err := ids.AssignRole(ctx, u.ID, domain.RoleAdmin); err != nil {
				if delErr := ids.DeleteIdentity(ctx, u.ID); delErr != nil {
					log.Error("failed to remove admin identity", zap.Error(delErr))
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "admin@clinic.com", "login email")
	cmd.Flags().StringVar(&name, "name", "Clinic Administrator", "full name")
	cmd.Flags().StringVar(&password, "password", "", "initial password; empty uses the provisioning default and forces a change")
	return cmd
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log, err := logger.New(cfg.Log, cfg.App)
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	return cfg, log, nil
}

func runServer(migrate bool) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(ctx, cfg.Tracing, cfg.App)
	if err != nil {
		return fmt.Errorf("initialising tracer: %w", err)
	}

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeDB(db, log)

	if migrate {
		if err := database.Migrate(db, log); err != nil {
			return err
		}
	}

	m := metrics.NewCollector(cfg.App.Name, prometheus.NewRegistry())
	if err := database.Instrument(db, m); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("getting sql.DB: %w", err)
	}
	m.WatchDB(sqlDB, cfg.Database.Name)

	ipLimiter := ratelimit.NewIPLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	go ipLimiter.Run(ctx, time.Minute, 3*time.Minute)

	var authLimiter *ratelimit.RedisWindow
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, auth limiter will fail open", zap.Error(err))
		}
		authLimiter = ratelimit.NewRedisWindow(rdb, cfg.App.Name+":auth:", cfg.RateLimit.AuthRequestsPerMinute, time.Minute)
	}

	users := repository.NewUserRepository(db)
	ids := identity.NewProvider(users, log)
	uow := repository.NewUnitOfWork(db)
	sender := notify.New(cfg.Mail, log)
	jwt := auth.NewJWTManager(cfg.JWT)

	auditSvc := service.NewAuditService(repository.NewAuditRepository(db), m, log)
	provisioning := service.NewProvisioningService(ids, cfg.Provisioning, m, log)
	patients := service.NewPatientService(uow, provisioning, auditSvc, m, log)

	var mailState func() string
	if relay, ok := sender.(*notify.RelaySender); ok {
		mailState = func() string { return relay.State().String() }
	}

	router := v1.NewRouter(v1.RouterDeps{
		Config:      cfg,
		Log:         log,
		Metrics:     m,
		JWT:         jwt,
		IPLimiter:   ipLimiter,
		AuthLimiter: authLimiter,
		DB:          sqlDB,
		MailState:   mailState,
		Services: v1.Services{
			Auth:            service.NewAuthService(users, ids, jwt, auditSvc, log),
			Audit:           auditSvc,
			Appointments:    service.NewAppointmentService(uow, auditSvc, sender, m, log),
			Contact:         service.NewContactService(cfg.Mail.ContactInbox, sender, m, log),
			Dashboard:       service.NewDashboardService(uow, log),
			Departments:     service.NewDepartmentService(uow, auditSvc, log),
			Doctors:         service.NewDoctorService(uow, provisioning, auditSvc, log),
			FAQs:            service.NewFAQService(uow, auditSvc, log),
			MedicalRecords:  service.NewMedicalRecordService(uow, auditSvc, m, log),
			Nurses:          service.NewNurseService(uow, provisioning, auditSvc, log),
			PatientRequests: service.NewPatientRequestService(uow, patients, provisioning, auditSvc, sender, m, log),
			Patients:        patients,
			Prescriptions:   service.NewPrescriptionService(uow, auditSvc, m, log),
			Rooms:           service.NewRoomService(uow, auditSvc, log),
			Shifts:          service.NewShiftService(uow, ids, auditSvc, sender, m, cfg.App.Location(), log),
		},
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("timezone", cfg.App.Location().String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", zap.Error(err))
	}
	auditSvc.Shutdown()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("tracer shutdown", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("closing database", zap.Error(err))
	}
}
