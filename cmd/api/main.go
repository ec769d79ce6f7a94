package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "sk-pengajuan/internal/common/api"
	"sk-pengajuan/internal/config"
	"sk-pengajuan/internal/database"
	"sk-pengajuan/internal/features/administrasi"
	"sk-pengajuan/internal/features/audit"
	"sk-pengajuan/internal/features/notification"
	"sk-pengajuan/internal/features/organization"
	"sk-pengajuan/internal/features/pengajuan"
	"sk-pengajuan/internal/features/pengurus"
	"sk-pengajuan/internal/features/reminder"
	"sk-pengajuan/internal/features/system"
	"sk-pengajuan/internal/logger"
	"sk-pengajuan/internal/middleware"
	"sk-pengajuan/pkg/utils"

	_ "sk-pengajuan/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every route in the "routes" group.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	logger.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		logger.Debug("Setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer starts Fiber in a goroutine and shuts it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	logger *zap.Logger,
	submissions pengajuan.SubmissionRepository,
	records administrasi.RecordRepository,
	jabatan pengurus.CustomJabatanRepository,
	notifications notification.NotificationRepository,
	audits audit.AuditRepository,
) {
	repos := map[string]indexer{
		"pengajuan":      submissions,
		"administrasi":   records,
		"custom_jabatan": jabatan,
		"notification":   notifications,
		"audit":          audits,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				for name, repo := range repos {
					if err := repo.EnsureIndexes(ctx); err != nil {
						logger.Error("Failed to ensure indexes", zap.String("collection", name), zap.Error(err))
					}
				}
			}()
			return nil
		},
	})
}

// RunNotificationHub owns the hub goroutine for the lifetime of the app.
func RunNotificationHub(lc fx.Lifecycle, hub *notification.Hub) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go hub.Run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			hub.Stop()
			return nil
		},
	})
}

func StartReminder(lc fx.Lifecycle, reminders reminder.ReminderService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return reminders.Start()
		},
		OnStop: func(ctx context.Context) error {
			reminders.Stop()
			return nil
		},
	})
}

// @title           Pengajuan SK API
// @version         1.0
// @description     SK submission and administrative approval workflow for DPD, DPC and PAC units.

// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			audit.NewAuditRepository,
			organization.NewUnitRepository,
			notification.NewNotificationRepository,
			pengurus.NewCustomJabatanRepository,
			pengajuan.NewSubmissionRepository,
			administrasi.NewRecordRepository,
			reminder.NewRunRepository,

			// Services
			func(cfg *config.Config) *pengurus.RosterValidator {
				return pengurus.NewRosterValidator(cfg.GenderQuotaPercent)
			},
			notification.NewHub,
			audit.NewAuditService,
			organization.NewUnitService,
			notification.NewNotificationService,
			pengurus.NewCustomJabatanService,
			pengajuan.NewSubmissionService,
			administrasi.NewRecordService,
			reminder.NewReminderService,

			// Controllers
			audit.NewAuditController,
			organization.NewUnitController,
			notification.NewNotificationController,
			pengurus.NewPengurusController,
			pengajuan.NewSubmissionController,
			administrasi.NewRecordController,
			reminder.NewReminderController,
			system.NewSystemController,

			// Routes
			AsRoute(system.NewSystemApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(organization.NewUnitApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(pengurus.NewPengurusApi),
			AsRoute(pengajuan.NewSubmissionApi),
			AsRoute(administrasi.NewRecordApi),
			AsRoute(reminder.NewReminderApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			RunNotificationHub,
			StartServer,
			StartReminder,
			InitializeIndexes,
		),
	)

	app.Run()
}
