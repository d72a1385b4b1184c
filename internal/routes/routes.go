package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/client-onboarding/internal/audit"
	"github.com/BruksfildServices01/client-onboarding/internal/config"
	domain "github.com/BruksfildServices01/client-onboarding/internal/domain/client"
	"github.com/BruksfildServices01/client-onboarding/internal/handlers"
	"github.com/BruksfildServices01/client-onboarding/internal/infra/notifier"
	infraRepo "github.com/BruksfildServices01/client-onboarding/internal/infra/repository"
	"github.com/BruksfildServices01/client-onboarding/internal/middleware"
	"github.com/BruksfildServices01/client-onboarding/internal/timezone"
	ucClient "github.com/BruksfildServices01/client-onboarding/internal/usecase/client"
	"github.com/BruksfildServices01/client-onboarding/internal/web"
)

// Deps are the process-wide collaborators opened by main.
type Deps struct {
	Logger *zap.Logger
	Audit  *audit.Dispatcher

	// DB is set only for the postgres store driver.
	DB *gorm.DB
	// Redis is set only when REDIS_URL is configured.
	Redis *redis.Client

	// Notifier overrides the Resend notifier (tests).
	Notifier domain.Notifier
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps) error {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORSMiddleware())

	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	clientRepo, err := newClientRepository(cfg, deps)
	if err != nil {
		return err
	}

	welcomeNotifier := deps.Notifier
	if welcomeNotifier == nil {
		welcomeNotifier, err = notifier.NewResendNotifier(cfg.ResendAPIKey)
		if err != nil {
			return err
		}
	}

	// ======================================================
	// USE CASES
	// ======================================================
	createClientUC := ucClient.NewCreateClient(
		clientRepo,
		welcomeNotifier,
		deps.Audit,
		cfg.ResendFromEmail,
		deps.Logger,
	)

	listClientsUC := ucClient.NewListClients(clientRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	clientHandler := handlers.NewClientHandler(createClientUC, listClientsUC, deps.Logger)
	clientWebHandler := handlers.NewClientWebHandler(
		createClientUC,
		listClientsUC,
		timezone.Location(cfg.DisplayTimezone),
		deps.Logger,
	)

	createLimit := middleware.RateLimitPerMinute(cfg.CreateRateLimitPerMin)

	r.GET("/health", handlers.Health)

	// ======================================================
	// WEB (HTML)
	// ======================================================
	r.GET("/", clientWebHandler.Index)
	r.GET("/clients/table", clientWebHandler.Table)
	r.POST("/clients", createLimit, clientWebHandler.Submit)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/clients", clientHandler.List)
		api.POST("/clients", createLimit, clientHandler.Create)

		if deps.DB != nil {
			api.GET("/audit-logs", handlers.NewAuditLogsHandler(deps.DB).List)
		}
	}

	return nil
}

func newClientRepository(cfg *config.Config, deps Deps) (domain.Repository, error) {
	var repo domain.Repository

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		if deps.DB == nil {
			return nil, fmt.Errorf("store driver %q needs a database", cfg.StoreDriver)
		}
		repo = infraRepo.NewClientGormRepository(deps.DB)
	case config.StoreDriverMemory:
		repo = infraRepo.NewClientMemoryRepository()
	default:
		repo = infraRepo.NewClientPostgRESTRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	}

	if deps.Redis != nil {
		repo = infraRepo.NewCachedClientRepository(
			repo,
			infraRepo.NewRedisListCache(deps.Redis),
			cfg.ClientListCacheTTL,
			deps.Logger,
		)
	}

	return repo, nil
}
