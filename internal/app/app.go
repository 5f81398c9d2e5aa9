// Package app monta as dependências do CotizAI e registra as rotas HTTP.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/diillson/cotizai-api/internal/adapter/database"
	"github.com/diillson/cotizai-api/internal/adapter/gemini"
	httpadapter "github.com/diillson/cotizai-api/internal/adapter/http"
	"github.com/diillson/cotizai-api/internal/adapter/memstore"
	"github.com/diillson/cotizai-api/internal/adapter/webpage"
	"github.com/diillson/cotizai-api/internal/app/analyzer"
	"github.com/diillson/cotizai-api/internal/app/auth"
	"github.com/diillson/cotizai-api/internal/app/generator"
	"github.com/diillson/cotizai-api/internal/app/operacion"
	"github.com/diillson/cotizai-api/internal/app/seed"
	"github.com/diillson/cotizai-api/internal/domain/repository"
	"github.com/diillson/cotizai-api/internal/domain/service"
	"github.com/diillson/cotizai-api/internal/infra/metrics"
	"github.com/diillson/cotizai-api/internal/infra/middleware"
	"github.com/diillson/cotizai-api/pkg/cache"
	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/diillson/cotizai-api/pkg/ratelimit"
	"github.com/diillson/cotizai-api/pkg/security"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Services agrupa os serviços de domínio montados
type Services struct {
	Auth        *auth.AuthService
	Operaciones *operacion.Service
	Generator   *generator.Service
	Runner      *analyzer.Runner
	Crawler     *analyzer.CrawlerStrategy
	Structure   *analyzer.StructureStrategy
}

// Deps são os colaboradores externos. Campos nil recebem a implementação padrão.
type Deps struct {
	Users       repository.UserRepository
	Operaciones repository.OperacionRepository
	Fetcher     webpage.Fetcher
	Generator   service.TextGenerator
	Cache       cache.Cache
	Limiter     ratelimit.Limiter
	DB          httpadapter.Pinger
	Registry    *prometheus.Registry
}

type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.APIMetrics
	Services   *Services
	Middleware *middleware.Middleware
	Health     *httpadapter.HealthChecker
	Cache      cache.Cache

	closers []func() error
}

// NewApp cria a aplicação a partir da configuração, abrindo banco, cache e cliente de IA
func NewApp(ctx context.Context, logger *zap.Logger, cfg *config.Config) (*App, error) {
	var (
		deps    Deps
		closers []func() error
	)

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	apiMetrics := metrics.NewAPIMetrics(deps.Registry)

	if cfg.Database.Driver == "memory" {
		logger.Warn("Usando armazenamento em memória; os dados se perdem ao reiniciar")
		deps.Users = memstore.NewUserRepository()
		deps.Operaciones = memstore.NewOperacionRepository()
	} else {
		db, err := database.NewDatabase(ctx, database.Config{
			Driver:          cfg.Database.Driver,
			DSN:             cfg.Database.DSN,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			LogLevel:        database.ParseLogLevel(cfg.Database.LogLevel),
			SlowThreshold:   cfg.Database.SlowThreshold,
			MigrationDir:    cfg.Database.MigrationDir,
			SkipMigrations:  cfg.Database.SkipMigrations,
		}, logger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, db.Close)
		deps.DB = db
		deps.Users = database.NewUserRepository(db.DB(), logger)
		deps.Operaciones = database.NewOperacionRepository(db.DB(), logger)
	}

	redisClient, err := redisClientFor(ctx, cfg, logger)
	if err != nil {
		closeAll(closers, logger)
		return nil, err
	}
	if redisClient != nil {
		closers = append(closers, redisClient.Close)
	}

	switch {
	case !cfg.Cache.Enabled:
		deps.Cache = &cache.NoOpCache{}
	case cfg.Cache.Type == "redis":
		deps.Cache = cache.NewRedisCache(redisClient, logger)
	default:
		deps.Cache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute, apiMetrics, logger)
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.Backend == "redis" {
			deps.Limiter = ratelimit.NewRedisLimiter(redisClient, logger)
		} else {
			deps.Limiter = ratelimit.NewMemoryLimiter(logger)
		}
	}

	deps.Fetcher = webpage.NewHTTPFetcher(webpage.HTTPFetcherConfig{
		UserAgent:    cfg.Analyzer.UserAgent,
		MaxBodyBytes: cfg.Analyzer.MaxBodyBytes,
	}, logger, apiMetrics)

	var aiClient *gemini.Client
	aiClient, err = gemini.NewClient(ctx, cfg.AI, logger, apiMetrics)
	switch {
	case err == nil:
		deps.Generator = aiClient
	case errors.Is(err, service.ErrGeneratorDisabled):
		logger.Warn("IA generativa desativada; usando textos padrão")
		deps.Generator = service.DisabledGenerator{}
	default:
		logger.Error("Falha ao iniciar cliente de IA; usando textos padrão", zap.Error(err))
		deps.Generator = service.DisabledGenerator{}
	}

	a, err := newApp(ctx, logger, cfg, deps, apiMetrics)
	if err != nil {
		closeAll(closers, logger)
		return nil, err
	}
	a.closers = closers
	if aiClient != nil {
		a.Health.AddInfo("ai_circuit_breaker", aiClient.BreakerState)
	}
	return a, nil
}

// NewAppWithDeps monta a aplicação sobre colaboradores já construídos
func NewAppWithDeps(ctx context.Context, logger *zap.Logger, cfg *config.Config, deps Deps) (*App, error) {
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	return newApp(ctx, logger, cfg, deps, metrics.NewAPIMetrics(deps.Registry))
}

func newApp(ctx context.Context, logger *zap.Logger, cfg *config.Config, deps Deps, apiMetrics *metrics.APIMetrics) (*App, error) {
	if deps.Users == nil || deps.Operaciones == nil {
		return nil, errors.New("repositórios de usuários e operações são obrigatórios")
	}
	if deps.Fetcher == nil {
		deps.Fetcher = webpage.NewHTTPFetcher(webpage.HTTPFetcherConfig{}, logger, apiMetrics)
	}
	if deps.Generator == nil {
		deps.Generator = service.DisabledGenerator{}
	}
	if deps.Cache == nil {
		deps.Cache = &cache.NoOpCache{}
	}

	keyManager, err := security.NewKeyManager(cfg.Auth.JWTSecret, logger)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar gerenciador de chaves: %w", err)
	}

	authService := auth.NewAuthService(keyManager, deps.Users, deps.Cache, auth.Options{
		TokenExpiration: cfg.Auth.TokenExpiration,
		BcryptCost:      cfg.Auth.BcryptCost,
	}, logger, apiMetrics)

	services := &Services{
		Auth:        authService,
		Operaciones: operacion.NewService(deps.Operaciones, logger, apiMetrics),
		Generator:   generator.NewService(deps.Generator, logger, apiMetrics),
		Runner:      analyzer.NewRunner(deps.Fetcher, logger, apiMetrics),
		Crawler:     analyzer.NewCrawlerStrategy(cfg.Analyzer.CrawlerTimeout),
		Structure:   analyzer.NewStructureStrategy(deps.Generator, cfg.Analyzer.StructureTimeout, logger),
	}

	if cfg.Seed.Enabled {
		err := seed.Run(ctx, deps.Users, deps.Operaciones, seed.Options{
			AdminPassword: cfg.Seed.AdminPassword,
			Operaciones:   cfg.Seed.Operaciones,
			BcryptCost:    cfg.Auth.BcryptCost,
		}, logger)
		if err != nil {
			// a API continua de pé sem os dados padrão
			logger.Error("Falha ao carregar dados iniciais", zap.Error(err))
		}
	}

	health := httpadapter.NewHealthChecker(deps.DB, deps.Cache, logger)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Registry:   deps.Registry,
		Metrics:    apiMetrics,
		Services:   services,
		Middleware: middleware.NewMiddleware(cfg, authService, deps.Limiter, apiMetrics, logger),
		Health:     health,
		Cache:      deps.Cache,
	}, nil
}

// RegisterRoutes registra todas as rotas no router
func (a *App) RegisterRoutes(router *gin.Engine) {
	mw := a.Middleware

	router.Use(mw.Recovery())
	router.Use(mw.RequestID())
	router.Use(mw.Logger())
	if a.Config.Tracing.Enabled {
		router.Use(mw.Tracing())
	}
	router.Use(mw.Metrics())
	router.Use(mw.SecurityHeaders())
	router.Use(mw.CORS())
	router.Use(mw.IgnoreFavicon())

	authHandler := httpadapter.NewAuthHandler(a.Services.Auth, a.Logger)
	userHandler := httpadapter.NewUserHandler(a.Services.Auth, a.Logger)
	operacionHandler := httpadapter.NewOperacionHandler(a.Services.Operaciones, a.Logger)
	analysisHandler := httpadapter.NewAnalysisHandler(
		a.Services.Runner,
		a.Services.Crawler,
		a.Services.Structure,
		a.Services.Generator,
		a.Logger,
	)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "CotizAI API",
			"status":    "running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.GET("/health", a.Health.DetailedHealth)
	router.GET("/health/liveness", a.Health.LivenessCheck)
	router.GET("/health/readiness", a.Health.ReadinessCheck)

	if a.Config.Metrics.Enabled {
		middleware.RegisterMetricsEndpoint(router, a.Config.Metrics.PrometheusPath, a.Registry, a.Logger)
	}

	public := router.Group("/auth")
	{
		public.POST("/login", mw.LoginRateLimit(), authHandler.Login)
		public.POST("/register", authHandler.Register)

		analysis := public.Group("")
		analysis.Use(mw.AnalysisRateLimit())
		{
			analysis.POST("/analizar-web", analysisHandler.AnalyzeWeb)
			analysis.POST("/analizar-web-avanzado", analysisHandler.AnalyzeWeb)
			analysis.POST("/analizar-estructura-web", analysisHandler.AnalyzeStructure)
			analysis.POST("/generar-descripcion-proyecto", analysisHandler.ProjectDescription)
			analysis.POST("/analizar-tiempo-desarrollo", analysisHandler.ProjectTime)
			analysis.POST("/mejorar-requerimientos", analysisHandler.ImproveRequirements)
		}
	}

	protected := router.Group("/auth")
	protected.Use(mw.Authenticate)
	{
		protected.POST("/logout", authHandler.Logout)
		protected.GET("/profile", authHandler.Profile)
		protected.GET("/validate", authHandler.Validate)

		protected.GET("/operaciones", operacionHandler.ListOperaciones)
		protected.GET("/areas", operacionHandler.Areas)
		protected.POST("/guardar-cotizacion", operacionHandler.GuardarCotizacion)
	}

	admin := router.Group("/auth")
	admin.Use(mw.Authenticate, mw.RequireAdmin)
	{
		admin.POST("/operaciones", operacionHandler.CreateOperacion)
		admin.GET("/operaciones/:id", operacionHandler.GetOperacion)
		admin.PUT("/operaciones/:id", operacionHandler.UpdateOperacion)
		admin.PATCH("/operaciones/:id/estado", operacionHandler.UpdateEstado)
		admin.DELETE("/operaciones/:id", operacionHandler.DeleteOperacion)

		admin.GET("/usuarios", userHandler.ListUsers)
		admin.PUT("/usuarios/:id", userHandler.UpdateUser)
		admin.DELETE("/usuarios/:id", userHandler.DeleteUser)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Ruta no encontrada",
			"path":    c.Request.URL.Path,
		})
	})
}

// Close libera banco e Redis
func (a *App) Close() {
	closeAll(a.closers, a.Logger)
}

func closeAll(closers []func() error, logger *zap.Logger) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("falha ao liberar recurso", zap.Error(err))
		}
	}
}

// redisClientFor abre uma única conexão Redis quando cache ou rate limit a pedem
func redisClientFor(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	needsRedis := (cfg.Cache.Enabled && cfg.Cache.Type == "redis") ||
		(cfg.RateLimit.Enabled && cfg.RateLimit.Backend == "redis")
	if !needsRedis {
		return nil, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Cache.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao Redis: %w", err)
	}
	return client, nil
}
