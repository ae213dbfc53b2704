// @title SkyCast API
// @version 1.0
// @description Weather lookups, location autocomplete and saved weather reports
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/xyz-asif/skycast/docs"
	"github.com/xyz-asif/skycast/internal/config"
	"github.com/xyz-asif/skycast/internal/database"
	"github.com/xyz-asif/skycast/internal/features/auth"
	"github.com/xyz-asif/skycast/internal/features/reports"
	"github.com/xyz-asif/skycast/internal/features/weather"
	"github.com/xyz-asif/skycast/internal/middleware"
	"github.com/xyz-asif/skycast/internal/pkg/logger"
	"github.com/xyz-asif/skycast/internal/pkg/ratelimit"
	"github.com/xyz-asif/skycast/internal/pkg/response"
	"github.com/xyz-asif/skycast/internal/routes"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logger.L()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Warn().Msg("OPENWEATHER_API_KEY is not set, weather lookups will fail")
	}

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	dbCfg := database.DefaultConfig(cfg.MongoURI, cfg.MongoDB)
	dbCfg.Timeout = cfg.MongoTimeout
	db, err := database.Connect(dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	users := auth.NewRepository(db.Database)
	reportStore := reports.NewRepository(db.Database)
	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), cfg.MongoTimeout)
	if err := users.EnsureIndexes(indexCtx); err != nil {
		log.Warn().Err(err).Msg("failed to create user indexes")
	}
	if err := reportStore.EnsureIndexes(indexCtx); err != nil {
		log.Warn().Err(err).Msg("failed to create report indexes")
	}
	cancelIndexes()

	weatherClient := weather.NewClient(weather.ClientConfig{
		APIKey:  cfg.OpenWeatherAPIKey,
		BaseURL: cfg.OpenWeatherBaseURL,
		GeoURL:  cfg.OpenWeatherGeoURL,
		Timeout: cfg.HTTPClientTimeout,
	})

	appCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var limiter *ratelimit.RateLimiter
	if cfg.RateLimitRequests > 0 {
		limiter = ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow)
		go limiter.RunCleanup(appCtx, time.Minute, 10*time.Minute)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.FrontendURL))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			response.ServiceUnavailable(c, "Database unavailable", "DB_UNAVAILABLE")
			return
		}
		response.Success(c, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	routes.SetupRoutes(router, routes.Dependencies{
		Config:  cfg,
		Users:   users,
		Reports: reportStore,
		Weather: weatherClient,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.AppEnv).
			Str("authMode", cfg.AuthMode).
			Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
