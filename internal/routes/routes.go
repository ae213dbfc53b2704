package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/xyz-asif/skycast/internal/config"
	"github.com/xyz-asif/skycast/internal/features/auth"
	"github.com/xyz-asif/skycast/internal/features/reports"
	"github.com/xyz-asif/skycast/internal/features/weather"
	"github.com/xyz-asif/skycast/internal/middleware"
	"github.com/xyz-asif/skycast/internal/pkg/jwt"
	"github.com/xyz-asif/skycast/internal/pkg/ratelimit"
)

// Dependencies are the backends the API is wired to. Limiter may be nil to
// disable rate limiting.
type Dependencies struct {
	Config  *config.Config
	Users   auth.UserStore
	Reports reports.Store
	Weather weather.Provider
	Limiter *ratelimit.RateLimiter
}

// JWTConfig derives the token settings from the app config.
func JWTConfig(cfg *config.Config) *jwt.Config {
	return &jwt.Config{
		Secret:        cfg.JWTSecret,
		AccessExpiry:  time.Duration(cfg.JWTExpireHours) * time.Hour,
		Issuer:        cfg.JWTIssuer,
		SigningMethod: gojwt.SigningMethodHS256,
	}
}

// SetupRoutes mounts every feature at the root and again under /api/v1.
// In strict auth mode report reads and weather lookups require a token.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	jwtCfg := JWTConfig(cfg)
	requireAuth := middleware.Auth(jwtCfg)
	strict := cfg.StrictAuth()

	authHandler := auth.NewHandler(auth.NewService(deps.Users, jwtCfg))
	reportHandler := reports.NewHandler(reports.NewService(deps.Reports), strict)
	weatherHandler := weather.NewHandler(weather.NewService(deps.Weather))

	var limited []gin.HandlerFunc
	if deps.Limiter != nil {
		limited = append(limited, ratelimit.Middleware(deps.Limiter))
	}

	weatherChain := append([]gin.HandlerFunc{}, limited...)
	if strict {
		weatherChain = append(weatherChain, requireAuth)
	}

	for _, group := range []*gin.RouterGroup{&router.RouterGroup, router.Group("/api/v1")} {
		auth.RegisterRoutes(group, authHandler, requireAuth, limited...)
		reports.RegisterRoutes(group, reportHandler, requireAuth)
		weather.RegisterRoutes(group, weatherHandler, weatherChain...)
	}
}
