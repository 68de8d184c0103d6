package routes

import (
	"io"
	"os"
	"time"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"gorm.io/gorm"

	"track_swiftly/internal/auth"
	"track_swiftly/internal/config"
	"track_swiftly/internal/controllers"
	"track_swiftly/internal/middleware"
	"track_swiftly/internal/models"
	"track_swiftly/internal/policy"
	"track_swiftly/internal/repository"
	"track_swiftly/internal/services"
)

// Dependencies is everything the router needs to serve requests.
type Dependencies struct {
	Config    *config.Config
	Auth      *services.AuthService
	Users     *services.UserService
	Packages  *services.PackageService
	Stats     *services.StatsService
	NewRelic  *newrelic.Application
	AccessLog io.Writer
	Started   time.Time
}

// NewDependencies wires repositories, policy and services on top of db.
func NewDependencies(db *gorm.DB, cfg *config.Config, tracking services.TrackingCache) Dependencies {
	users := repository.NewUserRepository(db)
	packages := repository.NewPackageRepository(db)
	gate := policy.NewDefaultGate(cfg.Policy.RestrictStaffUpdates)

	var transitions models.TransitionValidator = models.AnyTransition{}
	if cfg.Ledger.StrictTransitions {
		transitions = models.ForwardOnlyTransitions{}
	}

	return Dependencies{
		Config:   cfg,
		Auth:     services.NewAuthService(users, auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)),
		Users:    services.NewUserService(users, gate, tracking),
		Packages: services.NewPackageService(packages, users, gate, transitions, tracking),
		Stats:    services.NewStatsService(packages, gate),
		Started:  time.Now(),
	}
}

func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	if err := controllers.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())

	accessLog := deps.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}
	r.Use(ginlogger.SetLogger(
		ginlogger.WithWriter(accessLog),
		ginlogger.WithSkipPath([]string{"/health"}),
		ginlogger.WithUTC(true),
	))
	if deps.NewRelic != nil {
		r.Use(nrgin.Middleware(deps.NewRelic))
	}
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.CORS(deps.Config.Server))
	if deps.Config.RateLimit.Enabled {
		r.Use(middleware.RateLimit(middleware.NewRateLimiter(deps.Config.RateLimit)))
	}

	r.GET("/health", controllers.Health(deps.Started))

	api := r.Group("/api")
	requireAuth := middleware.RequireAuth(deps.Auth)
	AuthRoutes(api, controllers.NewAuthController(deps.Auth), requireAuth)
	PackageRoutes(api, controllers.NewPackageController(deps.Packages), requireAuth)
	UserRoutes(api, controllers.NewUserController(deps.Users), requireAuth)
	StatsRoutes(api, controllers.NewStatsController(deps.Stats), requireAuth)

	r.NoRoute(controllers.NotFound)
	return r, nil
}
