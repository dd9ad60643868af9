package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/foodshelter/internal/authz"
	"github.com/geocoder89/foodshelter/internal/config"
	"github.com/geocoder89/foodshelter/internal/geocode"
	"github.com/geocoder89/foodshelter/internal/http/handlers"
	"github.com/geocoder89/foodshelter/internal/http/middlewares"
	"github.com/geocoder89/foodshelter/internal/observability"
	"github.com/geocoder89/foodshelter/internal/repo"
	"github.com/geocoder89/foodshelter/internal/session"
	"github.com/geocoder89/foodshelter/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	Prom      *observability.Prom
	Gatherer  prometheus.Gatherer
	Repos     repo.Set
	Sessions  session.Store
	Accounts  handlers.AccountService
	Dashboard handlers.DashboardService
	Geocoder  geocode.Geocoder
	// Health defaults to a handler that pings Repos.
	Health *handlers.HealthHandler
}

// NewOwnershipGuard registers the owner lookup of every record kind.
func NewOwnershipGuard(repos repo.Set) *authz.Guard {
	return authz.NewGuard(map[authz.Kind]authz.Lookup{
		authz.FoodStock:       authz.OwnerLookup(repos.FoodStock.GetByID),
		authz.ShelterLocation: authz.OwnerLookup(repos.Locations.GetByID),
		authz.Note:            authz.OwnerLookup(repos.Notes.GetByID),
		authz.Budget:          authz.OwnerLookup(repos.Budgets.GetByID),
		authz.Volunteer:       authz.OwnerLookup(repos.Volunteers.GetByID),
		authz.Donation:        authz.OwnerLookup(repos.Donations.GetByID),
	})
}

func NewRouter(d Deps) (*gin.Engine, error) {
	cfg := d.Config

	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	secure := strings.HasPrefix(cfg.BaseURL, "https://")

	sessions := middlewares.NewSessionAuth(d.Sessions, middlewares.CookieConfig{
		Name:   "session",
		Secure: secure,
		TTL:    cfg.SessionTTL,
	}, d.Log)

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("foodshelter"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders(secure))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))

	// probes and metrics sit outside CSRF and sessions

	health := d.Health
	if health == nil {
		health = handlers.NewHealthHandler(map[string]handlers.Check{"database": d.Repos.Ping})
	}
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	r.StaticFS("/static", http.FS(web.Static()))

	// handlers

	authHandler := handlers.NewAuthHandler(d.Accounts, sessions, cfg.BaseURL, d.Log)
	profileHandler := handlers.NewProfileHandler(d.Accounts, d.Log)
	pagesHandler := handlers.NewPagesHandler(d.Dashboard, d.Log)
	recordsHandler := handlers.NewRecordsHandler(
		d.Repos,
		NewOwnershipGuard(d.Repos),
		d.Geocoder,
		handlers.RecordsConfig{RequireGeocodeMatch: cfg.GeocodeRequireMatch},
		d.Log,
	)

	authLimiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, time.Minute)
	limited := authLimiter.RateLimiterMiddleware(middlewares.KeyByIP)

	site := r.Group("/")
	site.Use(middlewares.CSRF(secure))
	site.Use(sessions.LoadSession())

	// public

	site.GET("/", pagesHandler.Home)
	site.GET("/login", authHandler.LoginPage)
	site.POST("/login", limited, authHandler.Login)
	site.GET("/logout", authHandler.Logout)
	site.GET("/register", authHandler.RegisterPage)
	site.POST("/register", limited, authHandler.Register)
	site.GET("/forgot_password", authHandler.ForgotPasswordPage)
	site.POST("/forgot_password", limited, authHandler.ForgotPassword)
	site.GET("/reset_password/:token", authHandler.ResetPasswordPage)
	site.POST("/reset_password/:token", limited, authHandler.ResetPassword)

	// operator pages

	private := site.Group("/")
	private.Use(sessions.RequireAuth())

	private.GET("/dashboard", pagesHandler.Dashboard)
	private.GET("/low_stock", pagesHandler.LowStock)
	private.GET("/expiring_soon", pagesHandler.ExpiringSoon)
	private.GET("/update_profile", profileHandler.Page)
	private.POST("/update_profile", profileHandler.Update)

	private.POST("/add_food_stock", recordsHandler.AddFoodStock)
	private.POST("/add_shelter_location", recordsHandler.AddShelterLocation)
	private.POST("/add_note", recordsHandler.AddNote)
	private.POST("/add_budget", recordsHandler.AddBudget)
	private.POST("/add_volunteer", recordsHandler.AddVolunteer)
	private.POST("/add_donation", recordsHandler.AddDonation)

	private.POST("/update_food_stock/:id", middlewares.RequireJSON(), recordsHandler.UpdateFoodStock)

	for _, kind := range authz.Kinds {
		private.POST("/delete_"+kind.Slug()+"/:id", recordsHandler.Delete(kind))
	}

	r.NoRoute(func(c *gin.Context) {
		handlers.RespondErrorPage(c, http.StatusNotFound, "Not found", "There is nothing at this address.")
	})

	return r, nil
}
