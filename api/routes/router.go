package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alcotrade/alcotrade-cms/api/controllers"
	"github.com/alcotrade/alcotrade-cms/api/middleware"
	"github.com/alcotrade/alcotrade-cms/internal/auth"
	"github.com/alcotrade/alcotrade-cms/internal/brands"
	"github.com/alcotrade/alcotrade-cms/internal/media"
	"github.com/alcotrade/alcotrade-cms/internal/partners"
	product "github.com/alcotrade/alcotrade-cms/internal/products"
	"github.com/alcotrade/alcotrade-cms/internal/profile"
	"github.com/alcotrade/alcotrade-cms/internal/sitesettings"
	"github.com/alcotrade/alcotrade-cms/internal/users"
	"github.com/alcotrade/alcotrade-cms/pkg/auth/session"
	"github.com/alcotrade/alcotrade-cms/pkg/config"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/metrics"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
)

// Services bundles everything the handlers call into.
type Services struct {
	Auth         auth.Service
	Products     product.Service
	Brands       brands.Service
	Media        media.Service
	Partners     partners.Service
	Users        users.Service
	Profile      profile.Service
	SiteSettings sitesettings.Service
}

// Infra is the shared plumbing behind the middleware stack.
type Infra struct {
	Sessions    session.AccessSessionChecker
	RateLimiter middleware.FixedWindowLimiter
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics
	Readiness   map[string]controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Logging(logg, infra.HTTPMetrics),
	)

	loginPolicy := middleware.AuthRateLimitPolicy{
		Name:       "login",
		Window:     cfg.AuthRateLimit.LoginWindow,
		IPLimit:    cfg.AuthRateLimit.LoginIPLimit,
		EmailLimit: cfg.AuthRateLimit.LoginEmailLimit,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, infra.Readiness, logg))
	})

	if infra.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, infra.RateLimiter, logg)).Post("/login", controllers.AuthLogin(svc.Auth, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(svc.Auth, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(svc.Auth, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, infra.Sessions, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(svc.Products, logg))
			r.Delete("/", controllers.ProductsBulkDelete(svc.Products, logg))
			r.Post("/save", controllers.ProductSave(svc.Products, logg))
			r.Get("/{id}", controllers.ProductDetail(svc.Products, logg))
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.BrandsList(svc.Brands, logg))
			r.Delete("/", controllers.BrandsBulkDelete(svc.Brands, logg))
			r.Get("/options", controllers.BrandOptions(svc.Brands, logg))
			r.Post("/save", controllers.BrandSave(svc.Brands, logg))
			r.Get("/{id}", controllers.BrandDetail(svc.Brands, logg))
		})

		r.Route("/upload", func(r chi.Router) {
			r.Post("/", controllers.MediaUpload(svc.Media, cfg.Media.MaxUploadBytes(), logg))
			r.Delete("/", controllers.MediaDelete(svc.Media, logg))
			r.Post("/partner-logo", controllers.PartnerLogoUpload(
				svc.Media,
				storage.JoinKey(cfg.Storage.DefaultFolder, "partners"),
				cfg.Media.MaxUploadBytes(),
				logg,
			))
		})

		r.Route("/partners", func(r chi.Router) {
			r.Get("/", controllers.PartnersList(svc.Partners, logg))
			r.Post("/", controllers.PartnerCreate(svc.Partners, logg))
			r.Post("/bulk-delete", controllers.PartnersBulkDelete(svc.Partners, logg))
			r.Patch("/{id}", controllers.PartnerUpdate(svc.Partners, logg))
			r.Delete("/{id}", controllers.PartnerDelete(svc.Partners, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleAdmin))
			r.Get("/", controllers.UsersList(svc.Users, logg))
			r.Post("/", controllers.UserCreate(svc.Users, logg))
			r.Patch("/{id}/password", controllers.UserSetPassword(svc.Users, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(svc.Profile, logg))
			avatarUpload := controllers.ProfileAvatarUpload(svc.Profile, cfg.Media.MaxAvatarBytes(), logg)
			r.Post("/avatar", avatarUpload)
			r.Patch("/avatar", avatarUpload)
			r.Delete("/avatar", controllers.ProfileAvatarReset(svc.Profile, logg))
		})

		r.Get("/site-settings", controllers.SiteSettingsGet(svc.SiteSettings, logg))
		r.Patch("/site-settings", controllers.SiteSettingsPatch(svc.SiteSettings, cfg.Media.MaxOGImageBytes(), logg))
	})

	return r
}
