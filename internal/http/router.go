package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/shelf-locator/internal/auth"
	"github.com/rogerio-castellano/shelf-locator/internal/http/ban"
	"github.com/rogerio-castellano/shelf-locator/internal/http/handlers"
	rl "github.com/rogerio-castellano/shelf-locator/internal/http/rate_limiter"
	"github.com/rogerio-castellano/shelf-locator/internal/metrics"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Options selects the optional layers of the router. Zero values disable them.
type Options struct {
	Logger        logrus.FieldLogger
	Metrics       *metrics.Metrics
	Limiter       *rl.Limiter
	Banner        *ban.Banner
	Authenticator *auth.Authenticator
	// View serves the shelf map at /. It shares the limiter and ban list
	// with the lookup routes but not authentication.
	View http.Handler
	// TrustProxyHeaders takes the client IP from X-Forwarded-For/X-Real-IP.
	// Leave it off unless a proxy in front overwrites those headers.
	TrustProxyHeaders bool
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	if opts.Logger != nil {
		r.Use(RequestLogger(opts.Logger))
	}
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(cors.AllowAll().Handler)

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get("/healthz", handlers.HealthHandler)
	r.Get("/layout", handlers.GetLayoutHandler)
	if opts.View != nil {
		r.Group(func(r chi.Router) {
			throttle(r, opts)
			r.Handle("/", opts.View)
		})
	}

	r.Group(func(r chi.Router) { lookupRoutes(r, opts) })
	r.Route("/api", func(r chi.Router) { lookupRoutes(r, opts) })
	return r
}

func throttle(r chi.Router, opts Options) {
	if opts.Banner != nil {
		r.Use(opts.Banner.Middleware(ClientID))
	}
	if opts.Limiter != nil {
		r.Use(RateLimitMiddleware(opts.Limiter, opts.Banner, opts.Metrics))
	}
}

func lookupRoutes(r chi.Router, opts Options) {
	throttle(r, opts)
	if opts.Authenticator != nil {
		r.Use(AuthMiddleware(opts.Authenticator))
	}

	r.Get("/search", handlers.SearchProductByCodeHandler)
	r.Get("/getAllProductLists", handlers.GetAllProductListsHandler)
	r.Post("/getProductListByPos", handlers.GetProductListByPosHandler)
	r.Post("/getProductListByCode", handlers.GetProductListByCodeHandler)
}
