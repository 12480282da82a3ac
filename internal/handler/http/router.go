package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vnkatpara-dev/TastePulse/internal/service"
	"github.com/vnkatpara-dev/TastePulse/pkg/health"
	"github.com/vnkatpara-dev/TastePulse/pkg/middleware"
)

const serviceName = "tastepulse"

// RouterConfig holds the edge settings of the HTTP API.
type RouterConfig struct {
	APIPrefix string
	CORS      middleware.CORSConfig
	// PprofCIDRs admits profiling requests from these networks. Empty
	// disables /debug/pprof.
	PprofCIDRs []string
	// RateLimiter guards the write and predict routes. Nil disables limiting.
	RateLimiter *middleware.RateLimiter
}

// NewRouter creates a chi router with all TastePulse routes registered.
func NewRouter(
	cfg RouterConfig,
	reviewService *service.ReviewService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	// Operational endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	if len(cfg.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)
	}

	reviewHandler := NewReviewHandler(reviewService, logger)

	limited := func(h http.HandlerFunc) http.Handler {
		if cfg.RateLimiter == nil {
			return h
		}
		return cfg.RateLimiter.Handler(h)
	}

	r.Route(cfg.APIPrefix, func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Method(http.MethodPost, "/predict", limited(reviewHandler.Predict))

		r.Get("/reviews", reviewHandler.ListReviews)
		r.Method(http.MethodPost, "/reviews", limited(reviewHandler.CreateReview))
		r.Get("/reviews/{restaurantName}", reviewHandler.ListRestaurantReviews)

		r.Get("/restaurants", reviewHandler.ListRestaurants)
		r.Get("/restaurants/{restaurantName}/summary", reviewHandler.RestaurantSummary)

		r.Get("/analytics", reviewHandler.Analytics)
		r.Get("/sentiment-trend", reviewHandler.SentimentTrend)
		r.Get("/category-breakdown", reviewHandler.CategoryBreakdown)
	})

	return r
}
