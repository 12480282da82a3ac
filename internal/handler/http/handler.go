package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vnkatpara-dev/TastePulse/internal/aggregation"
	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	"github.com/vnkatpara-dev/TastePulse/internal/service"
	apperrors "github.com/vnkatpara-dev/TastePulse/pkg/errors"
	"github.com/vnkatpara-dev/TastePulse/pkg/httputil"
	"github.com/vnkatpara-dev/TastePulse/pkg/validator"
)

// ReviewHandler handles HTTP requests for the review and analytics endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// PredictRequest is the JSON request body for a sentiment prediction.
type PredictRequest struct {
	Text string `json:"text" validate:"required,notblank,max=5000"`
}

// CreateReviewRequest is the JSON request body for submitting a review.
type CreateReviewRequest struct {
	CustomerName   string `json:"customerName" validate:"required,notblank,max=100"`
	RestaurantName string `json:"restaurantName" validate:"required,notblank,max=200"`
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	Text           string `json:"text" validate:"required,notblank,max=5000"`
	Category       string `json:"category" validate:"required,notblank,max=100"`
}

func (req *CreateReviewRequest) draft() domain.ReviewDraft {
	return domain.ReviewDraft{
		CustomerName:   req.CustomerName,
		RestaurantName: req.RestaurantName,
		Rating:         req.Rating,
		Text:           req.Text,
		Category:       req.Category,
	}
}

// --- Handlers ---

// Predict handles POST /predict.
func (h *ReviewHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	prediction, err := h.service.PredictSentiment(r.Context(), req.Text)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prediction)
}

// CreateReview handles POST /reviews.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	review, err := h.service.SubmitReview(r.Context(), req.draft())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, review)
}

// ListReviews handles GET /reviews.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reviews)
}

// ListRestaurantReviews handles GET /reviews/{restaurantName}.
func (h *ReviewHandler) ListRestaurantReviews(w http.ResponseWriter, r *http.Request) {
	name, err := restaurantParam(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	reviews, err := h.service.ListRestaurantReviews(r.Context(), name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reviews)
}

// ListRestaurants handles GET /restaurants.
func (h *ReviewHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.service.ListRestaurants(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, restaurants)
}

// RestaurantSummary handles GET /restaurants/{restaurantName}/summary.
func (h *ReviewHandler) RestaurantSummary(w http.ResponseWriter, r *http.Request) {
	name, err := restaurantParam(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	summary, err := h.service.GetRestaurantSummary(r.Context(), name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

// Analytics handles GET /analytics.
func (h *ReviewHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.service.GetAnalytics(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, analytics)
}

// SentimentTrend handles GET /sentiment-trend[?fillGaps=true].
func (h *ReviewHandler) SentimentTrend(w http.ResponseWriter, r *http.Request) {
	var opts aggregation.TrendOptions
	if v := r.URL.Query().Get("fillGaps"); v != "" {
		fill, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("fillGaps must be a boolean"), h.logger)
			return
		}
		opts.FillGaps = fill
	}

	trend, err := h.service.GetSentimentTrend(r.Context(), opts)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, trend)
}

// CategoryBreakdown handles GET /category-breakdown.
func (h *ReviewHandler) CategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.GetCategoryBreakdown(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rows)
}

// restaurantParam returns the decoded {restaurantName} path segment. chi
// matches on RawPath when the request has one, leaving the segment escaped.
func restaurantParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "restaurantName")
	if r.URL.RawPath == "" {
		return name, nil
	}
	decoded, err := url.PathUnescape(name)
	if err != nil {
		return "", apperrors.InvalidInput("malformed restaurant name")
	}
	return decoded, nil
}
