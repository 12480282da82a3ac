package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vnkatpara-dev/TastePulse/internal/cache"
	"github.com/vnkatpara-dev/TastePulse/internal/classifier"
	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	"github.com/vnkatpara-dev/TastePulse/internal/repository"
	apperrors "github.com/vnkatpara-dev/TastePulse/pkg/errors"
	"github.com/vnkatpara-dev/TastePulse/pkg/httpclient"
)

// EventPublisher announces stored reviews.
type EventPublisher interface {
	PublishReviewCreated(ctx context.Context, review *domain.Review) error
}

// Config tunes the storage retry policy.
type Config struct {
	StorageMaxAttempts   uint
	StorageRetryInterval time.Duration
}

// DefaultConfig returns three storage attempts starting at 50ms.
func DefaultConfig() Config {
	return Config{
		StorageMaxAttempts:   3,
		StorageRetryInterval: 50 * time.Millisecond,
	}
}

// ReviewService implements review submission, sentiment prediction and the
// analytics queries on top of the stores, the classifier and the cache.
type ReviewService struct {
	reviews     repository.ReviewStore
	restaurants repository.RestaurantCatalog
	classifier  classifier.Classifier
	cache       cache.AnalyticsCache
	events      EventPublisher
	cfg         Config
	logger      *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewReviewService creates a new review service. A nil cache or publisher
// disables that concern.
func NewReviewService(
	reviews repository.ReviewStore,
	restaurants repository.RestaurantCatalog,
	clf classifier.Classifier,
	analyticsCache cache.AnalyticsCache,
	events EventPublisher,
	cfg Config,
	logger *slog.Logger,
) *ReviewService {
	if analyticsCache == nil {
		analyticsCache = cache.Noop{}
	}
	if cfg.StorageMaxAttempts == 0 {
		cfg.StorageMaxAttempts = 1
	}
	if cfg.StorageRetryInterval <= 0 {
		cfg.StorageRetryInterval = DefaultConfig().StorageRetryInterval
	}
	return &ReviewService{
		reviews:     reviews,
		restaurants: restaurants,
		classifier:  clf,
		cache:       analyticsCache,
		events:      events,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// SubmitReview validates and classifies draft, then stores it under a fresh ID.
func (s *ReviewService) SubmitReview(ctx context.Context, draft domain.ReviewDraft) (*domain.Review, error) {
	return s.SubmitReviewWithID(ctx, s.newID(), draft)
}

// SubmitReviewWithID is SubmitReview with a caller-chosen ID. When the ID is
// already stored, the stored review is returned unchanged and neither the
// cache nor the event stream is touched.
func (s *ReviewService) SubmitReviewWithID(ctx context.Context, id string, draft domain.ReviewDraft) (*domain.Review, error) {
	if err := draft.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	prediction, err := s.classify(ctx, draft.Text)
	if err != nil {
		return nil, err
	}

	review := domain.NewReview(id, draft, prediction, s.now())

	// A failed attempt may still have committed, in which case the retry
	// reports a duplicate of our own insert.
	failedAttempt := false
	created, err := withStorageRetry(ctx, s, "append review", func() (bool, error) {
		created, err := s.reviews.Append(ctx, review)
		if err != nil {
			failedAttempt = true
		}
		return created, err
	})
	if err != nil {
		return nil, err
	}

	if !created {
		stored, err := withStorageRetry(ctx, s, "get review", func() (*domain.Review, error) {
			return s.reviews.Get(ctx, id)
		})
		if err != nil {
			return nil, err
		}
		if !failedAttempt {
			s.logger.InfoContext(ctx, "review already stored",
				slog.String("review_id", id),
			)
			return stored, nil
		}
		review = stored
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate analytics cache",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	if s.events != nil {
		if err := s.events.PublishReviewCreated(ctx, review); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish review.created event",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "review submitted",
		slog.String("review_id", review.ID),
		slog.String("restaurant", review.RestaurantName),
		slog.String("sentiment", review.Sentiment),
	)
	return review, nil
}

// PredictSentiment classifies text without storing anything.
func (s *ReviewService) PredictSentiment(ctx context.Context, text string) (*domain.Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.InvalidInput("text is required")
	}
	return s.classify(ctx, text)
}

// ListReviews returns every review ordered by creation time.
func (s *ReviewService) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return withStorageRetry(ctx, s, "list reviews", func() ([]domain.Review, error) {
		return s.reviews.ListAll(ctx)
	})
}

// ListRestaurantReviews returns the reviews of one restaurant. An unknown
// restaurant yields an empty list.
func (s *ReviewService) ListRestaurantReviews(ctx context.Context, restaurantName string) ([]domain.Review, error) {
	return withStorageRetry(ctx, s, "list restaurant reviews", func() ([]domain.Review, error) {
		return s.reviews.ListByRestaurant(ctx, restaurantName)
	})
}

// classify maps classifier failures onto application errors.
func (s *ReviewService) classify(ctx context.Context, text string) (*domain.Prediction, error) {
	prediction, err := s.classifier.Classify(ctx, text)
	if err == nil {
		return prediction, nil
	}

	switch {
	case errors.Is(err, classifier.ErrEmptyText):
		return nil, apperrors.InvalidInput("text is required")
	case errors.Is(err, httpclient.ErrCircuitOpen),
		errors.Is(err, httpclient.ErrTooManyRequests),
		errors.Is(err, context.DeadlineExceeded):
		return nil, apperrors.ServiceUnavailable("sentiment classifier is unavailable", err)
	case errors.Is(err, context.Canceled):
		return nil, err
	default:
		return nil, apperrors.ClassificationFailed("sentiment classification failed", err)
	}
}
