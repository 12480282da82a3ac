package service

import (
	"context"
	"log/slog"

	"github.com/vnkatpara-dev/TastePulse/internal/aggregation"
	"github.com/vnkatpara-dev/TastePulse/internal/cache"
	"github.com/vnkatpara-dev/TastePulse/internal/domain"
)

// ListRestaurants returns the catalog with each restaurant's sentiment summary.
func (s *ReviewService) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	return cached(ctx, s, cache.ViewRestaurants, func() ([]domain.Restaurant, error) {
		restaurants, err := withStorageRetry(ctx, s, "list restaurants", func() ([]domain.Restaurant, error) {
			return s.restaurants.List(ctx)
		})
		if err != nil {
			return nil, err
		}
		reviews, err := s.ListReviews(ctx)
		if err != nil {
			return nil, err
		}
		return aggregation.RestaurantSummaries(restaurants, reviews), nil
	})
}

// GetRestaurantSummary returns the sentiment summary of one restaurant.
func (s *ReviewService) GetRestaurantSummary(ctx context.Context, restaurantName string) (*domain.SentimentSummary, error) {
	if _, err := withStorageRetry(ctx, s, "get restaurant", func() (*domain.Restaurant, error) {
		return s.restaurants.GetByName(ctx, restaurantName)
	}); err != nil {
		return nil, err
	}

	reviews, err := s.ListRestaurantReviews(ctx, restaurantName)
	if err != nil {
		return nil, err
	}
	summary := aggregation.Summarize(reviews)
	return &summary, nil
}

// GetAnalytics returns the global stat-card view.
func (s *ReviewService) GetAnalytics(ctx context.Context) (*domain.Analytics, error) {
	return cached(ctx, s, cache.ViewAnalytics, func() (*domain.Analytics, error) {
		reviews, err := s.ListReviews(ctx)
		if err != nil {
			return nil, err
		}
		analytics := aggregation.Analytics(reviews)
		return &analytics, nil
	})
}

// GetSentimentTrend returns per-month sentiment counts in ascending month order.
func (s *ReviewService) GetSentimentTrend(ctx context.Context, opts aggregation.TrendOptions) ([]domain.SentimentTrend, error) {
	view := cache.ViewTrend
	if opts.FillGaps {
		view = cache.ViewTrendFilled
	}
	return cached(ctx, s, view, func() ([]domain.SentimentTrend, error) {
		reviews, err := s.ListReviews(ctx)
		if err != nil {
			return nil, err
		}
		return aggregation.Trend(reviews, opts), nil
	})
}

// GetCategoryBreakdown returns positive and negative counts per category.
func (s *ReviewService) GetCategoryBreakdown(ctx context.Context) ([]domain.CategoryBreakdown, error) {
	return cached(ctx, s, cache.ViewCategories, func() ([]domain.CategoryBreakdown, error) {
		reviews, err := s.ListReviews(ctx)
		if err != nil {
			return nil, err
		}
		return aggregation.CategoryBreakdown(reviews), nil
	})
}

// cached serves view from the analytics cache, computing and storing it on a
// miss. The key is resolved before compute runs so a write that overlaps the
// computation hides the stored result. Cache failures are logged and bypassed.
func cached[T any](ctx context.Context, s *ReviewService, view string, compute func() (T, error)) (T, error) {
	var v T
	key, hit, err := s.cache.Get(ctx, view, &v)
	if err != nil {
		s.logger.WarnContext(ctx, "analytics cache read failed",
			slog.String("view", view),
			slog.String("error", err.Error()),
		)
	} else if hit {
		return v, nil
	}

	v, err = compute()
	if err != nil {
		return v, err
	}

	if err := s.cache.Set(ctx, key, v); err != nil {
		s.logger.WarnContext(ctx, "analytics cache write failed",
			slog.String("view", view),
			slog.String("error", err.Error()),
		)
	}
	return v, nil
}
