package aggregation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	"github.com/vnkatpara-dev/TastePulse/internal/repository"
)

func rv(restaurant, sentiment, date, category string, rating int) domain.Review {
	return domain.Review{
		RestaurantName: restaurant,
		Sentiment:      sentiment,
		Date:           date,
		Category:       category,
		Rating:         rating,
	}
}

// --- Summarize ---

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, domain.SentimentSummary{}, Summarize(nil))
}

func TestSummarize_AverageRoundedToTwoDecimals(t *testing.T) {
	reviews := []domain.Review{
		rv("A", domain.SentimentPositive, "2026-01-01", "Food", 5),
		rv("A", domain.SentimentNegative, "2026-01-02", "Food", 2),
		rv("A", domain.SentimentNeutral, "2026-01-03", "Food", 4),
	}

	s := Summarize(reviews)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 3.67, s.AverageRating)
	assert.Equal(t, s.Total, s.Positive+s.Negative+s.Neutral)
}

func TestSummarize_SeedData(t *testing.T) {
	s := Summarize(repository.SeedReviews())

	assert.Equal(t, domain.SentimentSummary{
		Positive: 6, Negative: 3, Neutral: 3, Total: 12, AverageRating: 3.58,
	}, s)
}

// --- Analytics ---

func TestAnalytics_EmptyIsAllZeros(t *testing.T) {
	b, err := json.Marshal(Analytics(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalReviews":0,"positive":0,"negative":0,"neutral":0,
		"positivePercent":0,"negativePercent":0,"averageRating":0}`, string(b))
}

func TestAnalytics_Percentages(t *testing.T) {
	var reviews []domain.Review
	for i := 0; i < 7; i++ {
		reviews = append(reviews, rv("A", domain.SentimentPositive, "2026-01-01", "Food", 5))
	}
	for i := 0; i < 3; i++ {
		reviews = append(reviews, rv("A", domain.SentimentNeutral, "2026-01-01", "Food", 3))
	}

	a := Analytics(reviews)

	assert.Equal(t, 10, a.TotalReviews)
	assert.Equal(t, 70, a.PositivePercent)
	assert.Equal(t, 0, a.NegativePercent)
	assert.Equal(t, 4.4, a.AverageRating)
}

func TestAnalytics_PercentRoundsHalfAwayFromZero(t *testing.T) {
	// 1/8 = 12.5% rounds up to 13.
	reviews := []domain.Review{rv("A", domain.SentimentNegative, "2026-01-01", "Food", 1)}
	for i := 0; i < 7; i++ {
		reviews = append(reviews, rv("A", domain.SentimentPositive, "2026-01-01", "Food", 5))
	}

	a := Analytics(reviews)

	assert.Equal(t, 13, a.NegativePercent)
	assert.Equal(t, 88, a.PositivePercent)
}

func TestAnalytics_PercentagesNeedNotSumTo100(t *testing.T) {
	reviews := []domain.Review{
		rv("A", domain.SentimentPositive, "2026-01-01", "Food", 5),
		rv("A", domain.SentimentNegative, "2026-01-01", "Food", 1),
		rv("A", domain.SentimentNeutral, "2026-01-01", "Food", 3),
	}

	a := Analytics(reviews)

	assert.Equal(t, 33, a.PositivePercent)
	assert.Equal(t, 33, a.NegativePercent)
}

// --- Trend ---

func TestTrend_SparseAscending(t *testing.T) {
	reviews := []domain.Review{
		rv("A", domain.SentimentPositive, "2026-03-05", "Food", 5),
		rv("A", domain.SentimentNegative, "2025-12-31", "Food", 1),
		rv("A", domain.SentimentNeutral, "2026-03-01", "Food", 3),
		rv("A", domain.SentimentPositive, "2026-01-15", "Food", 4),
	}

	trend := Trend(reviews, TrendOptions{})

	assert.Equal(t, []domain.SentimentTrend{
		{Month: "2025-12", Negative: 1},
		{Month: "2026-01", Positive: 1},
		{Month: "2026-03", Positive: 1, Neutral: 1},
	}, trend)
}

func TestTrend_FillGaps(t *testing.T) {
	reviews := []domain.Review{
		rv("A", domain.SentimentPositive, "2025-11-05", "Food", 5),
		rv("A", domain.SentimentNegative, "2026-02-01", "Food", 1),
	}

	trend := Trend(reviews, TrendOptions{FillGaps: true})

	require.Len(t, trend, 4)
	assert.Equal(t, []string{"2025-11", "2025-12", "2026-01", "2026-02"},
		[]string{trend[0].Month, trend[1].Month, trend[2].Month, trend[3].Month})
	assert.Equal(t, domain.SentimentTrend{Month: "2025-12"}, trend[1])
	assert.Equal(t, 1, trend[3].Negative)
}

func TestTrend_UniqueMonths(t *testing.T) {
	trend := Trend(repository.SeedReviews(), TrendOptions{})

	require.Len(t, trend, 1)
	assert.Equal(t, domain.SentimentTrend{Month: "2026-02", Positive: 6, Negative: 3, Neutral: 3}, trend[0])
}

func TestTrend_Empty(t *testing.T) {
	trend := Trend(nil, TrendOptions{FillGaps: true})
	assert.NotNil(t, trend)
	assert.Empty(t, trend)
}

// --- CategoryBreakdown ---

func TestCategoryBreakdown_SortedAndNeutralHidden(t *testing.T) {
	got := CategoryBreakdown(repository.SeedReviews())

	assert.Equal(t, []domain.CategoryBreakdown{
		{Name: "Ambiance", Positive: 2, Negative: 0, Neutral: 1},
		{Name: "Food Quality", Positive: 3, Negative: 0, Neutral: 1},
		{Name: "Hygiene", Positive: 0, Negative: 1, Neutral: 0},
		{Name: "Service", Positive: 1, Negative: 2, Neutral: 0},
		{Name: "Value", Positive: 0, Negative: 0, Neutral: 1},
	}, got)
}

func TestCategoryBreakdown_ExactCategoryMatch(t *testing.T) {
	got := CategoryBreakdown([]domain.Review{
		rv("A", domain.SentimentPositive, "2026-01-01", "Service", 5),
		rv("A", domain.SentimentPositive, "2026-01-01", "service", 5),
	})
	assert.Len(t, got, 2)
}

func TestCategoryBreakdown_Empty(t *testing.T) {
	got := CategoryBreakdown(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// --- RestaurantSummaries ---

func TestRestaurantSummaries(t *testing.T) {
	got := RestaurantSummaries(repository.SeedRestaurants(), repository.SeedReviews())

	require.Len(t, got, 3)
	assert.Equal(t, "The Golden Fork", got[0].Name)
	assert.Equal(t, domain.SentimentSummary{Positive: 2, Negative: 2, Neutral: 1, Total: 5, AverageRating: 3.4}, got[0].SentimentSummary)
	assert.Equal(t, 3.4, got[0].AverageRating)
	assert.Equal(t, 5, got[0].TotalReviews)

	// Spice Route: ratings 5,1,4,3.
	assert.Equal(t, domain.SentimentSummary{Positive: 2, Negative: 1, Neutral: 1, Total: 4, AverageRating: 3.25}, got[1].SentimentSummary)
	// Ocean Breeze: ratings 5,3,5.
	assert.Equal(t, 4.33, got[2].AverageRating)

	total := 0
	for _, r := range got {
		s := r.SentimentSummary
		assert.Equal(t, s.Total, s.Positive+s.Negative+s.Neutral)
		assert.GreaterOrEqual(t, s.AverageRating, 0.0)
		assert.LessOrEqual(t, s.AverageRating, 5.0)
		total += s.Total
	}
	assert.Equal(t, 12, total)
}

func TestRestaurantSummaries_NoReviews(t *testing.T) {
	got := RestaurantSummaries(repository.SeedRestaurants(), nil)
	for _, r := range got {
		assert.Equal(t, domain.SentimentSummary{}, r.SentimentSummary)
		assert.Zero(t, r.TotalReviews)
	}
}
