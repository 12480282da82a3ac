package synth

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkatpara-dev/TastePulse/internal/classifier"
	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	"github.com/vnkatpara-dev/TastePulse/internal/repository"
	"github.com/vnkatpara-dev/TastePulse/internal/repository/memory"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testOptions() Options {
	return Options{
		Count:  200,
		Seed:   7,
		Months: 3,
		End:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	clf := classifier.NewLexicon()
	a, err := Generate(context.Background(), clf, repository.SeedRestaurants(), testOptions())
	require.NoError(t, err)
	b, err := Generate(context.Background(), clf, repository.SeedRestaurants(), testOptions())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerate_ReviewsAreWellFormed(t *testing.T) {
	opts := testOptions()
	reviews, err := Generate(context.Background(), classifier.NewLexicon(), repository.SeedRestaurants(), opts)
	require.NoError(t, err)
	require.Len(t, reviews, opts.Count)

	names := map[string]bool{}
	for _, r := range repository.SeedRestaurants() {
		names[r.Name] = true
	}
	ids := map[string]bool{}
	start := opts.End.AddDate(0, -opts.Months, 0)

	for _, r := range reviews {
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true

		assert.True(t, names[r.RestaurantName])
		assert.GreaterOrEqual(t, r.Rating, domain.MinRating)
		assert.LessOrEqual(t, r.Rating, domain.MaxRating)
		assert.True(t, domain.IsValidSentiment(r.Sentiment))
		assert.False(t, r.CreatedAt.Before(start))
		assert.True(t, r.CreatedAt.Before(opts.End))
		assert.Equal(t, r.CreatedAt.Format(domain.DateLayout), r.Date)
	}
}

func TestGenerate_MixesSentiments(t *testing.T) {
	reviews, err := Generate(context.Background(), classifier.NewLexicon(), repository.SeedRestaurants(), testOptions())
	require.NoError(t, err)

	counts := map[string]int{}
	for _, r := range reviews {
		counts[r.Sentiment]++
	}
	assert.Positive(t, counts[domain.SentimentPositive])
	assert.Positive(t, counts[domain.SentimentNegative])
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	opts := testOptions()
	a, err := Generate(context.Background(), classifier.NewLexicon(), repository.SeedRestaurants(), opts)
	require.NoError(t, err)

	opts.Seed = 8
	b, err := Generate(context.Background(), classifier.NewLexicon(), repository.SeedRestaurants(), opts)
	require.NoError(t, err)

	assert.NotEqual(t, a[0].ID, b[0].ID)
}

func TestGenerate_NoRestaurants(t *testing.T) {
	_, err := Generate(context.Background(), classifier.NewLexicon(), nil, testOptions())
	assert.Error(t, err)
}

func TestLoad_IdempotentAcrossRuns(t *testing.T) {
	store := memory.NewStore(repository.SeedRestaurants())
	reviews, err := Generate(context.Background(), classifier.NewLexicon(), repository.SeedRestaurants(), testOptions())
	require.NoError(t, err)

	n, err := Load(context.Background(), store, reviews, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, len(reviews), n)

	n, err = Load(context.Background(), store, reviews, newTestLogger())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, len(reviews), store.Len())
}

func TestLoad_StopsOnUnknownRestaurant(t *testing.T) {
	store := memory.NewStore(repository.SeedRestaurants()[:1])
	reviews, err := Generate(context.Background(), classifier.NewLexicon(), repository.SeedRestaurants(), testOptions())
	require.NoError(t, err)

	_, err = Load(context.Background(), store, reviews, newTestLogger())
	assert.Error(t, err)
}
