package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkatpara-dev/TastePulse/internal/cache"
	"github.com/vnkatpara-dev/TastePulse/internal/config"
	"github.com/vnkatpara-dev/TastePulse/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func memoryConfig() *config.Config {
	return &config.Config{
		Environment:           "test",
		LogLevel:              "error",
		HTTPPort:              0,
		APIPrefix:             "/api",
		StorageDriver:         config.StorageDriverMemory,
		SeedData:              true,
		StorageMaxAttempts:    1,
		Classifier:            config.ClassifierLexicon,
		ClassifierTimeout:     time.Second,
		ClassifierMaxAttempts: 1,
		CacheTTL:              time.Minute,
		RateLimitRPS:          100,
		RateLimitBurst:        100,
		CORSAllowedOrigins:    []string{"*"},
		OTELSampleRate:        1,
	}
}

func TestNewApp_MemoryStoreServesSeededAnalytics(t *testing.T) {
	a, err := NewApp(memoryConfig(), newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var analytics domain.Analytics
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&analytics))
	assert.Equal(t, 12, analytics.TotalReviews)
}

func TestNewApp_WithoutSeed(t *testing.T) {
	cfg := memoryConfig()
	cfg.SeedData = false

	a, err := NewApp(cfg, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reviews", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestNewApp_SubmitThenRead(t *testing.T) {
	a, err := NewApp(memoryConfig(), newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	body := `{"customerName":"Priya","restaurantName":"Ocean Breeze","rating":4,"text":"Fresh and delicious fish","category":"Food Quality"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reviews/Ocean%20Breeze", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var reviews []domain.Review
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reviews))
	assert.Len(t, reviews, 4)
}

func TestNewApp_RedisCacheRegistersOptionalCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.CacheEnabled = true
	cfg.RedisAddr = mr.Addr()

	a, err := NewApp(cfg, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })
	require.NotNil(t, a.redis)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, mr.Exists("tastepulse:analytics:0:"+cache.ViewAnalytics))

	resp := a.health.Check(context.Background())
	assert.Contains(t, resp.Checks, "redis")
}

func TestNewApp_UnreachableRedisFallsBackToNoCache(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	addr := mr.Addr()
	mr.Close()

	cfg := memoryConfig()
	cfg.CacheEnabled = true
	cfg.RedisAddr = addr

	a, err := NewApp(cfg, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })
	assert.Nil(t, a.redis)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewClassifier_SelectsImplementation(t *testing.T) {
	cfg := memoryConfig()
	lex := newClassifier(cfg, newTestLogger())
	p, err := lex.Classify(context.Background(), "terrible and rude")
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentNegative, p.Sentiment)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sentiment":"neutral","sentimentScore":0.5,"confidence":0.7}`))
	}))
	t.Cleanup(srv.Close)

	cfg.Classifier = config.ClassifierRemote
	cfg.ModelURL = srv.URL
	remote := newClassifier(cfg, newTestLogger())
	p, err = remote.Classify(context.Background(), "it was fine")
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentNeutral, p.Sentiment)

}
