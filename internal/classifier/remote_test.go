package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	"github.com/vnkatpara-dev/TastePulse/pkg/httpclient"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func fastClient() *httpclient.Client {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = time.Second
	cfg.MaxRetries = 0
	return httpclient.New(cfg)
}

func modelServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemote_Classify_Success(t *testing.T) {
	srv := modelServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "lovely sushi", req.Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sentiment":"positive","sentimentScore":0.9,"confidence":0.8}`))
	})

	p, err := NewRemote(srv.URL+"/", fastClient()).Classify(context.Background(), "lovely sushi")
	require.NoError(t, err)
	assert.Equal(t, &domain.Prediction{Sentiment: "positive", SentimentScore: 0.9, Confidence: 0.8}, p)
}

func TestRemote_Classify_EmptyTextSkipsCall(t *testing.T) {
	var calls atomic.Int32
	srv := modelServer(t, func(w http.ResponseWriter, _ *http.Request) { calls.Add(1) })

	_, err := NewRemote(srv.URL, fastClient()).Classify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Zero(t, calls.Load())
}

func TestRemote_Classify_InvalidLabel(t *testing.T) {
	srv := modelServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"sentiment":"ecstatic","sentimentScore":0.9,"confidence":0.8}`))
	})

	_, err := NewRemote(srv.URL, fastClient()).Classify(context.Background(), "text")
	assert.ErrorIs(t, err, ErrInvalidPrediction)
	assert.True(t, IsPermanent(err))
}

func TestRemote_Classify_Undecodable(t *testing.T) {
	srv := modelServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})

	_, err := NewRemote(srv.URL, fastClient()).Classify(context.Background(), "text")
	assert.ErrorIs(t, err, ErrInvalidPrediction)
}

func TestRemote_Classify_ClientErrorIsPermanent(t *testing.T) {
	srv := modelServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Text is required"}`))
	})

	_, err := NewRemote(srv.URL, fastClient()).Classify(context.Background(), "text")
	require.Error(t, err)

	var respErr *httpclient.ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, "Text is required", respErr.Message)
	assert.True(t, IsPermanent(err))
}

func TestRemote_Classify_ServerErrorIsTransient(t *testing.T) {
	srv := modelServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model crashed"}`))
	})

	_, err := NewRemote(srv.URL, fastClient()).Classify(context.Background(), "text")
	require.Error(t, err)
	assert.False(t, IsPermanent(err))
}

func TestRemoteWithBreaker_OpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	srv := modelServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	r := NewRemoteWithBreaker(srv.URL, time.Second, newTestLogger())
	var lastErr error
	for i := 0; i < 20; i++ {
		_, lastErr = r.Classify(context.Background(), "text")
	}

	assert.ErrorIs(t, lastErr, httpclient.ErrCircuitOpen)
	assert.True(t, IsPermanent(lastErr))
	assert.Less(t, int(calls.Load()), 20*3, "open breaker should stop calls")
}
