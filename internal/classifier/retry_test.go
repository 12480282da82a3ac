package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	"github.com/vnkatpara-dev/TastePulse/pkg/httpclient"
)

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (*domain.Prediction, error) {
	args := m.Called(ctx, text)
	if p := args.Get(0); p != nil {
		return p.(*domain.Prediction), args.Error(1)
	}
	return nil, args.Error(1)
}

func fastRetry(attempts uint) RetryConfig {
	return RetryConfig{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		AttemptTimeout:  time.Second,
	}
}

var positive = &domain.Prediction{Sentiment: domain.SentimentPositive, SentimentScore: 0.9, Confidence: 0.8}

// --- Retrying ---

func TestRetrying_SucceedsAfterTransientFailures(t *testing.T) {
	m := new(mockClassifier)
	m.On("Classify", mock.Anything, "tasty").Return(nil, errors.New("connection reset")).Twice()
	m.On("Classify", mock.Anything, "tasty").Return(positive, nil).Once()

	p, err := NewRetrying(m, fastRetry(3), newTestLogger()).Classify(context.Background(), "tasty")

	require.NoError(t, err)
	assert.Equal(t, positive, p)
	m.AssertNumberOfCalls(t, "Classify", 3)
}

func TestRetrying_GivesUpAfterMaxAttempts(t *testing.T) {
	m := new(mockClassifier)
	m.On("Classify", mock.Anything, "tasty").Return(nil, errors.New("timeout"))

	_, err := NewRetrying(m, fastRetry(3), newTestLogger()).Classify(context.Background(), "tasty")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 attempt(s)")
	m.AssertNumberOfCalls(t, "Classify", 3)
}

func TestRetrying_EmptyTextNotRetried(t *testing.T) {
	m := new(mockClassifier)
	m.On("Classify", mock.Anything, "").Return(nil, ErrEmptyText)

	_, err := NewRetrying(m, fastRetry(3), newTestLogger()).Classify(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyText)
	m.AssertNumberOfCalls(t, "Classify", 1)
}

func TestRetrying_InvalidPredictionNotRetried(t *testing.T) {
	m := new(mockClassifier)
	m.On("Classify", mock.Anything, "x").
		Return(&domain.Prediction{Sentiment: domain.SentimentPositive, SentimentScore: 1.7, Confidence: 0.5}, nil)

	_, err := NewRetrying(m, fastRetry(3), newTestLogger()).Classify(context.Background(), "x")

	assert.ErrorIs(t, err, ErrInvalidPrediction)
	m.AssertNumberOfCalls(t, "Classify", 1)
}

func TestRetrying_OpenCircuitNotRetried(t *testing.T) {
	m := new(mockClassifier)
	m.On("Classify", mock.Anything, "x").Return(nil, httpclient.ErrCircuitOpen)

	_, err := NewRetrying(m, fastRetry(3), newTestLogger()).Classify(context.Background(), "x")

	assert.ErrorIs(t, err, httpclient.ErrCircuitOpen)
	m.AssertNumberOfCalls(t, "Classify", 1)
}

func TestRetrying_AttemptTimeout(t *testing.T) {
	slow := ClassifierFunc(func(ctx context.Context, _ string) (*domain.Prediction, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cfg := fastRetry(2)
	cfg.AttemptTimeout = 10 * time.Millisecond

	_, err := NewRetrying(slow, cfg, newTestLogger()).Classify(context.Background(), "x")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetrying_ZeroAttemptsMeansOne(t *testing.T) {
	m := new(mockClassifier)
	m.On("Classify", mock.Anything, "x").Return(nil, errors.New("boom"))

	_, err := NewRetrying(m, fastRetry(0), newTestLogger()).Classify(context.Background(), "x")

	require.Error(t, err)
	m.AssertNumberOfCalls(t, "Classify", 1)
}

// --- IsPermanent ---

func TestIsPermanent(t *testing.T) {
	assert.True(t, IsPermanent(ErrEmptyText))
	assert.True(t, IsPermanent(context.Canceled))
	assert.True(t, IsPermanent(&httpclient.ResponseError{Status: 422}))
	assert.False(t, IsPermanent(&httpclient.ResponseError{Status: 503}))
	assert.False(t, IsPermanent(context.DeadlineExceeded))
	assert.False(t, IsPermanent(errors.New("connection refused")))
}

// --- Instrumented ---

func TestInstrumented_CountsByLabel(t *testing.T) {
	before := testutil.ToFloat64(predictionsTotal.WithLabelValues("instrument-test", "positive"))
	beforeErr := testutil.ToFloat64(classifyErrorsTotal.WithLabelValues("instrument-test"))

	c := Instrument("instrument-test", NewLexicon())
	_, err := c.Classify(context.Background(), "superb")
	require.NoError(t, err)
	_, err = c.Classify(context.Background(), "")
	require.Error(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(predictionsTotal.WithLabelValues("instrument-test", "positive")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(classifyErrorsTotal.WithLabelValues("instrument-test")))
}
