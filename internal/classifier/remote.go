package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	"github.com/vnkatpara-dev/TastePulse/pkg/httpclient"
)

// modelServiceName labels the model server in errors and breaker metrics.
const modelServiceName = "model-server"

// jsonPoster is satisfied by *httpclient.CircuitBreakerClient and *httpclient.Client.
type jsonPoster interface {
	PostJSON(ctx context.Context, url string, body any) (*http.Response, error)
}

type predictRequest struct {
	Text string `json:"text"`
}

// Remote classifies text by calling an external model server at
// POST {baseURL}/predict.
type Remote struct {
	client jsonPoster
	url    string
}

// NewRemote creates a remote classifier. client is normally a
// circuit-breaker-wrapped retrying client.
func NewRemote(baseURL string, client jsonPoster) *Remote {
	return &Remote{
		client: client,
		url:    strings.TrimRight(baseURL, "/") + "/predict",
	}
}

// NewRemoteWithBreaker builds the default transport stack for the model
// server: a retrying client with the given timeout behind a circuit breaker.
func NewRemoteWithBreaker(baseURL string, timeout time.Duration, logger *slog.Logger) *Remote {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = timeout
	breaker := httpclient.NewCircuitBreakerClient(
		httpclient.New(cfg),
		httpclient.DefaultCircuitBreakerConfig(modelServiceName),
		logger,
	)
	return NewRemote(baseURL, breaker)
}

// Classify posts text to the model server and validates the answer.
func (r *Remote) Classify(ctx context.Context, text string) (*domain.Prediction, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}

	resp, err := r.client.PostJSON(ctx, r.url, predictRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", modelServiceName, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("call %s: %w", modelServiceName, httpclient.ParseResponseError(resp, modelServiceName))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	var p domain.Prediction
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode %s response: %v", ErrInvalidPrediction, modelServiceName, err)
	}
	if err := validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
