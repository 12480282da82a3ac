package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	"github.com/vnkatpara-dev/TastePulse/pkg/httpclient"
)

var (
	// ErrEmptyText is returned for blank input. It is never retried.
	ErrEmptyText = errors.New("text is empty")

	// ErrInvalidPrediction marks a result that is not a valid (label, score,
	// confidence) triple. It is never retried.
	ErrInvalidPrediction = errors.New("invalid prediction")
)

// Classifier assigns a sentiment to free text.
type Classifier interface {
	Classify(ctx context.Context, text string) (*domain.Prediction, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, text string) (*domain.Prediction, error)

// Classify calls f.
func (f ClassifierFunc) Classify(ctx context.Context, text string) (*domain.Prediction, error) {
	return f(ctx, text)
}

// checkText rejects blank input.
func checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

// validate wraps a structural problem with ErrInvalidPrediction.
func validate(p *domain.Prediction) error {
	if p == nil {
		return fmt.Errorf("%w: no prediction returned", ErrInvalidPrediction)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}
	return nil
}

// IsPermanent reports whether retrying err cannot help: blank input, an
// unusable prediction, a rejected request, an open breaker or a canceled
// caller.
func IsPermanent(err error) bool {
	if errors.Is(err, ErrEmptyText) || errors.Is(err, ErrInvalidPrediction) {
		return true
	}
	if errors.Is(err, httpclient.ErrCircuitOpen) || errors.Is(err, context.Canceled) {
		return true
	}
	var respErr *httpclient.ResponseError
	return errors.As(err, &respErr) && respErr.ClientError()
}
