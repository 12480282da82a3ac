package classifier

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
)

var (
	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_predictions_total",
			Help: "Successful sentiment predictions by classifier and label.",
		},
		[]string{"classifier", "sentiment"},
	)

	classifyErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_errors_total",
			Help: "Failed sentiment classifications by classifier.",
		},
		[]string{"classifier"},
	)

	classifyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classifier_duration_seconds",
			Help:    "Sentiment classification latency in seconds.",
			Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"classifier"},
	)
)

// Instrumented records prediction counts, failures and latency for the
// wrapped classifier.
type Instrumented struct {
	name string
	next Classifier
}

// Instrument wraps next, labelling its metrics with name.
func Instrument(name string, next Classifier) *Instrumented {
	return &Instrumented{name: name, next: next}
}

// Classify delegates and records the outcome.
func (i *Instrumented) Classify(ctx context.Context, text string) (*domain.Prediction, error) {
	start := time.Now()
	p, err := i.next.Classify(ctx, text)
	classifyDuration.WithLabelValues(i.name).Observe(time.Since(start).Seconds())
	if err != nil {
		classifyErrorsTotal.WithLabelValues(i.name).Inc()
		return nil, err
	}
	predictionsTotal.WithLabelValues(i.name, p.Sentiment).Inc()
	return p, nil
}
