package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	apperrors "github.com/vnkatpara-dev/TastePulse/pkg/errors"
	pkgkafka "github.com/vnkatpara-dev/TastePulse/pkg/kafka"
	"github.com/vnkatpara-dev/TastePulse/pkg/logger"
)

// ConsumerGroupID is the default consumer group of the ingest consumer.
const ConsumerGroupID = "tastepulse-ingest"

// processedEventTTL is how long ingested event IDs are remembered.
const processedEventTTL = 24 * time.Hour

// ingestNamespace derives review IDs from event IDs, so a redelivered event
// maps onto the review it already produced.
var ingestNamespace = uuid.MustParse("6f1c8a52-5d0e-4b7e-9a43-2f7d2b9c6e10")

// ReviewSubmitter stores a review under a caller-chosen ID.
type ReviewSubmitter interface {
	SubmitReviewWithID(ctx context.Context, id string, draft domain.ReviewDraft) (*domain.Review, error)
}

// IngestHandler turns review.submitted events into stored reviews.
type IngestHandler struct {
	submitter ReviewSubmitter
	logger    *slog.Logger
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(submitter ReviewSubmitter, logger *slog.Logger) *IngestHandler {
	return &IngestHandler{
		submitter: submitter,
		logger:    logger,
	}
}

// ReviewIDForEvent returns the deterministic review ID for an event.
func ReviewIDForEvent(eventID string) string {
	return uuid.NewSHA1(ingestNamespace, []byte(eventID)).String()
}

// Handle submits the event's draft. Malformed or invalid drafts are dropped;
// infrastructure failures are returned so the consumer retries them.
func (h *IngestHandler) Handle(ctx context.Context, event *pkgkafka.Event) error {
	if event.EventType != TopicReviewSubmitted {
		h.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
	if event.CorrelationID != "" {
		ctx = logger.WithCorrelationID(ctx, event.CorrelationID)
	}

	var draft domain.ReviewDraft
	if err := event.UnmarshalData(&draft); err != nil {
		h.logger.WarnContext(ctx, "dropping undecodable review.submitted event",
			slog.String("event_id", event.EventID),
			slog.String("error", err.Error()),
		)
		return pkgkafka.Permanent(fmt.Errorf("decode review draft: %w", err))
	}

	review, err := h.submitter.SubmitReviewWithID(ctx, ReviewIDForEvent(event.EventID), draft)
	if err != nil {
		if apperrors.IsDomain(err) || errors.Is(err, apperrors.ErrClassification) {
			h.logger.WarnContext(ctx, "dropping rejected review.submitted event",
				slog.String("event_id", event.EventID),
				slog.String("error", err.Error()),
			)
			return pkgkafka.Permanent(err)
		}
		return fmt.Errorf("ingest review: %w", err)
	}

	h.logger.InfoContext(ctx, "review ingested",
		slog.String("event_id", event.EventID),
		slog.String("review_id", review.ID),
	)
	return nil
}

// IngestConfig configures the review.submitted consumer.
type IngestConfig struct {
	Brokers    []string
	GroupID    string
	DeadLetter *pkgkafka.DeadLetterWriter
}

// NewIngestConsumer builds the review.submitted consumer: the handler is
// deduplicated by event ID and exhausted messages go to the dead-letter topic
// when one is configured.
func NewIngestConsumer(cfg IngestConfig, handler *IngestHandler, logger *slog.Logger) *pkgkafka.Consumer {
	if cfg.GroupID == "" {
		cfg.GroupID = ConsumerGroupID
	}
	store := pkgkafka.NewMemoryIdempotencyStore(processedEventTTL)

	return pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       TopicReviewSubmitted,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxAttempts: 3,
		DeadLetter:  cfg.DeadLetter,
	}, pkgkafka.IdempotentHandler(store, handler.Handle, logger), logger)
}
