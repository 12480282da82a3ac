package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	pkgkafka "github.com/vnkatpara-dev/TastePulse/pkg/kafka"
	"github.com/vnkatpara-dev/TastePulse/pkg/logger"
)

// Kafka topics for review events.
const (
	TopicReviewCreated   = "tastepulse.review.created"
	TopicReviewSubmitted = "tastepulse.review.submitted"
)

// AggregateTypeReview is the aggregate type of review events.
const AggregateTypeReview = "review"

// SourceTastePulse identifies events originating from this service.
const SourceTastePulse = "tastepulse-api"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID             string  `json:"id"`
	RestaurantName string  `json:"restaurantName"`
	Rating         int     `json:"rating"`
	Sentiment      string  `json:"sentiment"`
	SentimentScore float64 `json:"sentimentScore"`
	Category       string  `json:"category"`
	Date           string  `json:"date"`
}

// publisher is the part of *pkgkafka.Producer the event producer uses.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new review event producer.
func NewProducer(kafka publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewCreated publishes a review.created event keyed by review ID.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:             review.ID,
		RestaurantName: review.RestaurantName,
		Rating:         review.Rating,
		Sentiment:      review.Sentiment,
		SentimentScore: review.SentimentScore,
		Category:       review.Category,
		Date:           review.Date,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, review.ID, AggregateTypeReview, SourceTastePulse, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ID),
		slog.String("restaurant", review.RestaurantName),
	)
	return nil
}

// NoopPublisher discards events. It is used when Kafka is disabled.
type NoopPublisher struct{}

// PublishReviewCreated does nothing.
func (NoopPublisher) PublishReviewCreated(context.Context, *domain.Review) error { return nil }
