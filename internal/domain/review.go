package domain

import (
	"fmt"
	"strings"
	"time"
)

// Sentiment label constants.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// DateLayout is the wire format of Review.Date.
const DateLayout = "2006-01-02"

// Review is a classified customer review. Reviews are immutable once stored.
type Review struct {
	ID             string    `json:"id"`
	CustomerName   string    `json:"customerName"`
	RestaurantName string    `json:"restaurantName"`
	Rating         int       `json:"rating"`
	Text           string    `json:"text"`
	Sentiment      string    `json:"sentiment"`
	SentimentScore float64   `json:"sentimentScore"`
	Date           string    `json:"date"`
	Category       string    `json:"category"`
	CreatedAt      time.Time `json:"-"`
}

// Month returns the YYYY-MM calendar month the review falls in.
func (r *Review) Month() string {
	if len(r.Date) < 7 {
		return r.Date
	}
	return r.Date[:7]
}

// ReviewDraft is a review as submitted by a customer, before classification.
type ReviewDraft struct {
	CustomerName   string `json:"customerName"`
	RestaurantName string `json:"restaurantName"`
	Rating         int    `json:"rating"`
	Text           string `json:"text"`
	Category       string `json:"category"`
}

// Validate checks the draft's field-level rules. Restaurant existence is
// checked by the store.
func (d *ReviewDraft) Validate() error {
	if strings.TrimSpace(d.CustomerName) == "" {
		return fmt.Errorf("customerName is required")
	}
	if strings.TrimSpace(d.RestaurantName) == "" {
		return fmt.Errorf("restaurantName is required")
	}
	if d.Rating < MinRating || d.Rating > MaxRating {
		return fmt.Errorf("rating must be between %d and %d, got %d", MinRating, MaxRating, d.Rating)
	}
	if strings.TrimSpace(d.Text) == "" {
		return fmt.Errorf("text is required")
	}
	if strings.TrimSpace(d.Category) == "" {
		return fmt.Errorf("category is required")
	}
	return nil
}

// NewReview builds a stored review from a validated draft and its prediction.
// Date is the UTC calendar date of now.
func NewReview(id string, draft ReviewDraft, p *Prediction, now time.Time) *Review {
	now = now.UTC()
	return &Review{
		ID:             id,
		CustomerName:   draft.CustomerName,
		RestaurantName: draft.RestaurantName,
		Rating:         draft.Rating,
		Text:           draft.Text,
		Sentiment:      p.Sentiment,
		SentimentScore: p.SentimentScore,
		Date:           now.Format(DateLayout),
		Category:       draft.Category,
		CreatedAt:      now,
	}
}

// IsValidSentiment checks whether s is one of the sentiment labels.
func IsValidSentiment(s string) bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}
