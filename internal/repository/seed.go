package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
)

// SeedRestaurants returns the catalog every fresh installation starts with.
// The postgres migrations insert the same rows.
func SeedRestaurants() []domain.Restaurant {
	return []domain.Restaurant{
		{ID: "1", Name: "The Golden Fork", Cuisine: "Italian"},
		{ID: "2", Name: "Spice Route", Cuisine: "Indian"},
		{ID: "3", Name: "Ocean Breeze", Cuisine: "Seafood"},
	}
}

// SeedReviews returns the demo reviews loaded when SEED_DATA is set.
func SeedReviews() []domain.Review {
	reviews := []domain.Review{
		{ID: "1", CustomerName: "Alice M.", RestaurantName: "The Golden Fork", Rating: 5, Text: "Absolutely stunning food and ambiance. The truffle pasta was divine!", Sentiment: domain.SentimentPositive, SentimentScore: 0.95, Date: "2026-02-18", Category: "Food Quality"},
		{ID: "2", CustomerName: "Bob T.", RestaurantName: "The Golden Fork", Rating: 2, Text: "Service was incredibly slow. Waited 45 minutes for appetizers.", Sentiment: domain.SentimentNegative, SentimentScore: 0.15, Date: "2026-02-17", Category: "Service"},
		{ID: "3", CustomerName: "Carol S.", RestaurantName: "The Golden Fork", Rating: 4, Text: "Great food but the noise level made conversation difficult.", Sentiment: domain.SentimentNeutral, SentimentScore: 0.6, Date: "2026-02-16", Category: "Ambiance"},
		{ID: "4", CustomerName: "David L.", RestaurantName: "Spice Route", Rating: 5, Text: "Best Indian food I've had outside of India. The butter chicken is phenomenal.", Sentiment: domain.SentimentPositive, SentimentScore: 0.92, Date: "2026-02-15", Category: "Food Quality"},
		{ID: "5", CustomerName: "Emma W.", RestaurantName: "Spice Route", Rating: 1, Text: "Found a hair in my soup. Management was dismissive about it.", Sentiment: domain.SentimentNegative, SentimentScore: 0.05, Date: "2026-02-14", Category: "Hygiene"},
		{ID: "6", CustomerName: "Frank H.", RestaurantName: "The Golden Fork", Rating: 4, Text: "Lovely date night spot. Wine selection is impressive.", Sentiment: domain.SentimentPositive, SentimentScore: 0.82, Date: "2026-02-13", Category: "Ambiance"},
		{ID: "7", CustomerName: "Grace K.", RestaurantName: "Ocean Breeze", Rating: 5, Text: "The freshest seafood in town. Lobster bisque was out of this world!", Sentiment: domain.SentimentPositive, SentimentScore: 0.97, Date: "2026-02-12", Category: "Food Quality"},
		{ID: "8", CustomerName: "Henry P.", RestaurantName: "Ocean Breeze", Rating: 3, Text: "Food was okay but overpriced for the portion size.", Sentiment: domain.SentimentNeutral, SentimentScore: 0.45, Date: "2026-02-11", Category: "Value"},
		{ID: "9", CustomerName: "Irene D.", RestaurantName: "Spice Route", Rating: 4, Text: "Warm and welcoming staff. The naan bread was perfectly crispy.", Sentiment: domain.SentimentPositive, SentimentScore: 0.85, Date: "2026-02-10", Category: "Service"},
		{ID: "10", CustomerName: "Jack R.", RestaurantName: "The Golden Fork", Rating: 2, Text: "Reservation was lost. Had to wait 30 minutes despite booking ahead.", Sentiment: domain.SentimentNegative, SentimentScore: 0.12, Date: "2026-02-09", Category: "Service"},
		{ID: "11", CustomerName: "Karen B.", RestaurantName: "Ocean Breeze", Rating: 5, Text: "The sunset view paired with amazing sushi. Unforgettable experience!", Sentiment: domain.SentimentPositive, SentimentScore: 0.94, Date: "2026-02-08", Category: "Ambiance"},
		{ID: "12", CustomerName: "Leo M.", RestaurantName: "Spice Route", Rating: 3, Text: "Decent food but nothing special. Expected more given the hype.", Sentiment: domain.SentimentNeutral, SentimentScore: 0.5, Date: "2026-02-07", Category: "Food Quality"},
	}
	for i := range reviews {
		// Seed dates are well-formed; creation time is midnight UTC of the review date.
		reviews[i].CreatedAt, _ = time.Parse(domain.DateLayout, reviews[i].Date)
	}
	return reviews
}

// Seed appends the demo reviews. Appends are idempotent on ID, so seeding an
// already seeded store is harmless.
func Seed(ctx context.Context, store ReviewStore) error {
	for _, r := range SeedReviews() {
		if _, err := store.Append(ctx, &r); err != nil {
			return fmt.Errorf("seed review %s: %w", r.ID, err)
		}
	}
	return nil
}
