package repository

import (
	"context"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
)

// ReviewStore is the append-only review collection.
type ReviewStore interface {
	// Append persists a fully built review and reports whether it was
	// inserted. It fails with an invalid-input error when the referenced
	// restaurant does not exist. Appending an ID that is already stored is a
	// no-op that reports false.
	Append(ctx context.Context, review *domain.Review) (bool, error)

	// Get returns the review with the given ID, or a not-found error.
	Get(ctx context.Context, id string) (*domain.Review, error)

	// ListAll returns every review ordered by creation time, then ID.
	ListAll(ctx context.Context) ([]domain.Review, error)

	// ListByRestaurant returns the reviews whose restaurant name matches
	// exactly. An unknown name yields an empty slice.
	ListByRestaurant(ctx context.Context, restaurantName string) ([]domain.Review, error)
}

// RestaurantCatalog is the read-only restaurant lookup.
type RestaurantCatalog interface {
	// List returns every restaurant ordered by ID. Summaries are left zero.
	List(ctx context.Context) ([]domain.Restaurant, error)

	// GetByName returns the restaurant with the exact name, or a not-found error.
	GetByName(ctx context.Context, name string) (*domain.Restaurant, error)
}
