package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	"github.com/vnkatpara-dev/TastePulse/internal/repository"
	apperrors "github.com/vnkatpara-dev/TastePulse/pkg/errors"
)

var (
	_ repository.ReviewStore       = (*Store)(nil)
	_ repository.RestaurantCatalog = (*Store)(nil)
)

// Store is an in-memory review store and restaurant catalog. Reviews are kept
// sorted by (CreatedAt, ID).
type Store struct {
	mu          sync.RWMutex
	restaurants []domain.Restaurant
	byName      map[string]int
	reviews     []domain.Review
	ids         map[string]struct{}
}

// NewStore creates a store holding the given catalog.
func NewStore(restaurants []domain.Restaurant) *Store {
	s := &Store{
		restaurants: slices.Clone(restaurants),
		byName:      make(map[string]int, len(restaurants)),
		ids:         make(map[string]struct{}),
	}
	slices.SortFunc(s.restaurants, func(a, b domain.Restaurant) int {
		return strings.Compare(a.ID, b.ID)
	})
	for i, r := range s.restaurants {
		s.byName[r.Name] = i
	}
	return s
}

// Append adds a review under the write lock.
func (s *Store) Append(_ context.Context, review *domain.Review) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[review.RestaurantName]; !ok {
		return false, apperrors.InvalidInput(fmt.Sprintf("restaurant %q does not exist", review.RestaurantName))
	}
	if _, ok := s.ids[review.ID]; ok {
		return false, nil
	}

	i, _ := slices.BinarySearchFunc(s.reviews, *review, compareReviews)
	s.reviews = slices.Insert(s.reviews, i, *review)
	s.ids[review.ID] = struct{}{}
	return true, nil
}

// Get returns a copy of the review with the given ID.
func (s *Store) Get(_ context.Context, id string) (*domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.ids[id]; ok {
		for _, r := range s.reviews {
			if r.ID == id {
				return &r, nil
			}
		}
	}
	return nil, apperrors.NotFound("review", id)
}

// ListAll returns a copy of every review.
func (s *Store) ListAll(_ context.Context) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Review, len(s.reviews))
	copy(out, s.reviews)
	return out, nil
}

// ListByRestaurant returns a copy of the restaurant's reviews.
func (s *Store) ListByRestaurant(_ context.Context, restaurantName string) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Review, 0)
	for _, r := range s.reviews {
		if r.RestaurantName == restaurantName {
			out = append(out, r)
		}
	}
	return out, nil
}

// List returns the catalog ordered by ID.
func (s *Store) List(_ context.Context) ([]domain.Restaurant, error) {
	return slices.Clone(s.restaurants), nil
}

// GetByName looks a restaurant up by exact name.
func (s *Store) GetByName(_ context.Context, name string) (*domain.Restaurant, error) {
	i, ok := s.byName[name]
	if !ok {
		return nil, apperrors.NotFound("restaurant", name)
	}
	r := s.restaurants[i]
	return &r, nil
}

// Len returns the number of stored reviews.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}

func compareReviews(a, b domain.Review) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
