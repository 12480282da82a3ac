package postgres

import (
	"context"
	"fmt"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	"github.com/vnkatpara-dev/TastePulse/internal/repository"
	"github.com/vnkatpara-dev/TastePulse/pkg/database"
	apperrors "github.com/vnkatpara-dev/TastePulse/pkg/errors"
)

var _ repository.RestaurantCatalog = (*RestaurantRepository)(nil)

// RestaurantRepository implements repository.RestaurantCatalog using PostgreSQL.
type RestaurantRepository struct {
	db database.DBTX
}

// NewRestaurantRepository creates a new PostgreSQL-backed restaurant catalog.
func NewRestaurantRepository(db database.DBTX) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// List returns every restaurant ordered by ID.
func (r *RestaurantRepository) List(ctx context.Context) (_ []domain.Restaurant, err error) {
	query := `SELECT id, name, cuisine FROM restaurants ORDER BY id`

	ctx, end := database.TraceQuery(ctx, "ListRestaurants", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := make([]domain.Restaurant, 0)
	for rows.Next() {
		var rs domain.Restaurant
		if err := rows.Scan(&rs.ID, &rs.Name, &rs.Cuisine); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}
	return restaurants, nil
}

// GetByName returns the restaurant with the exact name.
func (r *RestaurantRepository) GetByName(ctx context.Context, name string) (_ *domain.Restaurant, err error) {
	query := `SELECT id, name, cuisine FROM restaurants WHERE name = $1`

	ctx, end := database.TraceQuery(ctx, "GetRestaurantByName", query)
	defer func() {
		if apperrors.IsDomain(err) {
			end(nil)
			return
		}
		end(err)
	}()

	var rs domain.Restaurant
	err = r.db.QueryRow(ctx, query, name).Scan(&rs.ID, &rs.Name, &rs.Cuisine)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, apperrors.NotFound("restaurant", name)
		}
		return nil, fmt.Errorf("get restaurant by name: %w", err)
	}
	return &rs, nil
}
