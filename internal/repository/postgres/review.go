package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	"github.com/vnkatpara-dev/TastePulse/internal/repository"
	"github.com/vnkatpara-dev/TastePulse/pkg/database"
	apperrors "github.com/vnkatpara-dev/TastePulse/pkg/errors"
)

var _ repository.ReviewStore = (*ReviewRepository)(nil)

const reviewColumns = `id, customer_name, restaurant_name, rating, text, sentiment,
	sentiment_score, review_date, category, created_at`

// ReviewRepository implements repository.ReviewStore using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Append inserts a review. A repeated ID is ignored so retried appends never
// duplicate; it reports false when no row was written.
func (r *ReviewRepository) Append(ctx context.Context, rv *domain.Review) (_ bool, err error) {
	day, err := time.Parse(domain.DateLayout, rv.Date)
	if err != nil {
		return false, apperrors.InvalidInput(fmt.Sprintf("invalid review date %q", rv.Date))
	}

	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`

	ctx, end := database.TraceQuery(ctx, "AppendReview", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query,
		rv.ID,
		rv.CustomerName,
		rv.RestaurantName,
		rv.Rating,
		rv.Text,
		rv.Sentiment,
		rv.SentimentScore,
		day,
		rv.Category,
		rv.CreatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return false, apperrors.InvalidInput(fmt.Sprintf("restaurant %q does not exist", rv.RestaurantName))
		}
		return false, fmt.Errorf("insert review: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Get returns the review with the given ID.
func (r *ReviewRepository) Get(ctx context.Context, id string) (_ *domain.Review, err error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetReview", query)
	defer func() {
		if apperrors.IsDomain(err) {
			end(nil)
			return
		}
		end(err)
	}()

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	reviews, err := scanReviews(rows)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, apperrors.NotFound("review", id)
	}
	return &reviews[0], nil
}

// ListAll returns every review ordered by creation time, then ID.
func (r *ReviewRepository) ListAll(ctx context.Context) (_ []domain.Review, err error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		ORDER BY created_at, id`

	ctx, end := database.TraceQuery(ctx, "ListReviews", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return scanReviews(rows)
}

// ListByRestaurant returns a restaurant's reviews by exact name.
func (r *ReviewRepository) ListByRestaurant(ctx context.Context, restaurantName string) (_ []domain.Review, err error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE restaurant_name = $1
		ORDER BY created_at, id`

	ctx, end := database.TraceQuery(ctx, "ListReviewsByRestaurant", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, restaurantName)
	if err != nil {
		return nil, fmt.Errorf("list reviews for restaurant: %w", err)
	}
	return scanReviews(rows)
}

func scanReviews(rows pgx.Rows) ([]domain.Review, error) {
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var (
			rv  domain.Review
			day time.Time
		)
		if err := rows.Scan(
			&rv.ID,
			&rv.CustomerName,
			&rv.RestaurantName,
			&rv.Rating,
			&rv.Text,
			&rv.Sentiment,
			&rv.SentimentScore,
			&day,
			&rv.Category,
			&rv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		rv.Date = day.Format(domain.DateLayout)
		rv.CreatedAt = rv.CreatedAt.UTC()
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}
