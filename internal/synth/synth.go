// Package synth generates deterministic synthetic reviews for load testing
// and dashboard demos. Re-running with the same seed yields the same review
// IDs, so loading twice does not duplicate data.
package synth

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/vnkatpara-dev/TastePulse/internal/classifier"
	"github.com/vnkatpara-dev/TastePulse/internal/domain"
	"github.com/vnkatpara-dev/TastePulse/internal/repository"
)

var namespace = uuid.MustParse("0b6f3e9e-2a57-4c1d-8f0e-7d7c3a4b91a5")

// Options controls how many reviews are generated and how they spread over time.
type Options struct {
	Count int
	Seed  int64
	// Months is the window, ending at End, that review dates fall in.
	Months int
	End    time.Time
}

// DefaultOptions returns 1000 reviews over the last six months.
func DefaultOptions() Options {
	return Options{
		Count:  1000,
		Seed:   42,
		Months: 6,
		End:    time.Now().UTC(),
	}
}

type tone int

const (
	tonePositive tone = iota
	toneNegative
	toneNeutral
)

var categories = []string{"Food Quality", "Service", "Ambiance", "Value", "Hygiene"}

var phrases = map[string][3][]string{
	"Food Quality": {
		{"The food was delicious and beautifully presented.", "Fresh ingredients and amazing flavors, loved every bite.", "Excellent pasta, perfectly cooked."},
		{"The food was cold and bland.", "Overcooked fish and a soggy salad, very disappointing.", "Stale bread and a terrible main course."},
		{"The food was okay, nothing memorable.", "Portions were average and the menu was standard.", "Decent dishes but we expected more."},
	},
	"Service": {
		{"Friendly staff and fast service.", "Our waiter was attentive and helpful all evening.", "Great service, the team was welcoming."},
		{"Service was slow and the staff were rude.", "We waited an hour and nobody apologized, awful service.", "Unfriendly waiter who ignored our table."},
		{"Service was fine, a bit busy tonight.", "Staff took our order and brought the food.", "The waiter was there when we needed him."},
	},
	"Ambiance": {
		{"Lovely atmosphere and a cozy dining room.", "Beautiful decor, perfect for a date night.", "Charming place with a wonderful view."},
		{"Too noisy and the room felt dirty.", "Cramped tables and terrible music.", "Uncomfortable chairs and a dark, gloomy room."},
		{"The room was quiet on a weekday.", "Simple decor and a standard layout.", "Tables were close together, typical for the area."},
	},
	"Value": {
		{"Great value for the quality, generous portions.", "Reasonable prices and excellent food.", "Worth every penny, we will be back."},
		{"Overpriced for tiny portions.", "Expensive and disappointing, not worth it.", "Poor value, the bill was shocking."},
		{"Prices were in line with other places nearby.", "The bill was about what we expected.", "Average prices for the neighborhood."},
	},
	"Hygiene": {
		{"Spotless tables and clean restrooms.", "Very clean kitchen visible from the counter, impressive.", "Clean and well kept throughout."},
		{"Dirty cutlery and a sticky table.", "Found a hair in the soup, unhygienic.", "Filthy restrooms, awful experience."},
		{"The restroom was being cleaned when we visited.", "Tables were wiped between guests.", "Nothing to note about cleanliness."},
	},
}

var customers = []string{
	"Ava R.", "Ben K.", "Chloe P.", "Dev S.", "Elena M.", "Farid A.", "Gina L.", "Hiro T.",
	"Isla W.", "Jon B.", "Kira N.", "Luis G.", "Maya D.", "Nate F.", "Omar H.", "Pia Z.",
}

// Generate builds opts.Count reviews for restaurants, classifying each text
// with clf so labels match what the live service would store.
func Generate(ctx context.Context, clf classifier.Classifier, restaurants []domain.Restaurant, opts Options) ([]domain.Review, error) {
	if len(restaurants) == 0 {
		return nil, fmt.Errorf("generate reviews: no restaurants")
	}
	if opts.Months < 1 {
		opts.Months = 1
	}
	if opts.End.IsZero() {
		opts.End = time.Now().UTC()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	start := opts.End.AddDate(0, -opts.Months, 0)
	window := opts.End.Sub(start)

	reviews := make([]domain.Review, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		category := categories[rng.Intn(len(categories))]
		t := pickTone(rng)
		pool := phrases[category][t]

		draft := domain.ReviewDraft{
			CustomerName:   customers[rng.Intn(len(customers))],
			RestaurantName: restaurants[rng.Intn(len(restaurants))].Name,
			Rating:         ratingFor(rng, t),
			Text:           pool[rng.Intn(len(pool))],
			Category:       category,
		}
		createdAt := start.Add(time.Duration(rng.Int63n(int64(window))))

		prediction, err := clf.Classify(ctx, draft.Text)
		if err != nil {
			return nil, fmt.Errorf("classify synthetic review %d: %w", i, err)
		}

		id := uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%d:%d", opts.Seed, i))).String()
		reviews = append(reviews, *domain.NewReview(id, draft, prediction, createdAt))
	}
	return reviews, nil
}

// Load appends reviews to store and returns how many were newly written.
// Reviews already stored by an earlier run are skipped.
func Load(ctx context.Context, store repository.ReviewStore, reviews []domain.Review, logger *slog.Logger) (int, error) {
	written := 0
	for i := range reviews {
		created, err := store.Append(ctx, &reviews[i])
		if err != nil {
			return written, fmt.Errorf("append synthetic review %s: %w", reviews[i].ID, err)
		}
		if created {
			written++
		}
		if (i+1)%500 == 0 {
			logger.InfoContext(ctx, "synthetic reviews loaded",
				slog.Int("done", i+1),
				slog.Int("total", len(reviews)),
			)
		}
	}
	return written, nil
}

// pickTone draws 55% positive, 25% negative and 20% neutral.
func pickTone(rng *rand.Rand) tone {
	switch n := rng.Intn(100); {
	case n < 55:
		return tonePositive
	case n < 80:
		return toneNegative
	default:
		return toneNeutral
	}
}

func ratingFor(rng *rand.Rand, t tone) int {
	switch t {
	case tonePositive:
		return 4 + rng.Intn(2)
	case toneNegative:
		return 1 + rng.Intn(2)
	default:
		return 3
	}
}
