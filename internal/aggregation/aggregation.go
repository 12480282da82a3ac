// Package aggregation derives summaries, analytics, trends and category
// breakdowns from a review snapshot. Every function is pure and treats an
// empty snapshot as a valid input.
package aggregation

import (
	"math"
	"sort"
	"time"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
)

const monthLayout = "2006-01"

// TrendOptions tunes Trend.
type TrendOptions struct {
	// FillGaps inserts zero rows for months with no reviews between the first
	// and last month present.
	FillGaps bool
}

type counts struct {
	positive, negative, neutral int
}

func (c *counts) add(sentiment string) {
	switch sentiment {
	case domain.SentimentPositive:
		c.positive++
	case domain.SentimentNegative:
		c.negative++
	case domain.SentimentNeutral:
		c.neutral++
	}
}

// Summarize counts labels and averages ratings.
func Summarize(reviews []domain.Review) domain.SentimentSummary {
	var (
		c   counts
		sum int
	)
	for _, r := range reviews {
		c.add(r.Sentiment)
		sum += r.Rating
	}

	s := domain.SentimentSummary{
		Positive: c.positive,
		Negative: c.negative,
		Neutral:  c.neutral,
		Total:    len(reviews),
	}
	if s.Total > 0 {
		s.AverageRating = round2(float64(sum) / float64(s.Total))
	}
	return s
}

// Analytics is Summarize plus the positive and negative percentages.
func Analytics(reviews []domain.Review) domain.Analytics {
	s := Summarize(reviews)
	return domain.Analytics{
		TotalReviews:    s.Total,
		Positive:        s.Positive,
		Negative:        s.Negative,
		Neutral:         s.Neutral,
		PositivePercent: percent(s.Positive, s.Total),
		NegativePercent: percent(s.Negative, s.Total),
		AverageRating:   s.AverageRating,
	}
}

// Trend buckets reviews by calendar month in ascending order. Months without
// reviews are omitted unless opts.FillGaps is set.
func Trend(reviews []domain.Review, opts TrendOptions) []domain.SentimentTrend {
	byMonth := make(map[string]*counts)
	for _, r := range reviews {
		m := r.Month()
		c, ok := byMonth[m]
		if !ok {
			c = &counts{}
			byMonth[m] = c
		}
		c.add(r.Sentiment)
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	if opts.FillGaps {
		months = fillMonths(months)
	}

	trend := make([]domain.SentimentTrend, 0, len(months))
	for _, m := range months {
		row := domain.SentimentTrend{Month: m}
		if c, ok := byMonth[m]; ok {
			row.Positive, row.Negative, row.Neutral = c.positive, c.negative, c.neutral
		}
		trend = append(trend, row)
	}
	return trend
}

// fillMonths expands a sorted month list to every month between its ends.
// Unparseable labels are left as they are.
func fillMonths(months []string) []string {
	if len(months) < 2 {
		return months
	}
	first, err := time.Parse(monthLayout, months[0])
	if err != nil {
		return months
	}
	last, err := time.Parse(monthLayout, months[len(months)-1])
	if err != nil {
		return months
	}

	filled := make([]string, 0, len(months))
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		filled = append(filled, m.Format(monthLayout))
	}
	return filled
}

// CategoryBreakdown groups reviews by exact category, sorted by name.
func CategoryBreakdown(reviews []domain.Review) []domain.CategoryBreakdown {
	byName := make(map[string]*counts)
	for _, r := range reviews {
		c, ok := byName[r.Category]
		if !ok {
			c = &counts{}
			byName[r.Category] = c
		}
		c.add(r.Sentiment)
	}

	out := make([]domain.CategoryBreakdown, 0, len(byName))
	for name, c := range byName {
		out = append(out, domain.CategoryBreakdown{
			Name:     name,
			Positive: c.positive,
			Negative: c.negative,
			Neutral:  c.neutral,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RestaurantSummaries embeds each restaurant's summary, keeping catalog order.
func RestaurantSummaries(restaurants []domain.Restaurant, reviews []domain.Review) []domain.Restaurant {
	byRestaurant := make(map[string][]domain.Review, len(restaurants))
	for _, r := range reviews {
		byRestaurant[r.RestaurantName] = append(byRestaurant[r.RestaurantName], r)
	}

	out := make([]domain.Restaurant, 0, len(restaurants))
	for _, rs := range restaurants {
		out = append(out, rs.WithSummary(Summarize(byRestaurant[rs.Name])))
	}
	return out
}

// percent is round(100*n/total), half away from zero; 0 when total is 0.
func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(total)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
