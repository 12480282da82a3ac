package classifier

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
)

// polarityThreshold separates polar labels from neutral.
const polarityThreshold = 0.25

// negationScope is how many tokens after a negator have their polarity flipped.
const negationScope = 3

// intensifierWeight scales the next sentiment word after an intensifier.
const intensifierWeight = 1.5

var positiveWords = wordSet(
	"amazing", "attentive", "authentic", "awesome", "beautiful", "best", "charming",
	"clean", "cozy", "crispy", "decent", "delicious", "delightful", "divine",
	"enjoyed", "excellent", "exceptional", "fabulous", "fantastic", "fast", "favorite",
	"flavorful", "fresh", "friendly", "generous", "good", "gorgeous", "great",
	"helpful", "impeccable", "impressive", "incredible", "love", "loved", "lovely",
	"memorable", "nice", "outstanding", "perfect", "perfectly", "phenomenal",
	"pleasant", "polite", "prompt", "recommend", "special", "spotless", "stunning",
	"superb", "tasty", "tender", "terrific", "unforgettable", "warm", "welcoming",
	"wonderful", "worth", "yummy",
)

var negativeWords = wordSet(
	"awful", "bad", "bland", "burnt", "cold", "dirty", "disappointed",
	"disappointing", "disgusting", "dismissive", "greasy", "gross", "hair",
	"horrible", "inedible", "lost", "mediocre", "mess", "messy", "mistake", "noisy",
	"overcooked", "overpriced", "poor", "raw", "rude", "salty", "slow", "soggy",
	"stale", "terrible", "undercooked", "unfriendly", "unhygienic", "unprofessional",
	"waited", "wait", "waste", "worse", "worst", "wrong",
)

var negators = wordSet(
	"no", "not", "never", "nothing", "nobody", "none", "neither", "nor",
	"hardly", "barely", "without", "cannot", "cant", "dont", "didnt", "doesnt",
	"isnt", "wasnt", "werent", "wont", "wouldnt", "shouldnt", "couldnt", "aint",
)

var intensifiers = wordSet(
	"very", "really", "extremely", "incredibly", "absolutely", "so", "super",
	"truly", "totally", "highly", "exceptionally", "remarkably",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Lexicon is a deterministic word-list sentiment model with negation and
// intensifier handling.
type Lexicon struct{}

// NewLexicon returns the built-in lexicon classifier.
func NewLexicon() *Lexicon {
	return &Lexicon{}
}

// Classify scores text by weighted positive and negative word hits.
func (l *Lexicon) Classify(_ context.Context, text string) (*domain.Prediction, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}

	pos, neg, hits := l.score(text)

	if hits == 0 {
		return &domain.Prediction{
			Sentiment:      domain.SentimentNeutral,
			SentimentScore: 0.5,
			Confidence:     0.5,
		}, nil
	}

	polarity := (pos - neg) / (pos + neg)
	label := domain.SentimentNeutral
	switch {
	case polarity >= polarityThreshold:
		label = domain.SentimentPositive
	case polarity <= -polarityThreshold:
		label = domain.SentimentNegative
	}

	var confidence float64
	if label == domain.SentimentNeutral {
		confidence = 1 - math.Abs(polarity)
	} else {
		confidence = math.Abs(polarity) * float64(hits) / float64(hits+1)
	}

	return &domain.Prediction{
		Sentiment:      label,
		SentimentScore: domain.ScoreFor(label, confidence),
		Confidence:     confidence,
	}, nil
}

// score walks the tokens and returns the weighted positive and negative mass
// plus the number of sentiment words matched.
func (l *Lexicon) score(text string) (pos, neg float64, hits int) {
	negateLeft := 0
	weight := 1.0

	for _, tok := range tokenize(text) {
		if tok == "" {
			// Clause boundary.
			negateLeft, weight = 0, 1.0
			continue
		}
		if _, ok := negators[tok]; ok {
			negateLeft = negationScope
			continue
		}
		if _, ok := intensifiers[tok]; ok {
			weight = intensifierWeight
			continue
		}

		_, isPos := positiveWords[tok]
		_, isNeg := negativeWords[tok]
		negated := negateLeft > 0
		if negateLeft > 0 {
			negateLeft--
		}
		if !isPos && !isNeg {
			continue
		}

		hits++
		if isPos != negated {
			pos += weight
		} else {
			neg += weight
		}
		weight = 1.0
	}
	return pos, neg, hits
}

// tokenize lowercases text and splits it into words with apostrophes removed.
// Clause punctuation is emitted as an empty token.
func tokenize(text string) []string {
	var (
		tokens []string
		b      strings.Builder
	)
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || r == '’':
		case strings.ContainsRune(".!?;,:", r):
			flush()
			tokens = append(tokens, "")
		default:
			flush()
		}
	}
	flush()
	return tokens
}
