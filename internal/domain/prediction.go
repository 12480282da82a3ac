package domain

import "fmt"

// Prediction is a classifier's verdict for a piece of text.
type Prediction struct {
	Sentiment      string  `json:"sentiment"`
	SentimentScore float64 `json:"sentimentScore"`
	Confidence     float64 `json:"confidence"`
}

// Validate checks that the prediction is structurally usable.
func (p *Prediction) Validate() error {
	if !IsValidSentiment(p.Sentiment) {
		return fmt.Errorf("unknown sentiment label %q", p.Sentiment)
	}
	if p.SentimentScore < 0 || p.SentimentScore > 1 {
		return fmt.Errorf("sentiment score %v out of range [0,1]", p.SentimentScore)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range [0,1]", p.Confidence)
	}
	return nil
}

// ScoreFor maps a label and confidence onto the [0,1] polarity scale:
// positive lands in [0.5,1], negative in [0,0.5], neutral at 0.5.
func ScoreFor(sentiment string, confidence float64) float64 {
	switch sentiment {
	case SentimentPositive:
		return 0.5 + confidence*0.5
	case SentimentNegative:
		return 0.5 - confidence*0.5
	default:
		return 0.5
	}
}
