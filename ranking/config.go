package ranking

import "fmt"

// MaxResultsLimit is the largest accepted MaxResults.
const MaxResultsLimit = 50

// Weights multiply each scoring feature.
type Weights struct {
	Text        float64 `yaml:"text"`
	ExactClaim  float64 `yaml:"exact_claim"`
	ExactPolicy float64 `yaml:"exact_policy"`
	Recency     float64 `yaml:"recency"`
	// Denied only applies when the query expresses denial interest.
	Denied float64 `yaml:"denied"`
}

// Config configures a Ranker.
type Config struct {
	Weights           Weights `yaml:"weights"`
	RecencyWindowDays float64 `yaml:"recency_window_days"`
	MaxResults        int     `yaml:"max_results"`
}

// DefaultConfig returns the tuned default weights.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Text:        1.0,
			ExactClaim:  8.0,
			ExactPolicy: 4.0,
			Recency:     1.0,
			Denied:      1.5,
		},
		RecencyWindowDays: 30,
		MaxResults:        10,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxResults < 1 || c.MaxResults > MaxResultsLimit {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxResults, c.MaxResults)
	}
	if c.RecencyWindowDays < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidRecencyWindow, c.RecencyWindowDays)
	}
	w := c.Weights
	for name, v := range map[string]float64{
		"text":         w.Text,
		"exact_claim":  w.ExactClaim,
		"exact_policy": w.ExactPolicy,
		"recency":      w.Recency,
		"denied":       w.Denied,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidWeight, name, v)
		}
	}
	return nil
}
