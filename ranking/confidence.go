package ranking

// Level is a coarse confidence bucket.
type Level string

const (
	LevelHigh   Level = "HIGH"
	LevelMedium Level = "MEDIUM"
	LevelLow    Level = "LOW"
)

// Bucket thresholds, inclusive.
const (
	HighThreshold   = 0.75
	MediumThreshold = 0.5
)

// LevelFor buckets a confidence value.
func LevelFor(confidence float64) Level {
	switch {
	case confidence >= HighThreshold:
		return LevelHigh
	case confidence >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Normalize scales total against best into [0, 1]. A best <= 0 yields 0.
func Normalize(total, best float64) float64 {
	if best <= 0 {
		return 0
	}
	c := total / best
	if c > 1 {
		return 1
	}
	if c < 0 {
		return 0
	}
	return c
}
