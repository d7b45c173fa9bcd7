package soccer

import (
	"time"
)

// Config contains per-competition odds settings
type Config struct {
	// Competition identification
	SportKey    string
	DisplayName string

	// Regions to query
	Regions []string

	// Markets requested from the vendor; only h2h is priced downstream
	Markets []string

	// Bookmaker whose prices are treated as ground truth for devigging
	ReferenceBookmaker string

	// How often the cache warmer refreshes this competition (0 = never)
	WarmInterval time.Duration
}

// DefaultConfig returns the settings used for a competition key with no explicit entry
func DefaultConfig(sportKey string) *Config {
	return &Config{
		SportKey:           sportKey,
		DisplayName:        sportKey,
		Regions:            []string{"eu"},
		Markets:            DefaultMarkets(),
		ReferenceBookmaker: ReferenceBookmaker,
	}
}
