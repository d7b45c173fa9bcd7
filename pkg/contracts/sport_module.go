package contracts

import (
	"time"
)

// CompetitionModule defines the interface for competition-specific odds settings
// This lets Janus poll several competitions with their own regions and markets
type CompetitionModule interface {
	// GetSportKey returns the vendor key of the competition (e.g., "soccer_epl")
	GetSportKey() string

	// GetDisplayName returns the human-readable name (e.g., "English Premier League")
	GetDisplayName() string

	// GetRegions returns the vendor regions to query (e.g., ["eu"])
	GetRegions() []string

	// GetMarkets returns the vendor markets to request
	GetMarkets() []string

	// GetReferenceBookmaker returns the bookmaker used as ground truth for devigging
	GetReferenceBookmaker() string

	// GetWarmInterval returns how often the cache warmer refreshes this competition (0 = never)
	GetWarmInterval() time.Duration
}
