package contracts

import (
	"context"
	"encoding/json"

	"github.com/XavierBriggs/Janus/pkg/models"
)

// OddsProvider defines the interface for fetching odds from an external vendor
// Implementations return validated matches; malformed vendor records are dropped
type OddsProvider interface {
	// FetchOdds retrieves matches with their bookmaker odds for a competition
	FetchOdds(ctx context.Context, opts *models.FetchOddsOptions) ([]models.Match, error)

	// GetRateLimits returns the vendor quota reported by the last response
	GetRateLimits() *models.RateLimits
}

// ClubDataSource is the club directory / roster service
type ClubDataSource interface {
	SearchClubs(ctx context.Context, name string, page int) (*models.ClubSearchResponse, error)
	ClubPlayers(ctx context.Context, clubID, seasonID string) (*models.Roster, error)

	// Pass-through documents, returned as received
	ClubProfile(ctx context.Context, clubID string) (json.RawMessage, error)
	ClubStadium(ctx context.Context, clubID string) (json.RawMessage, error)
	ClubStaffs(ctx context.Context, clubID string) (json.RawMessage, error)
}

// LineupSource resolves starting lineups from a live-score collaborator
type LineupSource interface {
	// FindMatchID returns the collaborator's match id for the home team's next/current fixture
	// Returns models.ErrMatchNotFound when no fixture exists
	FindMatchID(ctx context.Context, homeTeam string) (string, error)

	// Lineups returns jersey->name maps for both sides of a match
	Lineups(ctx context.Context, matchID string) (*models.Lineups, error)
}

// IdentityProvider verifies bearer tokens
type IdentityProvider interface {
	// Verify returns the user identifier carried by a valid token
	Verify(ctx context.Context, token string) (string, error)
}
