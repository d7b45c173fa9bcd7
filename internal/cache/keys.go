package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/XavierBriggs/Janus/pkg/contracts"
)

// TTL constants
const (
	ClubIDTTL     = 24 * time.Hour
	OddsTTL       = 30 * time.Minute
	ComparisonTTL = 2 * time.Hour
	LineupsTTL    = 1 * time.Hour
)

// ClubIDKey format: club_id:{club_name}
func ClubIDKey(clubName string) string {
	return fmt.Sprintf("club_id:%s", clubName)
}

// OddsKey format: odds_api:{competition}
func OddsKey(competition string) string {
	return fmt.Sprintf("odds_api:%s", competition)
}

// ComparisonKey format: team_comparison:{home}:{away}
func ComparisonKey(homeTeam, awayTeam string) string {
	return fmt.Sprintf("team_comparison:%s:%s", homeTeam, awayTeam)
}

// LineupsKey format: lineups:{home}:{away}
func LineupsKey(homeTeam, awayTeam string) string {
	return fmt.Sprintf("lineups:%s:%s", homeTeam, awayTeam)
}

// RateLimitKey format: rate_limit:{uid}:{endpoint}
func RateLimitKey(uid, endpoint string) string {
	return fmt.Sprintf("rate_limit:%s:%s", uid, endpoint)
}

// GetJSON decodes the value under key into dst
// Returns false without error on a miss; an undecodable entry is treated as a miss
func GetJSON(ctx context.Context, store contracts.CacheStore, key string, dst any) (bool, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, contracts.ErrCacheMiss) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		// Cache corruption, recompute
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v once and stores it under key
func SetJSON(ctx context.Context, store contracts.CacheStore, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return store.Set(ctx, key, data, ttl)
}
