package models

import "time"

// Outcome is a single priced result inside a market (decimal odds)
type Outcome struct {
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	NoVigPrice    *float64 `json:"no_vig_price,omitempty"`
	ExpectedValue *float64 `json:"expected_value,omitempty"`
}

// H2HMarket is a head-to-head (moneyline) market
type H2HMarket struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Bookmaker holds one bookmaker's markets for a match
type Bookmaker struct {
	Name    string      `json:"name"`  // provider key, e.g. "pinnacle"
	Title   string      `json:"title"` // display name, e.g. "Pinnacle"
	Markets []H2HMarket `json:"markets"`
}

// Match represents a fixture with its bookmaker odds
type Match struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key,omitempty"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	CommenceTime time.Time   `json:"commence_time"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// FetchOddsOptions contains parameters for fetching odds
type FetchOddsOptions struct {
	Sport   string
	Regions []string
	Markets []string
}

// RateLimits contains the provider's quota as reported in response headers
type RateLimits struct {
	RequestsRemaining int
	RequestsUsed      int
}

// OddsQuery describes a getOdds request
type OddsQuery struct {
	Competition string
	Bookmakers  []string
	AllMatches  bool
}

// Clone returns a deep copy so cached snapshots are never mutated by the pipeline
func (m Match) Clone() Match {
	out := m
	out.Bookmakers = make([]Bookmaker, len(m.Bookmakers))
	for i, b := range m.Bookmakers {
		nb := b
		nb.Markets = make([]H2HMarket, len(b.Markets))
		for j, mk := range b.Markets {
			nm := mk
			nm.Outcomes = make([]Outcome, len(mk.Outcomes))
			copy(nm.Outcomes, mk.Outcomes)
			nb.Markets[j] = nm
		}
		out.Bookmakers[i] = nb
	}
	return out
}
