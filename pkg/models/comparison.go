package models

// ComparisonOutcome is the verdict of a single comparison record
type ComparisonOutcome string

const (
	ResultHomeHigher ComparisonOutcome = "home_higher"
	ResultAwayHigher ComparisonOutcome = "away_higher"
	ResultEqual      ComparisonOutcome = "equal"
	ResultHomeOnly   ComparisonOutcome = "home_only"
	ResultAwayOnly   ComparisonOutcome = "away_only"
	ResultNoPlayers  ComparisonOutcome = "no_players"
)

// ComparedPlayer is the player view embedded in a comparison record
type ComparedPlayer struct {
	Name         string  `json:"name"`
	JerseyNumber string  `json:"jersey_number"`
	MarketValue  float64 `json:"market_value"`
}

// ComparisonRecord compares one home/away pairing at a position
type ComparisonRecord struct {
	Position   string            `json:"position"`
	HomePlayer *ComparedPlayer   `json:"home_player"`
	AwayPlayer *ComparedPlayer   `json:"away_player"`
	HomeValue  *float64          `json:"home_value"`
	AwayValue  *float64          `json:"away_value"`
	Result     ComparisonOutcome `json:"result"`
}

// ComparisonResult is the response of compareLineups
type ComparisonResult struct {
	HomeTeam       string             `json:"home_team"`
	AwayTeam       string             `json:"away_team"`
	HomeTotalValue string             `json:"home_total_value"`
	AwayTotalValue string             `json:"away_total_value"`
	Comparison     []ComparisonRecord `json:"comparison"`
}
