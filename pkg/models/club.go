package models

// ClubIdentifier is a resolved club name
type ClubIdentifier struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// ClubSearchResult is one entry of the club-data search endpoint
type ClubSearchResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

// ClubSearchResponse is the club-data search payload
type ClubSearchResponse struct {
	Query      string             `json:"query"`
	PageNumber int                `json:"pageNumber,omitempty"`
	LastPage   int                `json:"lastPageNumber,omitempty"`
	Results    []ClubSearchResult `json:"results"`
}

// Player is a roster entry as returned by the club-data service
type Player struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	JerseyNumber string `json:"jersey_number"`
	Position     string `json:"position"`
	MarketValue  string `json:"marketValue"`
	Status       string `json:"status,omitempty"`
}

// Roster is the club-data players payload
type Roster struct {
	ID      string   `json:"id"`
	Players []Player `json:"players"`
}

// Lineups maps jersey numbers to player names for both sides of a match
type Lineups struct {
	HomeTeam map[string]string `json:"home_team"`
	AwayTeam map[string]string `json:"away_team"`
}
