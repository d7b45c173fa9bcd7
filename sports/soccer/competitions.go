package soccer

import "time"

// ReferenceBookmaker is the sharp book used for fair prices
const ReferenceBookmaker = "pinnacle"

// DefaultMarkets returns the vendor markets requested per competition
func DefaultMarkets() []string {
	return []string{"h2h", "spreads"}
}

// Competitions returns the football competitions registered at startup
func Competitions() []*Config {
	top := func(key, name string) *Config {
		c := DefaultConfig(key)
		c.DisplayName = name
		c.WarmInterval = 30 * time.Minute
		return c
	}

	return []*Config{
		top("soccer_epl", "English Premier League"),
		top("soccer_spain_la_liga", "La Liga"),
		top("soccer_italy_serie_a", "Serie A"),
		top("soccer_germany_bundesliga", "Bundesliga"),
		top("soccer_france_ligue_one", "Ligue 1"),
		top("soccer_uefa_champs_league", "UEFA Champions League"),
	}
}
