package odds

import (
	"strings"

	"github.com/XavierBriggs/Janus/pkg/models"
)

// H2H is the only market priced by the pipeline
const H2H = "h2h"

// ExtractBookmakers keeps the selected bookmakers and their h2h markets
// Selection matches a bookmaker's key or title case-insensitively and always includes reference.
// Bookmakers left with no h2h market and matches left with no bookmakers are dropped.
// The input is not modified.
func ExtractBookmakers(matches []models.Match, selected []string, reference string) []models.Match {
	want := make(map[string]bool, len(selected)+1)
	for _, s := range selected {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			want[s] = true
		}
	}
	want[strings.ToLower(reference)] = true

	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		books := make([]models.Bookmaker, 0, len(m.Bookmakers))
		for _, b := range m.Bookmakers {
			if !want[strings.ToLower(b.Name)] && !want[strings.ToLower(b.Title)] {
				continue
			}

			var markets []models.H2HMarket
			for _, mk := range b.Markets {
				if mk.Key != H2H {
					continue
				}
				outcomes := make([]models.Outcome, len(mk.Outcomes))
				copy(outcomes, mk.Outcomes)
				markets = append(markets, models.H2HMarket{Key: mk.Key, Outcomes: outcomes})
			}
			if len(markets) == 0 {
				continue
			}

			books = append(books, models.Bookmaker{Name: b.Name, Title: b.Title, Markets: markets})
		}

		if len(books) == 0 {
			continue
		}

		nm := m
		nm.Bookmakers = books
		out = append(out, nm)
	}
	return out
}

// ParseBookmakers splits a comma-separated bookmaker list
func ParseBookmakers(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
