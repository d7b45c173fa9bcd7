package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/pkg/models"
)

// FakeOddsProvider returns canned matches and counts calls
type FakeOddsProvider struct {
	mu      sync.Mutex
	Matches []models.Match
	Err     error
	calls   int
	last    *models.FetchOddsOptions
}

var _ contracts.OddsProvider = (*FakeOddsProvider)(nil)

func (f *FakeOddsProvider) FetchOdds(ctx context.Context, opts *models.FetchOddsOptions) ([]models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.last = opts
	if f.Err != nil {
		return nil, f.Err
	}

	out := make([]models.Match, len(f.Matches))
	for i, m := range f.Matches {
		out[i] = m.Clone()
	}
	return out, nil
}

func (f *FakeOddsProvider) GetRateLimits() *models.RateLimits {
	return &models.RateLimits{RequestsRemaining: 500}
}

// Calls returns how many times FetchOdds ran
func (f *FakeOddsProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LastOptions returns the options of the most recent call
func (f *FakeOddsProvider) LastOptions() *models.FetchOddsOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// RecordingSink is a contracts.ExportSink that keeps every export in memory
type RecordingSink struct {
	mu      sync.Mutex
	Exports []RecordedExport
	Err     error
}

// RecordedExport is one call to RecordingSink.Export
type RecordedExport struct {
	Kind    string
	Subject string
	Payload any
}

var _ contracts.ExportSink = (*RecordingSink)(nil)

func (s *RecordingSink) Export(ctx context.Context, kind, subject string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Exports = append(s.Exports, RecordedExport{Kind: kind, Subject: subject, Payload: payload})
	return s.Err
}

// Count returns the number of exports received
func (s *RecordingSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Exports)
}

// FakeClubSource serves clubs from memory and counts calls
type FakeClubSource struct {
	mu sync.Mutex

	// Clubs maps a search query to its results
	Clubs map[string][]models.ClubSearchResult
	// Rosters maps a club id to its players
	Rosters map[string][]models.Player
	// Documents maps "{id}/{kind}" to a pass-through document
	Documents map[string]json.RawMessage

	SearchErr error
	RosterErr error

	searches int
	rosters  int
}

var _ contracts.ClubDataSource = (*FakeClubSource)(nil)

func (f *FakeClubSource) SearchClubs(ctx context.Context, name string, page int) (*models.ClubSearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return &models.ClubSearchResponse{Query: name, PageNumber: page, Results: f.Clubs[name]}, nil
}

func (f *FakeClubSource) ClubPlayers(ctx context.Context, clubID, seasonID string) (*models.Roster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rosters++
	if f.RosterErr != nil {
		return nil, f.RosterErr
	}
	players, ok := f.Rosters[clubID]
	if !ok {
		return nil, &models.UpstreamError{Service: "clubdata", StatusCode: 404, Message: "club not found"}
	}
	return &models.Roster{ID: clubID, Players: players}, nil
}

func (f *FakeClubSource) ClubProfile(ctx context.Context, clubID string) (json.RawMessage, error) {
	return f.document(clubID, "profile")
}

func (f *FakeClubSource) ClubStadium(ctx context.Context, clubID string) (json.RawMessage, error) {
	return f.document(clubID, "stadium")
}

func (f *FakeClubSource) ClubStaffs(ctx context.Context, clubID string) (json.RawMessage, error) {
	return f.document(clubID, "staffs")
}

func (f *FakeClubSource) document(clubID, kind string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.Documents[clubID+"/"+kind]
	if !ok {
		return nil, &models.UpstreamError{Service: "clubdata", StatusCode: 404, Message: kind + " not found"}
	}
	return doc, nil
}

// Searches returns how many searches ran
func (f *FakeClubSource) Searches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

// RosterCalls returns how many roster fetches ran
func (f *FakeClubSource) RosterCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rosters
}

// FakeLineupSource serves lineups keyed by home team
type FakeLineupSource struct {
	mu sync.Mutex

	// MatchIDs maps a home team to its fixture id
	MatchIDs map[string]string
	// Lineups maps a fixture id to its lineups
	LineupsByMatch map[string]*models.Lineups

	calls int
}

var _ contracts.LineupSource = (*FakeLineupSource)(nil)

func (f *FakeLineupSource) FindMatchID(ctx context.Context, homeTeam string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	id, ok := f.MatchIDs[homeTeam]
	if !ok {
		return "", models.ErrMatchNotFound
	}
	return id, nil
}

func (f *FakeLineupSource) Lineups(ctx context.Context, matchID string) (*models.Lineups, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	l, ok := f.LineupsByMatch[matchID]
	if !ok {
		return nil, models.ErrMatchNotFound
	}
	return l, nil
}

// Calls returns how many lookups ran
func (f *FakeLineupSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
