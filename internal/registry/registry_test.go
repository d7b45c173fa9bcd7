package registry_test

import (
	"testing"

	"github.com/XavierBriggs/Janus/internal/registry"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/sports/soccer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fallback(key string) contracts.CompetitionModule {
	return soccer.NewModule(soccer.DefaultConfig(key))
}

func TestRegister(t *testing.T) {
	r := registry.NewCompetitionRegistry(nil)

	require.NoError(t, r.Register(soccer.NewModule(soccer.DefaultConfig("soccer_epl"))))
	assert.Error(t, r.Register(soccer.NewModule(soccer.DefaultConfig("soccer_epl"))), "duplicate")
	assert.Equal(t, 1, r.Count())

	_, ok := r.Get("soccer_epl")
	assert.True(t, ok)
}

func TestResolve(t *testing.T) {
	r := registry.NewCompetitionRegistry(fallback)
	for _, c := range soccer.Competitions() {
		require.NoError(t, r.Register(soccer.NewModule(c)))
	}

	epl, err := r.Resolve("soccer_epl")
	require.NoError(t, err)
	assert.Equal(t, "English Premier League", epl.GetDisplayName())

	other, err := r.Resolve("soccer_japan_j_league")
	require.NoError(t, err)
	assert.Equal(t, "soccer_japan_j_league", other.GetSportKey())

	strict := registry.NewCompetitionRegistry(nil)
	_, err = strict.Resolve("soccer_epl")
	assert.Error(t, err)
}

func TestGetAllSorted(t *testing.T) {
	r := registry.NewCompetitionRegistry(nil)
	for _, c := range soccer.Competitions() {
		require.NoError(t, r.Register(soccer.NewModule(c)))
	}

	all := r.GetAll()
	require.Len(t, all, len(soccer.Competitions()))
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].GetSportKey(), all[i].GetSportKey())
	}
}
