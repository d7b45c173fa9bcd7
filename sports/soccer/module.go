package soccer

import (
	"time"

	"github.com/XavierBriggs/Janus/pkg/contracts"
)

// Module implements the CompetitionModule interface for a football competition
type Module struct {
	config *Config
}

var _ contracts.CompetitionModule = (*Module)(nil)

// NewModule creates a competition module from config
func NewModule(config *Config) *Module {
	return &Module{
		config: config,
	}
}

// GetSportKey returns the vendor competition key
func (m *Module) GetSportKey() string {
	return m.config.SportKey
}

// GetDisplayName returns the human-readable name
func (m *Module) GetDisplayName() string {
	return m.config.DisplayName
}

// GetRegions returns the regions to query
func (m *Module) GetRegions() []string {
	return m.config.Regions
}

// GetMarkets returns the vendor markets to request
func (m *Module) GetMarkets() []string {
	return m.config.Markets
}

// GetReferenceBookmaker returns the devig reference bookmaker
func (m *Module) GetReferenceBookmaker() string {
	if m.config.ReferenceBookmaker == "" {
		return ReferenceBookmaker
	}
	return m.config.ReferenceBookmaker
}

// GetWarmInterval returns the cache warmer interval
func (m *Module) GetWarmInterval() time.Duration {
	return m.config.WarmInterval
}
