package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/XavierBriggs/Janus/pkg/contracts"
)

// Fallback builds a module for a competition key that was never registered
type Fallback func(sportKey string) contracts.CompetitionModule

// CompetitionRegistry manages registered competition modules
type CompetitionRegistry struct {
	competitions map[string]contracts.CompetitionModule
	fallback     Fallback
	mu           sync.RWMutex
}

// NewCompetitionRegistry creates a new competition registry
// fallback may be nil, in which case Resolve only returns registered modules
func NewCompetitionRegistry(fallback Fallback) *CompetitionRegistry {
	return &CompetitionRegistry{
		competitions: make(map[string]contracts.CompetitionModule),
		fallback:     fallback,
	}
}

// Register adds a competition module to the registry
func (r *CompetitionRegistry) Register(competition contracts.CompetitionModule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sportKey := competition.GetSportKey()
	if _, exists := r.competitions[sportKey]; exists {
		return fmt.Errorf("competition %s is already registered", sportKey)
	}

	r.competitions[sportKey] = competition
	return nil
}

// Get retrieves a registered competition module by key
func (r *CompetitionRegistry) Get(sportKey string) (contracts.CompetitionModule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	competition, exists := r.competitions[sportKey]
	return competition, exists
}

// Resolve returns the registered module or one built by the fallback
func (r *CompetitionRegistry) Resolve(sportKey string) (contracts.CompetitionModule, error) {
	if competition, ok := r.Get(sportKey); ok {
		return competition, nil
	}
	if r.fallback == nil {
		return nil, fmt.Errorf("competition %s is not registered", sportKey)
	}
	return r.fallback(sportKey), nil
}

// GetAll returns all registered competitions ordered by key
func (r *CompetitionRegistry) GetAll() []contracts.CompetitionModule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	competitions := make([]contracts.CompetitionModule, 0, len(r.competitions))
	for _, competition := range r.competitions {
		competitions = append(competitions, competition)
	}
	sort.Slice(competitions, func(i, j int) bool {
		return competitions[i].GetSportKey() < competitions[j].GetSportKey()
	})
	return competitions
}

// Count returns the number of registered competitions
func (r *CompetitionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.competitions)
}
