package brackets

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/Dosada05/fixture-engine/models"
)

type GenerateParams struct {
	TeamIDs  []string
	Settings models.FormatSettings
	// Rand drives group shuffling. When nil a source is derived from
	// Settings.RandomSeed, or from the clock if no seed is configured.
	Rand *rand.Rand
}

// Generator turns a roster and format settings into a schedule. Implementations
// are pure: no I/O, no shared state.
type Generator interface {
	Generate(params GenerateParams) (*models.Schedule, error)

	GetName() string
}

// NewGenerator returns the generator for a format mode.
func NewGenerator(mode models.FormatMode) (Generator, error) {
	switch mode {
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	case models.FormatSwissElimination:
		return NewSwissEliminationGenerator(), nil
	case models.FormatGroupsDivisions:
		return NewGroupsDivisionsGenerator(), nil
	case models.FormatCustomPlayoff:
		return NewCustomPlayoffGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported format mode %q", mode)
	}
}

// NewRand builds the RNG used for shuffles and coin tosses.
func NewRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(rand.Int63()))
}

func (p GenerateParams) rng() *rand.Rand {
	if p.Rand != nil {
		return p.Rand
	}
	return NewRand(p.Settings.RandomSeed)
}

func sortMatches(matches []models.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Round < matches[j].Round
	})
}
