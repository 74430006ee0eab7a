package brackets

import (
	"fmt"

	"github.com/Dosada05/fixture-engine/models"
)

const (
	swissMinTeams        = 4
	swissDefaultLegs     = 2
	swissFinalFieldCount = 4
)

type SwissEliminationResult struct {
	LeagueMatches      []models.Match `json:"league_matches"`
	EliminationMatches []models.Match `json:"elimination_matches"`
	// FinalFour holds the semifinals and the final as a bracket so the final
	// resolves from semifinal results.
	FinalFour []models.PlayoffBracket `json:"final_four,omitempty"`
}

type SwissEliminationGenerator struct{}

func NewSwissEliminationGenerator() Generator {
	return &SwissEliminationGenerator{}
}

func (g *SwissEliminationGenerator) GetName() string {
	return "SwissElimination"
}

func (g *SwissEliminationGenerator) Generate(params GenerateParams) (*models.Schedule, error) {
	res := GenerateSwissElimination(params.TeamIDs, params.Settings.LeagueRounds)
	matches := make([]models.Match, 0, len(res.LeagueMatches)+len(res.EliminationMatches))
	matches = append(matches, res.LeagueMatches...)
	matches = append(matches, res.EliminationMatches...)
	return &models.Schedule{
		Mode:               models.FormatSwissElimination,
		Matches:            matches,
		Playoff:            res.FinalFour,
		PlayoffRoundOffset: nextRound(res.LeagueMatches),
	}, nil
}

// GenerateSwissElimination plays a short round robin, then knocks teams out in
// pairs (0,1), (2,3)... of the given order until four remain, who play
// semifinals and a final. teams must already be ordered by standing.
//
// Advancement between elimination rounds is structural only: the first team of
// each pair stands in for the winner.
// TODO: have MatchService regenerate the next elimination round from
// ConfirmedAdvancers once every match of a round is complete.
func GenerateSwissElimination(teams []string, leagueRounds int) SwissEliminationResult {
	if len(teams) < swissMinTeams {
		return SwissEliminationResult{
			LeagueMatches:      []models.Match{},
			EliminationMatches: []models.Match{},
		}
	}
	if leagueRounds <= 0 {
		leagueRounds = swissDefaultLegs
	}

	league := roundRobin(teams, leagueRounds, "sw")
	offset := nextRound(league)

	alive := make([]string, len(teams))
	copy(alive, teams)

	elimination := make([]models.Match, 0)
	round := 0
	for len(alive) > swissFinalFieldCount {
		matches, next := NextSwissEliminationRound(alive, round, offset)
		elimination = append(elimination, matches...)
		alive = next
		round++
	}

	finalFour := finalFourBracket(alive, round)
	elimination = append(elimination, offsetPlayoffMatches(CreatePlayoffMatches(finalFour), offset, nil)...)
	for i := range elimination {
		elimination[i].IsElimination = models.BoolPtr(true)
	}

	return SwissEliminationResult{
		LeagueMatches:      league,
		EliminationMatches: elimination,
		FinalFour:          finalFour,
	}
}

// NextSwissEliminationRound pairs the teams still alive for elimination round
// `round`. It returns the materialized matches and the placeholder list of who
// advances (first team of each pair, plus byes). Callers holding real results
// pass the confirmed advancers back in as alive.
//
// A full round would halve the field; when that would drop below four, only the
// bottom 2*(len(alive)-4) teams play and the rest advance on a bye.
func NextSwissEliminationRound(alive []string, round, offset int) ([]models.Match, []string) {
	excess := len(alive) - swissFinalFieldCount
	if excess <= 0 {
		return []models.Match{}, append([]string(nil), alive...)
	}

	byes := 0
	if len(alive)/2 > excess {
		byes = len(alive) - 2*excess
	}

	advancing := make([]string, 0, len(alive)-excess)
	advancing = append(advancing, alive[:byes]...)

	matches := make([]models.Match, 0, (len(alive)-byes)/2)
	playing := alive[byes:]
	for i := 0; i+1 < len(playing); i += 2 {
		idx := len(matches) + 1
		matches = append(matches, models.Match{
			ID:           fmt.Sprintf("sw-e%d-m%d", round+1, idx),
			HomeTeamID:   playing[i],
			AwayTeamID:   playing[i+1],
			Round:        offset + round,
			IsPlayoff:    true,
			PlayoffRound: models.IntPtr(round),
			PlayoffMatch: models.IntPtr(idx),
		})
		advancing = append(advancing, playing[i])
	}
	if len(playing)%2 != 0 {
		advancing = append(advancing, playing[len(playing)-1])
	}
	return matches, advancing
}

// ConfirmedAdvancers replaces the placeholder advancement of an elimination
// round with real winners. alive is the field that entered the round and
// results its matches; ok is false while any pairing is undecided.
func ConfirmedAdvancers(alive []string, results []models.Match) ([]string, bool) {
	winners := make(map[string]string)
	playing := make(map[string]bool)
	for _, m := range results {
		playing[m.HomeTeamID] = true
		playing[m.AwayTeamID] = true
		w, decided := m.Winner()
		if !decided {
			return nil, false
		}
		winners[m.HomeTeamID] = w
		winners[m.AwayTeamID] = w
	}

	out := make([]string, 0, len(alive))
	seen := make(map[string]bool)
	for _, id := range alive {
		if !playing[id] {
			out = append(out, id)
			continue
		}
		w := winners[id]
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out, true
}

// finalFourBracket: semifinals 1st v 4th and 2nd v 3rd of the remaining
// order, then the final.
func finalFourBracket(alive []string, round int) []models.PlayoffBracket {
	if len(alive) < swissFinalFieldCount {
		return []models.PlayoffBracket{}
	}
	sf1 := fmt.Sprintf("sw-sf%d-m1", round+1)
	sf2 := fmt.Sprintf("sw-sf%d-m2", round+1)
	return []models.PlayoffBracket{
		{Round: round, Matches: []models.BracketMatch{
			{MatchID: sf1, Home: models.Team(alive[0]), Away: models.Team(alive[3])},
			{MatchID: sf2, Home: models.Team(alive[1]), Away: models.Team(alive[2])},
		}},
		{Round: round + 1, Matches: []models.BracketMatch{
			{MatchID: fmt.Sprintf("sw-f%d-m1", round+2), Home: models.WinnerOf(sf1), Away: models.WinnerOf(sf2)},
		}},
	}
}
