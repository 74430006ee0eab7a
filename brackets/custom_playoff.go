package brackets

import (
	"log/slog"
	"sort"

	"github.com/Dosada05/fixture-engine/models"
)

// Match IDs of the Homebush template.
const (
	HomebushQualifierA = "hb-qa"
	HomebushQualifierB = "hb-qb"
	HomebushElimA      = "hb-ea"
	HomebushElimB      = "hb-eb"
	HomebushPlayIn     = "hb-pi"
	HomebushElimC      = "hb-ec"
	HomebushSemiUpper  = "hb-su"
	HomebushKnockout   = "hb-ko"
	HomebushPrelimFinA = "hb-pfa"
	HomebushPrelimFinB = "hb-pfb"
	HomebushGrandFinal = "hb-gf"
)

const (
	homebushMinTeams    = 8
	homebushMaxTeams    = 9
	homebushReseedRound = 5
)

type CustomPlayoffGenerator struct{}

func NewCustomPlayoffGenerator() Generator {
	return &CustomPlayoffGenerator{}
}

func (g *CustomPlayoffGenerator) GetName() string {
	return "CustomPlayoff"
}

// Generate plays a league round robin and then the Homebush playoff over the
// top of the final table.
func (g *CustomPlayoffGenerator) Generate(params GenerateParams) (*models.Schedule, error) {
	league := GenerateRoundRobinSchedule(params.TeamIDs, params.Settings.Legs)
	schedule := &models.Schedule{
		Mode:               models.FormatCustomPlayoff,
		Matches:            league,
		PlayoffRoundOffset: nextRound(league),
	}

	if len(params.TeamIDs) < homebushMinTeams {
		slog.Warn("custom playoff needs at least 8 teams, league only",
			slog.Int("teams", len(params.TeamIDs)))
		return schedule, nil
	}

	schedule.CustomRounds = GenerateHomebushPlayoff(len(params.TeamIDs), params.Settings.ReSeedRound5)
	schedule.Matches = append(schedule.Matches, CreateCustomPlayoffMatches(schedule.CustomRounds, schedule.PlayoffRoundOffset)...)
	return schedule, nil
}

// GenerateHomebushPlayoff returns the fixed six-round template. Losers of the
// qualifiers re-enter through the upper semi and the preliminary finals, so the
// dependency graph is not a binary tree. With reSeedRound5 the preliminary finals
// hold re-seed slots until the four survivors are known.
func GenerateHomebushPlayoff(teamCount int, reSeedRound5 bool) []models.CustomPlayoffRound {
	elim := models.BoolPtr(true)
	noElim := models.BoolPtr(false)

	round1 := models.CustomPlayoffRound{
		ID:          "round-1",
		Name:        "Qualifying and Elimination Finals",
		Round:       1,
		Description: "Top four play qualifiers with a second chance; fifth to eighth play sudden-death elimination finals.",
		Matches: []models.CustomPlayoffMatch{
			customMatch(HomebushQualifierA, "Qualifier A", models.Seed(1), models.Seed(2), noElim),
			customMatch(HomebushQualifierB, "Qualifier B", models.Seed(3), models.Seed(4), noElim),
			customMatch(HomebushElimA, "Elimination A", models.Seed(5), models.Seed(8), elim),
			customMatch(HomebushElimB, "Elimination B", models.Seed(6), models.Seed(7), elim),
		},
	}
	if teamCount >= homebushMaxTeams {
		// The ninth seed plays into the eighth seed's Elimination A slot. The
		// play-in is listed first so its winner feeds Elimination A in one pass.
		playIn := customMatch(HomebushPlayIn, "Elimination Play-in", models.Seed(8), models.Seed(9), elim)
		round1.Description = "Top four play qualifiers with a second chance; eighth and ninth play in for a place in the elimination finals."
		round1.Matches = []models.CustomPlayoffMatch{
			round1.Matches[0],
			round1.Matches[1],
			playIn,
			customMatch(HomebushElimA, "Elimination A", models.Seed(5), models.WinnerOf(HomebushPlayIn), elim),
			round1.Matches[3],
		}
	}

	rounds := []models.CustomPlayoffRound{
		round1,
		{
			ID: "round-2", Name: "Elimination Final", Round: 2, IsElimination: true,
			Description: "Winners of the two elimination finals meet.",
			Matches: []models.CustomPlayoffMatch{
				customMatch(HomebushElimC, "Elimination C", models.WinnerOf(HomebushElimA), models.WinnerOf(HomebushElimB), nil),
			},
		},
		{
			ID: "round-3", Name: "Semi Final (Upper)", Round: 3,
			Description: "Loser of Qualifier A against winner of Qualifier B; the loser drops to the knockout.",
			Matches: []models.CustomPlayoffMatch{
				customMatch(HomebushSemiUpper, "Semi Final (Upper)", models.LoserOf(HomebushQualifierA), models.WinnerOf(HomebushQualifierB), nil),
			},
		},
		{
			ID: "round-4", Name: "Knockout", Round: 4, IsElimination: true,
			Description: "Loser of the upper semi against the elimination final winner.",
			Matches: []models.CustomPlayoffMatch{
				customMatch(HomebushKnockout, "Knockout", models.LoserOf(HomebushSemiUpper), models.WinnerOf(HomebushElimC), nil),
			},
		},
		preliminaryFinals(reSeedRound5),
		{
			ID: "round-6", Name: "Grand Final", Round: 6, IsElimination: true,
			Description: "Winners of the preliminary finals.",
			Matches: []models.CustomPlayoffMatch{
				customMatch(HomebushGrandFinal, "Grand Final", models.WinnerOf(HomebushPrelimFinA), models.WinnerOf(HomebushPrelimFinB), nil),
			},
		},
	}
	return rounds
}

func preliminaryFinals(reSeed bool) models.CustomPlayoffRound {
	round := models.CustomPlayoffRound{
		ID: "round-5", Name: "Preliminary Finals", Round: homebushReseedRound, IsElimination: true,
	}
	if reSeed {
		round.Description = "Survivors re-seeded by original table position: highest against lowest, then the middle pair."
		round.Matches = []models.CustomPlayoffMatch{
			customMatch(HomebushPrelimFinA, "Preliminary Final A", models.ReseedSlot(1), models.ReseedSlot(4), nil),
			customMatch(HomebushPrelimFinB, "Preliminary Final B", models.ReseedSlot(2), models.ReseedSlot(3), nil),
		}
		return round
	}
	round.Description = "Qualifier A winner meets the knockout winner; upper semi winner meets the Qualifier B loser."
	round.Matches = []models.CustomPlayoffMatch{
		customMatch(HomebushPrelimFinA, "Preliminary Final A", models.WinnerOf(HomebushQualifierA), models.WinnerOf(HomebushKnockout), nil),
		customMatch(HomebushPrelimFinB, "Preliminary Final B", models.WinnerOf(HomebushSemiUpper), models.LoserOf(HomebushQualifierB), nil),
	}
	return round
}

func customMatch(id, name string, home, away models.ParticipantRef, isElimination *bool) models.CustomPlayoffMatch {
	return models.CustomPlayoffMatch{
		BracketMatch:  models.BracketMatch{MatchID: id, Home: home, Away: away},
		Name:          name,
		IsElimination: isElimination,
	}
}

// CreateCustomPlayoffMatches materializes the template. Round r lands on
// offset+r-1 of the tournament timeline; byes are dropped.
func CreateCustomPlayoffMatches(rounds []models.CustomPlayoffRound, offset int) []models.Match {
	matches := make([]models.Match, 0)
	for ri := range rounds {
		round := &rounds[ri]
		for mi := range round.Matches {
			cm := &round.Matches[mi]
			home, away := cm.Home.String(), cm.Away.String()
			if cm.IsBye() {
				continue
			}
			matches = append(matches, models.Match{
				ID:            cm.MatchID,
				HomeTeamID:    home,
				AwayTeamID:    away,
				Round:         offset + round.Round - 1,
				HomeGoals:     cm.HomeGoals,
				AwayGoals:     cm.AwayGoals,
				DateISO:       cm.DateISO,
				IsPlayoff:     true,
				PlayoffRound:  models.IntPtr(round.Round - 1),
				PlayoffMatch:  models.IntPtr(mi + 1),
				IsElimination: models.BoolPtr(round.Eliminates(cm)),
			})
		}
	}
	return matches
}

// reseedPreliminaryFinals fills the re-seed slots of the preliminary finals once
// the four survivors of rounds 1-4 are decided, ranked by original table
// position. Anything still undecided leaves the round untouched.
func reseedPreliminaryFinals(rounds []models.CustomPlayoffRound, seeds []string) []models.CustomPlayoffRound {
	var prelim *models.CustomPlayoffRound
	byID := make(map[string]*models.CustomPlayoffMatch)
	for ri := range rounds {
		if rounds[ri].Round == homebushReseedRound {
			prelim = &rounds[ri]
		}
		for mi := range rounds[ri].Matches {
			byID[rounds[ri].Matches[mi].MatchID] = &rounds[ri].Matches[mi]
		}
	}
	if prelim == nil || len(prelim.Matches) != 2 {
		return rounds
	}
	for _, m := range prelim.Matches {
		if m.Home.Kind != models.RefReseed || m.Away.Kind != models.RefReseed {
			return rounds
		}
	}

	position := make(map[string]int, len(seeds))
	for i, id := range seeds {
		position[id] = i
	}

	survivors := make([]string, 0, 4)
	for _, want := range []struct {
		id     string
		winner bool
	}{
		{HomebushQualifierA, true},
		{HomebushSemiUpper, true},
		{HomebushQualifierB, false},
		{HomebushKnockout, true},
	} {
		m, ok := byID[want.id]
		if !ok || m.Winner == nil || !m.Winner.IsResolved() {
			return rounds
		}
		pick := *m.Winner
		if !want.winner {
			pick = m.Home
			if m.Home.Equal(*m.Winner) {
				pick = m.Away
			}
		}
		if _, ranked := position[pick.TeamID]; !ranked {
			return rounds
		}
		survivors = append(survivors, pick.TeamID)
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return position[survivors[i]] < position[survivors[j]]
	})
	fill := func(ref models.ParticipantRef) models.ParticipantRef {
		if ref.Seed < 1 || ref.Seed > len(survivors) {
			return ref
		}
		return models.Team(survivors[ref.Seed-1])
	}
	for mi := range prelim.Matches {
		prelim.Matches[mi].Home = fill(prelim.Matches[mi].Home)
		prelim.Matches[mi].Away = fill(prelim.Matches[mi].Away)
	}
	return rounds
}
