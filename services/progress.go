package services

import (
	"math/rand"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
)

// progress is everything derived from the stored template and the current
// results. It is recomputed from scratch on every change so corrections flow
// through brackets the same way first results do.
type progress struct {
	Standings []models.TournamentStanding
	Resolved  *models.Schedule
	Status    models.TournamentStatus
}

func computeProgress(t *models.Tournament, template *models.Schedule, matches []models.Match) progress {
	// A fresh source per table keeps coin tosses reproducible across recomputations.
	rng := func() *rand.Rand {
		if t.Settings.RandomSeed == nil {
			return nil
		}
		return brackets.NewRand(t.Settings.RandomSeed)
	}

	league := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if !m.IsPlayoff {
			league = append(league, m)
		}
	}

	var (
		standings []models.TournamentStanding
		seeds     []string
		tables    map[int][]string
	)
	if len(template.Groups) > 0 {
		for gi, group := range template.Groups {
			groupMatches := make([]models.Match, 0)
			for _, m := range league {
				if m.GroupIndex != nil && *m.GroupIndex == gi {
					groupMatches = append(groupMatches, m)
				}
			}
			table := brackets.CalculateStandings(group, groupMatches, t.DisciplinaryPoints, rng())
			standings = append(standings, toTournamentStandings(t.ID, models.IntPtr(gi), table)...)
		}
		tables = brackets.GroupTables(template.Groups, league, t.DisciplinaryPoints, rng())
	} else {
		table := brackets.CalculateStandings(t.TeamIDs, league, t.DisciplinaryPoints, rng())
		standings = toTournamentStandings(t.ID, nil, table)
		if brackets.LeagueComplete(matches) {
			seeds = brackets.FinalOrder(table)
		}
	}

	withMatches := *template
	withMatches.Matches = matches
	resolved := brackets.NewResolver(seeds, tables, matches).ResolveSchedule(&withMatches)

	return progress{
		Standings: standings,
		Resolved:  resolved,
		Status:    statusFor(matches),
	}
}

func toTournamentStandings(tournamentID int, group *int, table []models.TeamStanding) []models.TournamentStanding {
	out := make([]models.TournamentStanding, len(table))
	for i, s := range table {
		out[i] = models.TournamentStanding{TeamStanding: s, TournamentID: tournamentID}
		if group != nil {
			out[i].GroupIndex = models.IntPtr(*group)
		}
	}
	return out
}

func statusFor(matches []models.Match) models.TournamentStatus {
	if len(matches) == 0 {
		return models.StatusScheduled
	}
	played := 0
	for i := range matches {
		if matches[i].IsComplete() {
			played++
		}
	}
	switch {
	case played == len(matches):
		return models.StatusCompleted
	case played > 0:
		return models.StatusActive
	default:
		return models.StatusScheduled
	}
}

// changedParticipants lists resolved matches whose sides differ from what is stored.
func changedParticipants(stored, resolved []models.Match) []models.Match {
	byID := make(map[string]models.Match, len(stored))
	for _, m := range stored {
		byID[m.ID] = m
	}
	var changed []models.Match
	for _, m := range resolved {
		old, ok := byID[m.ID]
		if !ok || m.HomeTeamID == m.AwayTeamID {
			continue
		}
		if old.HomeTeamID != m.HomeTeamID || old.AwayTeamID != m.AwayTeamID {
			changed = append(changed, m)
		}
	}
	return changed
}
