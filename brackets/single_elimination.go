package brackets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/fixture-engine/models"
)

// GeneratePlayoffBrackets builds a single-elimination bracket over len(teams)
// seeds. Only the count matters: participants are Seed refs, filled later by
// PopulatePlayoffBrackets.
func GeneratePlayoffBrackets(teams []string) []models.PlayoffBracket {
	return generateBrackets(len(teams), "")
}

func bracketMatchID(prefix string, round, index int) string {
	return fmt.Sprintf("%sR%dM%d", prefix, round+1, index+1)
}

func generateBrackets(n int, idPrefix string) []models.PlayoffBracket {
	if n < 2 {
		return []models.PlayoffBracket{}
	}

	if n == 4 {
		sf1 := bracketMatchID(idPrefix, 0, 0)
		sf2 := bracketMatchID(idPrefix, 0, 1)
		return []models.PlayoffBracket{
			{Round: 0, Matches: []models.BracketMatch{
				{MatchID: sf1, Home: models.Seed(1), Away: models.Seed(4)},
				{MatchID: sf2, Home: models.Seed(2), Away: models.Seed(3)},
			}},
			{Round: 1, Matches: []models.BracketMatch{
				{MatchID: bracketMatchID(idPrefix, 1, 0), Home: models.WinnerOf(sf1), Away: models.WinnerOf(sf2)},
			}},
		}
	}

	paired := n - n%2
	first := models.PlayoffBracket{Round: 0}
	for i := 0; i < paired; i += 2 {
		first.Matches = append(first.Matches, models.BracketMatch{
			MatchID: bracketMatchID(idPrefix, 0, len(first.Matches)),
			Home:    models.Seed(i + 1),
			Away:    models.Seed(paired - i),
		})
	}
	if n%2 != 0 {
		first.Matches = append(first.Matches, byeMatch(bracketMatchID(idPrefix, 0, len(first.Matches)), models.Seed(n)))
	}

	brackets := []models.PlayoffBracket{first}
	current := first
	for len(current.Matches) > 1 {
		entrants := advancing(current)
		next := models.PlayoffBracket{Round: current.Round + 1}
		for i := 0; i+1 < len(entrants); i += 2 {
			next.Matches = append(next.Matches, models.BracketMatch{
				MatchID: bracketMatchID(idPrefix, next.Round, len(next.Matches)),
				Home:    entrants[i],
				Away:    entrants[i+1],
			})
		}
		if len(entrants)%2 != 0 {
			next.Matches = append(next.Matches, byeMatch(bracketMatchID(idPrefix, next.Round, len(next.Matches)), entrants[len(entrants)-1]))
		}
		brackets = append(brackets, next)
		current = next
	}
	return brackets
}

func byeMatch(id string, ref models.ParticipantRef) models.BracketMatch {
	winner := ref
	return models.BracketMatch{MatchID: id, Home: ref, Away: ref, Winner: &winner}
}

// advancing lists who moves on from a round: the preset winner of a bye, a
// decided winner, or otherwise a WinnerOf placeholder for the match.
func advancing(round models.PlayoffBracket) []models.ParticipantRef {
	out := make([]models.ParticipantRef, 0, len(round.Matches))
	for _, m := range round.Matches {
		if m.Winner != nil {
			out = append(out, *m.Winner)
			continue
		}
		out = append(out, models.WinnerOf(m.MatchID))
	}
	return out
}

// CreatePlayoffMatches flattens bracket rounds into materialized matches. Byes
// are dropped; PlayoffMatch is the 1-based index parsed from the match ID.
func CreatePlayoffMatches(brackets []models.PlayoffBracket) []models.Match {
	matches := make([]models.Match, 0)
	for _, round := range brackets {
		for _, bm := range round.Matches {
			home, away := bm.Home.String(), bm.Away.String()
			if home == away {
				continue
			}
			matches = append(matches, models.Match{
				ID:           bm.MatchID,
				HomeTeamID:   home,
				AwayTeamID:   away,
				Round:        round.Round,
				HomeGoals:    bm.HomeGoals,
				AwayGoals:    bm.AwayGoals,
				DateISO:      bm.DateISO,
				IsPlayoff:    true,
				PlayoffRound: models.IntPtr(round.Round),
				PlayoffMatch: parseMatchIndex(bm.MatchID),
			})
		}
	}
	return matches
}

func parseMatchIndex(matchID string) *int {
	idx := strings.LastIndexAny(matchID, "Mm")
	if idx < 0 || idx == len(matchID)-1 {
		return nil
	}
	n, err := strconv.Atoi(matchID[idx+1:])
	if err != nil {
		return nil
	}
	return &n
}

// offsetPlayoffMatches shifts Round onto the tournament timeline while
// PlayoffRound stays zero-based.
func offsetPlayoffMatches(matches []models.Match, offset int, division *int) []models.Match {
	for i := range matches {
		matches[i].Round += offset
		matches[i].Division = division
	}
	return matches
}

// PopulatePlayoffBrackets replaces seed-N with finalStandings[N-1]. Winner
// references are left alone; seeds beyond the table stay unresolved.
func PopulatePlayoffBrackets(brackets []models.PlayoffBracket, finalStandings []string) []models.PlayoffBracket {
	return populateSeeds(brackets, models.TeamRefs(finalStandings))
}

func populateSeeds(brackets []models.PlayoffBracket, seeds []models.ParticipantRef) []models.PlayoffBracket {
	return mapRefs(brackets, func(ref models.ParticipantRef) models.ParticipantRef {
		if ref.Kind == models.RefSeed && ref.Seed >= 1 && ref.Seed <= len(seeds) {
			return seeds[ref.Seed-1]
		}
		return ref
	})
}

// mapRefs returns a copy of brackets with fn applied to every participant and
// preset winner.
func mapRefs(brackets []models.PlayoffBracket, fn func(models.ParticipantRef) models.ParticipantRef) []models.PlayoffBracket {
	out := cloneBrackets(brackets)
	for r := range out {
		for i := range out[r].Matches {
			m := &out[r].Matches[i]
			m.Home = fn(m.Home)
			m.Away = fn(m.Away)
			if m.Winner != nil {
				w := fn(*m.Winner)
				m.Winner = &w
			}
		}
	}
	return out
}

func cloneBrackets(brackets []models.PlayoffBracket) []models.PlayoffBracket {
	out := make([]models.PlayoffBracket, len(brackets))
	for r, round := range brackets {
		out[r] = models.PlayoffBracket{Round: round.Round, Matches: make([]models.BracketMatch, len(round.Matches))}
		for i, m := range round.Matches {
			cp := m
			if m.Winner != nil {
				w := *m.Winner
				cp.Winner = &w
			}
			out[r].Matches[i] = cp
		}
	}
	return out
}
