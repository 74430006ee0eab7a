package brackets

import (
	"github.com/Dosada05/fixture-engine/models"
)

// Resolver rewrites placeholder participants once the information they wait on
// exists. Each source is optional: an unresolvable ref is returned unchanged.
type Resolver struct {
	// Seeds is the final league order. Leave nil until the league stage is over.
	Seeds []string
	// GroupTables holds the finishing order of every completed group.
	GroupTables map[int][]string
	// Results are played matches keyed by match ID.
	Results map[string]models.Match
}

type outcome struct {
	winner, loser models.ParticipantRef
}

func NewResolver(seeds []string, groupTables map[int][]string, matches []models.Match) *Resolver {
	results := make(map[string]models.Match, len(matches))
	for _, m := range matches {
		results[m.ID] = m
	}
	return &Resolver{Seeds: seeds, GroupTables: groupTables, Results: results}
}

// ResolveBrackets walks rounds in order so a winner decided in round r feeds
// round r+1 within the same pass.
func (r *Resolver) ResolveBrackets(brackets []models.PlayoffBracket) []models.PlayoffBracket {
	out := cloneBrackets(brackets)
	outcomes := make(map[string]outcome)
	for ri := range out {
		for mi := range out[ri].Matches {
			r.resolveMatch(&out[ri].Matches[mi], outcomes)
		}
	}
	return out
}

// ResolveCustomRounds does the same for a templated playoff.
func (r *Resolver) ResolveCustomRounds(rounds []models.CustomPlayoffRound) []models.CustomPlayoffRound {
	out := cloneCustomRounds(rounds)
	outcomes := make(map[string]outcome)
	for ri := range out {
		for mi := range out[ri].Matches {
			r.resolveMatch(&out[ri].Matches[mi].BracketMatch, outcomes)
		}
	}
	return out
}

func (r *Resolver) resolveMatch(m *models.BracketMatch, outcomes map[string]outcome) {
	m.Home = r.resolveRef(m.Home, outcomes)
	m.Away = r.resolveRef(m.Away, outcomes)

	if m.IsBye() {
		w := m.Home
		m.Winner = &w
		outcomes[m.MatchID] = outcome{winner: w}
		return
	}

	if res, ok := r.Results[m.MatchID]; ok && res.IsComplete() {
		m.HomeGoals, m.AwayGoals = res.HomeGoals, res.AwayGoals
		if res.DateISO != nil {
			m.DateISO = res.DateISO
		}
	}
	if m.HomeGoals == nil || m.AwayGoals == nil || *m.HomeGoals == *m.AwayGoals {
		return
	}
	if !m.Home.IsResolved() || !m.Away.IsResolved() {
		return
	}
	o := outcome{winner: m.Home, loser: m.Away}
	if *m.AwayGoals > *m.HomeGoals {
		o = outcome{winner: m.Away, loser: m.Home}
	}
	w := o.winner
	m.Winner = &w
	outcomes[m.MatchID] = o
}

// Resolve rewrites a single ref against standings, group tables and results.
func (r *Resolver) Resolve(ref models.ParticipantRef) models.ParticipantRef {
	return r.resolveRef(ref, nil)
}

func (r *Resolver) resolveRef(ref models.ParticipantRef, outcomes map[string]outcome) models.ParticipantRef {
	switch ref.Kind {
	case models.RefSeed:
		if ref.Seed >= 1 && ref.Seed <= len(r.Seeds) {
			return models.Team(r.Seeds[ref.Seed-1])
		}
	case models.RefGroupPosition:
		table, ok := r.GroupTables[ref.Group]
		if ok && ref.Position >= 1 && ref.Position <= len(table) {
			return models.Team(table[ref.Position-1])
		}
	case models.RefWinner, models.RefLoser:
		if o, ok := outcomes[ref.MatchID]; ok {
			pick := o.winner
			if ref.Kind == models.RefLoser {
				pick = o.loser
			}
			if pick.IsResolved() {
				return pick
			}
		}
		if res, ok := r.Results[ref.MatchID]; ok {
			var id string
			var decided bool
			if ref.Kind == models.RefWinner {
				id, decided = res.Winner()
			} else {
				id, decided = res.Loser()
			}
			if decided && models.ParseParticipantRef(id).IsResolved() {
				return models.Team(id)
			}
		}
	}
	return ref
}

// ResolveSchedule resolves every bracket structure of s and rewrites the
// participants of the matching materialized matches. s is not modified.
func (r *Resolver) ResolveSchedule(s *models.Schedule) *models.Schedule {
	out := *s
	out.Playoff = r.ResolveBrackets(s.Playoff)
	out.Division1 = r.ResolveBrackets(s.Division1)
	out.Division2 = r.ResolveBrackets(s.Division2)
	out.CustomRounds = r.ResolveCustomRounds(s.CustomRounds)
	if len(out.CustomRounds) > 0 {
		out.CustomRounds = reseedPreliminaryFinals(out.CustomRounds, r.Seeds)
		out.CustomRounds = r.ResolveCustomRounds(out.CustomRounds)
	}

	participants := make(map[string][2]string)
	collect := func(bm models.BracketMatch) {
		participants[bm.MatchID] = [2]string{bm.Home.String(), bm.Away.String()}
	}
	for _, set := range [][]models.PlayoffBracket{out.Playoff, out.Division1, out.Division2} {
		for _, round := range set {
			for _, bm := range round.Matches {
				collect(bm)
			}
		}
	}
	for _, round := range out.CustomRounds {
		for _, cm := range round.Matches {
			collect(cm.BracketMatch)
		}
	}

	out.Matches = make([]models.Match, len(s.Matches))
	copy(out.Matches, s.Matches)
	for i := range out.Matches {
		if p, ok := participants[out.Matches[i].ID]; ok && p[0] != p[1] {
			out.Matches[i].HomeTeamID = p[0]
			out.Matches[i].AwayTeamID = p[1]
		}
	}
	return &out
}

func cloneCustomRounds(rounds []models.CustomPlayoffRound) []models.CustomPlayoffRound {
	out := make([]models.CustomPlayoffRound, len(rounds))
	for i, round := range rounds {
		cp := round
		cp.Matches = make([]models.CustomPlayoffMatch, len(round.Matches))
		for j, m := range round.Matches {
			mc := m
			if m.Winner != nil {
				w := *m.Winner
				mc.Winner = &w
			}
			cp.Matches[j] = mc
		}
		out[i] = cp
	}
	return out
}
