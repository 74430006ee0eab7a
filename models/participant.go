package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ByeTeamID is the sentinel used when a round-robin needs an even team count.
const ByeTeamID = "BYE"

// RefKind identifies which variant a ParticipantRef holds.
type RefKind string

const (
	RefTeam          RefKind = "team"
	RefSeed          RefKind = "seed"
	RefWinner        RefKind = "winner"
	RefLoser         RefKind = "loser"
	RefGroupPosition RefKind = "group"
	RefReseed        RefKind = "reseed"
	RefTBD           RefKind = "tbd"
)

// ParticipantRef names a match participant, either a concrete team or a slot that
// is filled later: a league seed, a group finishing position, the winner or loser
// of an earlier match, or a re-seeded survivor.
type ParticipantRef struct {
	Kind     RefKind `json:"kind"`
	TeamID   string  `json:"team_id,omitempty"`
	Seed     int     `json:"seed,omitempty"`
	MatchID  string  `json:"match_id,omitempty"`
	Group    int     `json:"group,omitempty"`
	Position int     `json:"position,omitempty"`
}

func Team(id string) ParticipantRef { return ParticipantRef{Kind: RefTeam, TeamID: id} }

// Seed is 1-based: Seed(1) is the top of the final table.
func Seed(n int) ParticipantRef { return ParticipantRef{Kind: RefSeed, Seed: n} }

func WinnerOf(matchID string) ParticipantRef {
	return ParticipantRef{Kind: RefWinner, MatchID: matchID}
}

func LoserOf(matchID string) ParticipantRef {
	return ParticipantRef{Kind: RefLoser, MatchID: matchID}
}

// GroupPosition refers to the team finishing at position (1-based) in group (0-based).
func GroupPosition(group, position int) ParticipantRef {
	return ParticipantRef{Kind: RefGroupPosition, Group: group, Position: position}
}

// ReseedSlot is the n-th best (1-based) of the survivors re-seeded by original
// table position before a round is paired.
func ReseedSlot(n int) ParticipantRef { return ParticipantRef{Kind: RefReseed, Seed: n} }

func TBD() ParticipantRef { return ParticipantRef{Kind: RefTBD} }

// TeamRefs wraps plain team IDs.
func TeamRefs(ids []string) []ParticipantRef {
	refs := make([]ParticipantRef, len(ids))
	for i, id := range ids {
		refs[i] = Team(id)
	}
	return refs
}

// IsResolved reports whether the ref points at a concrete team.
func (p ParticipantRef) IsResolved() bool {
	return p.Kind == RefTeam && p.TeamID != ""
}

func (p ParticipantRef) Equal(o ParticipantRef) bool {
	return p == o
}

// String returns the token form stored in Match.HomeTeamID/AwayTeamID.
func (p ParticipantRef) String() string {
	switch p.Kind {
	case RefTeam:
		return p.TeamID
	case RefSeed:
		return "seed-" + strconv.Itoa(p.Seed)
	case RefWinner:
		return "winner-" + p.MatchID
	case RefLoser:
		return "loser-" + p.MatchID
	case RefGroupPosition:
		return fmt.Sprintf("group-%d-%s", p.Group, ordinal(p.Position))
	case RefReseed:
		return "reseed-" + strconv.Itoa(p.Seed)
	default:
		return "TBD"
	}
}

// ParseParticipantRef is the inverse of String. Anything that is not a known
// placeholder token is treated as a team ID.
func ParseParticipantRef(token string) ParticipantRef {
	switch {
	case token == "" || token == "TBD":
		return TBD()
	case strings.HasPrefix(token, "seed-"):
		if n, err := strconv.Atoi(strings.TrimPrefix(token, "seed-")); err == nil && n > 0 {
			return Seed(n)
		}
	case strings.HasPrefix(token, "reseed-"):
		if n, err := strconv.Atoi(strings.TrimPrefix(token, "reseed-")); err == nil && n > 0 {
			return ReseedSlot(n)
		}
	case strings.HasPrefix(token, "winner-"):
		if id := strings.TrimPrefix(token, "winner-"); id != "" {
			return WinnerOf(id)
		}
	case strings.HasPrefix(token, "loser-"):
		if id := strings.TrimPrefix(token, "loser-"); id != "" {
			return LoserOf(id)
		}
	case strings.HasPrefix(token, "group-"):
		parts := strings.Split(strings.TrimPrefix(token, "group-"), "-")
		if len(parts) == 2 {
			g, errG := strconv.Atoi(parts[0])
			pos, okPos := parseOrdinal(parts[1])
			if errG == nil && okPos {
				return GroupPosition(g, pos)
			}
		}
	}
	return Team(token)
}

func (p *ParticipantRef) UnmarshalJSON(data []byte) error {
	// Older payloads carry the bare token string.
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		*p = ParseParticipantRef(token)
		return nil
	}
	type plain ParticipantRef
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("participant ref: %w", err)
	}
	*p = ParticipantRef(v)
	return nil
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}

func parseOrdinal(s string) (int, bool) {
	if len(s) < 3 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-2])
	if err != nil || n <= 0 || ordinal(n) != s {
		return 0, false
	}
	return n, true
}
