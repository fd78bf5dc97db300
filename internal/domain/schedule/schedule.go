// Package schedule builds scouting rotations for a multi-match competition.
//
// A schedule assigns, for every match, one quantitative scouter per tracked
// robot plus at most one subjective scouter. Quantitative assignments rotate
// a window over the roster instead of randomizing, so load spreads evenly and
// predictably; subjective scouters are consumed round-robin.
package schedule

import (
	"fmt"
	"strings"
)

// Assignment is the scouting crew for a single match.
type Assignment struct {
	// Match is the zero-based match index.
	Match int `json:"match"`
	// Scouters holds one quantitative scouter per tracked robot, in robot order.
	Scouters []string `json:"scouters"`
	// Subjective is the whole-match observer; empty when no subjective roster was given.
	Subjective string `json:"subjective,omitempty"`
	// Substituted reports that the round-robin pick collided with Scouters
	// and a later roster member was used instead.
	Substituted bool `json:"substituted,omitempty"`
	// Conflict reports that every subjective candidate was already scouting
	// this match; Subjective then holds the round-robin pick regardless.
	Conflict bool `json:"conflict,omitempty"`
}

// Schedule is the ordered list of per-match assignments.
type Schedule []Assignment

// Generate produces a schedule of matchCount matches with robotsPerMatch
// quantitative scouters each.
//
// Match i scouts with the robotsPerMatch roster members that follow roster
// position i (wrapping), so every match starts the window at a new offset and
// over len(quant) matches every member is assigned exactly robotsPerMatch
// times. When both rosters list the same people in the same order, the member
// left out at position i is also the round-robin subjective pick for match i.
//
// Generate is total for non-negative counts and non-blank member identifiers;
// those are the only inputs it rejects.
func Generate(quant, subjective []string, matchCount, robotsPerMatch int) (Schedule, error) {
	if err := validate(quant, subjective, matchCount, robotsPerMatch); err != nil {
		return nil, err
	}

	out := make(Schedule, matchCount)
	next := 0 // round-robin pointer into subjective
	for i := range out {
		scouters := window(quant, i, robotsPerMatch)
		a := Assignment{Match: i, Scouters: scouters}
		if len(subjective) > 0 {
			a.Subjective, a.Substituted, a.Conflict = pickSubjective(subjective, next, scouters)
			next = (next + 1) % len(subjective)
		}
		out[i] = a
	}
	return out, nil
}

// window returns size members of roster following position match mod len(roster).
func window(roster []string, match, size int) []string {
	n := len(roster)
	if n == 0 || size == 0 {
		return []string{}
	}
	cursor := match % n
	out := make([]string, size)
	for k := range out {
		out[k] = roster[(cursor+1+k)%n]
	}
	return out
}

// pickSubjective resolves the subjective scouter for a match, starting at the
// round-robin position and skipping anyone already in scouters.
func pickSubjective(roster []string, start int, scouters []string) (pick string, substituted, conflict bool) {
	busy := make(map[string]struct{}, len(scouters))
	for _, s := range scouters {
		busy[s] = struct{}{}
	}
	naive := roster[start]
	if _, taken := busy[naive]; !taken {
		return naive, false, false
	}
	for k := 1; k < len(roster); k++ {
		c := roster[(start+k)%len(roster)]
		if _, taken := busy[c]; !taken {
			return c, true, false
		}
	}
	return naive, false, true
}

func validate(quant, subjective []string, matchCount, robotsPerMatch int) error {
	if matchCount < 0 {
		return fmt.Errorf("%w: match count %d is negative", ErrInvalidInput, matchCount)
	}
	if robotsPerMatch < 0 {
		return fmt.Errorf("%w: robots per match %d is negative", ErrInvalidInput, robotsPerMatch)
	}
	for i, m := range quant {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("%w: quantitative scouter %d is blank", ErrInvalidInput, i)
		}
	}
	for i, m := range subjective {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("%w: subjective scouter %d is blank", ErrInvalidInput, i)
		}
	}
	return nil
}

// Load counts quantitative assignments per roster member.
func Load(s Schedule) map[string]int {
	counts := make(map[string]int)
	for _, a := range s {
		for _, m := range a.Scouters {
			counts[m]++
		}
	}
	return counts
}

// Stats summarizes how often the subjective round-robin had to deviate.
type Stats struct {
	Matches       int `json:"matches"`
	Substitutions int `json:"substitutions"`
	Conflicts     int `json:"conflicts"`
}

// Summarize reports substitution and conflict counts for s.
func Summarize(s Schedule) Stats {
	st := Stats{Matches: len(s)}
	for _, a := range s {
		if a.Substituted {
			st.Substitutions++
		}
		if a.Conflict {
			st.Conflicts++
		}
	}
	return st
}
