package engine

import (
	"fmt"
	"sort"
	"strings"
)

// EndOfGameFunc classifies whether a position finishes the game.
type EndOfGameFunc func(p Position) EOG

// RuleSet bundles the rules that make the tree builder game-agnostic.
type RuleSet struct {
	Name          string
	Legal         LegalityFunc
	EndOfGame     EndOfGameFunc
	DoubletRepeat int // Times a doublet's pip is played
}

// StandardRules are ordinary backgammon rules.
var StandardRules = RuleSet{
	Name:          "standard",
	Legal:         IsLegalMove,
	EndOfGame:     Position.EOGStatus,
	DoubletRepeat: 4,
}

// RaceRules is a simplified race variant: doublets are played twice and every
// finished game counts as a single win.
var RaceRules = RuleSet{
	Name:          "race",
	Legal:         IsLegalMove,
	EndOfGame:     raceEndOfGame,
	DoubletRepeat: 2,
}

func raceEndOfGame(p Position) EOG {
	if p.Winner() == Nobody {
		return NotEnded
	}
	return Single
}

var ruleSets = map[string]RuleSet{
	StandardRules.Name: StandardRules,
	RaceRules.Name:     RaceRules,
}

// RulesByName looks up a built-in rule set. An empty name selects the
// standard rules.
func RulesByName(name string) (RuleSet, error) {
	if name == "" {
		return StandardRules, nil
	}
	rs, ok := ruleSets[strings.ToLower(name)]
	if !ok {
		return RuleSet{}, fmt.Errorf("unknown rule set %q (have %s)", name, strings.Join(RuleNames(), ", "))
	}
	return rs, nil
}

// RuleNames lists the built-in rule sets.
func RuleNames() []string {
	names := make([]string, 0, len(ruleSets))
	for name := range ruleSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Move plays one checker from the given index by pip under these rules. The
// resulting position applies exactly the move the rule set's legality
// function returned. An illegal request returns p unchanged and false.
func (rs RuleSet) Move(p Position, from, pip int) (Position, Move, bool) {
	m, ok := rs.Legal(p, from, pip)
	if !ok {
		return p, Move{}, false
	}
	return p.apply(m), m, true
}

func (rs RuleSet) validate() {
	if rs.Legal == nil || rs.EndOfGame == nil || rs.DoubletRepeat < 1 {
		panic(fmt.Sprintf("engine: incomplete rule set %q", rs.Name))
	}
}
