package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// RootNode holds the play trees for one full roll.
//
// Doublets have a single tree. Heterogeneous rolls have a primary tree and,
// when both orderings can play both dice, an alternate tree built with the
// smaller die first.
type RootNode struct {
	roll      Roll
	rules     RuleSet
	primary   Node
	alternate Node
	hasAlt    bool
	dice      []Die // In the roll's original order
}

// Roll returns the roll the tree was built for.
func (r RootNode) Roll() Roll { return r.roll }

// Rules returns the rule set the tree was built with.
func (r RootNode) Rules() RuleSet { return r.rules }

// Primary returns the main play tree.
func (r RootNode) Primary() Node { return r.primary }

// Alternate returns the minor-die-first tree when it is part of the result.
func (r RootNode) Alternate() (Node, bool) { return r.alternate, r.hasAlt }

// Trees returns the primary tree followed by the alternate one if present.
func (r RootNode) Trees() []Node {
	if r.hasAlt {
		return []Node{r.primary, r.alternate}
	}
	return []Node{r.primary}
}

// Dice returns the roll's dice in thrown order. A die is marked used when
// it cannot be played in any ordering.
func (r RootNode) Dice() []Die { return append([]Die(nil), r.dice...) }

// Usage returns the number of dice the mover has to play. A roll that
// cannot be played at all, including one from a finished game, has none.
func (r RootNode) Usage() int {
	if r.IsCommitable() {
		return 0
	}
	u := r.primary.Usage()
	if r.hasAlt {
		u = max(u, r.alternate.Usage())
	}
	return u
}

// IsCommitable reports whether the roll cannot be played at all.
func (r RootNode) IsCommitable() bool {
	return r.primary.IsCommitable() && (!r.hasAlt || r.alternate.IsCommitable())
}

// BuildTree builds the play trees for pos and roll under rules.
func BuildTree(rules RuleSet, pos Position, roll Roll) RootNode {
	if roll.IsDoublet() {
		return BuildDoublet(rules, pos, roll)
	}
	return BuildHeterogeneous(rules, pos, roll)
}

// BuildDoublet builds the single tree of a doublet. It panics if the roll
// is not a doublet.
func BuildDoublet(rules RuleSet, pos Position, roll Roll) RootNode {
	rules.validate()
	if !roll.IsDoublet() {
		panic(fmt.Sprintf("engine: BuildDoublet called with %v", roll))
	}

	b := &builder{
		rules: rules,
		arena: &arena{},
		pol:   withPruning(withTranspositions(withRedundancy(basePolicy(), doubletRule), newTranspositions())),
	}
	root := b.run(pos, repeatDice(roll.First, rules.DoubletRepeat))

	dice := repeatDice(roll.First, rules.DoubletRepeat)
	for i := range dice {
		dice[i].Used = !root.HasMoves() || i >= root.Usage()
	}
	return RootNode{roll: roll, rules: rules, primary: root, dice: dice}
}

// BuildHeterogeneous builds both orderings of a roll with two different
// dice and combines them. It panics if the roll is a doublet.
func BuildHeterogeneous(rules RuleSet, pos Position, roll Roll) RootNode {
	rules.validate()
	if roll.IsDoublet() {
		panic(fmt.Sprintf("engine: BuildHeterogeneous called with %v", roll))
	}
	major, minor := roll.Major(), roll.Minor()
	a := &arena{}
	seen := newTranspositions()

	majorFirst := (&builder{
		rules: rules,
		arena: a,
		pol:   withPruning(withTranspositions(basePolicy(), seen)),
	}).run(pos, newDice(major, minor))

	minorFirst := (&builder{
		rules: rules,
		arena: a,
		pol:   withPruning(withTranspositions(withRedundancy(basePolicy(), swapRule(majorFirst)), seen)),
	}).run(pos, newDice(minor, major))

	mu, nu := majorFirst.Usage(), minorFirst.Usage()
	r := RootNode{roll: roll, rules: rules}

	switch {
	case !majorFirst.HasMoves() && !minorFirst.HasMoves():
		// Nothing to play, or the game is already over
		r.primary = majorFirst
	case mu >= 2 && nu >= 2:
		r.primary, r.alternate, r.hasAlt = majorFirst, minorFirst, true
	case nu > mu:
		r.primary = minorFirst
	default:
		// Either die alone: the larger one has to be played
		r.primary = majorFirst
	}

	majorUsed := !r.needs(majorFirst, 0) && !r.needs(minorFirst, 1)
	minorUsed := !r.needs(majorFirst, 1) && !r.needs(minorFirst, 0)
	if roll.First == major {
		r.dice = []Die{{Pip: major, Used: majorUsed}, {Pip: minor, Used: minorUsed}}
	} else {
		r.dice = []Die{{Pip: minor, Used: minorUsed}, {Pip: major, Used: majorUsed}}
	}

	log.Debug().
		Str("roll", roll.String()).
		Int("major_usage", mu).
		Int("minor_usage", nu).
		Bool("alternate", r.hasAlt).
		Msg("assembled heterogeneous root")
	return r
}

// needs reports whether the die at index i of tree's ordering is played in
// a tree that is part of r.
func (r RootNode) needs(tree Node, i int) bool {
	if tree != r.primary && (!r.hasAlt || tree != r.alternate) {
		return false
	}
	return tree.HasMoves() && i < tree.Usage()
}
