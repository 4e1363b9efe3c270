package engine

import (
	"github.com/samber/lo"
)

// Play is one terminal way of playing a roll.
type Play struct {
	Moves     []Move
	Position  Position
	Redundant bool
	Alternate bool // Found in the minor-die-first tree
	EOG       EOG
}

// String renders the play in move notation.
func (p Play) String() string { return FormatPlay(p.Moves) }

// Plays returns every terminal play of the primary tree followed by the
// alternate tree.
func (r RootNode) Plays() []Play {
	var plays []Play
	for i, tree := range r.Trees() {
		for _, t := range tree.Terminals() {
			plays = append(plays, Play{
				Moves:     t.Moves(),
				Position:  t.Position(),
				Redundant: t.IsRedundant(),
				Alternate: i == 1,
				EOG:       t.EOG(),
			})
		}
	}
	return plays
}

// CanonicalPlays returns the plays not flagged redundant.
func (r RootNode) CanonicalPlays() []Play {
	return lo.Filter(r.Plays(), func(p Play, _ int) bool { return !p.Redundant })
}

// DistinctPlays returns the canonical plays with duplicate resulting
// positions removed, keeping the first occurrence.
func (r RootNode) DistinctPlays() []Play {
	return lo.UniqBy(r.CanonicalPlays(), func(p Play) uint64 { return p.Position.Key() })
}

// Find looks up the play reached by moving from the given origins in order,
// in the primary tree first and then in the alternate tree.
func (r RootNode) Find(origins ...int) (Node, bool) {
	c := StartChain(r.primary).Apply(Path(origins...))
	if r.hasAlt {
		alt := r.alternate
		c = c.Or(func(Node) (Node, bool) { return Path(origins...)(alt) })
	}
	return c.Get()
}
