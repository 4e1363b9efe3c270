package engine

// withPruning enforces maximal dice usage: after the children of a node are
// enumerated, every child that accounts for fewer dice than its best sibling
// is replaced by no move. A child whose position already ends the game is
// always kept.
func withPruning(inner policy) policy {
	p := inner
	p.children = func(b *builder, pp partial) childSet {
		cs := inner.children(b, pp)
		if !cs.any {
			return cs
		}
		steps := make([]step, len(cs.steps))
		copy(steps, cs.steps)
		for point, s := range steps {
			if !s.ok {
				continue
			}
			child := b.node(s.id)
			if child.usage < cs.maxUsage && child.eog == NotEnded {
				steps[point] = noMove
			}
		}
		cs.steps = steps
		return cs
	}
	return p
}
