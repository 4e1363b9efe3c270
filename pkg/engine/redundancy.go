package engine

// redundancyRule reports whether a terminal node is reachable through a
// canonically preferred ordering of its moves.
type redundancyRule func(n *node) bool

// withRedundancy marks terminal nodes matching rule. Both leaves and dead-end
// branches are terminal plays, so both hooks are wrapped.
func withRedundancy(inner policy, rule redundancyRule) policy {
	p := inner
	p.leaf = func(b *builder, pp partial) (nodeID, bool) {
		id, ok := inner.leaf(b, pp)
		if ok {
			b.mark(id, rule)
		}
		return id, ok
	}
	p.branch = func(b *builder, pp partial, cs childSet) nodeID {
		id := inner.branch(b, pp, cs)
		b.mark(id, rule)
		return id
	}
	return p
}

func (b *builder) mark(id nodeID, rule redundancyRule) {
	n := b.node(id)
	if n.commitable && !n.redundant && rule(n) {
		n.redundant = true
	}
}

// doubletRule: with identical dice the canonical order plays checkers from
// lower slots first, so any step back to a lower origin is a reordering.
func doubletRule(n *node) bool {
	for i := 1; i < len(n.moves); i++ {
		if n.moves[i].From < n.moves[i-1].From {
			return true
		}
	}
	return false
}

// swapRule checks plays of the minor-die-first tree against the already built
// major-die-first tree.
func swapRule(major Node) redundancyRule {
	return func(n *node) bool {
		switch len(n.moves) {
		case 1:
			// Only a game-ending single move can be equivalent: the same
			// checker borne off with the major die instead.
			m := n.moves[0]
			c, ok := major.Child(m.From)
			return ok && c.IsCommitable() && c.Position().Equal(n.pos)
		case 2:
			m1, m2 := n.moves[0], n.moves[1]
			if m1.To == m2.From {
				return sameCheckerSwapped(major, m1)
			}
			c, ok := major.Child(m2.From)
			if !ok {
				return false
			}
			_, ok = c.Child(m1.From)
			return ok
		}
		return false
	}
}

// sameCheckerSwapped handles one checker moved by both dice. A hit on the
// intermediate point of either order is never collapsed since the order
// decides which blot is hit. A hit on the final landing is the same in
// both orders.
func sameCheckerSwapped(major Node, m1 Move) bool {
	if m1.Hit {
		return false
	}
	c, ok := major.Child(m1.From)
	if !ok {
		return false
	}
	first := c.rec().moves[len(c.rec().moves)-1]
	if first.BearOff || first.Hit {
		return false
	}
	_, ok = c.Child(first.To)
	return ok
}

// transpositions remembers the resulting positions of canonical, hit-free
// plays across every tree of one roll.
type transpositions struct {
	seen map[uint64]struct{}
}

func newTranspositions() *transpositions {
	return &transpositions{seen: make(map[uint64]struct{})}
}

// withTranspositions marks a hit-free terminal redundant when an earlier
// canonical play of the same roll already produced its position. Plays with
// hits are left alone, as for swapped single-checker plays.
func withTranspositions(inner policy, t *transpositions) policy {
	p := inner
	p.leaf = func(b *builder, pp partial) (nodeID, bool) {
		id, ok := inner.leaf(b, pp)
		if ok {
			t.record(b.node(id))
		}
		return id, ok
	}
	p.branch = func(b *builder, pp partial, cs childSet) nodeID {
		id := inner.branch(b, pp, cs)
		t.record(b.node(id))
		return id
	}
	return p
}

func (t *transpositions) record(n *node) {
	if !n.commitable || n.redundant || hasHit(n.moves) {
		return
	}
	key := n.pos.Key()
	if _, ok := t.seen[key]; ok {
		n.redundant = true
		return
	}
	t.seen[key] = struct{}{}
}

func hasHit(moves []Move) bool {
	for _, m := range moves {
		if m.Hit {
			return true
		}
	}
	return false
}
