package engine

// Lookup steps from one node to another, reporting whether it succeeded.
type Lookup func(Node) (Node, bool)

// Chain threads lookups over candidate nodes with try-primary-else-alternate
// semantics. The zero value holds nothing.
type Chain struct {
	cur  Node
	ok   bool
	last Node // Last candidate successfully held
}

// StartChain returns a chain holding n.
func StartChain(n Node) Chain {
	return Chain{cur: n, ok: true, last: n}
}

// Apply runs f on the held candidate. Once the chain has lost its value it
// stays empty until Or recovers one.
func (c Chain) Apply(f Lookup) Chain {
	if !c.ok {
		return c
	}
	next, ok := f(c.cur)
	if !ok {
		return Chain{last: c.last}
	}
	return Chain{cur: next, ok: true, last: next}
}

// Or runs f on the last successfully held candidate, only when the chain is
// empty. An existing value is never replaced.
func (c Chain) Or(f Lookup) Chain {
	if c.ok {
		return c
	}
	next, ok := f(c.last)
	if !ok {
		return c
	}
	return Chain{cur: next, ok: true, last: next}
}

// Get returns the held node.
func (c Chain) Get() (Node, bool) {
	return c.cur, c.ok
}

// ChildAt returns a lookup stepping to the child played from point.
func ChildAt(point int) Lookup {
	return func(n Node) (Node, bool) { return n.Child(point) }
}

// Path returns a lookup following successive origin points from a node.
func Path(points ...int) Lookup {
	return func(n Node) (Node, bool) {
		c := StartChain(n)
		for _, p := range points {
			c = c.Apply(ChildAt(p))
		}
		return c.Get()
	}
}
