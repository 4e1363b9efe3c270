package engine

// nodeID indexes a node in its arena.
type nodeID int32

// step is the outcome of playing the next die from one point: either a
// child node or no move.
type step struct {
	id nodeID
	ok bool
}

var noMove = step{}

// node is the arena record behind a Node handle.
type node struct {
	pos      Position
	dice     []Die  // Dice state as of this node
	moves    []Move // Moves applied since the start of the roll
	children []step // Indexed by origin slot, nil for leaves

	usage      int // Dice this node can still account for
	redundant  bool
	commitable bool
	eog        EOG
}

// arena stores every node of one roll. Primary and alternate trees share it.
type arena struct {
	nodes []node
}

func (a *arena) add(n node) nodeID {
	a.nodes = append(a.nodes, n)
	return nodeID(len(a.nodes) - 1)
}

func (a *arena) get(id nodeID) *node {
	return &a.nodes[id]
}

// Node is a read-only handle on a tree vertex.
type Node struct {
	a  *arena
	id nodeID
}

func (n Node) rec() *node { return n.a.get(n.id) }

// Position returns the position reached at this node.
func (n Node) Position() Position { return n.rec().pos }

// Dice returns the dice with their used flags as of this node.
func (n Node) Dice() []Die { return append([]Die(nil), n.rec().dice...) }

// Moves returns the moves played from the start of the roll to reach this node.
func (n Node) Moves() []Move { return append([]Move(nil), n.rec().moves...) }

// Child returns the node reached by playing the next die from point.
// The boolean is false when no move is possible from point.
func (n Node) Child(point int) (Node, bool) {
	children := n.rec().children
	if point < 0 || point >= len(children) || !children[point].ok {
		return Node{}, false
	}
	return Node{a: n.a, id: children[point].id}, true
}

// Children returns the reachable children in origin order.
func (n Node) Children() []Node {
	var out []Node
	for _, s := range n.rec().children {
		if s.ok {
			out = append(out, Node{a: n.a, id: s.id})
		}
	}
	return out
}

// Origins lists the points from which the next die can be played.
func (n Node) Origins() []int {
	var out []int
	for point, s := range n.rec().children {
		if s.ok {
			out = append(out, point)
		}
	}
	return out
}

// IsRedundant reports whether this terminal play is reachable through a
// canonically preferred ordering of the same moves.
func (n Node) IsRedundant() bool { return n.rec().redundant }

// IsCommitable reports whether no further legal move exists from here.
func (n Node) IsCommitable() bool { return n.rec().commitable }

// EOG returns the end-of-game status of the node's position.
func (n Node) EOG() EOG { return n.rec().eog }

// Usage returns how many dice are played, or made moot by the end of the
// game, on the longest surviving line below this node.
func (n Node) Usage() int { return n.rec().usage }

// HasMoves reports whether at least one move can be played from this node.
func (n Node) HasMoves() bool {
	for _, s := range n.rec().children {
		if s.ok {
			return true
		}
	}
	return false
}

// Walk visits this node and its descendants depth first in origin order.
// Returning false from fn skips the node's subtree.
func (n Node) Walk(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}

// Terminals returns the commitable nodes below and including n.
func (n Node) Terminals() []Node {
	var out []Node
	n.Walk(func(c Node) bool {
		if c.IsCommitable() {
			out = append(out, c)
			return false
		}
		return true
	})
	return out
}
