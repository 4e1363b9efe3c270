package engine

// partial is a play in progress: the position reached, the dice with their
// used flags and the moves applied so far.
type partial struct {
	pos   Position
	dice  []Die
	moves []Move
}

// advance plays move m with the die at index i.
func (pp partial) advance(m Move, i int) partial {
	moves := make([]Move, len(pp.moves), len(pp.moves)+1)
	copy(moves, pp.moves)
	return partial{
		pos:   pp.pos.apply(m),
		dice:  withUsed(pp.dice, i),
		moves: append(moves, m),
	}
}

// childSet is the result of enumerating the next die over every point.
type childSet struct {
	steps    []step // Indexed by origin slot
	maxUsage int    // Highest usage among reachable children
	anyEOG   bool   // Some child ends the game
	any      bool   // Some point has a legal move
}

// policy is the set of hooks the recursion is parametrized by.
//
//   - leaf decides whether a partial play is terminal and builds its node.
//   - children plays the next die from every point.
//   - branch builds an interior node from the enumerated children.
//
// Decorators wrap individual hooks; the recursion always goes back through
// builder.build so every level sees the fully decorated policy.
type policy struct {
	leaf     func(b *builder, pp partial) (nodeID, bool)
	children func(b *builder, pp partial) childSet
	branch   func(b *builder, pp partial, cs childSet) nodeID
}

// builder runs the recursion for one ordering of one roll.
type builder struct {
	rules RuleSet
	arena *arena
	pol   policy
}

func (b *builder) build(pp partial) nodeID {
	if id, ok := b.pol.leaf(b, pp); ok {
		return id
	}
	return b.pol.branch(b, pp, b.pol.children(b, pp))
}

func (b *builder) node(id nodeID) *node {
	return b.arena.get(id)
}

// basePolicy is the undecorated recursion: no pruning, no redundancy marks.
func basePolicy() policy {
	return policy{
		leaf:     baseLeaf,
		children: baseChildren,
		branch:   baseBranch,
	}
}

// baseLeaf ends the recursion once every die is played or the game is over.
// Dice left over at the end of the game are moot and marked used.
func baseLeaf(b *builder, pp partial) (nodeID, bool) {
	eog := b.rules.EndOfGame(pp.pos)
	left := remaining(pp.dice)
	if left > 0 && eog == NotEnded {
		return 0, false
	}
	return b.arena.add(node{
		pos:        pp.pos,
		dice:       allUsed(pp.dice),
		moves:      pp.moves,
		usage:      left,
		commitable: true,
		eog:        eog,
	}), true
}

// baseChildren plays the next unused die from every slot that can move.
func baseChildren(b *builder, pp partial) childSet {
	i, _ := nextUnused(pp.dice)
	pip := pp.dice[i].Pip

	cs := childSet{steps: make([]step, pp.pos.Terminal())}
	for from := BarIndex; from < pp.pos.Terminal(); from++ {
		m, ok := b.rules.Legal(pp.pos, from, pip)
		if !ok {
			cs.steps[from] = noMove
			continue
		}
		id := b.build(pp.advance(m, i))
		child := b.node(id)
		cs.steps[from] = step{id: id, ok: true}
		cs.any = true
		cs.maxUsage = max(cs.maxUsage, child.usage)
		if child.eog != NotEnded {
			cs.anyEOG = true
		}
	}
	return cs
}

// baseBranch wraps the children. A branch without any legal child is a
// dead end: the play stops here and the unplayable dice are marked used.
func baseBranch(b *builder, pp partial, cs childSet) nodeID {
	n := node{
		pos:      pp.pos,
		dice:     pp.dice,
		moves:    pp.moves,
		children: cs.steps,
		eog:      b.rules.EndOfGame(pp.pos),
	}
	if cs.any {
		n.usage = 1 + cs.maxUsage
	} else {
		n.dice = allUsed(pp.dice)
		n.commitable = true
	}
	return b.arena.add(n)
}

// run builds one ordering from pos with the given dice.
func (b *builder) run(pos Position, dice []Die) Node {
	id := b.build(partial{pos: pos, dice: dice})
	return Node{a: b.arena, id: id}
}
