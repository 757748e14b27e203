// Package game implements the arena-allocated game-tree search that proves
// or refutes a forced win for the player on turn 0: build a tree rooted at
// the two starting hands, search it exhaustively, then walk the surviving
// nodes.
package game

import (
	"errors"

	"doudizhu/internal/hand"
	"doudizhu/internal/move"
)

var (
	// ErrEmptyHand is returned by NewGame when either starting hand holds
	// no cards.
	ErrEmptyHand = errors.New("game: hand is empty")
	// ErrInvalidHand is returned by NewGame when a hand exceeds half the
	// deck, or the two hands share a suited card.
	ErrInvalidHand = errors.New("game: hand exceeds half-deck or hands overlap")
	// ErrNodeBudgetExceeded is returned by Search when a configured node
	// budget is exhausted before the search completes.
	ErrNodeBudgetExceeded = errors.New("game: node budget exceeded")
)

const halfDeck = 27

type nodeID int32

const noNode nodeID = -1

// nodeState is the per-node payload: the move that was just played, the two
// players' hands (cleared once the node has been expanded), whose turn it
// describes, and the search's running verdict for this subtree.
type nodeState struct {
	move     move.Move
	hands    [2]hand.Hand
	turn     uint8
	passFlag bool
	expanded bool
}

type node struct {
	state       nodeState
	parent      nodeID
	firstChild  nodeID
	lastChild   nodeID
	prevSibling nodeID
	nextSibling nodeID
	removed     bool
}

// NodeHandle is a stable reference into a Game's arena. Handles stay valid
// for the lifetime of the Game; a removed node's handle still resolves
// (StateOf returns its last state, ChildrenOf reports it as childless), it
// is simply no longer reachable from ChildrenOf of a surviving ancestor.
type NodeHandle int32

// NoHandle marks the absence of a node (e.g. the root's non-existent
// parent).
const NoHandle NodeHandle = -1

// Game owns a single arena of States reachable from one root. It is not
// safe for concurrent use by multiple goroutines.
type Game struct {
	nodes    []node
	root     nodeID
	searched bool
	budget   int // remaining node budget; negative means unlimited
}

// NewGame builds the root state from the two starting hands and the index
// (0 or 1) of the player who leads. It fails with ErrEmptyHand if either
// hand holds no cards, or ErrInvalidHand if a hand exceeds 27 cards (half
// the deck) or the hands share a suited card.
func NewGame(hands [2]hand.Hand, lead int) (*Game, error) {
	return NewGameWithBudget(hands, lead, -1)
}

// NewGameWithBudget is NewGame with a cap on the number of arena nodes the
// search may allocate; Search reports ErrNodeBudgetExceeded on exhaustion.
// A negative budget means unlimited.
func NewGameWithBudget(hands [2]hand.Hand, lead int, budget int) (*Game, error) {
	if hands[0].IsEmpty() || hands[1].IsEmpty() {
		return nil, ErrEmptyHand
	}
	if hands[0].Size() > halfDeck || hands[1].Size() > halfDeck {
		return nil, ErrInvalidHand
	}
	if handsOverlap(hands[0], hands[1]) {
		return nil, ErrInvalidHand
	}
	g := &Game{budget: budget}
	g.root = g.newNode(nodeState{move: move.NewPass(), hands: hands, turn: uint8(lead)})
	return g, nil
}

// handsOverlap reports whether the two hands share a suited card, i.e. a
// bit set in both Hand values. Hands built together by hand.ParsePair never
// overlap; two independent hand.Parse calls naming the same rank both claim
// copy 0 of it and do.
func handsOverlap(h0, h1 hand.Hand) bool {
	return h0&h1 != 0
}

func (g *Game) newNode(st nodeState) nodeID {
	g.nodes = append(g.nodes, node{state: st, parent: noNode, firstChild: noNode, lastChild: noNode, prevSibling: noNode, nextSibling: noNode})
	return nodeID(len(g.nodes) - 1)
}

func (g *Game) appendChild(parent, child nodeID) {
	g.nodes[child].parent = parent
	if g.nodes[parent].firstChild == noNode {
		g.nodes[parent].firstChild = child
	} else {
		last := g.nodes[parent].lastChild
		g.nodes[last].nextSibling = child
		g.nodes[child].prevSibling = last
	}
	g.nodes[parent].lastChild = child
}

// deleteSubtree tombstones n and every descendant; it does not unlink n
// from its parent's sibling chain, so traversal helpers must skip
// tombstoned nodes.
func (g *Game) deleteSubtree(n nodeID) {
	g.nodes[n].removed = true
	for c := g.nodes[n].firstChild; c != noNode; c = g.nodes[c].nextSibling {
		g.deleteSubtree(c)
	}
}

// pruneSiblingsExcept tombstones every child of parent other than keep.
// Node-level only: at the moment this runs, those siblings are always
// leaves.
func (g *Game) pruneSiblingsExcept(parent, keep nodeID) {
	for c := g.nodes[parent].firstChild; c != noNode; c = g.nodes[c].nextSibling {
		if c != keep {
			g.nodes[c].removed = true
		}
	}
}

// rollback walks from start up through ancestors (inclusive) to the
// nearest node whose turn is 1 (the opponent's move that refuted whatever
// we committed to at its parent), deletes that node's entire subtree, and
// returns its parent so the search can try a different move of ours. If no
// such ancestor exists, the whole tree has been refuted; the search ends
// with the root's pass flag left false.
func (g *Game) rollback(start nodeID) nodeID {
	a := start
	for a != noNode && g.nodes[a].state.turn != 1 {
		a = g.nodes[a].parent
	}
	if a == noNode {
		return noNode
	}
	p := g.nodes[a].parent
	g.deleteSubtree(a)
	return p
}

// expand generates every child of n (a node visited for the first time) by
// asking the hand on move for every legal reply. It returns the first
// child to continue into, unless a reply immediately decides n's subtree:
// our hand emptying is a proven win (siblings pruned, n.passFlag set,
// parent returned); the opponent's hand emptying is a proven loss (rolled
// back immediately).
func (g *Game) expand(n nodeID) nodeID {
	st := g.nodes[n].state
	results := st.hands[st.turn].Follow(st.move)
	first := noNode
	for _, res := range results {
		childHands := st.hands
		childHands[st.turn] = res.Remaining
		child := g.newNode(nodeState{
			move:     res.Move,
			hands:    childHands,
			turn:     1 - st.turn,
			passFlag: res.Remaining.IsEmpty() && st.turn == 0,
		})
		g.appendChild(n, child)
		if first == noNode {
			first = child
		}
		if res.Remaining.IsEmpty() {
			if st.turn == 0 {
				g.pruneSiblingsExcept(n, child)
				g.nodes[n].state.passFlag = true
				return g.nodes[n].parent
			}
			return g.rollback(n)
		}
	}
	g.nodes[n].state.expanded = true
	g.nodes[n].state.hands = [2]hand.Hand{}
	return first
}

// expandPlayer0 handles a revisit of an already-expanded turn-0 (our move)
// node: an OR node, proven the moment any surviving child is proven.
func (g *Game) expandPlayer0(n nodeID) nodeID {
	winner, first := noNode, noNode
	for c := g.nodes[n].firstChild; c != noNode; c = g.nodes[c].nextSibling {
		if g.nodes[c].removed {
			continue
		}
		if first == noNode {
			first = c
		}
		if g.nodes[c].state.passFlag {
			winner = c
			break
		}
	}
	if winner != noNode {
		g.pruneSiblingsExcept(n, winner)
		g.nodes[n].state.passFlag = true
		return g.nodes[n].parent
	}
	if first == noNode {
		return g.rollback(n)
	}
	return first
}

// expandOpponent handles a revisit of an already-expanded turn-1
// (opponent's move) node: an AND node, proven only once every surviving
// child is proven.
func (g *Game) expandOpponent(n nodeID) nodeID {
	for c := g.nodes[n].firstChild; c != noNode; c = g.nodes[c].nextSibling {
		if g.nodes[c].removed {
			continue
		}
		if !g.nodes[c].state.passFlag {
			return c
		}
	}
	g.nodes[n].state.passFlag = true
	return g.nodes[n].parent
}

// Search runs the exhaustive proof to completion. It is idempotent: a
// second call returns immediately. If a node budget was configured and
// exhausted, Search returns ErrNodeBudgetExceeded and leaves the tree in
// whatever partial state it reached; HasForcedWin is not meaningful after
// an error.
func (g *Game) Search() error {
	if g.searched {
		return nil
	}
	cur := g.root
	for cur != noNode {
		if g.budget >= 0 && len(g.nodes) > g.budget {
			return ErrNodeBudgetExceeded
		}
		n := &g.nodes[cur]
		switch {
		case !n.state.expanded:
			cur = g.expand(cur)
		case n.state.turn == 0:
			cur = g.expandPlayer0(cur)
		default:
			cur = g.expandOpponent(cur)
		}
	}
	g.searched = true
	return nil
}

// HasForcedWin reports whether the root was proven a forced win for player
// 0. Meaningful only after Search has returned successfully.
func (g *Game) HasForcedWin() bool {
	return g.nodes[g.root].state.passFlag
}

// RootNode returns the handle of the search tree's root.
func (g *Game) RootNode() NodeHandle {
	return NodeHandle(g.root)
}

// ChildrenOf returns the surviving (non-removed) children of h, in the
// order they were generated.
func (g *Game) ChildrenOf(h NodeHandle) []NodeHandle {
	var out []NodeHandle
	for c := g.nodes[nodeID(h)].firstChild; c != noNode; c = g.nodes[c].nextSibling {
		if !g.nodes[c].removed {
			out = append(out, NodeHandle(c))
		}
	}
	return out
}

// AncestorsOf returns h's ancestors, nearest first, ending at the root.
func (g *Game) AncestorsOf(h NodeHandle) []NodeHandle {
	var out []NodeHandle
	for p := g.nodes[nodeID(h)].parent; p != noNode; p = g.nodes[p].parent {
		out = append(out, NodeHandle(p))
	}
	return out
}

// State is the externally visible view of a node: the move played to
// reach it, whose turn follows, and the search's verdict for its subtree.
type State struct {
	Move     move.Move
	Turn     int
	PassFlag bool
}

// StateOf returns the externally visible state of h.
func (g *Game) StateOf(h NodeHandle) State {
	st := g.nodes[nodeID(h)].state
	return State{Move: st.move, Turn: int(st.turn), PassFlag: st.passFlag}
}

// MoveOf returns the move a state records.
func MoveOf(s State) move.Move {
	return s.Move
}
