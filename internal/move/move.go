// Package move defines the tagged move variant of the endgame solver's rule
// set: the 38 legal move shapes named in the rules, how they compare, and
// how they render for display.
package move

import (
	"strings"

	"doudizhu/internal/rank"
)

// Kind names a move category. Several kinds carry a Length (the straight,
// pair-straight, or triplet-straight run length) and/or Kickers (the extra
// cards attached to a triplet, plane, or bomb).
type Kind int

const (
	Pass Kind = iota
	Single
	Pair
	Triplet
	TripletSingle // triplet + one single kicker
	TripletPair   // triplet + one pair kicker
	Straight      // length 5..12 of distinct consecutive singles
	PairStraight  // length 3..10 of consecutive pairs
	Plane         // triplet-straight, length 2..6, no kicker
	PlaneSingles  // plane + one single kicker per triplet
	PlanePairs    // plane + one pair kicker per triplet
	QuadSingle    // four-of-a-kind + two distinct single kickers
	QuadPair      // four-of-a-kind + two distinct pair kickers
	Bomb          // four-of-a-kind
	Rocket        // both jokers
)

// Move is an immutable description of one legal play: its shape and the
// ranks that identify it. Base is the move's defining rank: the rank of a
// single, pair, triplet or four-of-a-kind, or the lowest rank of a run,
// whatever its kickers; Length is the run length for the straight family of
// shapes; Kickers holds the carried ranks in ascending order.
type Move struct {
	Kind    Kind
	Base    rank.Rank
	Length  int
	Kickers []rank.Rank
}

// NewPass returns the empty move.
func NewPass() Move { return Move{Kind: Pass} }

// IsPass reports whether m is the empty move.
func (m Move) IsPass() bool { return m.Kind == Pass }

// IsBomb reports whether m is a four-of-a-kind proper (not the
// kicker-carrying QuadSingle/QuadPair shapes, which do not count as bombs
// for beats-relation purposes).
func (m Move) IsBomb() bool { return m.Kind == Bomb }

// Equal reports whether m and o identify the same move.
func (m Move) Equal(o Move) bool {
	if m.Kind != o.Kind || m.Base != o.Base || m.Length != o.Length {
		return false
	}
	if len(m.Kickers) != len(o.Kickers) {
		return false
	}
	for i, k := range m.Kickers {
		if o.Kickers[i] != k {
			return false
		}
	}
	return true
}

// Beats reports whether m beats o under the rule set's comparison: same
// shape with a higher starting rank, any bomb over any non-bomb, a higher
// bomb over a lower one, or the rocket over everything.
func (m Move) Beats(o Move) bool {
	if m.Kind == Rocket {
		return true
	}
	if o.Kind == Rocket {
		return false
	}
	if m.Kind == Bomb || o.Kind == Bomb {
		if m.Kind == Bomb && o.Kind == Bomb {
			return m.Base > o.Base
		}
		return m.Kind == Bomb
	}
	if m.Kind != o.Kind || m.Length != o.Length {
		return false
	}
	return m.Base > o.Base
}

// Ranks decomposes m into the multiset of ranks its cards occupy (one entry
// per card, base cards first, then kickers), in the canonical rendering
// order used by String.
func (m Move) Ranks() []rank.Rank {
	switch m.Kind {
	case Pass:
		return nil
	case Single:
		return []rank.Rank{m.Base}
	case Pair:
		return []rank.Rank{m.Base, m.Base}
	case Triplet:
		return repeat(m.Base, 3)
	case TripletSingle:
		return append(repeat(m.Base, 3), m.Kickers[0])
	case TripletPair:
		return append(repeat(m.Base, 3), m.Kickers[0], m.Kickers[0])
	case Straight:
		return straightRun(m.Base, m.Length, 1)
	case PairStraight:
		return straightRun(m.Base, m.Length, 2)
	case Plane:
		return straightRun(m.Base, m.Length, 3)
	case PlaneSingles:
		out := straightRun(m.Base, m.Length, 3)
		return append(out, m.Kickers...)
	case PlanePairs:
		out := straightRun(m.Base, m.Length, 3)
		for _, k := range m.Kickers {
			out = append(out, k, k)
		}
		return out
	case QuadSingle:
		out := repeat(m.Base, 4)
		return append(out, m.Kickers...)
	case QuadPair:
		out := repeat(m.Base, 4)
		for _, k := range m.Kickers {
			out = append(out, k, k)
		}
		return out
	case Bomb:
		return repeat(m.Base, 4)
	case Rocket:
		return []rank.Rank{rank.BlackJoker, rank.RedJoker}
	default:
		panic("move: unknown kind")
	}
}

func repeat(r rank.Rank, n int) []rank.Rank {
	out := make([]rank.Rank, n)
	for i := range out {
		out[i] = r
	}
	return out
}

func straightRun(start rank.Rank, length, multiplicity int) []rank.Rank {
	out := make([]rank.Rank, 0, length*multiplicity)
	r := start
	for i := 0; i < length; i++ {
		for j := 0; j < multiplicity; j++ {
			out = append(out, r)
		}
		r = r.Succ()
	}
	return out
}

// String renders m as its concatenated rank glyphs, base cards first and
// kickers last; Pass renders as a language-neutral token.
func (m Move) String() string {
	if m.IsPass() {
		return "pass"
	}
	var b strings.Builder
	for _, r := range m.Ranks() {
		b.WriteByte(r.Glyph())
	}
	return b.String()
}
