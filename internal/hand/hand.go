// Package hand implements the 64-bit bitboard hand representation: rank
// multiplicity tracking, suited card bookkeeping, and the Follow move
// generator every legal reply to a trick is built from.
package hand

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"doudizhu/internal/move"
	"doudizhu/internal/rank"
)

// Suit identifies one of the four 16-bit copies a suited card lives in.
// Suit 3 is Spades, 2 Hearts, 1 Clubs, 0 Diamonds; jokers only ever occupy
// Diamonds' copy (copy 0), since they have no suit of their own.
type Suit int8

const (
	Diamonds Suit = iota
	Clubs
	Hearts
	Spades
)

// Hand is a bitboard of at most 54 cards: four 16-bit copies packed into a
// uint64, one bit per (copy, rank) pair. See arrange for the
// arrange-prefix invariant.
type Hand uint64

// FullDeck is the starting 54-card deck: every rank in all four copies,
// plus both jokers in copy 0.
const FullDeck Hand = 0b0001111111111111_0001111111111111_0001111111111111_0111111111111111

var (
	// ErrInvalidRank is returned by Parse when a character falls outside the
	// rank alphabet described in Parse's doc.
	ErrInvalidRank = errors.New("hand: invalid rank glyph")
	// ErrTooManyDuplicates is returned by Parse when a hand string asks for
	// a fifth copy of a non-joker rank, or a second copy of a joker.
	ErrTooManyDuplicates = errors.New("hand: too many duplicates of a rank")
)

func bit(s Suit, r rank.Rank) Hand {
	return Hand(1) << (uint(s)*16 + uint(r))
}

// Contains reports whether the hand holds the specific suited card (rank,
// suit).
func (h Hand) Contains(s Suit, r rank.Rank) bool {
	return h&bit(s, r) != 0
}

// InsertSuited adds the specific suited card (rank, suit) to the hand and
// restores the arrange-prefix invariant.
func (h *Hand) InsertSuited(s Suit, r rank.Rank) {
	*h |= bit(s, r)
	*h = h.arrange()
}

// RemoveSuited removes the specific suited card (rank, suit) from the hand
// and restores the arrange-prefix invariant.
func (h *Hand) RemoveSuited(s Suit, r rank.Rank) {
	*h &^= bit(s, r)
	*h = h.arrange()
}

// InsertHand adds every card of o to the hand.
func (h *Hand) InsertHand(o Hand) {
	*h |= o
	*h = h.arrange()
}

// RemoveHand removes every card of o from the hand.
func (h *Hand) RemoveHand(o Hand) {
	*h &^= o
	*h = h.arrange()
}

// Size returns the number of cards held.
func (h Hand) Size() int {
	return bits.OnesCount64(uint64(h))
}

// IsEmpty reports whether the hand holds no cards.
func (h Hand) IsEmpty() bool {
	return h == 0
}

// DrawRank adds one duplicate of r, occupying the lowest free copy. It
// reports false (and leaves h unchanged) if r already has as many
// duplicates as the deck allows: four for a plain rank, one for a joker.
func (h *Hand) DrawRank(r rank.Rank) bool {
	limit := 4
	if r.IsJoker() {
		limit = 1
	}
	for k := 0; k < limit; k++ {
		b := Hand(1) << (uint(k)*16 + uint(r))
		if *h&b == 0 {
			*h |= b
			return true
		}
	}
	return false
}

// arrange restores the arrange-prefix invariant: for every rank, the set of
// copies holding it becomes a prefix, by swapping bits between copies
// without regard to which suit originally held them. Suit-preserving
// mutations (InsertSuited, RemoveSuited, InsertHand, RemoveHand) call this
// after every change; DrawRank never breaks the invariant in the first
// place, since it always fills the lowest free copy.
func (h Hand) arrange() Hand {
	var seg [4]uint16
	for k := 0; k < 4; k++ {
		seg[k] = uint16(h >> (16 * uint(k)))
	}
	for i := 3; i >= 1; i-- {
		for j := 0; j < i; j++ {
			if seg[i] == 0 {
				break
			}
			different := seg[i] ^ seg[j]
			identical := ^different
			seg[i] &= identical
			seg[j] |= different
		}
	}
	var out Hand
	for k := 3; k >= 0; k-- {
		out = out<<16 | Hand(seg[k])
	}
	return out
}

// count returns how many copies of rank r the hand holds, 0..4.
func (h Hand) count(r rank.Rank) int {
	c := 0
	for k := 0; k < 4; k++ {
		if h&(Hand(1)<<(uint(k)*16+uint(r))) != 0 {
			c++
		}
	}
	return c
}

func (h Hand) hasAtLeast(r rank.Rank, n int) bool {
	return h.count(r) >= n
}

// RankCount returns how many copies of rank r the hand holds, 0..4. Unlike
// Contains, it never depends on which specific copy the game's internal
// bookkeeping happened to use for a card of this rank — a hand built from a
// bare rank string (Parse, ParsePair) carries no real suit identity, only a
// copy index chosen for bookkeeping convenience.
func (h Hand) RankCount(r rank.Rank) int {
	return h.count(r)
}

// removeRank removes n copies of rank r, consuming the highest-indexed
// copy downward so the remaining distribution stays arrange-prefixed.
func (h Hand) removeRank(r rank.Rank, n int) Hand {
	for k := 3; k >= 0 && n > 0; k-- {
		b := Hand(1) << (uint(k)*16 + uint(r))
		if h&b != 0 {
			h &^= b
			n--
		}
	}
	return h
}

// SuitedCard is an externally visible (rank, suit) pair.
type SuitedCard struct {
	Rank rank.Rank
	Suit Suit
}

// SuitedCards returns every suited card the hand holds, each once, in
// ascending suit-then-rank order.
func (h Hand) SuitedCards() []SuitedCard {
	var out []SuitedCard
	for s := Diamonds; s <= Spades; s++ {
		for r := rank.Rank(0); r < rank.Count; r++ {
			if h.Contains(s, r) {
				out = append(out, SuitedCard{Rank: r, Suit: s})
			}
		}
	}
	return out
}

// Parse builds a Hand from a hand string: one glyph per card, from the
// alphabet 3,4,5,6,7,8,9,0,J,Q,K,A,2,B,R (case-insensitive; 1/a/A all mean
// Ace, 0 means Ten). Duplicates stack into higher copies in the order
// parsed.
func Parse(s string) (Hand, error) {
	var h Hand
	for i := 0; i < len(s); i++ {
		r, ok := rank.ParseGlyph(s[i])
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRank, s[i])
		}
		if !h.DrawRank(r) {
			return 0, fmt.Errorf("%w: %q", ErrTooManyDuplicates, s[i])
		}
	}
	return h, nil
}

// ParsePair parses two hand strings into two hands dealt from the same
// deck. A bare rank glyph carries no suit, so the two strings are drawn
// against a single shared pool of copies per rank instead of two
// independent Parse calls: a rank common to both strings (e.g. "123" and
// "234" both naming Two and Three) is split across distinct copies rather
// than each hand independently claiming copy 0 for its own single instance,
// which would make the pair indistinguishable from one hand claiming a card
// the other already holds. The second hand's copies of a shared rank
// therefore need not start at copy 0; Follow and the other rank-level
// queries count copies and do not depend on which ones are held. It fails
// with ErrTooManyDuplicates if the combined demand for a rank exceeds the
// deck's supply.
func ParsePair(a, b string) ([2]Hand, error) {
	var hands [2]Hand
	for side, s := range [2]string{a, b} {
		for i := 0; i < len(s); i++ {
			r, ok := rank.ParseGlyph(s[i])
			if !ok {
				return hands, fmt.Errorf("%w: %q", ErrInvalidRank, s[i])
			}
			limit := 4
			if r.IsJoker() {
				limit = 1
			}
			k := hands[0].count(r) + hands[1].count(r)
			if k >= limit {
				return hands, fmt.Errorf("%w: %q", ErrTooManyDuplicates, s[i])
			}
			hands[side] |= Hand(1) << (uint(k)*16 + uint(r))
		}
	}
	return hands, nil
}

// String renders the hand's rank glyphs, one per held card, suit by suit
// from Spades down to Diamonds, ascending rank within each suit — a
// debugging aid, not the canonical move rendering (see package move for
// that).
func (h Hand) String() string {
	var b strings.Builder
	for s := Spades; s >= Diamonds; s-- {
		for r := rank.Rank(0); r < rank.Count; r++ {
			if h.Contains(s, r) {
				b.WriteByte(r.Glyph())
			}
		}
	}
	return b.String()
}

// FollowResult pairs a legal reply with the hand left over after playing
// it.
type FollowResult struct {
	Move      move.Move
	Remaining Hand
}

// Follow returns every legal reply to toBeat: moves that strictly beat it
// (or, when toBeat is Pass, any legal move), plus every bomb and rocket the
// hand contains, plus Pass itself unless toBeat is already Pass (passing
// while leading is illegal).
func (h Hand) Follow(toBeat move.Move) []FollowResult {
	leading := toBeat.IsPass()
	var out []FollowResult
	appendAllBombs := true
	appendRocket := true

	switch toBeat.Kind {
	case move.Pass:
		appendAllBombs, appendRocket = false, false
		out = h.followAny()
	case move.Single:
		out = h.followSingle(toBeat.Base)
	case move.Pair:
		out = h.followPair(toBeat.Base)
	case move.Triplet:
		out = h.followTriplet(toBeat.Base, move.Triplet)
	case move.TripletSingle:
		out = h.followTriplet(toBeat.Base, move.TripletSingle)
	case move.TripletPair:
		out = h.followTriplet(toBeat.Base, move.TripletPair)
	case move.Straight:
		out = h.followStraightFamily(toBeat.Base, toBeat.Length, 1, move.Straight)
	case move.PairStraight:
		out = h.followStraightFamily(toBeat.Base, toBeat.Length, 2, move.PairStraight)
	case move.Plane:
		out = h.followStraightFamily(toBeat.Base, toBeat.Length, 3, move.Plane)
	case move.PlaneSingles:
		out = h.followPlaneCarry(toBeat.Base, toBeat.Length, 1)
	case move.PlanePairs:
		out = h.followPlaneCarry(toBeat.Base, toBeat.Length, 2)
	case move.QuadSingle:
		out = h.followQuad(toBeat.Base, 1)
	case move.QuadPair:
		out = h.followQuad(toBeat.Base, 2)
	case move.Bomb:
		appendAllBombs = false
		out = h.followBomb(toBeat.Base)
	case move.Rocket:
		appendAllBombs, appendRocket = false, false
	}

	if appendAllBombs {
		out = append(out, h.followBomb(rank.None)...)
	}
	if appendRocket {
		out = append(out, h.followRocket()...)
	}
	if !leading {
		out = append(out, FollowResult{Move: move.NewPass(), Remaining: h})
	}
	return out
}

// followAny enumerates every legal lead: one of each shape in the
// taxonomy, at every rank and length the hand supports.
func (h Hand) followAny() []FollowResult {
	var out []FollowResult
	out = append(out, h.followSingle(rank.None)...)
	out = append(out, h.followPair(rank.None)...)
	out = append(out, h.followTriplet(rank.None, move.Triplet)...)
	out = append(out, h.followTriplet(rank.None, move.TripletSingle)...)
	out = append(out, h.followTriplet(rank.None, move.TripletPair)...)
	for l := 5; l <= 12; l++ {
		out = append(out, h.followStraightFamily(rank.None, l, 1, move.Straight)...)
	}
	for l := 3; l <= 10; l++ {
		out = append(out, h.followStraightFamily(rank.None, l, 2, move.PairStraight)...)
	}
	for l := 2; l <= 6; l++ {
		out = append(out, h.followStraightFamily(rank.None, l, 3, move.Plane)...)
	}
	for l := 2; l <= 5; l++ {
		out = append(out, h.followPlaneCarry(rank.None, l, 1)...)
	}
	for l := 2; l <= 4; l++ {
		out = append(out, h.followPlaneCarry(rank.None, l, 2)...)
	}
	out = append(out, h.followQuad(rank.None, 1)...)
	out = append(out, h.followQuad(rank.None, 2)...)
	out = append(out, h.followBomb(rank.None)...)
	out = append(out, h.followRocket()...)
	return out
}

// startAfter returns the rank to begin scanning from: Three when from is
// rank.None (no lower bound), otherwise the successor of from (a reply
// must strictly outrank what it beats).
func startAfter(from rank.Rank) rank.Rank {
	if from == rank.None {
		return rank.Three
	}
	return from.Succ()
}

func (h Hand) followSingle(from rank.Rank) []FollowResult {
	var out []FollowResult
	for r := startAfter(from); r != rank.None; r = r.Succ() {
		if h.hasAtLeast(r, 1) {
			out = append(out, FollowResult{Move: move.Move{Kind: move.Single, Base: r}, Remaining: h.removeRank(r, 1)})
		}
	}
	return out
}

func (h Hand) followPair(from rank.Rank) []FollowResult {
	var out []FollowResult
	for r := startAfter(from); r != rank.None; r = r.Succ() {
		if h.hasAtLeast(r, 2) {
			out = append(out, FollowResult{Move: move.Move{Kind: move.Pair, Base: r}, Remaining: h.removeRank(r, 2)})
		}
	}
	return out
}

// followTriplet generates triplets, or triplets carrying one kicker, of a
// given kind (move.Triplet, move.TripletSingle, move.TripletPair).
func (h Hand) followTriplet(from rank.Rank, kind move.Kind) []FollowResult {
	var out []FollowResult
	for r := startAfter(from); r != rank.None; r = r.Succ() {
		if !h.hasAtLeast(r, 3) {
			continue
		}
		rem := h.removeRank(r, 3)
		switch kind {
		case move.Triplet:
			out = append(out, FollowResult{Move: move.Move{Kind: move.Triplet, Base: r}, Remaining: rem})
		case move.TripletSingle:
			for _, s := range rem.followSingle(rank.None) {
				if s.Move.Base == r {
					continue
				}
				out = append(out, FollowResult{
					Move:      move.Move{Kind: move.TripletSingle, Base: r, Kickers: []rank.Rank{s.Move.Base}},
					Remaining: s.Remaining,
				})
			}
		case move.TripletPair:
			for _, p := range rem.followPair(rank.None) {
				if p.Move.Base == r {
					continue
				}
				out = append(out, FollowResult{
					Move:      move.Move{Kind: move.TripletPair, Base: r, Kickers: []rank.Rank{p.Move.Base}},
					Remaining: p.Remaining,
				})
			}
		}
	}
	return out
}

// followStraightFamily generates straights (unit=1), pair-straights
// (unit=2), or bare triplet-straights / "planes" (unit=3) of the given
// length, starting strictly after from.
func (h Hand) followStraightFamily(from rank.Rank, length, unit int, kind move.Kind) []FollowResult {
	var out []FollowResult
	maxStart := int(rank.Ace) - length + 1
	for start := startAfter(from); start != rank.None && int(start) <= maxStart; start = start.Succ() {
		ok := true
		rem := h
		r := start
		for i := 0; i < length; i++ {
			if !rem.hasAtLeast(r, unit) {
				ok = false
				break
			}
			r = r.Succ()
		}
		if !ok {
			continue
		}
		r = start
		for i := 0; i < length; i++ {
			rem = rem.removeRank(r, unit)
			r = r.Succ()
		}
		out = append(out, FollowResult{Move: move.Move{Kind: kind, Base: start, Length: length}, Remaining: rem})
	}
	return out
}

// followPlaneCarry generates planes of the given length carrying one
// single (unit=1) or paired (unit=2) kicker per triplet.
func (h Hand) followPlaneCarry(from rank.Rank, length, unit int) []FollowResult {
	var out []FollowResult
	kind := move.PlaneSingles
	if unit == 2 {
		kind = move.PlanePairs
	}
	for _, base := range h.followStraightFamily(from, length, 3, move.Plane) {
		excluded := make(map[rank.Rank]bool, length)
		for r, i := base.Move.Base, 0; i < length; i, r = i+1, r.Succ() {
			excluded[r] = true
		}
		for _, pick := range base.Remaining.pickKickers(rank.None, length, unit, excluded) {
			out = append(out, FollowResult{
				Move:      move.Move{Kind: kind, Base: base.Move.Base, Length: length, Kickers: pick.ranks},
				Remaining: pick.remaining,
			})
		}
	}
	return out
}

// followQuad generates four-of-a-kinds carrying two single (unit=1) or
// paired (unit=2) kickers.
func (h Hand) followQuad(from rank.Rank, unit int) []FollowResult {
	var out []FollowResult
	kind := move.QuadSingle
	if unit == 2 {
		kind = move.QuadPair
	}
	for r := startAfter(from); r != rank.None; r = r.Succ() {
		if !h.hasAtLeast(r, 4) {
			continue
		}
		rem := h.removeRank(r, 4)
		excluded := map[rank.Rank]bool{r: true}
		for _, pick := range rem.pickKickers(rank.None, 2, unit, excluded) {
			out = append(out, FollowResult{
				Move:      move.Move{Kind: kind, Base: r, Kickers: pick.ranks},
				Remaining: pick.remaining,
			})
		}
	}
	return out
}

func (h Hand) followBomb(from rank.Rank) []FollowResult {
	var out []FollowResult
	for r := startAfter(from); r != rank.None; r = r.Succ() {
		if h.hasAtLeast(r, 4) {
			out = append(out, FollowResult{Move: move.Move{Kind: move.Bomb, Base: r}, Remaining: h.removeRank(r, 4)})
		}
	}
	return out
}

func (h Hand) followRocket() []FollowResult {
	if h.hasAtLeast(rank.BlackJoker, 1) && h.hasAtLeast(rank.RedJoker, 1) {
		rem := h.removeRank(rank.BlackJoker, 1).removeRank(rank.RedJoker, 1)
		return []FollowResult{{Move: move.Move{Kind: move.Rocket}, Remaining: rem}}
	}
	return nil
}

// kickerPick is one way to choose a set of distinct kicker ranks, and the
// hand left over after removing them.
type kickerPick struct {
	ranks     []rank.Rank
	remaining Hand
}

// pickKickers enumerates every way to choose `count` distinct ranks not in
// excluded, each contributing `unit` cards (1 for a single kicker, 2 for a
// paired kicker). Ranks are chosen in strictly increasing order so the same
// unordered combination is never produced twice.
func (h Hand) pickKickers(from rank.Rank, count, unit int, excluded map[rank.Rank]bool) []kickerPick {
	if count == 0 {
		return []kickerPick{{remaining: h}}
	}
	var out []kickerPick
	for r := startAfter(from); r != rank.None; r = r.Succ() {
		if excluded[r] || !h.hasAtLeast(r, unit) {
			continue
		}
		rem := h.removeRank(r, unit)
		for _, sub := range rem.pickKickers(r, count-1, unit, excluded) {
			ranks := make([]rank.Rank, 0, count)
			ranks = append(ranks, r)
			ranks = append(ranks, sub.ranks...)
			out = append(out, kickerPick{ranks: ranks, remaining: sub.remaining})
		}
	}
	return out
}
