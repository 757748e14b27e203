package hand

import (
	"errors"
	"sort"
	"testing"

	"doudizhu/internal/move"
	"doudizhu/internal/rank"
)

func TestParseSize(t *testing.T) {
	h, err := Parse("34567")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if h.Size() != 5 {
		t.Errorf("Size() = %d, want 5", h.Size())
	}
}

func TestParseDuplicatesStack(t *testing.T) {
	h, err := Parse("333")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if h.Size() != 3 {
		t.Errorf("Size() = %d, want 3", h.Size())
	}
	if !h.Contains(Diamonds, rank.Three) || !h.Contains(Clubs, rank.Three) || !h.Contains(Hearts, rank.Three) {
		t.Errorf("expected the three duplicates to occupy copies 0..2, got %064b", uint64(h))
	}
}

func TestParseTooManyDuplicates(t *testing.T) {
	if _, err := Parse("33333"); !errors.Is(err, ErrTooManyDuplicates) {
		t.Errorf("Parse(\"33333\") error = %v, want ErrTooManyDuplicates", err)
	}
	if _, err := Parse("BB"); !errors.Is(err, ErrTooManyDuplicates) {
		t.Errorf("Parse(\"BB\") error = %v, want ErrTooManyDuplicates", err)
	}
}

func TestParseInvalidGlyph(t *testing.T) {
	if _, err := Parse("3x5"); !errors.Is(err, ErrInvalidRank) {
		t.Errorf("Parse(\"3x5\") error = %v, want ErrInvalidRank", err)
	}
}

func TestArrangePrefixInvariant(t *testing.T) {
	var h Hand
	h.InsertSuited(Spades, rank.Three)
	if !h.Contains(Diamonds, rank.Three) {
		t.Errorf("expected arrange to move the lone Three down to copy 0, got %064b", uint64(h))
	}
	if h.Contains(Spades, rank.Three) {
		t.Errorf("expected copy 3 to be empty after arrange, got %064b", uint64(h))
	}
}

func TestDrawRankFillsLowestFreeCopy(t *testing.T) {
	var h Hand
	for i := 0; i < 4; i++ {
		if !h.DrawRank(rank.Four) {
			t.Fatalf("DrawRank #%d unexpectedly failed", i)
		}
	}
	if h.count(rank.Four) != 4 {
		t.Fatalf("count(Four) = %d, want 4", h.count(rank.Four))
	}
	if h.DrawRank(rank.Four) {
		t.Errorf("5th DrawRank(Four) should fail")
	}
}

func TestDrawRankJokerLimitedToOneCopy(t *testing.T) {
	var h Hand
	if !h.DrawRank(rank.BlackJoker) {
		t.Fatalf("first joker draw should succeed")
	}
	if h.DrawRank(rank.BlackJoker) {
		t.Errorf("second joker draw should fail")
	}
}

func sortedStrings(results []FollowResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Move.String()
	}
	sort.Strings(out)
	return out
}

func TestFollowLeadSimpleHand(t *testing.T) {
	// No multi-card shape fits three unpaired ranks (a straight needs 5),
	// so three unpaired singles can only ever be led as three separate
	// singles.
	h, err := Parse("345")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := sortedStrings(h.Follow(move.NewPass()))
	want := []string{"3", "4", "5"}
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("Follow(pass) = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("Follow(pass) = %v, want %v", got, want)
			break
		}
	}
}

func TestFollowSingleOutranks(t *testing.T) {
	h, err := Parse("45")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	toBeat := move.Move{Kind: move.Single, Base: rank.Four}
	results := h.Follow(toBeat)
	sawFive := false
	sawPass := false
	for _, r := range results {
		if r.Move.Kind == move.Single && r.Move.Base == rank.Four {
			t.Errorf("Follow should not reoffer the same single rank as toBeat")
		}
		if r.Move.Kind == move.Single && r.Move.Base == rank.Five {
			sawFive = true
		}
		if r.Move.IsPass() {
			sawPass = true
		}
	}
	if !sawFive {
		t.Errorf("expected a Five single in %v", results)
	}
	if !sawPass {
		t.Errorf("expected pass to be offered when not leading")
	}
}

func TestFollowBombAlwaysOffered(t *testing.T) {
	h, err := Parse("33334")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	toBeat := move.Move{Kind: move.Single, Base: rank.Ace}
	results := h.Follow(toBeat)
	sawBomb := false
	for _, r := range results {
		if r.Move.Kind == move.Bomb && r.Move.Base == rank.Three {
			sawBomb = true
		}
	}
	if !sawBomb {
		t.Errorf("expected the bomb of threes to be offered against an unrelated single, got %v", results)
	}
}

func TestFollowRocketOnlyOffersPass(t *testing.T) {
	h, err := Parse("33334")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	results := h.Follow(move.Move{Kind: move.Rocket})
	if len(results) != 1 || !results[0].Move.IsPass() {
		t.Errorf("Follow(rocket) = %v, want only pass", results)
	}
}

func TestFollowTripletSingleExcludesOwnRank(t *testing.T) {
	// Four Threes plus a Four: the leftover 4th Three must never be offered
	// as the kicker for its own triplet.
	h, err := Parse("33334")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	results := h.followTriplet(rank.None, move.TripletSingle)
	for _, r := range results {
		if r.Move.Base == rank.Three && len(r.Move.Kickers) == 1 && r.Move.Kickers[0] == rank.Three {
			t.Errorf("kicker must not equal the triplet's own rank: %v", r.Move)
		}
	}
}

func TestFollowPlaneCarryExcludesBaseRanks(t *testing.T) {
	// 333 444 with a spare Three (4 copies), a Five, and a Six: the spare
	// Three must never be offered as a kicker since Three is one of the
	// plane's own ranks.
	h, err := Parse("333344456")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	results := h.followPlaneCarry(rank.None, 2, 1)
	if len(results) == 0 {
		t.Fatalf("expected at least one plane+single-kicker combination")
	}
	for _, r := range results {
		for _, k := range r.Move.Kickers {
			if k == rank.Three || k == rank.Four {
				t.Errorf("kicker must not duplicate a base rank: %v", r.Move)
			}
		}
	}
}

func TestPickKickersDistinctAndExcluded(t *testing.T) {
	h, err := Parse("345")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	picks := h.pickKickers(rank.None, 2, 1, map[rank.Rank]bool{rank.Four: true})
	for _, p := range picks {
		if len(p.ranks) != 2 {
			t.Fatalf("pickKickers returned %d ranks, want 2", len(p.ranks))
		}
		if p.ranks[0] == p.ranks[1] {
			t.Errorf("kicker ranks must be distinct: %v", p.ranks)
		}
		for _, r := range p.ranks {
			if r == rank.Four {
				t.Errorf("excluded rank Four should never be picked: %v", p.ranks)
			}
		}
	}
}

func TestSizeAndIsEmpty(t *testing.T) {
	var h Hand
	if !h.IsEmpty() {
		t.Errorf("zero Hand should be empty")
	}
	h.InsertSuited(Diamonds, rank.Three)
	if h.IsEmpty() {
		t.Errorf("Hand with one card should not be empty")
	}
	if h.Size() != 1 {
		t.Errorf("Size() = %d, want 1", h.Size())
	}
}

func TestRemoveSuited(t *testing.T) {
	var h Hand
	h.InsertSuited(Diamonds, rank.Three)
	h.InsertSuited(Clubs, rank.Three)
	h.RemoveSuited(Diamonds, rank.Three)
	if h.count(rank.Three) != 1 {
		t.Errorf("count(Three) = %d, want 1", h.count(rank.Three))
	}
	if !h.Contains(Diamonds, rank.Three) {
		t.Errorf("expected arrange to refill copy 0 after removal, got %064b", uint64(h))
	}
}

func TestFullDeckSize(t *testing.T) {
	if FullDeck.Size() != 54 {
		t.Errorf("FullDeck.Size() = %d, want 54", FullDeck.Size())
	}
}
