package move

import (
	"testing"

	"doudizhu/internal/rank"
)

func TestRanksAndString(t *testing.T) {
	tests := []struct {
		name string
		m    Move
		want string
	}{
		{"pass", NewPass(), "pass"},
		{"single", Move{Kind: Single, Base: rank.Three}, "3"},
		{"pair", Move{Kind: Pair, Base: rank.Four}, "44"},
		{"triplet", Move{Kind: Triplet, Base: rank.Five}, "555"},
		{"triplet+single", Move{Kind: TripletSingle, Base: rank.Five, Kickers: []rank.Rank{rank.Three}}, "5553"},
		{"triplet+pair", Move{Kind: TripletPair, Base: rank.Five, Kickers: []rank.Rank{rank.Three}}, "55533"},
		{"straight", Move{Kind: Straight, Base: rank.Three, Length: 5}, "34567"},
		{"pair straight", Move{Kind: PairStraight, Base: rank.Three, Length: 3}, "334455"},
		{"plane", Move{Kind: Plane, Base: rank.Three, Length: 2}, "333444"},
		{"rocket", Move{Kind: Rocket}, "BR"},
		{"bomb", Move{Kind: Bomb, Base: rank.Two}, "2222"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBeats(t *testing.T) {
	single3 := Move{Kind: Single, Base: rank.Three}
	single4 := Move{Kind: Single, Base: rank.Four}
	bomb3 := Move{Kind: Bomb, Base: rank.Three}
	bomb4 := Move{Kind: Bomb, Base: rank.Four}
	rocket := Move{Kind: Rocket}

	cases := []struct {
		name    string
		m, o    Move
		beats   bool
	}{
		{"higher single beats lower", single4, single3, true},
		{"lower single does not beat higher", single3, single4, false},
		{"bomb beats single", bomb3, single4, true},
		{"single never beats bomb", single4, bomb3, false},
		{"higher bomb beats lower bomb", bomb4, bomb3, true},
		{"lower bomb does not beat higher bomb", bomb3, bomb4, false},
		{"rocket beats bomb", rocket, bomb4, true},
		{"nothing beats rocket", bomb4, rocket, false},
		{"different length straights never beat", Move{Kind: Straight, Base: rank.Three, Length: 5}, Move{Kind: Straight, Base: rank.Three, Length: 6}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.m.Beats(c.o); got != c.beats {
				t.Errorf("%v.Beats(%v) = %v, want %v", c.m, c.o, got, c.beats)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := Move{Kind: TripletSingle, Base: rank.Five, Kickers: []rank.Rank{rank.Three}}
	b := Move{Kind: TripletSingle, Base: rank.Five, Kickers: []rank.Rank{rank.Three}}
	c := Move{Kind: TripletSingle, Base: rank.Five, Kickers: []rank.Rank{rank.Four}}
	if !a.Equal(b) {
		t.Errorf("expected a.Equal(b)")
	}
	if a.Equal(c) {
		t.Errorf("expected !a.Equal(c)")
	}
}
