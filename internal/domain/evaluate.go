package domain

import "sort"

// Category is the hand-type tier. Higher categories beat lower ones outright;
// ties within a category fall to the TieKey.
type Category int

const (
	CategorySingle Category = iota + 1
	CategoryPair
	CategoryTrips
	CategoryStraight
	CategoryFlush
	CategoryFullHouse
	CategoryQuads
	CategoryStraightFlush
)

var categoryNames = map[Category]string{
	CategorySingle:        "single",
	CategoryPair:          "pair",
	CategoryTrips:         "trips",
	CategoryStraight:      "straight",
	CategoryFlush:         "flush",
	CategoryFullHouse:     "full_house",
	CategoryQuads:         "quads",
	CategoryStraightFlush: "straight_flush",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "invalid"
}

// HandEvaluation is the comparable classification of a legal play.
type HandEvaluation struct {
	Category Category `json:"category"`
	TieKey   []int    `json:"tie_key"`
}

// Evaluate classifies a candidate play of 1, 2, 3, or 5 cards. Any other size
// and any 5-card shape outside straight/flush/full house/quads/straight flush
// is rejected; the input slice is not modified.
func Evaluate(cards []Card) (HandEvaluation, error) {
	switch len(cards) {
	case 1:
		c := cards[0]
		return HandEvaluation{
			Category: CategorySingle,
			TieKey:   []int{int(c.Rank), int(c.Suit)},
		}, nil
	case 2:
		if !allSameRank(cards) {
			return HandEvaluation{}, ErrNotAPair
		}
		return HandEvaluation{
			Category: CategoryPair,
			TieKey:   []int{int(cards[0].Rank), int(maxSuit(cards))},
		}, nil
	case 3:
		if !allSameRank(cards) {
			return HandEvaluation{}, ErrNotATriple
		}
		return HandEvaluation{
			Category: CategoryTrips,
			TieKey:   []int{int(cards[0].Rank), int(maxSuit(cards))},
		}, nil
	case 5:
		return evaluateFive(cards)
	default:
		return HandEvaluation{}, ErrInvalidCardCount
	}
}

func evaluateFive(cards []Card) (HandEvaluation, error) {
	flush := allSameSuit(cards)
	straightHigh, straight := straightHighValue(cards)

	if flush && straight {
		return HandEvaluation{
			Category: CategoryStraightFlush,
			TieKey:   []int{straightHigh, int(straightHighSuit(cards, straightHigh))},
		}, nil
	}

	counts := rankCounts(cards)
	if hasPattern(counts, 3, 2) {
		return HandEvaluation{
			Category: CategoryFullHouse,
			TieKey:   []int{int(rankWithCount(counts, 3)), int(decisiveSuit(cards))},
		}, nil
	}

	if flush {
		key := make([]int, 0, 6)
		for _, c := range sortedHighFirst(cards) {
			key = append(key, int(c.Rank))
		}
		key = append(key, int(decisiveSuit(cards)))
		return HandEvaluation{Category: CategoryFlush, TieKey: key}, nil
	}

	if straight {
		return HandEvaluation{
			Category: CategoryStraight,
			TieKey:   []int{straightHigh, int(straightHighSuit(cards, straightHigh))},
		}, nil
	}

	if hasPattern(counts, 4, 1) {
		quadRank := rankWithCount(counts, 4)
		var kickerSuit Suit
		for _, c := range cards {
			if c.Rank != quadRank {
				kickerSuit = c.Suit
			}
		}
		return HandEvaluation{
			Category: CategoryQuads,
			TieKey:   []int{int(quadRank), int(kickerSuit)},
		}, nil
	}

	if hasPattern(counts, 2, 2) {
		return HandEvaluation{}, ErrTwoPairNotAllowed
	}

	return HandEvaluation{}, ErrIllegalFiveCardShape
}

// Compare orders two evaluated plays: positive when a beats b, negative when
// b beats a, zero when identical (cannot occur between real plays, since no
// duplicate cards exist).
func Compare(a, b HandEvaluation) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	for i := 0; i < len(a.TieKey) || i < len(b.TieKey); i++ {
		av, bv := 0, 0
		if i < len(a.TieKey) {
			av = a.TieKey[i]
		}
		if i < len(b.TieKey) {
			bv = b.TieKey[i]
		}
		if av != bv {
			return av - bv
		}
	}
	return 0
}

// straightHighValue reports whether 5 cards form a run and the rank value of
// the run's high card. Two shapes qualify: the low straight {3,4,5,6,2} where
// the 2 plays low and the run is 6-high, and any 5 consecutive values in the
// circular 0..12 ordering.
func straightHighValue(cards []Card) (int, bool) {
	if len(cards) != 5 {
		return 0, false
	}
	present := map[int]bool{}
	for _, c := range cards {
		present[int(c.Rank)] = true
	}
	if len(present) != 5 {
		return 0, false
	}

	if present[int(RankTwo)] && present[0] && present[1] && present[2] && present[3] {
		return int(RankSix), true
	}

	for start := 0; start < 13; start++ {
		run := true
		for k := 0; k < 5; k++ {
			if !present[(start+k)%13] {
				run = false
				break
			}
		}
		if run {
			return (start + 4) % 13, true
		}
	}
	return 0, false
}

// straightHighSuit returns the suit of the card actually holding the run's
// high rank. Ranks in a straight are distinct so exactly one card matches.
func straightHighSuit(cards []Card, highValue int) Suit {
	for _, c := range cards {
		if int(c.Rank) == highValue {
			return c.Suit
		}
	}
	return SuitClubs
}

// decisiveSuit is the strongest suit among the highest-rank cards, making the
// evaluation independent of input order.
func decisiveSuit(cards []Card) Suit {
	high := HighestCard(cards)
	best := high.Suit
	for _, c := range cards {
		if c.Rank == high.Rank && c.Suit > best {
			best = c.Suit
		}
	}
	return best
}

func allSameRank(cards []Card) bool {
	for _, c := range cards {
		if c.Rank != cards[0].Rank {
			return false
		}
	}
	return len(cards) > 0
}

func allSameSuit(cards []Card) bool {
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return len(cards) > 0
}

func maxSuit(cards []Card) Suit {
	best := cards[0].Suit
	for _, c := range cards[1:] {
		if c.Suit > best {
			best = c.Suit
		}
	}
	return best
}

func rankCounts(cards []Card) map[Rank]int {
	counts := make(map[Rank]int, len(cards))
	for _, c := range cards {
		counts[c.Rank]++
	}
	return counts
}

// hasPattern reports whether the two largest rank multiplicities are first
// and second, in order.
func hasPattern(counts map[Rank]int, first, second int) bool {
	sorted := make([]int, 0, len(counts))
	for _, n := range counts {
		sorted = append(sorted, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	return len(sorted) >= 2 && sorted[0] == first && sorted[1] == second
}

func rankWithCount(counts map[Rank]int, n int) Rank {
	for r, c := range counts {
		if c == n {
			return r
		}
	}
	return RankThree
}

func sortedHighFirst(cards []Card) []Card {
	out := append([]Card(nil), cards...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Rank > out[j].Rank
	})
	return out
}
