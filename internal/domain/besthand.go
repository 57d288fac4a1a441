package domain

// Best-subset search over a player's remaining cards. Used only to rank
// players by residual hand strength when loser selection ties on card count,
// never to validate a play.

// Strength values for the search. Legal-play categories keep their category
// number; two-pair is recognized here purely as a comparison shape and ranks
// below a lone high card, and a 5-card hand with no other structure counts as
// its highest single.
const (
	strengthTwoPair  = 0
	strengthHighCard = 1
)

// BestHand is the strongest sub-hand found among a player's remaining cards.
type BestHand struct {
	Cards    []Card
	Strength int
	Rank     Rank
	Suit     Suit
}

// beats reports whether b is strictly stronger than other, comparing
// strength, then decisive rank, then decisive suit.
func (b BestHand) beats(other BestHand) bool {
	if b.Strength != other.Strength {
		return b.Strength > other.Strength
	}
	if b.Rank != other.Rank {
		return b.Rank > other.Rank
	}
	return b.Suit > other.Suit
}

// WeakerThan reports whether b is strictly weaker than other. The player with
// the weakest best hand loses ties at round end.
func (b BestHand) WeakerThan(other BestHand) bool {
	if b.Strength != other.Strength {
		return b.Strength < other.Strength
	}
	if b.Rank != other.Rank {
		return b.Rank < other.Rank
	}
	return b.Suit < other.Suit
}

// FindBestHand exhaustively enumerates 5-card combinations plus same-rank
// quads, trips and pairs, seeded with the best single card as fallback, and
// returns the strongest result. Hands hold at most 17 cards so the
// enumeration stays small.
func FindBestHand(cards []Card) BestHand {
	if len(cards) == 0 {
		return BestHand{}
	}

	top := HighestCard(cards)
	best := BestHand{
		Cards:    []Card{top},
		Strength: strengthHighCard,
		Rank:     top.Rank,
		Suit:     top.Suit,
	}

	if len(cards) >= 5 {
		eachCombination(cards, 5, func(combo []Card) {
			candidate := classifyFive(combo)
			if candidate.beats(best) {
				best = candidate
			}
		})
	}

	for _, size := range []int{4, 3, 2} {
		if len(cards) < size {
			continue
		}
		strength := sameRankStrength(size)
		eachCombination(cards, size, func(combo []Card) {
			if !allSameRank(combo) {
				return
			}
			candidate := BestHand{
				Cards:    append([]Card(nil), combo...),
				Strength: strength,
				Rank:     combo[0].Rank,
				Suit:     maxSuit(combo),
			}
			if candidate.beats(best) {
				best = candidate
			}
		})
	}

	return best
}

func sameRankStrength(size int) int {
	switch size {
	case 4:
		return int(CategoryQuads)
	case 3:
		return int(CategoryTrips)
	default:
		return int(CategoryPair)
	}
}

// classifyFive grades a 5-card combination on the extended strength scale.
func classifyFive(combo []Card) BestHand {
	flush := allSameSuit(combo)
	_, straight := straightHighValue(combo)

	strength := strengthHighCard
	switch {
	case flush && straight:
		strength = int(CategoryStraightFlush)
	case flush:
		strength = int(CategoryFlush)
	case straight:
		strength = int(CategoryStraight)
	default:
		counts := rankCounts(combo)
		switch {
		case hasPattern(counts, 4, 1):
			strength = int(CategoryQuads)
		case hasPattern(counts, 3, 2):
			strength = int(CategoryFullHouse)
		case hasPattern(counts, 3, 1):
			strength = int(CategoryTrips)
		case hasPattern(counts, 2, 2):
			strength = strengthTwoPair
		case hasPattern(counts, 2, 1):
			strength = int(CategoryPair)
		}
	}

	return BestHand{
		Cards:    append([]Card(nil), combo...),
		Strength: strength,
		Rank:     HighestCard(combo).Rank,
		Suit:     decisiveSuit(combo),
	}
}

// eachCombination invokes fn with every k-card combination of cards. The
// slice passed to fn is reused between calls.
func eachCombination(cards []Card, k int, fn func([]Card)) {
	combo := make([]Card, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			fn(combo)
			return
		}
		for i := start; i <= len(cards)-(k-depth); i++ {
			combo[depth] = cards[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
}
