package domain

import "math/rand"

// DefaultDealRetryLimit bounds the redeal loop for the four-2s rule. The odds
// of hitting it are astronomically small; it only exists to guarantee
// termination.
const DefaultDealRetryLimit = 500

// DealResult holds the hands for one round in seat order, plus the face-up
// discard when three players split a 52-card deck.
type DealResult struct {
	Hands   [][]Card
	Discard *Card
}

// CardsPerPlayer returns the hand size for the given active player count.
func CardsPerPlayer(playerCount int) int {
	if playerCount == 3 {
		return 17
	}
	return 13
}

// Deal shuffles a fresh deck and deals hands for 3 or 4 players. A deal that
// leaves any player holding all four 2s is discarded and retried up to
// retryLimit times, after which it is accepted anyway. Three-player deals
// produce one leftover card, returned as the discard.
func Deal(rng *rand.Rand, playerCount int, retryLimit int) DealResult {
	if retryLimit <= 0 {
		retryLimit = DefaultDealRetryLimit
	}
	perPlayer := CardsPerPlayer(playerCount)

	var hands [][]Card
	var rest []Card
	for tries := 0; ; tries++ {
		deck := NewDeck()
		rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

		hands = hands[:0]
		for i := 0; i < playerCount; i++ {
			hand := append([]Card(nil), deck[i*perPlayer:(i+1)*perPlayer]...)
			SortCards(hand)
			hands = append(hands, hand)
		}
		rest = deck[playerCount*perPlayer:]

		if !anyHandHasAllFourTwos(hands) || tries >= retryLimit {
			break
		}
	}

	result := DealResult{Hands: hands}
	if len(rest) > 0 {
		discard := rest[0]
		result.Discard = &discard
	}
	return result
}

func anyHandHasAllFourTwos(hands [][]Card) bool {
	for _, hand := range hands {
		twos := 0
		for _, c := range hand {
			if c.Rank == RankTwo {
				twos++
			}
		}
		if twos == 4 {
			return true
		}
	}
	return false
}
