package domain

import (
	"fmt"
	"sort"
)

// Rank orders card faces by Big Two strength: 3 is lowest, 2 is highest.
type Rank int

const (
	RankThree Rank = iota
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
	RankTwo
)

// Suit orders suits weakest to strongest. Suits only break ties of equal rank.
type Suit int

const (
	SuitClubs Suit = iota
	SuitSpades
	SuitHearts
	SuitDiamonds
)

var rankNames = [...]string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2"}
var suitNames = [...]string{"C", "S", "H", "D"}

func (r Rank) String() string {
	if r < RankThree || r > RankTwo {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

func (s Suit) String() string {
	if s < SuitClubs || s > SuitDiamonds {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

// Card is a single playing card.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// ThreeOfClubs must be part of the opening play of every round.
var ThreeOfClubs = Card{Rank: RankThree, Suit: SuitClubs}

// NewDeck returns the 52 distinct cards in rank-then-suit order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for r := RankThree; r <= RankTwo; r++ {
		for s := SuitClubs; s <= SuitDiamonds; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// SortCards orders cards by ascending rank, suit breaking ties, in place.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cardPower(cards[i]) < cardPower(cards[j])
	})
}

func cardPower(c Card) int {
	return int(c.Rank)*4 + int(c.Suit)
}

// HighestCard returns the card with the greatest rank, suit breaking ties.
func HighestCard(cards []Card) Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if cardPower(c) > cardPower(best) {
			best = c
		}
	}
	return best
}

// ContainsCard reports whether hand holds the exact card.
func ContainsCard(hand []Card, target Card) bool {
	for _, c := range hand {
		if c == target {
			return true
		}
	}
	return false
}

// RemoveCards removes the specified cards from a hand and returns the updated hand.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}

	removeCounts := make(map[Card]int, len(toRemove))
	for _, card := range toRemove {
		removeCounts[card]++
	}

	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if count, ok := removeCounts[card]; ok && count > 0 {
			removeCounts[card] = count - 1
			continue
		}
		updated = append(updated, card)
	}

	return updated
}
