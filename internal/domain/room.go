package domain

import "math/rand"

// Play is an accepted play in the current trick.
type Play struct {
	UserID     string         `json:"user_id"`
	PlayerName string         `json:"player_name"`
	Cards      []Card         `json:"cards"`
	Eval       HandEvaluation `json:"eval"`
}

// Room is the unit of isolation: one table, its queue, and the full trick and
// round state. All mutation happens through one action at a time, so the room
// itself carries no locking.
type Room struct {
	ID     string
	Roster Roster

	Discard *Card // 3-player rounds only; hidden after the first play

	TurnUserID    string
	LastPlay      *Play
	PassedSince   map[string]bool
	TrickHistory  []Play
	Started       bool
	FirstPlayDone bool
}

// NewRoom creates an empty room.
func NewRoom(id string) *Room {
	return &Room{
		ID:          id,
		PassedSince: make(map[string]bool),
	}
}

// StartRound deals a fresh round to the seated players. The holder of the 3
// of clubs leads; a 3-player deal leaves one face-up discard.
func (rm *Room) StartRound(rng *rand.Rand, retryLimit int) error {
	if rm.Started {
		return ErrRoundInProgress
	}
	if len(rm.Roster.Active) < MinPlayersToStart {
		return ErrNotEnoughPlayers
	}

	deal := Deal(rng, len(rm.Roster.Active), retryLimit)
	for i, p := range rm.Roster.Active {
		p.Hand = deal.Hands[i]
	}
	rm.Discard = deal.Discard

	rm.Started = true
	rm.FirstPlayDone = false
	rm.LastPlay = nil
	rm.TrickHistory = nil
	rm.PassedSince = make(map[string]bool)

	rm.TurnUserID = rm.Roster.Active[0].UserID
	for _, p := range rm.Roster.Active {
		if ContainsCard(p.Hand, ThreeOfClubs) {
			rm.TurnUserID = p.UserID
			break
		}
	}
	return nil
}

// PlayOutcome describes an accepted play.
type PlayOutcome struct {
	Play         Play
	WasFirstPlay bool
	HandEmptied  bool
}

// SubmitPlay validates and applies a play by the acting player. On success
// the cards leave the player's hand, the trick history grows, passes reset,
// and the turn advances unless the hand emptied (the round-end path runs
// instead of a turn change).
func (rm *Room) SubmitPlay(userID string, cards []Card) (PlayOutcome, error) {
	if !rm.Started {
		return PlayOutcome{}, ErrRoundNotStarted
	}
	if rm.TurnUserID != userID {
		return PlayOutcome{}, ErrNotYourTurn
	}
	player := rm.Roster.ActivePlayer(userID)
	if player == nil {
		return PlayOutcome{}, ErrNotActivePlayer
	}
	for _, c := range cards {
		if !ContainsCard(player.Hand, c) {
			return PlayOutcome{}, ErrCardNotInHand
		}
	}

	eval, err := Evaluate(cards)
	if err != nil {
		return PlayOutcome{}, err
	}

	if !rm.FirstPlayDone && !ContainsCard(cards, ThreeOfClubs) {
		return PlayOutcome{}, ErrMustOpenWithThreeC
	}

	if rm.LastPlay != nil {
		if len(cards) != len(rm.LastPlay.Cards) {
			return PlayOutcome{}, ErrMustMatchCount
		}
		if Compare(eval, rm.LastPlay.Eval) <= 0 {
			return PlayOutcome{}, ErrDoesNotBeatPrevious
		}
	}

	player.Hand = RemoveCards(player.Hand, cards)

	wasFirst := !rm.FirstPlayDone
	rm.FirstPlayDone = true

	play := Play{
		UserID:     userID,
		PlayerName: player.DisplayName,
		Cards:      append([]Card(nil), cards...),
		Eval:       eval,
	}
	rm.LastPlay = &play
	rm.TrickHistory = append(rm.TrickHistory, play)
	rm.PassedSince = make(map[string]bool)

	outcome := PlayOutcome{
		Play:         play,
		WasFirstPlay: wasFirst,
		HandEmptied:  len(player.Hand) == 0,
	}
	if !outcome.HandEmptied {
		rm.advanceTurnFrom(userID)
	}
	return outcome, nil
}

// PassOutcome describes the result of a pass.
type PassOutcome struct {
	TrickCleared bool
}

// Pass records a pass by the acting player. Once everyone but the last-play
// owner has passed, the trick clears and the owner leads the next one; the
// owner never needs to pass explicitly.
func (rm *Room) Pass(userID string) (PassOutcome, error) {
	if !rm.Started {
		return PassOutcome{}, ErrRoundNotStarted
	}
	if rm.TurnUserID != userID {
		return PassOutcome{}, ErrNotYourTurn
	}
	if rm.LastPlay == nil {
		return PassOutcome{}, ErrCannotPassEmptyTable
	}

	rm.PassedSince[userID] = true

	passes := 0
	for _, p := range rm.Roster.Active {
		if p.UserID != rm.LastPlay.UserID && rm.PassedSince[p.UserID] {
			passes++
		}
	}
	if passes >= len(rm.Roster.Active)-1 {
		owner := rm.LastPlay.UserID
		rm.LastPlay = nil
		rm.TrickHistory = nil
		rm.PassedSince = make(map[string]bool)
		rm.TurnUserID = owner
		return PassOutcome{TrickCleared: true}, nil
	}

	rm.advanceTurnFrom(userID)
	return PassOutcome{}, nil
}

// advanceTurnFrom hands the turn to the next seated player in cyclic order.
func (rm *Room) advanceTurnFrom(userID string) {
	active := rm.Roster.Active
	for i, p := range active {
		if p.UserID == userID {
			rm.TurnUserID = active[(i+1)%len(active)].UserID
			return
		}
	}
}

// DetermineLoser picks the loser once winnerID has emptied their hand: the
// seated player with the most remaining cards, count ties broken by the
// structurally weakest best sub-hand. Nil when nobody else holds cards.
func (rm *Room) DetermineLoser(winnerID string) *Player {
	var candidates []*Player
	most := 0
	for _, p := range rm.Roster.Active {
		if p.UserID == winnerID || len(p.Hand) == 0 {
			continue
		}
		if len(p.Hand) > most {
			most = len(p.Hand)
			candidates = candidates[:0]
		}
		if len(p.Hand) == most {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	loser := candidates[0]
	loserBest := FindBestHand(loser.Hand)
	for _, p := range candidates[1:] {
		best := FindBestHand(p.Hand)
		if best.WeakerThan(loserBest) {
			loser = p
			loserBest = best
		}
	}
	return loser
}

// EndRound clears all per-round state. Ready flags reset too, so the table
// must ready up again before the next deal.
func (rm *Room) EndRound() {
	rm.Started = false
	rm.FirstPlayDone = false
	rm.LastPlay = nil
	rm.TrickHistory = nil
	rm.PassedSince = make(map[string]bool)
	rm.Discard = nil
	rm.TurnUserID = ""
	for _, p := range rm.Roster.Active {
		p.Hand = nil
	}
	rm.Roster.ClearReady()
}

// HandleDisconnect removes a player and repairs any state that referenced
// them. A departing turn holder forfeits the turn to the first remaining
// seated player so it never dangles. A departing last-play owner takes the
// trick with them: the table clears and the current turn holder leads open,
// since the clear-on-passes path would otherwise hand the turn back to a
// player who is gone.
func (rm *Room) HandleDisconnect(userID string) (wasActive, turnMoved, trickCleared bool) {
	hadTurn := rm.Started && rm.TurnUserID == userID
	ownedTrick := rm.Started && rm.LastPlay != nil && rm.LastPlay.UserID == userID
	wasActive = rm.Roster.Remove(userID)
	delete(rm.PassedSince, userID)

	if ownedTrick {
		rm.LastPlay = nil
		rm.TrickHistory = nil
		rm.PassedSince = make(map[string]bool)
		trickCleared = true
	}
	if hadTurn && len(rm.Roster.Active) > 0 {
		rm.TurnUserID = rm.Roster.Active[0].UserID
		turnMoved = true
	}
	return wasActive, turnMoved, trickCleared
}
