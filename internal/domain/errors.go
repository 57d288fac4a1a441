package domain

import "errors"

// Rejection reasons reported back to the acting player. None of these are
// fatal to the room.
var (
	ErrNotYourTurn          = errors.New("not your turn")
	ErrRoundNotStarted      = errors.New("round has not started")
	ErrCardNotInHand        = errors.New("played a card you do not hold")
	ErrInvalidCardCount     = errors.New("you can only play 1, 2, 3, or 5 cards")
	ErrNotAPair             = errors.New("2-card hands must be a pair")
	ErrNotATriple           = errors.New("3-card hands must be three of a kind")
	ErrTwoPairNotAllowed    = errors.New("two-pair is not allowed")
	ErrIllegalFiveCardShape = errors.New("only straight, flush, full house, quads, or straight flush are allowed as 5-card hands")
	ErrMustOpenWithThreeC   = errors.New("first play must include the 3 of clubs")
	ErrMustMatchCount       = errors.New("must play the same number of cards as the previous hand")
	ErrDoesNotBeatPrevious  = errors.New("hand does not beat the previous hand")
	ErrCannotPassEmptyTable = errors.New("cannot pass when there is no hand on the table")
	ErrRoomFull             = errors.New("room is full")
	ErrNotActivePlayer      = errors.New("only active players can do that")
	ErrNotEnoughPlayers     = errors.New("need at least 3 players to start")
	ErrUnknownPlayer        = errors.New("player not found")
	ErrRoundInProgress      = errors.New("round already in progress")
)
