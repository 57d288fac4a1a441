package domain

// MaxActivePlayers is the table cap; extra joiners queue.
const MaxActivePlayers = 4

// MinPlayersToStart is the smallest table that can begin a round.
const MinPlayersToStart = 3

// PlayerStatus reports whether a player is seated or queued.
type PlayerStatus string

const (
	StatusActive  PlayerStatus = "active"
	StatusWaiting PlayerStatus = "waiting"
)

// Player persists across rounds while connected. Hand is replaced on each
// deal and shrinks only through accepted plays.
type Player struct {
	UserID      string
	DisplayName string
	Hand        []Card
	Ready       bool
}

// Roster maintains the active table (seat order) and the overflow FIFO queue.
type Roster struct {
	Active  []*Player
	Waiting []*Player
}

// Join seats a new player. Mid-round joiners always queue regardless of the
// active count; otherwise the player takes a seat if one of the four is free.
func (r *Roster) Join(p *Player, roundInProgress bool) PlayerStatus {
	if !roundInProgress && len(r.Active) < MaxActivePlayers {
		r.Active = append(r.Active, p)
		return StatusActive
	}
	r.Waiting = append(r.Waiting, p)
	return StatusWaiting
}

// Remove drops the player from whichever list holds them and reports whether
// they were seated.
func (r *Roster) Remove(userID string) (wasActive bool) {
	for i, p := range r.Active {
		if p.UserID == userID {
			r.Active = append(r.Active[:i], r.Active[i+1:]...)
			return true
		}
	}
	for i, p := range r.Waiting {
		if p.UserID == userID {
			r.Waiting = append(r.Waiting[:i], r.Waiting[i+1:]...)
			return false
		}
	}
	return false
}

// ActivePlayer returns the seated player with the given id, or nil.
func (r *Roster) ActivePlayer(userID string) *Player {
	for _, p := range r.Active {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// Player returns any room member with the given id, or nil.
func (r *Roster) Player(userID string) *Player {
	if p := r.ActivePlayer(userID); p != nil {
		return p
	}
	for _, p := range r.Waiting {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// IsActive reports whether the player currently holds a seat.
func (r *Roster) IsActive(userID string) bool {
	return r.ActivePlayer(userID) != nil
}

// QueuePosition returns the 1-based queue slot, or 0 if not queued.
func (r *Roster) QueuePosition(userID string) int {
	for i, p := range r.Waiting {
		if p.UserID == userID {
			return i + 1
		}
	}
	return 0
}

// Size is the total number of connected players in the room.
func (r *Roster) Size() int {
	return len(r.Active) + len(r.Waiting)
}

// PromoteUntilFull moves queued players to the table front-first until four
// are seated or the queue empties, returning the promoted players.
func (r *Roster) PromoteUntilFull() []*Player {
	var promoted []*Player
	for len(r.Active) < MaxActivePlayers && len(r.Waiting) > 0 {
		next := r.Waiting[0]
		r.Waiting = r.Waiting[1:]
		r.Active = append(r.Active, next)
		promoted = append(promoted, next)
	}
	return promoted
}

// DemoteLoser removes the loser from the table and appends them to the back
// of the queue. A 3-player round never calls this; it only grows toward 4.
func (r *Roster) DemoteLoser(userID string) {
	for i, p := range r.Active {
		if p.UserID == userID {
			r.Active = append(r.Active[:i], r.Active[i+1:]...)
			r.Waiting = append(r.Waiting, p)
			return
		}
	}
}

// ClearReady resets every member's ready flag; players must ready up again
// before the next round.
func (r *Roster) ClearReady() {
	for _, p := range r.Active {
		p.Ready = false
	}
	for _, p := range r.Waiting {
		p.Ready = false
	}
}

// AllActiveReady reports whether every seated player is marked ready.
func (r *Roster) AllActiveReady() bool {
	for _, p := range r.Active {
		if !p.Ready {
			return false
		}
	}
	return len(r.Active) > 0
}
