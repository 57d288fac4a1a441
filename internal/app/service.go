package app

import (
	"math/rand"
	"time"

	"bigtwo/internal/domain"
)

// Service contains the room use-cases. Every action validates, mutates one
// room and returns the events the transport layer should deliver; rejections
// come back as errors for the actor only and never disturb the room.
type Service struct {
	rng            *rand.Rand
	stats          *StatsBook
	roomCapacity   int
	dealRetryLimit int
}

// NewService constructs a Service with the provided rng and stats book. A nil
// rng gets a time-seeded default; a nil stats book uses the shared one.
func NewService(rng *rand.Rand, stats *StatsBook, roomCapacity, dealRetryLimit int) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if stats == nil {
		stats = SharedStats()
	}
	if roomCapacity <= 0 {
		roomCapacity = DefaultRoomCapacity
	}
	return &Service{
		rng:            rng,
		stats:          stats,
		roomCapacity:   roomCapacity,
		dealRetryLimit: dealRetryLimit,
	}
}

// DefaultRoomCapacity caps total room membership, seated plus queued.
const DefaultRoomCapacity = 10

// Join admits a player to the room. Mid-round joiners and overflow beyond
// four seats enter the waiting queue.
func (s *Service) Join(room *domain.Room, userID, displayName string) ([]Event, error) {
	if room.Roster.Size() >= s.roomCapacity {
		return nil, domain.ErrRoomFull
	}

	player := &domain.Player{UserID: userID, DisplayName: displayName}
	status := room.Roster.Join(player, room.Started)

	events := []Event{
		{
			Kind: EventStatusChanged,
			Payload: StatusChangedPayload{
				UserID:        userID,
				Status:        status,
				QueuePosition: room.Roster.QueuePosition(userID),
				Stats:         s.stats.Get(displayName),
			},
			Recipients: []string{userID},
		},
		s.rosterEvent(room),
	}
	return events, nil
}

// Ready marks a seated player ready. Once at least three players are seated
// and all of them are ready, the round starts: hands are dealt privately, the
// 3-player discard is revealed, and the holder of the 3 of clubs takes the
// first turn.
func (s *Service) Ready(room *domain.Room, userID string) ([]Event, error) {
	player := room.Roster.ActivePlayer(userID)
	if player == nil {
		return nil, domain.ErrNotActivePlayer
	}
	player.Ready = true

	events := []Event{s.rosterEvent(room)}

	if !room.Started && len(room.Roster.Active) >= domain.MinPlayersToStart && room.Roster.AllActiveReady() {
		startEvents, err := s.startRound(room)
		if err != nil {
			return nil, err
		}
		events = append(events, startEvents...)
	}
	return events, nil
}

func (s *Service) startRound(room *domain.Room) ([]Event, error) {
	if err := room.StartRound(s.rng, s.dealRetryLimit); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(room.Roster.Active)+3)
	for _, p := range room.Roster.Active {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: p.UserID, Hand: p.Hand},
			Recipients: []string{p.UserID},
		})
	}
	if room.Discard != nil {
		events = append(events, Event{
			Kind:    EventDiscardShown,
			Payload: DiscardShownPayload{Card: *room.Discard},
		})
	}
	events = append(events,
		Event{Kind: EventTableUpdated, Payload: TableUpdatedPayload{Trick: []domain.Play{}}},
		s.turnEvent(room),
	)
	return events, nil
}

// PlayCards applies a play action. An accepted play updates the table for
// everyone and acks the actor; a play that empties the hand ends the round.
func (s *Service) PlayCards(room *domain.Room, userID string, cards []domain.Card) ([]Event, error) {
	outcome, err := room.SubmitPlay(userID, cards)
	if err != nil {
		return nil, err
	}

	var events []Event
	if outcome.WasFirstPlay && room.Discard != nil {
		events = append(events, Event{Kind: EventDiscardHidden})
	}
	events = append(events,
		Event{Kind: EventTableUpdated, Payload: TableUpdatedPayload{Trick: room.TrickHistory}},
		Event{
			Kind:       EventPlayAccepted,
			Payload:    PlayAcceptedPayload{Cards: outcome.Play.Cards},
			Recipients: []string{userID},
		},
	)

	if outcome.HandEmptied {
		events = append(events, s.finishRound(room, userID)...)
		return events, nil
	}

	events = append(events, s.turnEvent(room))
	return events, nil
}

// PassTurn applies a pass. When everyone but the last-play owner has passed,
// the table clears and the owner leads again.
func (s *Service) PassTurn(room *domain.Room, userID string) ([]Event, error) {
	outcome, err := room.Pass(userID)
	if err != nil {
		return nil, err
	}

	var events []Event
	if outcome.TrickCleared {
		events = append(events, Event{Kind: EventTableUpdated, Payload: TableUpdatedPayload{Trick: []domain.Play{}}})
	}
	events = append(events, s.turnEvent(room))
	return events, nil
}

// Stats reports process-lifetime stats for a display name to the actor.
func (s *Service) Stats(userID, displayName string) []Event {
	return []Event{{
		Kind:       EventStatsReport,
		Payload:    StatsReportPayload{Name: displayName, Stats: s.stats.Get(displayName)},
		Recipients: []string{userID},
	}}
}

// Leave handles a disconnect. A departing turn holder forfeits the turn to
// the first remaining seated player; a departing last-play owner takes the
// trick with them and the table reopens.
func (s *Service) Leave(room *domain.Room, userID string) []Event {
	_, turnMoved, trickCleared := room.HandleDisconnect(userID)
	if room.Roster.Size() == 0 {
		return nil
	}

	events := []Event{s.rosterEvent(room)}
	if trickCleared {
		events = append(events, Event{Kind: EventTableUpdated, Payload: TableUpdatedPayload{Trick: []domain.Play{}}})
	}
	if turnMoved || trickCleared {
		events = append(events, s.turnEvent(room))
	}
	return events
}

// finishRound runs the round-end path once a play empties the winner's hand:
// stats bookkeeping, loser selection, queue rotation, and the reset that
// forces a fresh ready-up.
func (s *Service) finishRound(room *domain.Room, winnerID string) []Event {
	winner := room.Roster.ActivePlayer(winnerID)
	s.stats.RecordWin(winner.DisplayName)
	for _, p := range room.Roster.Active {
		// The ledger is name-keyed, so anyone sharing the winner's name is
		// already counted by the win above.
		if p.DisplayName != winner.DisplayName {
			s.stats.RecordGame(p.DisplayName)
		}
	}

	loser := room.DetermineLoser(winnerID)

	payload := RoundOverPayload{Winner: winner.DisplayName}
	if loser != nil {
		payload.Loser = loser.DisplayName
	}
	events := []Event{{Kind: EventRoundOver, Payload: payload}}

	if loser != nil {
		wasFour := len(room.Roster.Active) == domain.MaxActivePlayers
		if wasFour {
			// A full table rotates its loser to the back of the queue; a
			// 3-player table keeps everyone and only grows toward 4.
			room.Roster.DemoteLoser(loser.UserID)
		}
		promoted := room.Roster.PromoteUntilFull()

		for _, p := range promoted {
			events = append(events, s.statusEvent(room, p))
		}
		if wasFour && room.Roster.QueuePosition(loser.UserID) > 0 {
			events = append(events, s.statusEvent(room, loser))
		}
		for _, p := range room.Roster.Waiting {
			events = append(events, s.statusEvent(room, p))
		}
	}

	room.EndRound()
	events = append(events, s.rosterEvent(room))
	return events
}

func (s *Service) statusEvent(room *domain.Room, p *domain.Player) Event {
	status := domain.StatusWaiting
	if room.Roster.IsActive(p.UserID) {
		status = domain.StatusActive
	}
	return Event{
		Kind: EventStatusChanged,
		Payload: StatusChangedPayload{
			UserID:        p.UserID,
			Status:        status,
			QueuePosition: room.Roster.QueuePosition(p.UserID),
			Stats:         s.stats.Get(p.DisplayName),
		},
		Recipients: []string{p.UserID},
	}
}

// turnEvent builds the turn update: seated players in play order starting
// with the turn holder, each with stats and cards remaining.
func (s *Service) turnEvent(room *domain.Room) Event {
	active := room.Roster.Active
	start := 0
	for i, p := range active {
		if p.UserID == room.TurnUserID {
			start = i
			break
		}
	}

	seats := make([]SeatInfo, 0, len(active))
	for i := range active {
		p := active[(start+i)%len(active)]
		st := s.stats.Get(p.DisplayName)
		seats = append(seats, SeatInfo{
			UserID:         p.UserID,
			Name:           p.DisplayName,
			Wins:           st.Wins,
			GamesPlayed:    st.GamesPlayed,
			WinPercent:     st.WinPercent(),
			CardsRemaining: len(p.Hand),
		})
	}

	name := ""
	if p := room.Roster.ActivePlayer(room.TurnUserID); p != nil {
		name = p.DisplayName
	}
	return Event{
		Kind: EventTurnChanged,
		Payload: TurnChangedPayload{
			UserID:     room.TurnUserID,
			PlayerName: name,
			Players:    seats,
		},
	}
}

func (s *Service) rosterEvent(room *domain.Room) Event {
	payload := RosterChangedPayload{
		Active:  make([]RosterEntry, 0, len(room.Roster.Active)),
		Waiting: make([]WaitingEntry, 0, len(room.Roster.Waiting)),
	}
	for _, p := range room.Roster.Active {
		payload.Active = append(payload.Active, RosterEntry{
			UserID: p.UserID,
			Name:   p.DisplayName,
			Ready:  p.Ready,
		})
	}
	for i, p := range room.Roster.Waiting {
		payload.Waiting = append(payload.Waiting, WaitingEntry{
			UserID:   p.UserID,
			Name:     p.DisplayName,
			Position: i + 1,
		})
	}
	return Event{Kind: EventRosterChanged, Payload: payload}
}
