package app

import "bigtwo/internal/domain"

// EventKind identifies emitted room events for transport dispatch.
type EventKind string

const (
	EventHandDealt     EventKind = "hand_dealt"
	EventDiscardShown  EventKind = "discard_shown"
	EventDiscardHidden EventKind = "discard_hidden"
	EventTableUpdated  EventKind = "table_updated"
	EventTurnChanged   EventKind = "turn_changed"
	EventPlayAccepted  EventKind = "play_accepted"
	EventRoundOver     EventKind = "round_over"
	EventRosterChanged EventKind = "roster_changed"
	EventStatusChanged EventKind = "status_changed"
	EventStatsReport   EventKind = "stats_report"
)

// Event is a room event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast to the room
}

type HandDealtPayload struct {
	UserID string        `json:"user_id"`
	Hand   []domain.Card `json:"hand"`
}

type DiscardShownPayload struct {
	Card domain.Card `json:"card"`
}

type TableUpdatedPayload struct {
	Trick []domain.Play `json:"trick"`
}

// SeatInfo describes one seated player for turn updates, ordered starting
// with the turn holder.
type SeatInfo struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Wins           int    `json:"wins"`
	GamesPlayed    int    `json:"games_played"`
	WinPercent     int    `json:"win_percent"`
	CardsRemaining int    `json:"cards_remaining"`
}

type TurnChangedPayload struct {
	UserID     string     `json:"user_id"`
	PlayerName string     `json:"player_name"`
	Players    []SeatInfo `json:"players"`
}

type PlayAcceptedPayload struct {
	Cards []domain.Card `json:"cards"`
}

type RoundOverPayload struct {
	Winner string `json:"winner"`
	Loser  string `json:"loser,omitempty"`
}

// RosterEntry is one room member in a roster update.
type RosterEntry struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
}

// WaitingEntry is one queued player with their recomputed position.
type WaitingEntry struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type RosterChangedPayload struct {
	Active  []RosterEntry  `json:"active"`
	Waiting []WaitingEntry `json:"waiting"`
}

type StatusChangedPayload struct {
	UserID        string              `json:"user_id"`
	Status        domain.PlayerStatus `json:"status"`
	QueuePosition int                 `json:"queue_position"` // 0 when active
	Stats         PlayerStats         `json:"stats"`
}

type StatsReportPayload struct {
	Name  string      `json:"name"`
	Stats PlayerStats `json:"stats"`
}
