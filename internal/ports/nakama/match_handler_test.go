package nakama

import (
	"context"
	"encoding/json"
	"testing"

	"bigtwo/internal/app"
	"bigtwo/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type stubPresence struct{ id string }

func (p stubPresence) GetHidden() bool                   { return false }
func (p stubPresence) GetPersistence() bool              { return true }
func (p stubPresence) GetUsername() string               { return p.id }
func (p stubPresence) GetStatus() string                 { return "" }
func (p stubPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonJoin }
func (p stubPresence) GetUserId() string                 { return p.id }
func (p stubPresence) GetSessionId() string              { return p.id + "-sid" }
func (p stubPresence) GetNodeId() string                 { return "node1" }

type stubMatchData struct {
	op     int64
	userID string
	data   []byte
}

func (m stubMatchData) GetUserId() string                 { return m.userID }
func (m stubMatchData) GetHidden() bool                   { return false }
func (m stubMatchData) GetPersistence() bool              { return true }
func (m stubMatchData) GetUsername() string               { return m.userID }
func (m stubMatchData) GetStatus() string                 { return "" }
func (m stubMatchData) GetReason() runtime.PresenceReason { return runtime.PresenceReasonJoin }
func (m stubMatchData) GetOpCode() int64                  { return m.op }
func (m stubMatchData) GetData() []byte                   { return m.data }
func (m stubMatchData) GetReliable() bool                 { return true }
func (m stubMatchData) GetReceiveTime() int64             { return 0 }
func (m stubMatchData) GetSessionId() string              { return m.userID + "-sid" }
func (m stubMatchData) GetNodeId() string                 { return "node1" }

type recordedMessage struct {
	op        int64
	data      []byte
	presences []runtime.Presence
}

// recordingDispatcher records match dispatcher calls for assertions.
type recordingDispatcher struct {
	msgs         []recordedMessage
	labelUpdates int
}

func (d *recordingDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	d.msgs = append(d.msgs, recordedMessage{op: opCode, data: append([]byte(nil), data...), presences: presences})
	return nil
}

func (d *recordingDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return d.BroadcastMessage(opCode, data, presences, sender, reliable)
}

func (d *recordingDispatcher) MatchKick(presences []runtime.Presence) error { return nil }

func (d *recordingDispatcher) MatchLabelUpdate(label string) error {
	d.labelUpdates++
	return nil
}

func (d *recordingDispatcher) reset() { d.msgs = nil }

func (d *recordingDispatcher) opCounts() map[int64]int {
	counts := make(map[int64]int)
	for _, msg := range d.msgs {
		counts[msg.op]++
	}
	return counts
}

func newTestMatch(t *testing.T, roomCode string) (*matchHandler, *MatchState) {
	t.Helper()
	handler := &matchHandler{}
	state, tickRate, label := handler.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{"room": roomCode})
	if state == nil {
		t.Fatal("MatchInit returned nil state")
	}
	if tickRate != 1 {
		t.Fatalf("tick rate = %d, want 1", tickRate)
	}
	if label == "" {
		t.Fatal("MatchInit returned empty label")
	}
	return handler, state.(*MatchState)
}

func joinPlayers(t *testing.T, handler *matchHandler, state *MatchState, dispatcher *recordingDispatcher, ids ...string) {
	t.Helper()
	presences := make([]runtime.Presence, 0, len(ids))
	for _, id := range ids {
		presences = append(presences, stubPresence{id: id})
	}
	result := handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, presences)
	if result == nil {
		t.Fatal("MatchJoin returned nil state")
	}
}

func TestMatchInitLabel(t *testing.T) {
	_, state := newTestMatch(t, "abc")

	label, err := marshalLabel(state)
	if err != nil {
		t.Fatalf("marshalLabel() error: %v", err)
	}

	var payload LabelPayload
	if err := json.Unmarshal([]byte(label), &payload); err != nil {
		t.Fatalf("label is not valid JSON: %v", err)
	}
	if payload.Game != GameName {
		t.Fatalf("label game = %s, want %s", payload.Game, GameName)
	}
	if payload.Room != "abc" {
		t.Fatalf("label room = %s, want abc", payload.Room)
	}
	if payload.Phase != "lobby" {
		t.Fatalf("label phase = %s, want lobby", payload.Phase)
	}
	if payload.Open != state.Capacity {
		t.Fatalf("label open = %d, want %d", payload.Open, state.Capacity)
	}
}

func TestLabelPhaseFollowsRound(t *testing.T) {
	_, state := newTestMatch(t, "abc")
	state.Room.Started = true

	label, err := marshalLabel(state)
	if err != nil {
		t.Fatalf("marshalLabel() error: %v", err)
	}
	var payload LabelPayload
	if err := json.Unmarshal([]byte(label), &payload); err != nil {
		t.Fatalf("label is not valid JSON: %v", err)
	}
	if payload.Phase != "playing" {
		t.Fatalf("label phase = %s, want playing", payload.Phase)
	}
}

func TestMatchJoinAttemptRejectsFullRoom(t *testing.T) {
	handler, state := newTestMatch(t, "abc")
	state.Capacity = 2
	dispatcher := &recordingDispatcher{}
	joinPlayers(t, handler, state, dispatcher, "u1", "u2")

	_, allowed, reason := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, stubPresence{id: "u3"}, nil)
	if allowed {
		t.Fatal("join attempt should be rejected at capacity")
	}
	if reason == "" {
		t.Fatal("rejection should carry a reason")
	}
}

func TestMatchJoinDispatchesRosterAndStatus(t *testing.T) {
	handler, state := newTestMatch(t, "abc")
	dispatcher := &recordingDispatcher{}
	joinPlayers(t, handler, state, dispatcher, "u1")

	counts := dispatcher.opCounts()
	if counts[OpRosterChanged] == 0 {
		t.Fatal("expected roster update on join")
	}
	if counts[OpStatusChanged] == 0 {
		t.Fatal("expected private status message on join")
	}
	if dispatcher.labelUpdates == 0 {
		t.Fatal("expected label update on join")
	}
	if !state.Room.Roster.IsActive("u1") {
		t.Fatal("u1 should hold a seat")
	}
}

func TestMatchLoopReadyFlowStartsRound(t *testing.T) {
	handler, state := newTestMatch(t, "abc")
	dispatcher := &recordingDispatcher{}
	joinPlayers(t, handler, state, dispatcher, "u1", "u2", "u3")
	dispatcher.reset()

	msgs := []runtime.MatchData{
		stubMatchData{op: OpReady, userID: "u1"},
		stubMatchData{op: OpReady, userID: "u2"},
		stubMatchData{op: OpReady, userID: "u3"},
	}
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, msgs)

	if !state.Room.Started {
		t.Fatal("round should start once all three ready up")
	}

	counts := dispatcher.opCounts()
	if counts[OpHandDealt] != 3 {
		t.Fatalf("hand messages = %d, want 3", counts[OpHandDealt])
	}
	if counts[OpDiscardShown] != 1 {
		t.Fatalf("discard messages = %d, want 1", counts[OpDiscardShown])
	}
	if counts[OpTurnChanged] == 0 {
		t.Fatal("expected turn message after deal")
	}
	if dispatcher.labelUpdates == 0 {
		t.Fatal("expected label update once the round starts")
	}

	// Hand messages must be private to their owner.
	for _, msg := range dispatcher.msgs {
		if msg.op != OpHandDealt {
			continue
		}
		if len(msg.presences) != 1 {
			t.Fatalf("hand message targeted %d presences, want 1", len(msg.presences))
		}
		var payload app.HandDealtPayload
		if err := json.Unmarshal(msg.data, &payload); err != nil {
			t.Fatalf("hand payload is not valid JSON: %v", err)
		}
		if payload.UserID != msg.presences[0].GetUserId() {
			t.Fatalf("hand for %s delivered to %s", payload.UserID, msg.presences[0].GetUserId())
		}
		if len(payload.Hand) != 17 {
			t.Fatalf("hand size = %d, want 17", len(payload.Hand))
		}
	}
}

func TestMatchLoopRejectionSendsPrivateError(t *testing.T) {
	handler, state := newTestMatch(t, "abc")
	dispatcher := &recordingDispatcher{}
	joinPlayers(t, handler, state, dispatcher, "u1", "u2", "u3", "u4", "u5")
	dispatcher.reset()

	// u5 is queued and cannot ready up.
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.MatchData{
		stubMatchData{op: OpReady, userID: "u5"},
	})

	var errSeen bool
	for _, msg := range dispatcher.msgs {
		if msg.op != OpError {
			continue
		}
		errSeen = true
		if len(msg.presences) != 1 || msg.presences[0].GetUserId() != "u5" {
			t.Fatalf("error message should target u5, got %v", msg.presences)
		}
		var payload ErrorPayload
		if err := json.Unmarshal(msg.data, &payload); err != nil {
			t.Fatalf("error payload is not valid JSON: %v", err)
		}
		if payload.Message == "" {
			t.Fatal("error payload should carry a message")
		}
	}
	if !errSeen {
		t.Fatal("expected private error for rejected action")
	}
}

func TestMatchLoopPlayAndPass(t *testing.T) {
	handler, state := newTestMatch(t, "abc")
	dispatcher := &recordingDispatcher{}
	joinPlayers(t, handler, state, dispatcher, "u1", "u2", "u3")

	// Put the room in a known mid-round position.
	state.Room.Roster.ActivePlayer("u1").Hand = []domain.Card{
		{Rank: domain.RankTen, Suit: domain.SuitClubs},
		{Rank: domain.RankThree, Suit: domain.SuitHearts},
	}
	state.Room.Roster.ActivePlayer("u2").Hand = []domain.Card{{Rank: domain.RankJack, Suit: domain.SuitClubs}}
	state.Room.Roster.ActivePlayer("u3").Hand = []domain.Card{{Rank: domain.RankQueen, Suit: domain.SuitClubs}}
	state.Room.Started = true
	state.Room.FirstPlayDone = true
	state.Room.TurnUserID = "u1"
	dispatcher.reset()

	playData, _ := json.Marshal(PlayCardsRequest{Cards: []domain.Card{{Rank: domain.RankTen, Suit: domain.SuitClubs}}})
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.MatchData{
		stubMatchData{op: OpPlayCards, userID: "u1", data: playData},
	})

	counts := dispatcher.opCounts()
	if counts[OpTableUpdated] == 0 || counts[OpPlayAccepted] == 0 || counts[OpTurnChanged] == 0 {
		t.Fatalf("missing messages after play: %v", counts)
	}
	if state.Room.TurnUserID != "u2" {
		t.Fatalf("turn = %s, want u2", state.Room.TurnUserID)
	}

	dispatcher.reset()
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.MatchData{
		stubMatchData{op: OpPassTurn, userID: "u2"},
		stubMatchData{op: OpPassTurn, userID: "u3"},
	})

	if state.Room.TurnUserID != "u1" {
		t.Fatalf("turn = %s, want owner u1 after the trick clears", state.Room.TurnUserID)
	}
	if state.Room.LastPlay != nil {
		t.Fatal("table should be empty for the new trick")
	}
}

func TestMatchLeaveTerminatesEmptyRoom(t *testing.T) {
	handler, state := newTestMatch(t, "abc")
	dispatcher := &recordingDispatcher{}
	joinPlayers(t, handler, state, dispatcher, "u1")

	result := handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.Presence{stubPresence{id: "u1"}})
	if result != nil {
		t.Fatal("match should terminate once the last player leaves")
	}
}

func TestDispatchDropsTargetedEventsForGone(t *testing.T) {
	handler, state := newTestMatch(t, "abc")
	dispatcher := &recordingDispatcher{}
	joinPlayers(t, handler, state, dispatcher, "u1")
	dispatcher.reset()

	handler.dispatchEvents(state, dispatcher, noopLogger{}, []app.Event{
		{Kind: app.EventStatusChanged, Payload: app.StatusChangedPayload{UserID: "ghost"}, Recipients: []string{"ghost"}},
	})

	if len(dispatcher.msgs) != 0 {
		t.Fatalf("messages = %d, want 0 for a disconnected recipient", len(dispatcher.msgs))
	}
}
