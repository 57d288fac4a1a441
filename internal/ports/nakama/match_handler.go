package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	"bigtwo/internal/app"
	"bigtwo/internal/config"
	"bigtwo/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for one room.
type MatchState struct {
	Room      *domain.Room                `json:"-"`
	Presences map[string]runtime.Presence `json:"-"` // userID -> presence for targeted messaging
	App       *app.Service                `json:"-"`
	Capacity  int                         `json:"capacity"`
	RoomCode  string                      `json:"room_code"`
}

type matchHandler struct{}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

// MatchInit is called when the match is created. Params carry the room code
// assigned by the join_room RPC.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	roomCode := ""
	if val, ok := params["room"].(string); ok {
		roomCode = val
	}

	capacity := config.GetRoomCapacity()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["bigtwo_room_capacity"]; ok {
			if i, err := strconv.Atoi(val); err == nil && i > 0 {
				capacity = i
			}
		}
	}

	state := &MatchState{
		Room:      domain.NewRoom(roomCode),
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil, app.SharedStats(), capacity, config.GetDealRetryLimit()),
		Capacity:  capacity,
		RoomCode:  roomCode,
	}

	label, err := marshalLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.Room.Roster.Size() >= matchState.Capacity {
		return matchState, false, domain.ErrRoomFull.Error()
	}
	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		events, err := matchState.App.Join(matchState.Room, p.GetUserId(), p.GetUsername())
		if err != nil {
			logger.Warn("MatchJoin: User %s rejected: %v", p.GetUserId(), err)
			mh.sendError(matchState, dispatcher, logger, p.GetUserId(), err.Error())
			continue
		}
		mh.dispatchEvents(matchState, dispatcher, logger, events)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players disconnect. The room is
// destroyed once the last player leaves.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		events := matchState.App.Leave(matchState.Room, p.GetUserId())
		mh.dispatchEvents(matchState, dispatcher, logger, events)
	}

	if matchState.Room.Roster.Size() == 0 {
		logger.Info("MatchLeave: Last player left, terminating room %s.", matchState.RoomCode)
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	startedBefore := matchState.Room.Started
	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpReady:
			mh.handleReady(matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(matchState, dispatcher, logger, msg)
		case OpGetStats:
			mh.handleGetStats(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}
	if matchState.Room.Started != startedBefore {
		mh.updateLabel(matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) handleReady(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	events, err := state.App.Ready(state.Room, senderID)
	if err != nil {
		logger.Warn("handleReady: User %s failed to ready: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err.Error())
		return
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePlayCards(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var request PlayCardsRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handlePlayCards: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, "invalid play request")
		return
	}

	events, err := state.App.PlayCards(state.Room, senderID, request.Cards)
	if err != nil {
		logger.Warn("handlePlayCards: User %s failed to play %v: %v", senderID, request.Cards, err)
		mh.sendError(state, dispatcher, logger, senderID, err.Error())
		return
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePassTurn(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	events, err := state.App.PassTurn(state.Room, senderID)
	if err != nil {
		logger.Warn("handlePassTurn: User %s failed to pass: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err.Error())
		return
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) handleGetStats(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var request GetStatsRequest
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &request); err != nil {
			mh.sendError(state, dispatcher, logger, senderID, "invalid stats request")
			return
		}
	}
	name := request.Name
	if name == "" {
		if p, ok := state.Presences[senderID]; ok {
			name = p.GetUsername()
		}
	}

	mh.dispatchEvents(state, dispatcher, logger, state.App.Stats(senderID, name))
}

// dispatchEvents converts app events to wire messages and broadcasts them.
// Targeted events whose recipients are no longer connected are dropped rather
// than leaked to the whole room.
func (mh *matchHandler) dispatchEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, data, err := encodeEvent(ev)
		if err != nil {
			logger.Error("dispatchEvents: %v", err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if p, ok := state.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			if len(recipients) == 0 {
				continue
			}
		}

		dispatcher.BroadcastMessage(opCode, data, recipients, nil, true)
	}
}

// sendError reports a rejection privately to the acting player.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, message string) {
	data, err := json.Marshal(ErrorPayload{Message: message})
	if err != nil {
		logger.Error("sendError: Failed to marshal payload: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("sendError: Cannot send error to %s: presence not found", userID)
		return
	}
	dispatcher.BroadcastMessage(OpError, data, []runtime.Presence{presence}, nil, true)
}

func marshalLabel(state *MatchState) (string, error) {
	phase := "lobby"
	if state.Room.Started {
		phase = "playing"
	}
	open := state.Capacity - state.Room.Roster.Size()
	if open < 0 {
		open = 0
	}
	data, err := json.Marshal(LabelPayload{
		Open:  open,
		Game:  GameName,
		Phase: phase,
		Room:  state.RoomCode,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := marshalLabel(state)
	if err != nil {
		logger.Error("updateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("updateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
