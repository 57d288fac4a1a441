package nakama

import (
	"encoding/json"
	"fmt"

	"bigtwo/internal/app"
	"bigtwo/internal/domain"
)

// PlayCardsRequest is the client payload for OpPlayCards.
type PlayCardsRequest struct {
	Cards []domain.Card `json:"cards"`
}

// GetStatsRequest is the client payload for OpGetStats. An empty name means
// the sender's own display name.
type GetStatsRequest struct {
	Name string `json:"name"`
}

// ErrorPayload is sent privately to an actor whose action was rejected.
type ErrorPayload struct {
	Message string `json:"message"`
}

// LabelPayload is the advertised match label, queried by the join_room RPC.
type LabelPayload struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
	Room  string `json:"room"`
}

// GameName identifies this handler's matches in label queries.
const GameName = "bigtwo"

// encodeEvent maps an app event to its wire opcode and JSON envelope.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	var opCode int64
	switch ev.Kind {
	case app.EventHandDealt:
		opCode = OpHandDealt
	case app.EventDiscardShown:
		opCode = OpDiscardShown
	case app.EventDiscardHidden:
		opCode = OpDiscardHidden
	case app.EventTableUpdated:
		opCode = OpTableUpdated
	case app.EventTurnChanged:
		opCode = OpTurnChanged
	case app.EventPlayAccepted:
		opCode = OpPlayAccepted
	case app.EventRoundOver:
		opCode = OpRoundOver
	case app.EventRosterChanged:
		opCode = OpRosterChanged
	case app.EventStatusChanged:
		opCode = OpStatusChanged
	case app.EventStatsReport:
		opCode = OpStatsReport
	default:
		return 0, nil, fmt.Errorf("unknown event kind: %s", ev.Kind)
	}

	if ev.Payload == nil {
		return opCode, nil, nil
	}
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal %s payload: %w", ev.Kind, err)
	}
	return opCode, data, nil
}
