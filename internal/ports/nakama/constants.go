package nakama

const (
	// RpcJoinRoom resolves a room code to a joinable match, creating the
	// match on first use of the code.
	RpcJoinRoom = "join_room"

	// RpcMediaToken issues signed AV channel tokens for the external
	// conferencing layer.
	RpcMediaToken = "media_token"

	// MatchNameBigTwo is the authoritative match handler name registered
	// with Nakama. One match is one room.
	MatchNameBigTwo = "bigtwo_room"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpReady     int64 = 1
	OpPlayCards int64 = 2
	OpPassTurn  int64 = 3
	OpGetStats  int64 = 4

	// Server -> Client events
	OpHandDealt     int64 = 104 // sent privately
	OpTableUpdated  int64 = 105
	OpTurnChanged   int64 = 106
	OpRoundOver     int64 = 107
	OpDiscardShown  int64 = 108
	OpDiscardHidden int64 = 109
	OpPlayAccepted  int64 = 110 // ack to the actor
	OpRosterChanged int64 = 111
	OpStatusChanged int64 = 112 // sent privately
	OpError         int64 = 113 // sent privately
	OpStatsReport   int64 = 114 // sent privately
)
