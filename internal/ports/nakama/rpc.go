package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"bigtwo/internal/app"
	"bigtwo/internal/config"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

// JoinRoomRequest asks for the match backing a room code. An empty code
// requests a fresh private room.
type JoinRoomRequest struct {
	RoomCode string `json:"room_code"`
}

// JoinRoomResponse carries the match to join.
type JoinRoomResponse struct {
	MatchID  string `json:"match_id"`
	RoomCode string `json:"room_code"`
	IsNew    bool   `json:"is_new"`
}

// MediaTokenRequest asks for a signed AV channel token.
type MediaTokenRequest struct {
	Action   string `json:"action"` // "login" or "join"
	RoomCode string `json:"room_code"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcJoinRoom, rpcJoinRoom); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcMediaToken, rpcMediaToken)
}

// rpcJoinRoom resolves a room code to a joinable match id, creating the match
// when the code is unknown. Seat vs queue assignment happens in MatchJoin
// (server-authoritative).
func rpcJoinRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req JoinRoomRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
		}
	}

	roomCode := req.RoomCode
	if roomCode == "" {
		roomCode = uuid.NewString()
	}

	// Look for an existing room advertising this code with space left.
	limit := 1
	authoritative := true
	query := fmt.Sprintf("+label.game:%s +label.room:%s +label.open:>=1", GameName, roomCode)
	minSize := 0
	maxSize := config.GetRoomCapacity()

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcJoinRoom [User:%s]: Failed to list matches: %v", userID, err)
		return "", err
	}

	if len(matches) > 0 {
		resp := JoinRoomResponse{MatchID: matches[0].MatchId, RoomCode: roomCode}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameBigTwo, map[string]interface{}{"room": roomCode})
	if err != nil {
		logger.Error("rpcJoinRoom [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}

	resp := JoinRoomResponse{MatchID: matchID, RoomCode: roomCode, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

// rpcMediaToken signs a channel access token for the external conferencing
// layer. Credentials come from the runtime environment.
func rpcMediaToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", 16) // UNAUTHENTICATED
	}

	var req MediaTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	issuer := env["media_issuer"]
	secret := env["media_secret"]
	domain := env["media_domain"]
	if issuer == "" || secret == "" || domain == "" {
		issuer = "test-issuer"
		secret = "test-secret"
		domain = "test-domain"
		logger.Warn("Media credentials missing from env, using test defaults.")
	}

	ttl := time.Duration(config.GetMediaTokenTTLSeconds()) * time.Second
	service := app.NewMediaTokenService(secret, issuer, domain, ttl)
	token, err := service.GenerateToken(userID, req.Action, req.RoomCode)
	if err != nil {
		logger.Warn("rpcMediaToken [User:%s]: %v", userID, err)
		return "", runtime.NewError(err.Error(), 3)
	}

	res := map[string]string{"token": token}
	b, _ := json.Marshal(res)
	return string(b), nil
}
