package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// MediaTokenService signs the short-lived access tokens the external
// conferencing layer requires to attach a client to a room's AV channel. The
// negotiation and signaling themselves happen outside this server.
type MediaTokenService struct {
	secret string
	issuer string
	domain string
	ttl    time.Duration
}

const (
	MediaTokenActionLogin = "login"
	MediaTokenActionJoin  = "join"
)

// DefaultMediaTokenTTL keeps tokens valid just long enough to complete a
// channel join.
const DefaultMediaTokenTTL = 90 * time.Second

func NewMediaTokenService(secret, issuer, domain string, ttl time.Duration) *MediaTokenService {
	if ttl <= 0 {
		ttl = DefaultMediaTokenTTL
	}
	return &MediaTokenService{
		secret: secret,
		issuer: issuer,
		domain: domain,
		ttl:    ttl,
	}
}

// GenerateToken issues an HS256 token for the given user and action. Join
// tokens are scoped to one room's channel.
func (s *MediaTokenService) GenerateToken(user, action, roomCode string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("media token service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" || s.domain == "" {
		return "", fmt.Errorf("media token config is incomplete")
	}

	userURI := s.userURI(user)
	targetURI, err := s.targetURI(action, roomCode, userURI)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": time.Now().Add(s.ttl).Unix(),
		"vxa": action,
		"vxi": fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
		"f":   userURI,
		"t":   targetURI,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *MediaTokenService) userURI(user string) string {
	return "sip:." + s.issuer + "." + user + ".@" + s.domain
}

func (s *MediaTokenService) channelURI(roomCode string) string {
	return "sip:confctl-g-" + roomCode + "@" + s.domain
}

func (s *MediaTokenService) targetURI(action, roomCode, userURI string) (string, error) {
	switch action {
	case MediaTokenActionLogin:
		return userURI, nil
	case MediaTokenActionJoin:
		if roomCode == "" {
			return "", fmt.Errorf("room code is required for join tokens")
		}
		return s.channelURI(roomCode), nil
	default:
		return "", fmt.Errorf("unsupported media token action: %s", action)
	}
}
