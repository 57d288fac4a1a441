package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestMediaTokenServiceGenerateLoginToken(t *testing.T) {
	secret := "test-secret"
	issuer := "issuer"
	domain := "example.com"
	user := "user123"

	svc := NewMediaTokenService(secret, issuer, domain, time.Minute)
	tokenString, err := svc.GenerateToken(user, MediaTokenActionLogin, "")
	if err != nil {
		t.Fatalf("generate login token error: %v", err)
	}

	claims := parseMediaClaims(t, tokenString, secret)
	userURI := fmt.Sprintf("sip:.%s.%s.@%s", issuer, user, domain)

	if got := stringClaim(t, claims, "vxa"); got != MediaTokenActionLogin {
		t.Fatalf("vxa = %s, want %s", got, MediaTokenActionLogin)
	}
	if got := stringClaim(t, claims, "f"); got != userURI {
		t.Fatalf("f = %s, want %s", got, userURI)
	}
	if got := stringClaim(t, claims, "t"); got != userURI {
		t.Fatalf("t = %s, want %s", got, userURI)
	}
	if got := stringClaim(t, claims, "sub"); got != user {
		t.Fatalf("sub = %s, want %s", got, user)
	}
}

func TestMediaTokenServiceGenerateJoinToken(t *testing.T) {
	secret := "test-secret"
	issuer := "issuer"
	domain := "example.com"
	user := "user123"
	roomCode := "room-456"

	svc := NewMediaTokenService(secret, issuer, domain, time.Minute)
	tokenString, err := svc.GenerateToken(user, MediaTokenActionJoin, roomCode)
	if err != nil {
		t.Fatalf("generate join token error: %v", err)
	}

	claims := parseMediaClaims(t, tokenString, secret)
	userURI := fmt.Sprintf("sip:.%s.%s.@%s", issuer, user, domain)
	channelURI := fmt.Sprintf("sip:confctl-g-%s@%s", roomCode, domain)

	if got := stringClaim(t, claims, "vxa"); got != MediaTokenActionJoin {
		t.Fatalf("vxa = %s, want %s", got, MediaTokenActionJoin)
	}
	if got := stringClaim(t, claims, "f"); got != userURI {
		t.Fatalf("f = %s, want %s", got, userURI)
	}
	if got := stringClaim(t, claims, "t"); got != channelURI {
		t.Fatalf("t = %s, want %s", got, channelURI)
	}
}

func TestMediaTokenServiceRejectsUnknownAction(t *testing.T) {
	svc := NewMediaTokenService("secret", "issuer", "example.com", 0)
	if _, err := svc.GenerateToken("user", "unknown", ""); err == nil {
		t.Fatal("expected error for unsupported action")
	}
}

func TestMediaTokenServiceJoinRequiresRoomCode(t *testing.T) {
	svc := NewMediaTokenService("secret", "issuer", "example.com", 0)
	if _, err := svc.GenerateToken("user", MediaTokenActionJoin, ""); err == nil {
		t.Fatal("expected error for empty room code")
	}
}

func TestMediaTokenServiceRequiresConfig(t *testing.T) {
	svc := NewMediaTokenService("", "issuer", "example.com", 0)
	if _, err := svc.GenerateToken("user", MediaTokenActionLogin, ""); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestMediaTokenServiceRequiresUser(t *testing.T) {
	svc := NewMediaTokenService("secret", "issuer", "example.com", 0)
	if _, err := svc.GenerateToken("", MediaTokenActionLogin, ""); err == nil {
		t.Fatal("expected error for empty user")
	}
}

func parseMediaClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	if !token.Valid {
		t.Fatal("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}

func stringClaim(t *testing.T, claims jwt.MapClaims, name string) string {
	t.Helper()
	value, ok := claims[name]
	if !ok {
		t.Fatalf("missing %s claim", name)
	}
	str, ok := value.(string)
	if !ok {
		t.Fatalf("%s claim is not a string", name)
	}
	return str
}
