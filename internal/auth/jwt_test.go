package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTRoundTrip(t *testing.T) {
	id := uuid.New()
	tok, err := GenerateJWT("secret", id, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT("secret", tok)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != id {
		t.Errorf("UserID = %s, want %s", claims.UserID, id)
	}
}

func TestParseJWTRejects(t *testing.T) {
	id := uuid.New()
	good, _ := GenerateJWT("secret", id, time.Hour)
	fallback, _ := GenerateJWT("secret", id, -time.Hour)
	noUser, _ := GenerateJWT("secret", uuid.Nil, time.Hour)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other", good},
		{"garbage", "secret", "not-a-token"},
		{"nil user", "secret", noUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJWT(tt.secret, tt.token); err == nil {
				t.Error("expected error")
			}
		})
	}

	// expiration <= 0 falls back to 24h, so this one is still valid
	if _, err := ParseJWT("secret", fallback); err != nil {
		t.Errorf("default expiry token rejected: %v", err)
	}
}
