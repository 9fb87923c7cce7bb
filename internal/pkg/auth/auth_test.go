package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "coursehub.test"})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, expiresIn, err := svc.GenerateAccessToken(Subject{UserID: 42, Username: "alice", IsStaff: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if expiresIn != 3600 {
		t.Fatalf("expiresIn: got %d", expiresIn)
	}

	claims, err := svc.ValidateAndExtractClaims(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || !claims.IsStaff {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestExpiredToken(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.GenerateAccessToken(Subject{UserID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ValidateAndExtractClaims(token); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "coursehub.test"})
	token, _, err := other.GenerateAccessToken(Subject{UserID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := newTestService().ValidateAndExtractClaims(token); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]struct {
		header  string
		want    string
		wantErr bool
	}{
		"bearer":       {header: "Bearer abc", want: "abc"},
		"lowercase":    {header: "bearer abc", want: "abc"},
		"raw token":    {header: "abc", want: "abc"},
		"empty":        {header: "", wantErr: true},
		"other scheme": {header: "Basic abc", wantErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ExtractBearerToken(tc.header)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("got %q, %v", got, err)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := hashPasswordWithCost("secret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret" {
		t.Fatal("hash must differ from raw password")
	}
	if !CheckPassword(hash, "secret") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password must not match")
	}
}
