package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
)

func newTestAuthService(t *testing.T, users ...*models.User) (AuthService, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "coursehub"})
	return NewAuthService(newFakeUserRepo(users...), jwtService, zerolog.Nop()), jwtService
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}

func TestLoginIssuesTokenForValidCredentials(t *testing.T) {
	user := &models.User{ID: 3, Username: "alice", Email: "a@example.com", Password: hashed(t, "secret123"), IsStaff: true, IsActive: true}
	svc, jwtService := newTestAuthService(t, user)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token.TokenType != "Bearer" || resp.Token.ExpiresIn != 3600 {
		t.Fatalf("unexpected token metadata: %+v", resp.Token)
	}

	claims, err := jwtService.ValidateAndExtractClaims(resp.Token.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != 3 || claims.Username != "alice" || !claims.IsStaff {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if resp.User.ID != 3 || !resp.User.IsStaff {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	user := &models.User{ID: 1, Username: "bob", Password: hashed(t, "rightpass"), IsActive: true}
	svc, _ := newTestAuthService(t, user)

	for _, req := range []*dto.LoginRequest{
		{Username: "bob", Password: "wrongpass"},
		{Username: "nobody", Password: "rightpass"},
	} {
		if _, err := svc.Login(context.Background(), req); !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("%s: expected invalid credentials, got %v", req.Username, err)
		}
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	user := &models.User{ID: 1, Username: "carol", Password: hashed(t, "rightpass"), IsActive: false}
	svc, _ := newTestAuthService(t, user)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "carol", Password: "rightpass"})
	if !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Fatalf("expected disabled account, got %v", err)
	}
}
