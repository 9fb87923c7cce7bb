package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

type stubUsers map[int64]*models.User

func (s stubUsers) Create(context.Context, *models.User) error { return nil }

func (s stubUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (s stubUsers) GetByUsername(context.Context, string) (*models.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func TestCanModifyAuthored(t *testing.T) {
	svc := NewAuthorizationService(stubUsers{
		1: {ID: 1, IsActive: true},
		2: {ID: 2, IsStaff: true, IsActive: true},
		3: {ID: 3, IsStaff: true, IsActive: false},
	})
	author := int64(1)

	cases := []struct {
		name     string
		caller   Caller
		authorID *int64
		want     bool
	}{
		{"author", Caller{UserID: 1}, &author, true},
		{"stranger", Caller{UserID: 9}, &author, false},
		{"staff", Caller{UserID: 2, IsStaff: true}, &author, true},
		{"staff on orphaned content", Caller{UserID: 2, IsStaff: true}, nil, true},
		{"author gone, non staff", Caller{UserID: 1}, nil, false},
		{"deactivated staff", Caller{UserID: 3, IsStaff: true}, &author, false},
		{"staff claim for unknown user", Caller{UserID: 9, IsStaff: true}, &author, false},
	}
	for _, tc := range cases {
		got, err := svc.CanModifyAuthored(context.Background(), tc.caller, tc.authorID)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidateAuthoredReturnsForbidden(t *testing.T) {
	svc := NewAuthorizationService(stubUsers{})
	author := int64(1)
	err := svc.ValidateAuthored(context.Background(), Caller{UserID: 2}, &author, "comment")
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if err.Error() != "only the author or a staff user can modify this comment" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestAccountStatus(t *testing.T) {
	svc := NewAuthorizationService(stubUsers{
		1: {ID: 1, IsActive: true},
		2: {ID: 2, IsStaff: true, IsActive: true},
		3: {ID: 3, IsStaff: true, IsActive: false},
	})
	cases := []struct {
		id            int64
		active, staff bool
	}{
		{1, true, false},
		{2, true, true},
		{3, false, false},
		{9, false, false},
	}
	for _, tc := range cases {
		active, staff, err := svc.AccountStatus(context.Background(), tc.id)
		if err != nil {
			t.Fatalf("user %d: %v", tc.id, err)
		}
		if active != tc.active || staff != tc.staff {
			t.Errorf("user %d: got active=%v staff=%v", tc.id, active, staff)
		}
	}
}
