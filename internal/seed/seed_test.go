package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
)

type memUsers struct {
	byName map[string]*appModels.User
}

func (m *memUsers) Create(_ context.Context, user *appModels.User) error {
	if _, ok := m.byName[user.Username]; ok {
		return apperrors.ErrUsernameTaken
	}
	user.ID = int64(len(m.byName) + 1)
	m.byName[user.Username] = user
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*appModels.User, error) {
	for _, u := range m.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*appModels.User, error) {
	if u, ok := m.byName[username]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func TestCreateDefaultDataCreatesStaffOnce(t *testing.T) {
	users := &memUsers{byName: map[string]*appModels.User{}}
	admin := Admin{Username: "admin", Email: "admin@example.com", Password: "admin12345"}

	for i := 0; i < 2; i++ {
		if err := CreateDefaultData(context.Background(), users, admin, zerolog.Nop()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if len(users.byName) != 1 {
		t.Fatalf("expected one account, got %d", len(users.byName))
	}
	u := users.byName["admin"]
	if !u.IsStaff || !u.IsActive {
		t.Fatalf("admin flags: %+v", u)
	}
	if u.Password == admin.Password || !auth.CheckPassword(u.Password, admin.Password) {
		t.Fatal("password must be stored hashed")
	}
}

func TestCreateDefaultDataSkipsWithoutUsername(t *testing.T) {
	users := &memUsers{byName: map[string]*appModels.User{}}
	if err := CreateDefaultData(context.Background(), users, Admin{}, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	if len(users.byName) != 0 {
		t.Fatal("nothing should be created")
	}
}

func TestCreateDefaultDataRejectsShortPassword(t *testing.T) {
	users := &memUsers{byName: map[string]*appModels.User{}}
	if err := CreateDefaultData(context.Background(), users, Admin{Username: "admin", Password: "short"}, zerolog.Nop()); err == nil {
		t.Fatal("expected an error for a short password")
	}
}
