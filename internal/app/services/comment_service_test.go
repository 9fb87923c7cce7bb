package services

import (
	"context"
	"errors"
	"testing"

	appauth "github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func newTestCommentService() (CommentService, *fakeCommentRepo) {
	users := newFakeUserRepo(
		&models.User{ID: 1, Username: "author", IsActive: true},
		&models.User{ID: 2, Username: "other", IsActive: true},
		&models.User{ID: 3, Username: "admin", IsStaff: true, IsActive: true},
	)
	repo := &fakeCommentRepo{}
	return NewCommentService(repo, appauth.NewAuthorizationService(users)), repo
}

func TestCreateCommentUsesCaller(t *testing.T) {
	svc, _ := newTestCommentService()
	resp, err := svc.CreateComment(context.Background(), appauth.Caller{UserID: 1}, &dto.CreateCommentRequest{LessonID: 4, Message: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Author == nil || resp.Author.ID != 1 || resp.LessonID != 4 {
		t.Fatalf("unexpected comment: %+v", resp)
	}
}

func TestUpdateCommentPermissions(t *testing.T) {
	svc, _ := newTestCommentService()
	ctx := context.Background()
	created, err := svc.CreateComment(ctx, appauth.Caller{UserID: 1}, &dto.CreateCommentRequest{LessonID: 1, Message: "first"})
	if err != nil {
		t.Fatal(err)
	}

	msg := "edited"
	if _, err := svc.UpdateComment(ctx, appauth.Caller{UserID: 2}, created.ID, &dto.PatchCommentRequest{Message: &msg}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("other user: expected permission denied, got %v", err)
	}

	// a staff claim on a token is re-checked against the stored user
	if _, err := svc.UpdateComment(ctx, appauth.Caller{UserID: 2, IsStaff: true}, created.ID, &dto.PatchCommentRequest{Message: &msg}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("stale staff claim: expected permission denied, got %v", err)
	}

	resp, err := svc.UpdateComment(ctx, appauth.Caller{UserID: 1}, created.ID, &dto.PatchCommentRequest{Message: &msg})
	if err != nil || resp.Message != "edited" || resp.LessonID != 1 {
		t.Fatalf("author edit: %+v %v", resp, err)
	}

	if err := svc.DeleteComment(ctx, appauth.Caller{UserID: 3, IsStaff: true}, created.ID); err != nil {
		t.Fatalf("staff delete: %v", err)
	}
}

func TestCommentWithoutAuthorIsStaffOnly(t *testing.T) {
	svc, repo := newTestCommentService()
	repo.comments = map[int64]*models.Comment{5: {ID: 5, LessonID: 1, Message: "orphan"}}

	if err := svc.DeleteComment(context.Background(), appauth.Caller{UserID: 1}, 5); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if err := svc.DeleteComment(context.Background(), appauth.Caller{UserID: 3, IsStaff: true}, 5); err != nil {
		t.Fatalf("staff delete: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatalf("expected one delete, got %v", repo.deleted)
	}
}
