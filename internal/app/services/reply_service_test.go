package services

import (
	"context"
	"errors"
	"testing"

	appauth "github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// fakeReplyRepo is an in-memory reply_to_comments table
type fakeReplyRepo struct {
	replies map[int64]*models.Reply
}

func (r *fakeReplyRepo) Create(_ context.Context, reply *models.Reply) error {
	if r.replies == nil {
		r.replies = map[int64]*models.Reply{}
	}
	reply.ID = int64(len(r.replies) + 1)
	reply.Author = &models.Author{ID: *reply.AuthorID, Username: "user"}
	r.replies[reply.ID] = reply
	return nil
}

func (r *fakeReplyRepo) GetByID(_ context.Context, id int64) (*models.Reply, error) {
	reply, ok := r.replies[id]
	if !ok {
		return nil, apperrors.ErrReplyNotFound
	}
	cp := *reply
	return &cp, nil
}

func (r *fakeReplyRepo) List(_ context.Context, commentID *int64, _ repositories.ListParams) ([]*models.Reply, error) {
	var out []*models.Reply
	for _, reply := range r.replies {
		if commentID == nil || reply.CommentID == *commentID {
			out = append(out, reply)
		}
	}
	return out, nil
}

func (r *fakeReplyRepo) Count(ctx context.Context, commentID *int64) (int64, error) {
	list, _ := r.List(ctx, commentID, repositories.ListParams{})
	return int64(len(list)), nil
}

func (r *fakeReplyRepo) Update(_ context.Context, reply *models.Reply) error {
	r.replies[reply.ID] = reply
	return nil
}

func (r *fakeReplyRepo) Delete(_ context.Context, id int64) error {
	delete(r.replies, id)
	return nil
}

func newTestReplyService() (ReplyService, *fakeReplyRepo) {
	users := newFakeUserRepo(
		&models.User{ID: 1, Username: "author", IsActive: true},
		&models.User{ID: 2, Username: "other", IsActive: true},
		&models.User{ID: 3, Username: "admin", IsStaff: true, IsActive: true},
	)
	repo := &fakeReplyRepo{}
	return NewReplyService(repo, appauth.NewAuthorizationService(users)), repo
}

func TestReplyLifecycle(t *testing.T) {
	svc, repo := newTestReplyService()
	ctx := context.Background()

	created, err := svc.CreateReply(ctx, appauth.Caller{UserID: 1}, &dto.CreateReplyRequest{CommentID: 9, Message: "thanks"})
	if err != nil {
		t.Fatal(err)
	}
	if created.Author == nil || created.Author.ID != 1 || created.CommentID != 9 {
		t.Fatalf("unexpected reply: %+v", created)
	}

	msg := "edited"
	if _, err := svc.UpdateReply(ctx, appauth.Caller{UserID: 2}, created.ID, &dto.PatchReplyRequest{Message: &msg}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("other user: expected permission denied, got %v", err)
	}
	resp, err := svc.UpdateReply(ctx, appauth.Caller{UserID: 1}, created.ID, &dto.PatchReplyRequest{Message: &msg})
	if err != nil || resp.Message != "edited" || resp.CommentID != 9 {
		t.Fatalf("author edit: %+v %v", resp, err)
	}

	other := int64(10)
	list, err := svc.ListReplies(ctx, &other, 1, 10)
	if err != nil || len(list.Items) != 0 {
		t.Fatalf("filtered list: %+v %v", list, err)
	}

	if err := svc.DeleteReply(ctx, appauth.Caller{UserID: 3, IsStaff: true}, created.ID); err != nil {
		t.Fatalf("staff delete: %v", err)
	}
	if len(repo.replies) != 0 {
		t.Fatalf("reply not deleted: %v", repo.replies)
	}
	if _, err := svc.GetReply(ctx, created.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
