package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func TestReactKeepsOneReactionPerUser(t *testing.T) {
	repo := newFakeLessonRepo(&models.Lesson{ID: 1, SectionID: 1, Topic: "Goroutines"})
	svc := NewLessonService(repo, newFakeVideoRepo(), &fakeStorage{})
	ctx := context.Background()

	for _, kind := range []models.ReactionKind{models.ReactionLike, models.ReactionLike, models.ReactionDislike} {
		if _, err := svc.React(ctx, 1, 7, kind); err != nil {
			t.Fatalf("react %s: %v", kind, err)
		}
	}

	lesson, err := svc.GetLesson(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if lesson.TotalLikes != 0 || lesson.TotalDislikes != 1 || lesson.Dislikes[0] != 7 {
		t.Fatalf("expected exactly one dislike by user 7, got %+v", lesson)
	}
	if len(repo.reactions) != 1 {
		t.Fatalf("expected one reaction row, got %d", len(repo.reactions))
	}
}

func TestReactReturnsUpdatedCounts(t *testing.T) {
	repo := newFakeLessonRepo(&models.Lesson{ID: 2, Topic: "Channels"})
	svc := NewLessonService(repo, newFakeVideoRepo(), &fakeStorage{})

	if _, err := svc.React(context.Background(), 2, 1, models.ReactionLike); err != nil {
		t.Fatal(err)
	}
	resp, err := svc.React(context.Background(), 2, 2, models.ReactionLike)
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalLikes != 2 || len(resp.Likes) != 2 || resp.TotalDislikes != 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestReactOnMissingLesson(t *testing.T) {
	svc := NewLessonService(newFakeLessonRepo(), newFakeVideoRepo(), &fakeStorage{})
	if _, err := svc.React(context.Background(), 99, 1, models.ReactionLike); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func newSearchFixture() (LessonService, *fakeLessonRepo) {
	repo := newFakeLessonRepo(
		&models.Lesson{ID: 1, Topic: "Intro to Go"},
		&models.Lesson{ID: 2, Topic: "Rust", Description: "nothing about go here"},
		&models.Lesson{ID: 3, Topic: "Python"},
	)
	return NewLessonService(repo, newFakeVideoRepo(), &fakeStorage{}), repo
}

func TestSearchMatchesTopicOrDescription(t *testing.T) {
	svc, _ := newSearchFixture()
	results, err := svc.Search(context.Background(), "GO")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected topic and description matches, got %d", len(results))
	}
}

func TestSearchKeepsQueryVerbatim(t *testing.T) {
	svc, repo := newSearchFixture()
	results, err := svc.Search(context.Background(), " ")
	if err != nil {
		t.Fatal(err)
	}
	if repo.searchQuery != " " {
		t.Fatalf("query changed on the way to the repository: %q", repo.searchQuery)
	}
	// only lessons containing a space match
	if len(results) != 2 {
		t.Fatalf("expected 2 lessons containing a space, got %d", len(results))
	}

	results, err = svc.Search(context.Background(), "go ")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != 2 {
		t.Fatalf("expected only the description match, got %+v", results)
	}
}

func TestSearchEmptyQueryReturnsEveryLesson(t *testing.T) {
	svc, _ := newSearchFixture()
	results, err := svc.Search(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected all lessons, got %d", len(results))
	}
}

func TestSearchWithoutMatchesIsEmpty(t *testing.T) {
	svc, _ := newSearchFixture()
	results, err := svc.Search(context.Background(), "haskell")
	if err != nil {
		t.Fatal(err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected an empty list, got %#v", results)
	}
}

func TestDeleteLessonRemovesVideoFiles(t *testing.T) {
	repo := newFakeLessonRepo(&models.Lesson{ID: 4})
	videos := newFakeVideoRepo()
	videos.paths[repositories.ScopeLesson] = []string{"lesson-videos/a.mp4", "lesson-videos/b.mkv"}
	storage := &fakeStorage{}
	svc := NewLessonService(repo, videos, storage)

	if err := svc.DeleteLesson(context.Background(), 4); err != nil {
		t.Fatal(err)
	}
	if len(storage.deleted) != 2 {
		t.Fatalf("expected both videos removed, got %v", storage.deleted)
	}
}
