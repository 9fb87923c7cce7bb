package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// newFileHeader builds a real multipart.FileHeader by parsing a generated form
func newFileHeader(t *testing.T, filename, contentType string) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="` + filename + `"`},
		"Content-Type":        {contentType},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write([]byte("content"))
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

// fakeStorage records saved and deleted paths without touching the disk
type fakeStorage struct {
	mu      sync.Mutex
	n       int
	saved   []string
	deleted []string
}

func (f *fakeStorage) SaveFileWithPath(fh *multipart.FileHeader, subPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	rel := fmt.Sprintf("%s/file%d%s", subPath, f.n, strings.ToLower(filepath.Ext(fh.Filename)))
	f.saved = append(f.saved, rel)
	return rel, nil
}

func (f *fakeStorage) DeleteFile(rel string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, rel)
	return nil
}

func (f *fakeStorage) URL(rel string) string { return "http://files/" + rel }

// fakeUserRepo is an in-memory users table
type fakeUserRepo struct {
	users map[int64]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int64]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	u.ID = int64(len(r.users) + 1)
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// fakeProfileRepo keeps profiles with their users
type fakeProfileRepo struct {
	profiles map[int64]*models.Profile
	deleted  []int64
}

func (r *fakeProfileRepo) CreateWithUser(_ context.Context, p *models.Profile) error {
	if r.profiles == nil {
		r.profiles = map[int64]*models.Profile{}
	}
	for _, existing := range r.profiles {
		if existing.User.Username == p.User.Username {
			return apperrors.ErrUsernameTaken
		}
	}
	p.ID = int64(len(r.profiles) + 1)
	p.User.ID = p.ID + 100
	p.UserID = p.User.ID
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) UpdateWithUser(_ context.Context, p *models.Profile) error {
	if _, ok := r.profiles[p.ID]; !ok {
		return apperrors.ErrProfileNotFound
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id int64) (*models.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	cp := *p
	user := *p.User
	cp.User = &user
	return &cp, nil
}

func (r *fakeProfileRepo) List(_ context.Context, _ repositories.ListParams) ([]*models.Profile, error) {
	out := make([]*models.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProfileRepo) Count(context.Context) (int64, error) { return int64(len(r.profiles)), nil }

func (r *fakeProfileRepo) UpdatePicture(_ context.Context, id int64, picture *string) error {
	p, ok := r.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.Picture = picture
	return nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.profiles[id]; !ok {
		return apperrors.ErrProfileNotFound
	}
	delete(r.profiles, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// fakeCourseRepo is an in-memory courses table
type fakeCourseRepo struct {
	courses  map[int64]*models.Course
	lastList repositories.ListParams
}

func (r *fakeCourseRepo) Create(_ context.Context, c *models.Course) error {
	if r.courses == nil {
		r.courses = map[int64]*models.Course{}
	}
	for _, existing := range r.courses {
		if existing.Name == c.Name {
			return apperrors.ErrCourseNameTaken
		}
	}
	c.ID = int64(len(r.courses) + 1)
	r.courses[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCourseRepo) List(_ context.Context, p repositories.ListParams) ([]*models.Course, error) {
	r.lastList = p
	ids := make([]int64, 0, len(r.courses))
	for id := range r.courses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	out := make([]*models.Course, 0)
	for i, id := range ids {
		if uint64(i) < p.Offset || (p.Limit > 0 && uint64(i) >= p.Offset+p.Limit) {
			continue
		}
		out = append(out, r.courses[id])
	}
	return out, nil
}

func (r *fakeCourseRepo) Count(context.Context) (int64, error) { return int64(len(r.courses)), nil }

func (r *fakeCourseRepo) Update(_ context.Context, c *models.Course) error {
	if _, ok := r.courses[c.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	r.courses[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) UpdateTeacherPicture(_ context.Context, id int64, picture *string) error {
	c, ok := r.courses[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	c.TeacherPicture = picture
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

// fakeLessonRepo keeps lessons and one reaction per (lesson, user)
type fakeLessonRepo struct {
	lessons     map[int64]*models.Lesson
	reactions   map[[2]int64]models.ReactionKind
	deleted     []int64
	searchQuery string
}

func newFakeLessonRepo(lessons ...*models.Lesson) *fakeLessonRepo {
	r := &fakeLessonRepo{lessons: map[int64]*models.Lesson{}, reactions: map[[2]int64]models.ReactionKind{}}
	for _, l := range lessons {
		r.lessons[l.ID] = l
	}
	return r
}

func (r *fakeLessonRepo) withReactions(l models.Lesson) *models.Lesson {
	l.Likes, l.Dislikes = []int64{}, []int64{}
	keys := make([][2]int64, 0)
	for key := range r.reactions {
		if key[0] == l.ID {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i][1] < keys[j][1] })
	for _, key := range keys {
		if r.reactions[key] == models.ReactionLike {
			l.Likes = append(l.Likes, key[1])
		} else {
			l.Dislikes = append(l.Dislikes, key[1])
		}
	}
	return &l
}

func (r *fakeLessonRepo) Create(_ context.Context, l *models.Lesson) error {
	l.ID = int64(len(r.lessons) + 1)
	r.lessons[l.ID] = l
	return nil
}

func (r *fakeLessonRepo) GetByID(_ context.Context, id int64) (*models.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, apperrors.ErrLessonNotFound
	}
	return r.withReactions(*l), nil
}

func (r *fakeLessonRepo) List(_ context.Context, _ *int64, _ repositories.ListParams) ([]*models.Lesson, error) {
	out := make([]*models.Lesson, 0)
	for _, l := range r.lessons {
		out = append(out, r.withReactions(*l))
	}
	return out, nil
}

func (r *fakeLessonRepo) Count(context.Context, *int64) (int64, error) { return int64(len(r.lessons)), nil }

func (r *fakeLessonRepo) Update(_ context.Context, l *models.Lesson) error {
	r.lessons[l.ID] = l
	return nil
}

func (r *fakeLessonRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.lessons[id]; !ok {
		return apperrors.ErrLessonNotFound
	}
	delete(r.lessons, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeLessonRepo) Search(_ context.Context, query string) ([]*models.Lesson, error) {
	r.searchQuery = query
	out := make([]*models.Lesson, 0)
	q := strings.ToLower(query)
	for _, l := range r.lessons {
		if strings.Contains(strings.ToLower(l.Topic), q) || strings.Contains(strings.ToLower(l.Description), q) {
			out = append(out, r.withReactions(*l))
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) SetReaction(_ context.Context, lessonID, userID int64, kind models.ReactionKind) error {
	if _, ok := r.lessons[lessonID]; !ok {
		return apperrors.ErrLessonNotFound
	}
	r.reactions[[2]int64{lessonID, userID}] = kind
	return nil
}

// fakeVideoRepo is an in-memory lesson_videos table with canned cascade paths
type fakeVideoRepo struct {
	videos    map[int64]*models.LessonVideo
	paths     map[repositories.VideoScope][]string
	failWrite error
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: map[int64]*models.LessonVideo{}, paths: map[repositories.VideoScope][]string{}}
}

func (r *fakeVideoRepo) Create(_ context.Context, v *models.LessonVideo) error {
	if r.failWrite != nil {
		return r.failWrite
	}
	v.ID = int64(len(r.videos) + 1)
	r.videos[v.ID] = v
	return nil
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id int64) (*models.LessonVideo, error) {
	v, ok := r.videos[id]
	if !ok {
		return nil, apperrors.ErrLessonVideoNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVideoRepo) List(_ context.Context, _ *int64, _ repositories.ListParams) ([]*models.LessonVideo, error) {
	out := make([]*models.LessonVideo, 0)
	for _, v := range r.videos {
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeVideoRepo) Count(context.Context, *int64) (int64, error) { return int64(len(r.videos)), nil }

func (r *fakeVideoRepo) Update(_ context.Context, v *models.LessonVideo) error {
	if r.failWrite != nil {
		return r.failWrite
	}
	r.videos[v.ID] = v
	return nil
}

func (r *fakeVideoRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.videos[id]; !ok {
		return apperrors.ErrLessonVideoNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *fakeVideoRepo) ListPaths(_ context.Context, scope repositories.VideoScope, _ int64) ([]string, error) {
	return append([]string(nil), r.paths[scope]...), nil
}

// fakeCommentRepo is an in-memory comments table
type fakeCommentRepo struct {
	comments map[int64]*models.Comment
	deleted  []int64
}

func (r *fakeCommentRepo) Create(_ context.Context, c *models.Comment) error {
	if r.comments == nil {
		r.comments = map[int64]*models.Comment{}
	}
	c.ID = int64(len(r.comments) + 1)
	c.Author = &models.Author{ID: *c.AuthorID, Username: "user"}
	r.comments[c.ID] = c
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, apperrors.ErrCommentNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) List(context.Context, *int64, repositories.ListParams) ([]*models.Comment, error) {
	return nil, nil
}

func (r *fakeCommentRepo) Count(context.Context, *int64) (int64, error) { return 0, nil }

func (r *fakeCommentRepo) Update(_ context.Context, c *models.Comment) error {
	r.comments[c.ID] = c
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id int64) error {
	delete(r.comments, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// fakeNotificationRepo keeps broadcasts and their deliveries
type fakeNotificationRepo struct {
	emails        []string
	notifications []*models.UserNotification
	deliveries    map[int64][]*models.NotificationDelivery
}

func (r *fakeNotificationRepo) CreateBroadcast(_ context.Context, n *models.UserNotification) ([]string, error) {
	if r.deliveries == nil {
		r.deliveries = map[int64][]*models.NotificationDelivery{}
	}
	n.ID = int64(len(r.notifications) + 1)
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, n)
	for i, email := range r.emails {
		r.deliveries[n.ID] = append(r.deliveries[n.ID], &models.NotificationDelivery{
			ID: int64(i + 1), NotificationID: n.ID, RecipientEmail: email, Status: models.DeliveryPending,
		})
	}
	return append([]string{}, r.emails...), nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id int64) (*models.UserNotification, error) {
	for _, n := range r.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, apperrors.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) List(context.Context, repositories.ListParams) ([]*models.UserNotification, error) {
	out := make([]*models.UserNotification, 0, len(r.notifications))
	for i := len(r.notifications) - 1; i >= 0; i-- {
		out = append(out, r.notifications[i])
	}
	return out, nil
}

func (r *fakeNotificationRepo) Count(context.Context) (int64, error) {
	return int64(len(r.notifications)), nil
}

func (r *fakeNotificationRepo) Stats(_ context.Context, ids []int64) (map[int64]models.DeliveryStats, error) {
	stats := map[int64]models.DeliveryStats{}
	for _, id := range ids {
		var s models.DeliveryStats
		for _, d := range r.deliveries[id] {
			switch d.Status {
			case models.DeliveryPending:
				s.Pending++
			case models.DeliverySent:
				s.Sent++
			case models.DeliveryFailed:
				s.Failed++
			}
		}
		stats[id] = s
	}
	return stats, nil
}

func (r *fakeNotificationRepo) ListDeliveries(ctx context.Context, id int64) ([]*models.NotificationDelivery, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return r.deliveries[id], nil
}

// fakeStartedRepo is an in-memory started courses store
type fakeStartedRepo struct {
	records []*models.StartedCourse
}

func (r *fakeStartedRepo) Create(_ context.Context, s *models.StartedCourse) error {
	s.ID = int64(len(r.records) + 1)
	s.Started = time.Now()
	r.records = append(r.records, s)
	return nil
}

func (r *fakeStartedRepo) ListByStudent(_ context.Context, studentID int64, _ repositories.ListParams) ([]*models.StartedCourse, error) {
	out := make([]*models.StartedCourse, 0)
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].StudentID == studentID {
			out = append(out, r.records[i])
		}
	}
	return out, nil
}

func (r *fakeStartedRepo) CountByStudent(_ context.Context, studentID int64) (int64, error) {
	var n int64
	for _, rec := range r.records {
		if rec.StudentID == studentID {
			n++
		}
	}
	return n, nil
}
