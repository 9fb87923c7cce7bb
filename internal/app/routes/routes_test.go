package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/controllers"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// Each fake embeds its interface; only the methods a test drives are implemented.

type fakeLessons struct {
	services.LessonService
	reactions []models.ReactionKind
	reactedBy []int64
}

func (f *fakeLessons) ListLessons(_ context.Context, _ *int64, page, pageSize int) (*dto.LessonListResponse, error) {
	return &dto.LessonListResponse{Items: []dto.LessonResponse{{ID: 1, Topic: "Intro"}}}, nil
}

func (f *fakeLessons) GetLesson(_ context.Context, id int64) (*dto.LessonResponse, error) {
	if id != 1 {
		return nil, apperrors.ErrLessonNotFound
	}
	return &dto.LessonResponse{ID: 1, Topic: "Intro"}, nil
}

func (f *fakeLessons) React(_ context.Context, lessonID, userID int64, kind models.ReactionKind) (*dto.LessonResponse, error) {
	f.reactions = append(f.reactions, kind)
	f.reactedBy = append(f.reactedBy, userID)
	return &dto.LessonResponse{ID: lessonID}, nil
}

type fakeCourses struct {
	services.CourseService
}

func (fakeCourses) ListCourses(context.Context, int, int) (*dto.CourseListResponse, error) {
	return &dto.CourseListResponse{}, nil
}

type fakeProfiles struct {
	services.ProfileService
}

func (fakeProfiles) ListProfiles(context.Context, int, int) (*dto.ProfileListResponse, error) {
	return &dto.ProfileListResponse{}, nil
}

type fakeNotifications struct {
	services.NotificationService
	sent []dto.SendMailRequest
}

func (f *fakeNotifications) Broadcast(_ context.Context, req *dto.SendMailRequest) (*dto.SendMailResponse, error) {
	f.sent = append(f.sent, *req)
	return &dto.SendMailResponse{NotificationID: 7, Recipients: []string{"a@example.com"}}, nil
}

// accountTable maps user id to its stored staff flag; absent ids are deleted users
type accountTable map[int64]bool

func (a accountTable) AccountStatus(_ context.Context, userID int64) (bool, bool, error) {
	staff, ok := a[userID]
	return ok, staff, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type harness struct {
	router        *gin.Engine
	jwt           *auth.JWTService
	lessons       *fakeLessons
	notifications *fakeNotifications
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		t.Fatalf("register validators: %v", err)
	}

	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "routes-secret", AccessTokenExp: time.Hour, TokenIssuer: "coursehub.test"})
	h := &harness{jwt: jwt, lessons: &fakeLessons{}, notifications: &fakeNotifications{}}

	ctrl := Controllers{
		Auth:          controllers.NewAuthController(nil, logger.With("test")),
		Profile:       controllers.NewProfileController(fakeProfiles{}),
		Course:        controllers.NewCourseController(fakeCourses{}),
		Section:       controllers.NewSectionController(nil),
		Lesson:        controllers.NewLessonController(h.lessons),
		LessonVideo:   controllers.NewLessonVideoController(nil),
		Comment:       controllers.NewCommentController(nil),
		Reply:         controllers.NewReplyController(nil),
		Notification:  controllers.NewNotificationController(h.notifications),
		StartedCourse: controllers.NewStartedCourseController(nil),
		Health:        controllers.NewHealthController(okPinger{}),
	}

	h.router = gin.New()
	SetupRouter(h.router, ctrl,
		middleware.NewAuthMiddleware(jwt, accountTable{1: true, 2: false, 3: false, 5: false}),
		middleware.NewRateLimiter(nil),
		RateLimits{LoginPerMinute: 10, MailPerHour: 5},
	)
	return h
}

func (h *harness) token(t *testing.T, userID int64, staff bool) string {
	t.Helper()
	token, _, err := h.jwt.GenerateAccessToken(auth.Subject{UserID: userID, Username: "user", IsStaff: staff})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + token
}

func (h *harness) do(method, path, authorization, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	if w := h.do(http.MethodGet, "/api/v1/health", "", ""); w.Code != http.StatusOK {
		t.Fatalf("health: %d %s", w.Code, w.Body)
	}
}

func TestLessonReadsArePublic(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/v1/lessons", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list lessons: %d", w.Code)
	}
	var resp dto.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || !resp.Success {
		t.Fatalf("envelope: %v %s", err, w.Body)
	}

	if w := h.do(http.MethodGet, "/api/v1/lessons/2", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing lesson: %d", w.Code)
	}
	if w := h.do(http.MethodGet, "/api/v1/lessons/abc", "", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: %d", w.Code)
	}
	if w := h.do(http.MethodGet, "/api/v1/lessons?sectionId=-3", "", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad filter: %d", w.Code)
	}
}

func TestCoursesRequireToken(t *testing.T) {
	h := newHarness(t)
	if w := h.do(http.MethodGet, "/api/v1/courses", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: %d", w.Code)
	}
	if w := h.do(http.MethodGet, "/api/v1/courses", h.token(t, 2, false), ""); w.Code != http.StatusOK {
		t.Fatalf("authenticated: %d", w.Code)
	}
}

func TestCoursePriceOutOfRange(t *testing.T) {
	h := newHarness(t)
	token := h.token(t, 2, false)
	for _, price := range []string{"100000000000000", "49.999", "-1"} {
		w := h.do(http.MethodPost, "/api/v1/courses", token, `{"name":"Go","price":`+price+`}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("price %s: got %d %s", price, w.Code, w.Body)
		}
	}
}

func TestReactionsUseCaller(t *testing.T) {
	h := newHarness(t)
	if w := h.do(http.MethodPost, "/api/v1/lessons/1/like", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous like: %d", w.Code)
	}
	if w := h.do(http.MethodPost, "/api/v1/lessons/1/like", h.token(t, 5, false), ""); w.Code != http.StatusOK {
		t.Fatalf("like: %d %s", w.Code, w.Body)
	}
	if w := h.do(http.MethodPost, "/api/v1/lessons/1/dislike", h.token(t, 5, false), ""); w.Code != http.StatusOK {
		t.Fatalf("dislike: %d", w.Code)
	}
	if len(h.lessons.reactions) != 2 || h.lessons.reactions[0] != models.ReactionLike || h.lessons.reactions[1] != models.ReactionDislike {
		t.Fatalf("reactions: %v", h.lessons.reactions)
	}
	if h.lessons.reactedBy[0] != 5 {
		t.Fatalf("reaction recorded for user %d", h.lessons.reactedBy[0])
	}
}

func TestProfilesAreStaffOnly(t *testing.T) {
	h := newHarness(t)
	if w := h.do(http.MethodGet, "/api/v1/profile", h.token(t, 2, false), ""); w.Code != http.StatusForbidden {
		t.Fatalf("non-staff: %d", w.Code)
	}
	// a staff claim for a user the database no longer marks as staff
	if w := h.do(http.MethodGet, "/api/v1/profile", h.token(t, 3, true), ""); w.Code != http.StatusForbidden {
		t.Fatalf("demoted staff: %d", w.Code)
	}
	if w := h.do(http.MethodGet, "/api/v1/profile", h.token(t, 1, true), ""); w.Code != http.StatusOK {
		t.Fatalf("staff: %d", w.Code)
	}
}

func TestSendMail(t *testing.T) {
	h := newHarness(t)
	admin := h.token(t, 1, true)

	w := h.do(http.MethodPost, "/api/v1/send-mail", admin, `{"subject":"  ","message":"hello"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank subject: %d", w.Code)
	}
	if len(h.notifications.sent) != 0 {
		t.Fatal("invalid request reached the service")
	}

	if w := h.do(http.MethodPost, "/api/v1/send-mail", h.token(t, 2, false), `{"subject":"s","message":"m"}`); w.Code != http.StatusForbidden {
		t.Fatalf("non-staff: %d", w.Code)
	}

	w = h.do(http.MethodPost, "/api/v1/send-mail", admin, `{"subject":"News","message":"hello"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("send: %d %s", w.Code, w.Body)
	}
	if len(h.notifications.sent) != 1 || h.notifications.sent[0].Subject != "News" {
		t.Fatalf("sent: %+v", h.notifications.sent)
	}
}
