package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
)

// accountTable maps user id to its stored staff flag; absent ids are deleted users
type accountTable map[int64]bool

func (a accountTable) AccountStatus(_ context.Context, userID int64) (bool, bool, error) {
	staff, ok := a[userID]
	return ok, staff, nil
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "middleware-secret", AccessTokenExp: time.Hour, TokenIssuer: "coursehub.test"})
}

func bearer(t *testing.T, jwt *auth.JWTService, sub auth.Subject) string {
	t.Helper()
	token, _, err := jwt.GenerateAccessToken(sub)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + token
}

func newRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/public", func(c *gin.Context) { c.Status(http.StatusOK) })
	authed := r.Group("", m.JWTAuth())
	authed.GET("/me", func(c *gin.Context) {
		caller, _ := CurrentCaller(c)
		c.JSON(http.StatusOK, gin.H{"id": caller.UserID, "username": caller.Username})
	})
	authed.GET("/admin", m.StaffRequired(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(r http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	jwt := newJWT()
	r := newRouter(NewAuthMiddleware(jwt, accountTable{7: false}))

	if w := do(r, "/public", ""); w.Code != http.StatusOK {
		t.Fatalf("public route: %d", w.Code)
	}
	if w := do(r, "/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", w.Code)
	}
	if w := do(r, "/me", "Bearer not.a.token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: %d", w.Code)
	}
	if w := do(r, "/me", "Basic abc"); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme: %d", w.Code)
	}

	other := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "coursehub.test"})
	if w := do(r, "/me", bearer(t, other, auth.Subject{UserID: 1, Username: "eve"})); w.Code != http.StatusUnauthorized {
		t.Fatalf("foreign signature: %d", w.Code)
	}

	w := do(r, "/me", bearer(t, jwt, auth.Subject{UserID: 7, Username: "alice"}))
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: %d %s", w.Code, w.Body.String())
	}
	var body struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.ID != 7 || body.Username != "alice" {
		t.Fatalf("caller: %+v %v", body, err)
	}
}

func TestStaffRequired(t *testing.T) {
	jwt := newJWT()
	// user 2 carries a staff claim but was demoted since the token was issued
	r := newRouter(NewAuthMiddleware(jwt, accountTable{1: true, 2: false, 3: false}))

	cases := []struct {
		name string
		sub  auth.Subject
		want int
	}{
		{"staff", auth.Subject{UserID: 1, Username: "admin", IsStaff: true}, http.StatusOK},
		{"demoted", auth.Subject{UserID: 2, Username: "former", IsStaff: true}, http.StatusForbidden},
		{"regular", auth.Subject{UserID: 3, Username: "bob"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		if w := do(r, "/admin", bearer(t, jwt, tc.sub)); w.Code != tc.want {
			t.Errorf("%s: got %d want %d", tc.name, w.Code, tc.want)
		}
	}
	if w := do(r, "/admin", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d", w.Code)
	}
}

func TestJWTAuthRejectsGoneAccounts(t *testing.T) {
	jwt := newJWT()
	// user 4 was deleted or deactivated after the token was issued
	r := newRouter(NewAuthMiddleware(jwt, accountTable{1: false}))

	if w := do(r, "/me", bearer(t, jwt, auth.Subject{UserID: 4, Username: "gone"})); w.Code != http.StatusUnauthorized {
		t.Fatalf("inactive account: got %d", w.Code)
	}
	if w := do(r, "/me", bearer(t, jwt, auth.Subject{UserID: 1, Username: "bob"})); w.Code != http.StatusOK {
		t.Fatalf("active account: got %d", w.Code)
	}
}

func TestHandleAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.ErrLessonNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", apperrors.ErrCourseNotFound), http.StatusNotFound},
		{apperrors.NewForbiddenError("nope"), http.StatusForbidden},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperrors.ErrAccountDisabled, http.StatusUnauthorized},
		{apperrors.NewValidationError("bad", map[string]interface{}{"subject": "required"}), http.StatusBadRequest},
		{fmt.Errorf("%w: .exe", apperrors.ErrUnsupportedFile), http.StatusBadRequest},
		{apperrors.NewBadRequestError("bad"), http.StatusBadRequest},
		{apperrors.ErrUsernameTaken, http.StatusConflict},
		{apperrors.ErrResourceAlreadyExists, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
		HandleAPIError(c, tc.err)
		if w.Code != tc.want {
			t.Errorf("%v: got %d want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestHandleAPIErrorCarriesMessageAndDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/send-mail", nil)

	HandleAPIError(c, apperrors.NewValidationError("subject and message are required", map[string]interface{}{"subject": "This field is required"}))

	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success || resp.Error.Message != "subject and message are required" {
		t.Fatalf("unexpected envelope: %+v", resp.Error)
	}
	details, ok := resp.Error.Details.(map[string]interface{})
	if !ok || details["subject"] != "This field is required" {
		t.Fatalf("details: %#v", resp.Error.Details)
	}
}

func TestHandleAPIErrorHidesInternalMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleAPIError(c, apperrors.NewCustomError(errors.New("pool closed"), "database password is hunter2"))

	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Message != "Internal server error" {
		t.Fatalf("leaked message %q", resp.Error.Message)
	}
}

func TestRateLimiterWithoutRedisAllows(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/login", NewRateLimiter(nil).Limit("login", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		if w := do(r, "/login", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: %d", i, w.Code)
		}
	}
}

func TestRequestIDEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("echoed id %q", got)
	}

	w = do(r, "/x", "")
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}
}
