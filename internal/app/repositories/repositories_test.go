package repositories

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func TestListParamsPage(t *testing.T) {
	sqlStr, _, err := ListParams{Offset: 20, Limit: 10}.page(psql.Select("id").From("courses"), "id").ToSql()
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT id FROM courses ORDER BY id DESC LIMIT 10 OFFSET 20"
	if sqlStr != want {
		t.Fatalf("got %q want %q", sqlStr, want)
	}

	sqlStr, _, _ = ListParams{}.page(psql.Select("id").From("courses"), "id").ToSql()
	if strings.Contains(sqlStr, "LIMIT") {
		t.Fatalf("zero limit must not page: %q", sqlStr)
	}
}

func TestFilterByParent(t *testing.T) {
	base := psql.Select("id").From("sections")

	sqlStr, args, _ := filterByParent(base, "course_id", nil).ToSql()
	if strings.Contains(sqlStr, "WHERE") || len(args) != 0 {
		t.Fatalf("nil parent must not filter: %q %v", sqlStr, args)
	}

	id := int64(7)
	sqlStr, args, _ = filterByParent(base, "course_id", &id).ToSql()
	if sqlStr != "SELECT id FROM sections WHERE course_id = $1" || len(args) != 1 || args[0] != int64(7) {
		t.Fatalf("got %q %v", sqlStr, args)
	}
}

func TestBuildSearchQueryEscapesWildcards(t *testing.T) {
	sqlStr, args, err := buildSearchQuery(`50%_off\`).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sqlStr, "topic ILIKE $1 OR description ILIKE $2") {
		t.Fatalf("unexpected where clause: %q", sqlStr)
	}
	if !strings.HasSuffix(sqlStr, "ORDER BY id DESC") {
		t.Fatalf("search must be newest first: %q", sqlStr)
	}
	want := `%50\%\_off\\%`
	if len(args) != 2 || args[0] != want || args[1] != want {
		t.Fatalf("got args %v want %q", args, want)
	}
}

func TestBuildSearchQueryEmptyMatchesAll(t *testing.T) {
	_, args, err := buildSearchQuery("").ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if len(args) != 2 || args[0] != "%%" || args[1] != "%%" {
		t.Fatalf("got args %v want %%%%", args)
	}
}

func TestBuildReactionUpsertKeepsOneRow(t *testing.T) {
	sqlStr, args, err := buildReactionUpsert(3, 9, models.ReactionDislike).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sqlStr, "ON CONFLICT (lesson_id, user_id) DO UPDATE SET kind = EXCLUDED.kind") {
		t.Fatalf("missing upsert: %q", sqlStr)
	}
	if len(args) != 3 || args[2] != "DISLIKE" {
		t.Fatalf("got args %v", args)
	}
}

func TestBuildVideoPathsQuery(t *testing.T) {
	cases := []struct {
		scope VideoScope
		want  []string
	}{
		{ScopeLesson, []string{"WHERE v.lesson_id = $1"}},
		{ScopeSection, []string{"JOIN lessons l", "WHERE l.section_id = $1"}},
		{ScopeCourse, []string{"JOIN lessons l", "JOIN sections s", "WHERE s.course_id = $1"}},
	}
	for _, tc := range cases {
		sqlStr, args, err := buildVideoPathsQuery(tc.scope, 5).ToSql()
		if err != nil {
			t.Fatal(err)
		}
		for _, fragment := range tc.want {
			if !strings.Contains(sqlStr, fragment) {
				t.Errorf("scope %d: %q missing %q", tc.scope, sqlStr, fragment)
			}
		}
		if len(args) != 1 || args[0] != int64(5) {
			t.Errorf("scope %d: args %v", tc.scope, args)
		}
	}
}

func TestBuildUserWrites(t *testing.T) {
	user := &models.User{ID: 4, Username: "alice", Email: "a@example.com", Password: "hash", IsActive: true}

	sqlStr, args, err := buildInsertUser(user).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(sqlStr, "INSERT INTO users (username,email,password,is_staff,is_active) VALUES ($1,$2,$3,$4,$5)") {
		t.Fatalf("insert: %q", sqlStr)
	}
	if len(args) != 5 {
		t.Fatalf("insert args: %v", args)
	}

	sqlStr, args, err = buildUpdateUser(user).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if sqlStr != "UPDATE users SET username = $1, email = $2, password = $3 WHERE id = $4" {
		t.Fatalf("update: %q", sqlStr)
	}
	if args[3] != int64(4) {
		t.Fatalf("update args: %v", args)
	}
}

func TestBuildFanOut(t *testing.T) {
	sqlStr, args, err := buildFanOut(12).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	for _, fragment := range []string{
		"INSERT INTO notification_deliveries (notification_id,user_id,recipient_email) SELECT $1::bigint, id, email FROM users",
		"WHERE email <> $2",
		"RETURNING recipient_email",
	} {
		if !strings.Contains(sqlStr, fragment) {
			t.Errorf("%q missing %q", sqlStr, fragment)
		}
	}
	if len(args) != 2 || args[0] != int64(12) || args[1] != "" {
		t.Fatalf("args %v", args)
	}
}

func TestBuildClaimQuery(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	lease := now.Add(time.Minute)

	sqlStr, args, err := buildClaimQuery(now, 25, lease).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	for _, fragment := range []string{
		"UPDATE notification_deliveries d SET next_attempt_at = $1",
		"FROM user_notifications n",
		"status = $2",
		"next_attempt_at <= $3",
		"LIMIT 25 FOR UPDATE SKIP LOCKED",
		"n.subject, n.message",
	} {
		if !strings.Contains(sqlStr, fragment) {
			t.Errorf("%q missing %q", sqlStr, fragment)
		}
	}
	if len(args) != 3 || args[0] != lease || args[2] != now {
		t.Fatalf("args %v", args)
	}
}

func TestBuildStatsQuery(t *testing.T) {
	sqlStr, args, err := buildStatsQuery([]int64{1, 2}).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sqlStr, "notification_id IN ($1,$2)") || !strings.HasSuffix(sqlStr, "GROUP BY notification_id, status") {
		t.Fatalf("got %q", sqlStr)
	}
	if len(args) != 2 {
		t.Fatalf("args %v", args)
	}
}

func TestBuildStartLinks(t *testing.T) {
	sqlStr, args, err := buildStartLinks(8, []int64{1, 2}).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	want := "INSERT INTO user_started_course_courses (started_course_id,course_id) VALUES ($1,$2),($3,$4) ON CONFLICT DO NOTHING"
	if sqlStr != want {
		t.Fatalf("got %q want %q", sqlStr, want)
	}
	if len(args) != 4 || args[0] != int64(8) || args[3] != int64(2) {
		t.Fatalf("args %v", args)
	}
}

func TestCourseWriteError(t *testing.T) {
	if err := courseWriteError(&pgconn.PgError{Code: "22003"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("numeric overflow: got %v", err)
	}
	if err := courseWriteError(&pgconn.PgError{Code: "23505", ConstraintName: "courses_name_key"}); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("duplicate name: got %v", err)
	}
	other := errors.New("boom")
	if err := courseWriteError(other); err != other {
		t.Fatalf("unmapped error changed: %v", err)
	}
}
