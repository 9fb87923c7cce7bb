package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/db"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// StartedCourseRepository records the courses students started
type StartedCourseRepository struct {
	db *pgxpool.Pool
}

// NewStartedCourseRepository creates a new StartedCourseRepository
func NewStartedCourseRepository(db *pgxpool.Pool) *StartedCourseRepository {
	return &StartedCourseRepository{db: db}
}

// buildStartLinks inserts one link per course, ignoring repeated ids
func buildStartLinks(startedID int64, courseIDs []int64) squirrel.InsertBuilder {
	b := psql.Insert("user_started_course_courses").Columns("started_course_id", "course_id")
	for _, id := range courseIDs {
		b = b.Values(startedID, id)
	}
	return b.Suffix("ON CONFLICT DO NOTHING")
}

// Create stores the record and its course links in one transaction
func (r *StartedCourseRepository) Create(ctx context.Context, started *models.StartedCourse) error {
	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sqlStr, args, err := psql.Insert("user_started_courses").
			Columns("student_id").
			Values(started.StudentID).
			Suffix("RETURNING id, started").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&started.ID, &started.Started); err != nil {
			logger.Error().Err(err).Int64("studentID", started.StudentID).Msg("Error inserting started course")
			return parentMissing(err, "studentId")
		}

		sqlStr, args, err = buildStartLinks(started.ID, started.CourseIDs).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
			logger.Error().Err(err).Int64("startedCourseID", started.ID).Msg("Error linking started courses")
			return parentMissing(err, "courseIds")
		}
		return nil
	})
}

// ListByStudent returns a student's records newest first with their course ids
func (r *StartedCourseRepository) ListByStudent(ctx context.Context, studentID int64, p ListParams) ([]*models.StartedCourse, error) {
	b := psql.Select("s.id", "s.student_id", "s.started",
		"COALESCE(array_agg(l.course_id ORDER BY l.course_id) FILTER (WHERE l.course_id IS NOT NULL), '{}')").
		From("user_started_courses s").
		LeftJoin("user_started_course_courses l ON l.started_course_id = s.id").
		Where(squirrel.Eq{"s.student_id": studentID}).
		GroupBy("s.id")
	sqlStr, args, err := p.page(b, "s.id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error listing started courses")
		return nil, err
	}
	defer rows.Close()

	records := make([]*models.StartedCourse, 0)
	for rows.Next() {
		var s models.StartedCourse
		if err := rows.Scan(&s.ID, &s.StudentID, &s.Started, &s.CourseIDs); err != nil {
			return nil, err
		}
		records = append(records, &s)
	}
	return records, rows.Err()
}

// CountByStudent returns how many records a student has
func (r *StartedCourseRepository) CountByStudent(ctx context.Context, studentID int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("user_started_courses").Where(squirrel.Eq{"student_id": studentID}))
}
