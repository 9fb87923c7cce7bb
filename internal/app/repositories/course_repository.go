package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/dberrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

var courseColumns = []string{
	"id", "name", "description", "for_whom", "teacher_fullname", "teacher_picture",
	"about_teacher", "price", "created_at", "updated_at",
}

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.ForWhom, &c.TeacherFullname, &c.TeacherPicture,
		&c.AboutTeacher, &c.Price, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Msg("Error scanning course")
		return nil, err
	}
	return &c, nil
}

func courseWriteError(err error) error {
	if dberrors.IsDuplicateConstraintError(err, dberrors.CoursesNameKey) {
		return apperrors.ErrCourseNameTaken
	}
	if dberrors.IsNumericOverflow(err) {
		return apperrors.NewValidationError("price is out of range",
			map[string]interface{}{"price": "Ensure that there are no more than 15 digits in total"})
	}
	return err
}

// Create inserts a course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sqlStr, args, err := psql.Insert("courses").
		Columns("name", "description", "for_whom", "teacher_fullname", "teacher_picture", "about_teacher", "price").
		Values(course.Name, course.Description, course.ForWhom, course.TeacherFullname, course.TeacherPicture, course.AboutTeacher, course.Price).
		Suffix("RETURNING id, price, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&course.ID, &course.Price, &course.CreatedAt, &course.UpdatedAt); err != nil {
		if mapped := courseWriteError(err); mapped != err {
			return mapped
		}
		logger.Error().Err(err).Msg("Error executing create course query")
		return err
	}
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sqlStr, args, err := psql.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanCourse(r.db.QueryRow(ctx, sqlStr, args...))
}

// List returns courses newest first
func (r *CourseRepository) List(ctx context.Context, p ListParams) ([]*models.Course, error) {
	sqlStr, args, err := p.page(psql.Select(courseColumns...).From("courses"), "id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, err
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// Count returns the number of courses
func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("courses"))
}

// Update writes every editable column of the course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sqlStr, args, err := psql.Update("courses").
		Set("name", course.Name).
		Set("description", course.Description).
		Set("for_whom", course.ForWhom).
		Set("teacher_fullname", course.TeacherFullname).
		Set("about_teacher", course.AboutTeacher).
		Set("price", course.Price).
		Where(squirrel.Eq{"id": course.ID}).
		Suffix("RETURNING price, updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&course.Price, &course.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrCourseNotFound
		}
		if mapped := courseWriteError(err); mapped != err {
			return mapped
		}
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return err
	}
	return nil
}

// UpdateTeacherPicture stores a new relative picture path
func (r *CourseRepository) UpdateTeacherPicture(ctx context.Context, id int64, picture *string) error {
	sqlStr, args, err := psql.Update("courses").Set("teacher_picture", picture).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error updating teacher picture")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course; sections, lessons and their children cascade
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "courses", id, apperrors.ErrCourseNotFound)
}
