package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

var lessonVideoColumns = []string{"id", "lesson_id", "video_content", "created_at", "updated_at"}

// LessonVideoRepository handles database operations for lesson videos
type LessonVideoRepository struct {
	db *pgxpool.Pool
}

// NewLessonVideoRepository creates a new LessonVideoRepository
func NewLessonVideoRepository(db *pgxpool.Pool) *LessonVideoRepository {
	return &LessonVideoRepository{db: db}
}

func scanLessonVideo(row pgx.Row) (*models.LessonVideo, error) {
	var v models.LessonVideo
	if err := row.Scan(&v.ID, &v.LessonID, &v.VideoContent, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonVideoNotFound
		}
		logger.Error().Err(err).Msg("Error scanning lesson video")
		return nil, err
	}
	return &v, nil
}

// Create inserts a lesson video
func (r *LessonVideoRepository) Create(ctx context.Context, video *models.LessonVideo) error {
	sqlStr, args, err := psql.Insert("lesson_videos").
		Columns("lesson_id", "video_content").
		Values(video.LessonID, video.VideoContent).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&video.ID, &video.CreatedAt, &video.UpdatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create lesson video query")
		return parentMissing(err, "lessonId")
	}
	return nil
}

// GetByID retrieves a lesson video by ID
func (r *LessonVideoRepository) GetByID(ctx context.Context, id int64) (*models.LessonVideo, error) {
	sqlStr, args, err := psql.Select(lessonVideoColumns...).From("lesson_videos").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanLessonVideo(r.db.QueryRow(ctx, sqlStr, args...))
}

// List returns lesson videos newest first
func (r *LessonVideoRepository) List(ctx context.Context, lessonID *int64, p ListParams) ([]*models.LessonVideo, error) {
	b := filterByParent(psql.Select(lessonVideoColumns...).From("lesson_videos"), "lesson_id", lessonID)
	sqlStr, args, err := p.page(b, "id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list lesson videos query")
		return nil, err
	}
	defer rows.Close()

	videos := make([]*models.LessonVideo, 0)
	for rows.Next() {
		video, err := scanLessonVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

// Count returns the number of lesson videos
func (r *LessonVideoRepository) Count(ctx context.Context, lessonID *int64) (int64, error) {
	return count(ctx, r.db, filterByParent(psql.Select("COUNT(*)").From("lesson_videos"), "lesson_id", lessonID))
}

// Update writes the lesson and file reference of a video
func (r *LessonVideoRepository) Update(ctx context.Context, video *models.LessonVideo) error {
	sqlStr, args, err := psql.Update("lesson_videos").
		Set("lesson_id", video.LessonID).
		Set("video_content", video.VideoContent).
		Where(squirrel.Eq{"id": video.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&video.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrLessonVideoNotFound
		}
		logger.Error().Err(err).Int64("videoID", video.ID).Msg("Error executing update lesson video query")
		return parentMissing(err, "lessonId")
	}
	return nil
}

// Delete removes a lesson video row
func (r *LessonVideoRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "lesson_videos", id, apperrors.ErrLessonVideoNotFound)
}

// VideoScope names the ancestor a video path lookup is keyed on
type VideoScope int

const (
	ScopeLesson VideoScope = iota
	ScopeSection
	ScopeCourse
)

// buildVideoPathsQuery selects the stored files below one lesson, section or course
func buildVideoPathsQuery(scope VideoScope, id int64) squirrel.SelectBuilder {
	b := psql.Select("v.video_content").From("lesson_videos v")
	switch scope {
	case ScopeSection:
		b = b.Join("lessons l ON l.id = v.lesson_id").Where(squirrel.Eq{"l.section_id": id})
	case ScopeCourse:
		b = b.Join("lessons l ON l.id = v.lesson_id").
			Join("sections s ON s.id = l.section_id").
			Where(squirrel.Eq{"s.course_id": id})
	default:
		b = b.Where(squirrel.Eq{"v.lesson_id": id})
	}
	return b
}

// ListPaths returns the stored file paths that a cascade delete of the scope would orphan
func (r *LessonVideoRepository) ListPaths(ctx context.Context, scope VideoScope, id int64) ([]string, error) {
	sqlStr, args, err := buildVideoPathsQuery(scope, id).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing lesson video paths")
		return nil, err
	}
	defer rows.Close()

	paths := make([]string, 0)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}
