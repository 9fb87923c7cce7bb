package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/dberrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

var lessonColumns = []string{"id", "section_id", "topic", "description", "created_at", "updated_at"}

// LessonRepository handles lessons and their like/dislike reactions
type LessonRepository struct {
	db *pgxpool.Pool
}

// NewLessonRepository creates a new LessonRepository
func NewLessonRepository(db *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{db: db}
}

func scanLesson(row pgx.Row) (*models.Lesson, error) {
	var l models.Lesson
	if err := row.Scan(&l.ID, &l.SectionID, &l.Topic, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		logger.Error().Err(err).Msg("Error scanning lesson")
		return nil, err
	}
	l.Likes = []int64{}
	l.Dislikes = []int64{}
	return &l, nil
}

// escapeLike makes user input match literally inside an ILIKE pattern
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildSearchQuery matches query case-insensitively against topic or description
func buildSearchQuery(query string) squirrel.SelectBuilder {
	pattern := "%" + escapeLike(query) + "%"
	return psql.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Or{
			squirrel.ILike{"topic": pattern},
			squirrel.ILike{"description": pattern},
		}).
		OrderBy("id DESC")
}

// buildReactionUpsert gives (lesson, user) exactly one reaction row holding the latest kind
func buildReactionUpsert(lessonID, userID int64, kind models.ReactionKind) squirrel.InsertBuilder {
	return psql.Insert("lesson_reactions").
		Columns("lesson_id", "user_id", "kind").
		Values(lessonID, userID, string(kind)).
		Suffix("ON CONFLICT (lesson_id, user_id) DO UPDATE SET kind = EXCLUDED.kind WHERE lesson_reactions.kind <> EXCLUDED.kind")
}

func (r *LessonRepository) queryLessons(ctx context.Context, b squirrel.SelectBuilder) ([]*models.Lesson, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building lesson query SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing lesson query")
		return nil, err
	}
	defer rows.Close()

	lessons := make([]*models.Lesson, 0)
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadReactions(ctx, lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// loadReactions fills Likes and Dislikes of every lesson with one query
func (r *LessonRepository) loadReactions(ctx context.Context, lessons []*models.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Lesson, len(lessons))
	ids := make([]int64, 0, len(lessons))
	for _, l := range lessons {
		byID[l.ID] = l
		ids = append(ids, l.ID)
	}

	sqlStr, args, err := psql.Select("lesson_id", "user_id", "kind").
		From("lesson_reactions").
		Where(squirrel.Eq{"lesson_id": ids}).
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading lesson reactions")
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var reaction models.Reaction
		if err := rows.Scan(&reaction.LessonID, &reaction.UserID, &reaction.Kind); err != nil {
			return err
		}
		lesson := byID[reaction.LessonID]
		switch reaction.Kind {
		case models.ReactionLike:
			lesson.Likes = append(lesson.Likes, reaction.UserID)
		case models.ReactionDislike:
			lesson.Dislikes = append(lesson.Dislikes, reaction.UserID)
		}
	}
	return rows.Err()
}

// Create inserts a lesson
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	sqlStr, args, err := psql.Insert("lessons").
		Columns("section_id", "topic", "description").
		Values(lesson.SectionID, lesson.Topic, lesson.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create lesson query")
		return parentMissing(err, "sectionId")
	}
	lesson.Likes = []int64{}
	lesson.Dislikes = []int64{}
	return nil
}

// GetByID retrieves a lesson with its reactions
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	lessons, err := r.queryLessons(ctx, psql.Select(lessonColumns...).From("lessons").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, apperrors.ErrLessonNotFound
	}
	return lessons[0], nil
}

// List returns lessons newest first
func (r *LessonRepository) List(ctx context.Context, sectionID *int64, p ListParams) ([]*models.Lesson, error) {
	b := filterByParent(psql.Select(lessonColumns...).From("lessons"), "section_id", sectionID)
	return r.queryLessons(ctx, p.page(b, "id"))
}

// Count returns the number of lessons
func (r *LessonRepository) Count(ctx context.Context, sectionID *int64) (int64, error) {
	return count(ctx, r.db, filterByParent(psql.Select("COUNT(*)").From("lessons"), "section_id", sectionID))
}

// Update writes every editable column of the lesson
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	sqlStr, args, err := psql.Update("lessons").
		Set("section_id", lesson.SectionID).
		Set("topic", lesson.Topic).
		Set("description", lesson.Description).
		Where(squirrel.Eq{"id": lesson.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&lesson.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrLessonNotFound
		}
		logger.Error().Err(err).Int64("lessonID", lesson.ID).Msg("Error executing update lesson query")
		return parentMissing(err, "sectionId")
	}
	return nil
}

// Delete removes a lesson together with its videos, comments and reactions
func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "lessons", id, apperrors.ErrLessonNotFound)
}

// Search returns every lesson whose topic or description contains query, newest first
func (r *LessonRepository) Search(ctx context.Context, query string) ([]*models.Lesson, error) {
	return r.queryLessons(ctx, buildSearchQuery(query))
}

// SetReaction records kind as the user's only reaction to the lesson
func (r *LessonRepository) SetReaction(ctx context.Context, lessonID, userID int64, kind models.ReactionKind) error {
	sqlStr, args, err := buildReactionUpsert(lessonID, userID, kind).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			if dberrors.ConstraintName(err) == "lesson_reactions_user_id_fkey" {
				return apperrors.ErrUserNotFound
			}
			return apperrors.ErrLessonNotFound
		}
		logger.Error().Err(err).Int64("lessonID", lessonID).Int64("userID", userID).Msg("Error saving lesson reaction")
		return err
	}
	return nil
}
