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

var sectionColumns = []string{"id", "course_id", "title", "description", "created_at", "updated_at"}

// SectionRepository handles database operations for sections
type SectionRepository struct {
	db *pgxpool.Pool
}

// NewSectionRepository creates a new SectionRepository
func NewSectionRepository(db *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{db: db}
}

func scanSection(row pgx.Row) (*models.Section, error) {
	var s models.Section
	if err := row.Scan(&s.ID, &s.CourseID, &s.Title, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSectionNotFound
		}
		logger.Error().Err(err).Msg("Error scanning section")
		return nil, err
	}
	return &s, nil
}

// filterByParent narrows a query to one parent row when parentID is set
func filterByParent(b squirrel.SelectBuilder, column string, parentID *int64) squirrel.SelectBuilder {
	if parentID == nil {
		return b
	}
	return b.Where(squirrel.Eq{column: *parentID})
}

// parentMissing turns a foreign key violation into a client error naming the parent
func parentMissing(err error, field string) error {
	if dberrors.IsForeignKeyViolation(err) {
		return apperrors.NewBadRequestError("invalid " + field + ": referenced object does not exist")
	}
	return err
}

// Create inserts a section
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	sqlStr, args, err := psql.Insert("sections").
		Columns("course_id", "title", "description").
		Values(section.CourseID, section.Title, section.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&section.ID, &section.CreatedAt, &section.UpdatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create section query")
		return parentMissing(err, "courseId")
	}
	return nil
}

// GetByID retrieves a section by ID
func (r *SectionRepository) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	sqlStr, args, err := psql.Select(sectionColumns...).From("sections").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanSection(r.db.QueryRow(ctx, sqlStr, args...))
}

// List returns sections newest first
func (r *SectionRepository) List(ctx context.Context, courseID *int64, p ListParams) ([]*models.Section, error) {
	b := filterByParent(psql.Select(sectionColumns...).From("sections"), "course_id", courseID)
	sqlStr, args, err := p.page(b, "id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list sections query")
		return nil, err
	}
	defer rows.Close()

	sections := make([]*models.Section, 0)
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

// Count returns the number of sections
func (r *SectionRepository) Count(ctx context.Context, courseID *int64) (int64, error) {
	return count(ctx, r.db, filterByParent(psql.Select("COUNT(*)").From("sections"), "course_id", courseID))
}

// Update writes every editable column of the section
func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	sqlStr, args, err := psql.Update("sections").
		Set("course_id", section.CourseID).
		Set("title", section.Title).
		Set("description", section.Description).
		Where(squirrel.Eq{"id": section.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&section.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrSectionNotFound
		}
		logger.Error().Err(err).Int64("sectionID", section.ID).Msg("Error executing update section query")
		return parentMissing(err, "courseId")
	}
	return nil
}

// Delete removes a section and, by cascade, its lessons
func (r *SectionRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "sections", id, apperrors.ErrSectionNotFound)
}
