package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// selectAuthored joins the author of a comments-like table; the author may be gone
func selectAuthored(table, parentColumn string) squirrel.SelectBuilder {
	return psql.Select(
		"t.id", "t."+parentColumn, "t.message", "t.author_id", "t.created_at", "t.updated_at",
		"u.username", "u.email",
	).From(table + " t").LeftJoin("users u ON u.id = t.author_id")
}

// authoredRow is the shared shape of comment and reply rows
type authoredRow struct {
	id, parentID int64
	message      string
	authorID     *int64
	author       *models.Author
	createdAt    time.Time
	updatedAt    time.Time
}

func scanAuthored(row pgx.Row, notFound error) (*authoredRow, error) {
	var (
		r        authoredRow
		username *string
		email    *string
	)
	if err := row.Scan(&r.id, &r.parentID, &r.message, &r.authorID, &r.createdAt, &r.updatedAt, &username, &email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}
		logger.Error().Err(err).Msg("Error scanning authored row")
		return nil, err
	}
	if r.authorID != nil && username != nil {
		r.author = &models.Author{ID: *r.authorID, Username: *username}
		if email != nil {
			r.author.Email = *email
		}
	}
	return &r, nil
}

// CommentRepository handles database operations for lesson comments
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

func (a *authoredRow) comment() *models.Comment {
	return &models.Comment{
		ID: a.id, LessonID: a.parentID, Message: a.message, AuthorID: a.authorID, Author: a.author,
		CreatedAt: a.createdAt, UpdatedAt: a.updatedAt,
	}
}

// Create inserts a comment written by comment.AuthorID
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	sqlStr, args, err := psql.Insert("comments").
		Columns("lesson_id", "message", "author_id").
		Values(comment.LessonID, comment.Message, comment.AuthorID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&comment.ID); err != nil {
		logger.Error().Err(err).Msg("Error executing create comment query")
		return parentMissing(err, "lessonId")
	}
	return r.reload(ctx, comment)
}

func (r *CommentRepository) reload(ctx context.Context, comment *models.Comment) error {
	fresh, err := r.GetByID(ctx, comment.ID)
	if err != nil {
		return err
	}
	*comment = *fresh
	return nil
}

// GetByID retrieves a comment with its author
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	sqlStr, args, err := selectAuthored("comments", "lesson_id").Where(squirrel.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	row, err := scanAuthored(r.db.QueryRow(ctx, sqlStr, args...), apperrors.ErrCommentNotFound)
	if err != nil {
		return nil, err
	}
	return row.comment(), nil
}

// List returns comments newest first
func (r *CommentRepository) List(ctx context.Context, lessonID *int64, p ListParams) ([]*models.Comment, error) {
	b := filterByParent(selectAuthored("comments", "lesson_id"), "t.lesson_id", lessonID)
	sqlStr, args, err := p.page(b, "t.id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list comments query")
		return nil, err
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		row, err := scanAuthored(rows, apperrors.ErrCommentNotFound)
		if err != nil {
			return nil, err
		}
		comments = append(comments, row.comment())
	}
	return comments, rows.Err()
}

// Count returns the number of comments
func (r *CommentRepository) Count(ctx context.Context, lessonID *int64) (int64, error) {
	return count(ctx, r.db, filterByParent(psql.Select("COUNT(*)").From("comments"), "lesson_id", lessonID))
}

// Update writes lesson and message; the author never changes
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	sqlStr, args, err := psql.Update("comments").
		Set("lesson_id", comment.LessonID).
		Set("message", comment.Message).
		Where(squirrel.Eq{"id": comment.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("commentID", comment.ID).Msg("Error executing update comment query")
		return parentMissing(err, "lessonId")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}
	return r.reload(ctx, comment)
}

// Delete removes a comment and its replies
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "comments", id, apperrors.ErrCommentNotFound)
}

// ReplyRepository handles database operations for replies to comments
type ReplyRepository struct {
	db *pgxpool.Pool
}

// NewReplyRepository creates a new ReplyRepository
func NewReplyRepository(db *pgxpool.Pool) *ReplyRepository {
	return &ReplyRepository{db: db}
}

func (a *authoredRow) reply() *models.Reply {
	return &models.Reply{
		ID: a.id, CommentID: a.parentID, Message: a.message, AuthorID: a.authorID, Author: a.author,
		CreatedAt: a.createdAt, UpdatedAt: a.updatedAt,
	}
}

// Create inserts a reply written by reply.AuthorID
func (r *ReplyRepository) Create(ctx context.Context, reply *models.Reply) error {
	sqlStr, args, err := psql.Insert("reply_to_comments").
		Columns("comment_id", "message", "author_id").
		Values(reply.CommentID, reply.Message, reply.AuthorID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&reply.ID); err != nil {
		logger.Error().Err(err).Msg("Error executing create reply query")
		return parentMissing(err, "commentId")
	}
	return r.reload(ctx, reply)
}

func (r *ReplyRepository) reload(ctx context.Context, reply *models.Reply) error {
	fresh, err := r.GetByID(ctx, reply.ID)
	if err != nil {
		return err
	}
	*reply = *fresh
	return nil
}

// GetByID retrieves a reply with its author
func (r *ReplyRepository) GetByID(ctx context.Context, id int64) (*models.Reply, error) {
	sqlStr, args, err := selectAuthored("reply_to_comments", "comment_id").Where(squirrel.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	row, err := scanAuthored(r.db.QueryRow(ctx, sqlStr, args...), apperrors.ErrReplyNotFound)
	if err != nil {
		return nil, err
	}
	return row.reply(), nil
}

// List returns replies newest first
func (r *ReplyRepository) List(ctx context.Context, commentID *int64, p ListParams) ([]*models.Reply, error) {
	b := filterByParent(selectAuthored("reply_to_comments", "comment_id"), "t.comment_id", commentID)
	sqlStr, args, err := p.page(b, "t.id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list replies query")
		return nil, err
	}
	defer rows.Close()

	replies := make([]*models.Reply, 0)
	for rows.Next() {
		row, err := scanAuthored(rows, apperrors.ErrReplyNotFound)
		if err != nil {
			return nil, err
		}
		replies = append(replies, row.reply())
	}
	return replies, rows.Err()
}

// Count returns the number of replies
func (r *ReplyRepository) Count(ctx context.Context, commentID *int64) (int64, error) {
	return count(ctx, r.db, filterByParent(psql.Select("COUNT(*)").From("reply_to_comments"), "comment_id", commentID))
}

// Update writes comment and message; the author never changes
func (r *ReplyRepository) Update(ctx context.Context, reply *models.Reply) error {
	sqlStr, args, err := psql.Update("reply_to_comments").
		Set("comment_id", reply.CommentID).
		Set("message", reply.Message).
		Where(squirrel.Eq{"id": reply.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("replyID", reply.ID).Msg("Error executing update reply query")
		return parentMissing(err, "commentId")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReplyNotFound
	}
	return r.reload(ctx, reply)
}

// Delete removes a reply
func (r *ReplyRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "reply_to_comments", id, apperrors.ErrReplyNotFound)
}
