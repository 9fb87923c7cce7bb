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

var userColumns = []string{"id", "username", "email", "password", "is_staff", "is_active", "created_at", "updated_at"}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.IsStaff, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user")
		return nil, err
	}
	return &u, nil
}

func buildInsertUser(user *models.User) squirrel.InsertBuilder {
	return psql.Insert("users").
		Columns("username", "email", "password", "is_staff", "is_active").
		Values(user.Username, user.Email, user.Password, user.IsStaff, user.IsActive).
		Suffix("RETURNING id, created_at, updated_at")
}

// insertUser is shared with the profile repository so both writes can join one transaction
func insertUser(ctx context.Context, q Querier, user *models.User) error {
	sqlStr, args, err := buildInsertUser(user).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return err
	}
	if err := q.QueryRow(ctx, sqlStr, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.UsersUsernameKey) {
			return apperrors.ErrUsernameTaken
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error executing create user query")
		return err
	}
	return nil
}

// Create inserts a user; Password must already be hashed
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return insertUser(ctx, r.db, user)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	sqlStr, args, err := psql.Select(userColumns...).From("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.db.QueryRow(ctx, sqlStr, args...))
}

// GetByUsername retrieves a user by exact username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	sqlStr, args, err := psql.Select(userColumns...).From("users").Where(squirrel.Eq{"username": username}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.db.QueryRow(ctx, sqlStr, args...))
}
