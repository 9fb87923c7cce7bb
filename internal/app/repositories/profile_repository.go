package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/db"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/dberrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// ProfileRepository handles profiles and the users they own
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func selectProfiles() squirrel.SelectBuilder {
	return psql.Select(
		"p.id", "p.user_id", "p.bio", "p.location", "p.birth_date", "p.picture",
		"u.id", "u.username", "u.email", "u.password", "u.is_staff", "u.is_active", "u.created_at", "u.updated_at",
	).From("profiles p").Join("users u ON u.id = p.user_id")
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	var u models.User
	err := row.Scan(
		&p.ID, &p.UserID, &p.Bio, &p.Location, &p.BirthDate, &p.Picture,
		&u.ID, &u.Username, &u.Email, &u.Password, &u.IsStaff, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Msg("Error scanning profile")
		return nil, err
	}
	p.User = &u
	return &p, nil
}

// CreateWithUser inserts profile.User and then the profile in one transaction
func (r *ProfileRepository) CreateWithUser(ctx context.Context, profile *models.Profile) error {
	if profile.User == nil {
		return apperrors.NewBadRequestError("profile requires a user")
	}

	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertUser(ctx, tx, profile.User); err != nil {
			return err
		}
		profile.UserID = profile.User.ID

		sqlStr, args, err := psql.Insert("profiles").
			Columns("user_id", "bio", "location", "birth_date", "picture").
			Values(profile.UserID, profile.Bio, profile.Location, profile.BirthDate, profile.Picture).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create profile SQL")
			return err
		}
		if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&profile.ID); err != nil {
			logger.Error().Err(err).Int64("userID", profile.UserID).Msg("Error executing create profile query")
			return err
		}
		return nil
	})
}

// UpdateWithUser writes the profile and its user in one transaction
func (r *ProfileRepository) UpdateWithUser(ctx context.Context, profile *models.Profile) error {
	if profile.User == nil {
		return apperrors.NewBadRequestError("profile requires a user")
	}

	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sqlStr, args, err := buildUpdateUser(profile.User).ToSql()
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, sqlStr, args...)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, dberrors.UsersUsernameKey) {
				return apperrors.ErrUsernameTaken
			}
			logger.Error().Err(err).Int64("userID", profile.User.ID).Msg("Error updating user")
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrUserNotFound
		}

		sqlStr, args, err = psql.Update("profiles").
			Set("bio", profile.Bio).
			Set("location", profile.Location).
			Set("birth_date", profile.BirthDate).
			Set("picture", profile.Picture).
			Where(squirrel.Eq{"id": profile.ID}).
			ToSql()
		if err != nil {
			return err
		}
		tag, err = tx.Exec(ctx, sqlStr, args...)
		if err != nil {
			logger.Error().Err(err).Int64("profileID", profile.ID).Msg("Error updating profile")
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrProfileNotFound
		}
		return nil
	})
}

func buildUpdateUser(user *models.User) squirrel.UpdateBuilder {
	return psql.Update("users").
		Set("username", user.Username).
		Set("email", user.Email).
		Set("password", user.Password).
		Where(squirrel.Eq{"id": user.ID})
}

// GetByID retrieves a profile with its user
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	sqlStr, args, err := selectProfiles().Where(squirrel.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanProfile(r.db.QueryRow(ctx, sqlStr, args...))
}

// List returns profiles newest first
func (r *ProfileRepository) List(ctx context.Context, p ListParams) ([]*models.Profile, error) {
	sqlStr, args, err := p.page(selectProfiles(), "p.id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list profiles SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list profiles query")
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*models.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

// Count returns the number of profiles
func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("profiles"))
}

// UpdatePicture stores a new relative picture path, nil clears it
func (r *ProfileRepository) UpdatePicture(ctx context.Context, id int64, picture *string) error {
	sqlStr, args, err := psql.Update("profiles").Set("picture", picture).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("profileID", id).Msg("Error updating profile picture")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// Delete removes the profile row; the user account is kept
func (r *ProfileRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "profiles", id, apperrors.ErrProfileNotFound)
}
