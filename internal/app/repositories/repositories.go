package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursehub/internal/app/models"
)

// psql builds every query with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ListParams is the window of a newest-first listing
type ListParams struct {
	Offset uint64
	Limit  uint64
}

// page applies newest-first ordering and the window to a select
func (p ListParams) page(b squirrel.SelectBuilder, idColumn string) squirrel.SelectBuilder {
	b = b.OrderBy(idColumn + " DESC")
	if p.Limit > 0 {
		b = b.Limit(p.Limit).Offset(p.Offset)
	}
	return b
}

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// IProfileRepository stores profiles together with their users
type IProfileRepository interface {
	CreateWithUser(ctx context.Context, profile *models.Profile) error
	UpdateWithUser(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context, p ListParams) ([]*models.Profile, error)
	Count(ctx context.Context) (int64, error)
	UpdatePicture(ctx context.Context, id int64, picture *string) error
	Delete(ctx context.Context, id int64) error
}

// ICourseRepository defines course persistence
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, p ListParams) ([]*models.Course, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, course *models.Course) error
	UpdateTeacherPicture(ctx context.Context, id int64, picture *string) error
	Delete(ctx context.Context, id int64) error
}

// ISectionRepository defines section persistence; courseID filters when set
type ISectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	GetByID(ctx context.Context, id int64) (*models.Section, error)
	List(ctx context.Context, courseID *int64, p ListParams) ([]*models.Section, error)
	Count(ctx context.Context, courseID *int64) (int64, error)
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id int64) error
}

// ILessonRepository defines lesson persistence. Returned lessons carry their reactions.
type ILessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	List(ctx context.Context, sectionID *int64, p ListParams) ([]*models.Lesson, error)
	Count(ctx context.Context, sectionID *int64) (int64, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]*models.Lesson, error)
	SetReaction(ctx context.Context, lessonID, userID int64, kind models.ReactionKind) error
}

// ILessonVideoRepository defines lesson video persistence; lessonID filters when set
type ILessonVideoRepository interface {
	Create(ctx context.Context, video *models.LessonVideo) error
	GetByID(ctx context.Context, id int64) (*models.LessonVideo, error)
	List(ctx context.Context, lessonID *int64, p ListParams) ([]*models.LessonVideo, error)
	Count(ctx context.Context, lessonID *int64) (int64, error)
	Update(ctx context.Context, video *models.LessonVideo) error
	Delete(ctx context.Context, id int64) error
	ListPaths(ctx context.Context, scope VideoScope, id int64) ([]string, error)
}

// ICommentRepository defines comment persistence; lessonID filters when set
type ICommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	List(ctx context.Context, lessonID *int64, p ListParams) ([]*models.Comment, error)
	Count(ctx context.Context, lessonID *int64) (int64, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
}

// IReplyRepository defines reply persistence; commentID filters when set
type IReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id int64) (*models.Reply, error)
	List(ctx context.Context, commentID *int64, p ListParams) ([]*models.Reply, error)
	Count(ctx context.Context, commentID *int64) (int64, error)
	Update(ctx context.Context, reply *models.Reply) error
	Delete(ctx context.Context, id int64) error
}

// INotificationRepository stores broadcasts and their delivery queue
type INotificationRepository interface {
	CreateBroadcast(ctx context.Context, notification *models.UserNotification) ([]string, error)
	GetByID(ctx context.Context, id int64) (*models.UserNotification, error)
	List(ctx context.Context, p ListParams) ([]*models.UserNotification, error)
	Count(ctx context.Context) (int64, error)
	Stats(ctx context.Context, notificationIDs []int64) (map[int64]models.DeliveryStats, error)
	ListDeliveries(ctx context.Context, notificationID int64) ([]*models.NotificationDelivery, error)
}

// IDeliveryQueue is the dispatcher side of the delivery table
type IDeliveryQueue interface {
	ClaimDue(ctx context.Context, now time.Time, limit int, leaseUntil time.Time) ([]*models.NotificationDelivery, error)
	MarkSent(ctx context.Context, id int64, at time.Time) error
	MarkRetry(ctx context.Context, id int64, lastError string, nextAttemptAt time.Time) error
	MarkFailed(ctx context.Context, id int64, lastError string) error
}

// IStartedCourseRepository records which courses a student started
type IStartedCourseRepository interface {
	Create(ctx context.Context, started *models.StartedCourse) error
	ListByStudent(ctx context.Context, studentID int64, p ListParams) ([]*models.StartedCourse, error)
	CountByStudent(ctx context.Context, studentID int64) (int64, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	ProfileRepository       *ProfileRepository
	CourseRepository        *CourseRepository
	SectionRepository       *SectionRepository
	LessonRepository        *LessonRepository
	LessonVideoRepository   *LessonVideoRepository
	CommentRepository       *CommentRepository
	ReplyRepository         *ReplyRepository
	NotificationRepository  *NotificationRepository
	StartedCourseRepository *StartedCourseRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		ProfileRepository:       NewProfileRepository(db),
		CourseRepository:        NewCourseRepository(db),
		SectionRepository:       NewSectionRepository(db),
		LessonRepository:        NewLessonRepository(db),
		LessonVideoRepository:   NewLessonVideoRepository(db),
		CommentRepository:       NewCommentRepository(db),
		ReplyRepository:         NewReplyRepository(db),
		NotificationRepository:  NewNotificationRepository(db),
		StartedCourseRepository: NewStartedCourseRepository(db),
	}
}

// count runs a SELECT COUNT(*) built by b
func count(ctx context.Context, q Querier, b squirrel.SelectBuilder) (int64, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var total int64
	if err := q.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// deleteByID removes one row and reports notFound when nothing matched
func deleteByID(ctx context.Context, q Querier, table string, id int64, notFound error) error {
	sqlStr, args, err := psql.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
