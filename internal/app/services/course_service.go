package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetCourse(ctx context.Context, id int64) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context, page, pageSize int) (*dto.CourseListResponse, error)
	UpdateCourse(ctx context.Context, id int64, req *dto.PatchCourseRequest) (*dto.CourseResponse, error)
	UpdateTeacherPicture(ctx context.Context, id int64, fh *multipart.FileHeader) (*dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// courseServiceImpl implements CourseService
type courseServiceImpl struct {
	courseRepo repositories.ICourseRepository
	videoRepo  repositories.ILessonVideoRepository
	storage    filestorage.FileStorage
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo repositories.ICourseRepository,
	videoRepo repositories.ILessonVideoRepository,
	storage filestorage.FileStorage,
) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		videoRepo:  videoRepo,
		storage:    storage,
	}
}

func (s *courseServiceImpl) toResponse(c *models.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		ForWhom:         c.ForWhom,
		TeacherFullname: c.TeacherFullname,
		TeacherPicture:  fileURL(s.storage, c.TeacherPicture),
		AboutTeacher:    c.AboutTeacher,
		Price:           c.Price,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// CreateCourse creates a new course. A missing price means free.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &models.Course{}
	applyCoursePatch(course, req.AsPatch())

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	logger.Info().Int64("courseID", course.ID).Str("name", course.Name).Msg("Course created")
	return s.toResponse(course), nil
}

func applyCoursePatch(c *models.Course, p *dto.PatchCourseRequest) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ForWhom != nil {
		c.ForWhom = *p.ForWhom
	}
	if p.TeacherFullname != nil {
		c.TeacherFullname = *p.TeacherFullname
	}
	if p.AboutTeacher != nil {
		c.AboutTeacher = *p.AboutTeacher
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
}

// GetCourse retrieves a course by ID
func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(course), nil
}

// ListCourses returns one page of courses, newest first
func (s *courseServiceImpl) ListCourses(ctx context.Context, page, pageSize int) (*dto.CourseListResponse, error) {
	total, err := s.courseRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting courses: %w", err)
	}
	info, params := paginate(total, page, pageSize)

	courses, err := s.courseRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	items := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		items = append(items, *s.toResponse(c))
	}
	return &dto.CourseListResponse{Items: items, Pagination: info}, nil
}

// UpdateCourse applies the non-nil fields of req
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, req *dto.PatchCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyCoursePatch(course, req)

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return s.toResponse(course), nil
}

// UpdateTeacherPicture replaces the teacher picture and removes the previous file
func (s *courseServiceImpl) UpdateTeacherPicture(ctx context.Context, id int64, fh *multipart.FileHeader) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rel, err := saveImage(s.storage, fh, filestorage.TeacherPicturesPath)
	if err != nil {
		return nil, err
	}
	if err := s.courseRepo.UpdateTeacherPicture(ctx, id, &rel); err != nil {
		removeFiles(s.storage, rel)
		return nil, err
	}

	if course.TeacherPicture != nil {
		removeFiles(s.storage, *course.TeacherPicture)
	}
	course.TeacherPicture = &rel
	return s.toResponse(course), nil
}

// DeleteCourse removes the course with its sections, lessons and their stored files
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	videos, err := s.videoRepo.ListPaths(ctx, repositories.ScopeCourse, id)
	if err != nil {
		return fmt.Errorf("error collecting course videos: %w", err)
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}

	if course.TeacherPicture != nil {
		videos = append(videos, *course.TeacherPicture)
	}
	removeFiles(s.storage, videos...)
	logger.Info().Int64("courseID", id).Int("files", len(videos)).Msg("Course deleted")
	return nil
}
