package services

import (
	"context"
	"fmt"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
)

// StartedCourseService defines the interface for tracking started courses
type StartedCourseService interface {
	StartCourses(ctx context.Context, studentID int64, req *dto.StartCoursesRequest) (*dto.StartedCourseResponse, error)
	ListStarted(ctx context.Context, studentID int64, page, pageSize int) (*dto.StartedCourseListResponse, error)
}

// startedCourseServiceImpl implements StartedCourseService
type startedCourseServiceImpl struct {
	startedRepo repositories.IStartedCourseRepository
}

// NewStartedCourseService creates a new StartedCourseService
func NewStartedCourseService(startedRepo repositories.IStartedCourseRepository) StartedCourseService {
	return &startedCourseServiceImpl{startedRepo: startedRepo}
}

func toStartedCourseResponse(s *models.StartedCourse) dto.StartedCourseResponse {
	ids := s.CourseIDs
	if ids == nil {
		ids = []int64{}
	}
	return dto.StartedCourseResponse{ID: s.ID, StudentID: s.StudentID, Started: s.Started, CourseIDs: ids}
}

// uniqueIDs drops repeated ids keeping first-seen order
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// StartCourses records that the student started the given courses
func (s *startedCourseServiceImpl) StartCourses(ctx context.Context, studentID int64, req *dto.StartCoursesRequest) (*dto.StartedCourseResponse, error) {
	started := &models.StartedCourse{StudentID: studentID, CourseIDs: uniqueIDs(req.CourseIDs)}
	if err := s.startedRepo.Create(ctx, started); err != nil {
		return nil, err
	}
	resp := toStartedCourseResponse(started)
	return &resp, nil
}

// ListStarted returns one page of the student's start records, newest first
func (s *startedCourseServiceImpl) ListStarted(ctx context.Context, studentID int64, page, pageSize int) (*dto.StartedCourseListResponse, error) {
	total, err := s.startedRepo.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error counting started courses: %w", err)
	}
	info, params := paginate(total, page, pageSize)

	records, err := s.startedRepo.ListByStudent(ctx, studentID, params)
	if err != nil {
		return nil, fmt.Errorf("error listing started courses: %w", err)
	}

	items := make([]dto.StartedCourseResponse, 0, len(records))
	for _, r := range records {
		items = append(items, toStartedCourseResponse(r))
	}
	return &dto.StartedCourseListResponse{Items: items, Pagination: info}, nil
}
