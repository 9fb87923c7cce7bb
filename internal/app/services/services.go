package services

import (
	"fmt"
	"mime/multipart"

	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
	"github.com/yigit/coursehub/internal/pkg/helpers"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// Services defined in this package:
// - AuthService: login and token issuance
// - ProfileService: users with their profiles
// - CourseService, SectionService, LessonService, LessonVideoService: the content tree
// - CommentService, ReplyService: lesson discussion
// - NotificationService: broadcast mail and its delivery log
// - StartedCourseService: courses a student started

// paginate clamps the requested page against total and returns the matching repository window
func paginate(total int64, page, size int) (dto.PaginationInfo, repositories.ListParams) {
	info := helpers.NewPaginationInfo(total, page, size)
	offset, limit := helpers.CalculateOffsetLimit(info.CurrentPage, info.PageSize)
	return info, repositories.ListParams{Offset: offset, Limit: limit}
}

// saveImage stores an uploaded image under subPath
func saveImage(storage filestorage.FileStorage, fh *multipart.FileHeader, subPath string) (string, error) {
	if fh == nil {
		return "", apperrors.NewValidationError("no file uploaded", map[string]interface{}{"file": "This field is required"})
	}
	if !filestorage.IsImage(fh) {
		return "", fmt.Errorf("%w: only image uploads are accepted", apperrors.ErrUnsupportedFile)
	}
	return storage.SaveFileWithPath(fh, subPath)
}

// removeFiles deletes stored files whose rows are already gone. Failures are logged only.
func removeFiles(storage filestorage.FileStorage, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := storage.DeleteFile(p); err != nil {
			logger.Warn().Err(err).Str("path", p).Msg("Failed to remove orphaned file")
		}
	}
}

// fileURL renders an optional stored path as a public URL
func fileURL(storage filestorage.FileStorage, rel *string) *string {
	if rel == nil || *rel == "" {
		return nil
	}
	url := storage.URL(*rel)
	return &url
}
