package filestorage

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// Subdirectories for uploaded media
const (
	ProfilePicturesPath = "profile-pictures"
	TeacherPicturesPath = "teacher-pictures"
	LessonVideosPath    = "lesson-videos"
)

// ErrInvalidPath is returned for stored paths that escape the storage root
var ErrInvalidPath = errors.New("invalid file path")

// FileStorage saves uploads and resolves their public URLs.
// Paths returned by SaveFileWithPath are relative to the storage root and are what the database keeps.
type FileStorage interface {
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)
	DeleteFile(relPath string) error
	URL(relPath string) string
}

// HasAllowedExtension reports whether filename ends in one of the allowed extensions, ignoring case
func HasAllowedExtension(filename string, allowed []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// IsImage checks the declared content type of an upload
func IsImage(fileHeader *multipart.FileHeader) bool {
	if fileHeader == nil {
		return false
	}
	return strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/")
}
