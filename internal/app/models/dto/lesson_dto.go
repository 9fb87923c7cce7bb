package dto

import "time"

// CreateLessonRequest is the body of POST /lessons and PUT /lessons/{id}
type CreateLessonRequest struct {
	SectionID   int64  `json:"sectionId" binding:"required,gt=0"`
	Topic       string `json:"topic" binding:"required,max=250"`
	Description string `json:"description"`
}

// AsPatch converts a full write into a patch touching every field
func (r *CreateLessonRequest) AsPatch() *PatchLessonRequest {
	return &PatchLessonRequest{SectionID: &r.SectionID, Topic: &r.Topic, Description: &r.Description}
}

// PatchLessonRequest leaves nil fields untouched
type PatchLessonRequest struct {
	SectionID   *int64  `json:"sectionId" binding:"omitempty,gt=0"`
	Topic       *string `json:"topic" binding:"omitempty,min=1,max=250"`
	Description *string `json:"description"`
}

// LessonResponse carries reaction membership and the counts derived from it
type LessonResponse struct {
	ID            int64     `json:"id"`
	SectionID     int64     `json:"sectionId"`
	Topic         string    `json:"topic"`
	Description   string    `json:"description"`
	Likes         []int64   `json:"likes"`
	Dislikes      []int64   `json:"dislikes"`
	TotalLikes    int       `json:"totalLikes"`
	TotalDislikes int       `json:"totalDislikes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// LessonListResponse is one page of lessons
type LessonListResponse struct {
	Items      []LessonResponse `json:"items"`
	Pagination PaginationInfo   `json:"pagination"`
}

// LessonVideoForm is the multipart body of lesson video writes; the file goes in "videoContent"
type LessonVideoForm struct {
	LessonID int64 `form:"lessonId" binding:"required,gt=0"`
}

// PatchLessonVideoForm leaves the lesson unchanged when lessonId is omitted
type PatchLessonVideoForm struct {
	LessonID *int64 `form:"lessonId" binding:"omitempty,gt=0"`
}

// LessonVideoResponse exposes the video as a URL
type LessonVideoResponse struct {
	ID           int64     `json:"id"`
	LessonID     int64     `json:"lessonId"`
	VideoContent string    `json:"videoContent" example:"http://localhost:8080/uploads/lesson-videos/0b9a.mp4"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LessonVideoListResponse is one page of lesson videos
type LessonVideoListResponse struct {
	Items      []LessonVideoResponse `json:"items"`
	Pagination PaginationInfo        `json:"pagination"`
}
