package dto

import "time"

// CreateCourseRequest is the body of POST /courses and PUT /courses/{id}
type CreateCourseRequest struct {
	Name            string   `json:"name" binding:"required,max=150" example:"Go for Backend Developers"`
	Description     string   `json:"description"`
	ForWhom         string   `json:"forWhom"`
	TeacherFullname string   `json:"teacherFullname" binding:"max=150"`
	AboutTeacher    string   `json:"aboutTeacher"`
	Price           *float64 `json:"price" binding:"omitempty,gte=0,lt=10000000000000,decimal2" example:"49.90"`
}

// AsPatch converts a full write into a patch touching every field
func (r *CreateCourseRequest) AsPatch() *PatchCourseRequest {
	price := 0.0
	if r.Price != nil {
		price = *r.Price
	}
	return &PatchCourseRequest{
		Name:            &r.Name,
		Description:     &r.Description,
		ForWhom:         &r.ForWhom,
		TeacherFullname: &r.TeacherFullname,
		AboutTeacher:    &r.AboutTeacher,
		Price:           &price,
	}
}

// PatchCourseRequest leaves nil fields untouched
type PatchCourseRequest struct {
	Name            *string  `json:"name" binding:"omitempty,min=1,max=150"`
	Description     *string  `json:"description"`
	ForWhom         *string  `json:"forWhom"`
	TeacherFullname *string  `json:"teacherFullname" binding:"omitempty,max=150"`
	AboutTeacher    *string  `json:"aboutTeacher"`
	Price           *float64 `json:"price" binding:"omitempty,gte=0,lt=10000000000000,decimal2"`
}

// CourseResponse is the public view of a course
type CourseResponse struct {
	ID              int64     `json:"id" example:"1"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	ForWhom         string    `json:"forWhom"`
	TeacherFullname string    `json:"teacherFullname"`
	TeacherPicture  *string   `json:"teacherPicture"`
	AboutTeacher    string    `json:"aboutTeacher"`
	Price           float64   `json:"price" example:"49.90"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CourseListResponse is one page of courses
type CourseListResponse struct {
	Items      []CourseResponse `json:"items"`
	Pagination PaginationInfo   `json:"pagination"`
}

// CreateSectionRequest is the body of POST /sections and PUT /sections/{id}
type CreateSectionRequest struct {
	CourseID    int64  `json:"courseId" binding:"required,gt=0"`
	Title       string `json:"title" binding:"required,max=250"`
	Description string `json:"description"`
}

// AsPatch converts a full write into a patch touching every field
func (r *CreateSectionRequest) AsPatch() *PatchSectionRequest {
	return &PatchSectionRequest{CourseID: &r.CourseID, Title: &r.Title, Description: &r.Description}
}

// PatchSectionRequest leaves nil fields untouched
type PatchSectionRequest struct {
	CourseID    *int64  `json:"courseId" binding:"omitempty,gt=0"`
	Title       *string `json:"title" binding:"omitempty,min=1,max=250"`
	Description *string `json:"description"`
}

// SectionListResponse is one page of sections
type SectionListResponse struct {
	Items      []SectionResponse `json:"items"`
	Pagination PaginationInfo    `json:"pagination"`
}

// SectionResponse is the public view of a section
type SectionResponse struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"courseId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StartCoursesRequest records the courses the caller has started
type StartCoursesRequest struct {
	CourseIDs []int64 `json:"courseIds" binding:"required,min=1,dive,gt=0"`
}

// StartedCourseResponse is one start record of the caller
type StartedCourseResponse struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"studentId"`
	Started   time.Time `json:"started"`
	CourseIDs []int64   `json:"courseIds"`
}

// StartedCourseListResponse is one page of start records
type StartedCourseListResponse struct {
	Items      []StartedCourseResponse `json:"items"`
	Pagination PaginationInfo          `json:"pagination"`
}
