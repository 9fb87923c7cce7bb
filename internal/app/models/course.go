package models

import "time"

// Course is the top of the content tree: Course > Section > Lesson
type Course struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	ForWhom         string    `json:"forWhom" db:"for_whom"`
	TeacherFullname string    `json:"teacherFullname" db:"teacher_fullname"`
	TeacherPicture  *string   `json:"teacherPicture,omitempty" db:"teacher_picture"`
	AboutTeacher    string    `json:"aboutTeacher" db:"about_teacher"`
	Price           float64   `json:"price" db:"price"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// Section groups lessons inside a course
type Section struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// StartedCourse records that a student started a set of courses
type StartedCourse struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	Started   time.Time `json:"started" db:"started"`
	CourseIDs []int64   `json:"courseIds"`
}
