package models

import "time"

// Lesson belongs to a section. Likes and Dislikes are loaded from lesson_reactions.
type Lesson struct {
	ID          int64     `json:"id" db:"id"`
	SectionID   int64     `json:"sectionId" db:"section_id"`
	Topic       string    `json:"topic" db:"topic"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	Likes       []int64   `json:"likes"`
	Dislikes    []int64   `json:"dislikes"`
}

// Reaction is one row of lesson_reactions
type Reaction struct {
	LessonID int64        `db:"lesson_id"`
	UserID   int64        `db:"user_id"`
	Kind     ReactionKind `db:"kind"`
}

// LessonVideo is an uploaded video file for a lesson
type LessonVideo struct {
	ID           int64     `json:"id" db:"id"`
	LessonID     int64     `json:"lessonId" db:"lesson_id"`
	VideoContent string    `json:"videoContent" db:"video_content"` // relative storage path
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Comment on a lesson. Author is nil once the writing user is deleted.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	LessonID  int64     `json:"lessonId" db:"lesson_id"`
	Message   string    `json:"message" db:"message"`
	AuthorID  *int64    `json:"-" db:"author_id"`
	Author    *Author   `json:"author"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Reply answers a comment
type Reply struct {
	ID        int64     `json:"id" db:"id"`
	CommentID int64     `json:"commentId" db:"comment_id"`
	Message   string    `json:"message" db:"message"`
	AuthorID  *int64    `json:"-" db:"author_id"`
	Author    *Author   `json:"author"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
