package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Username  string    `json:"username" db:"username" example:"alice"`
	Email     string    `json:"email" db:"email" example:"alice@example.com"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	IsStaff   bool      `json:"isStaff" db:"is_staff" example:"false"`
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Profile holds the personal details attached to exactly one User
type Profile struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"userId" db:"user_id"`
	Bio       string     `json:"bio" db:"bio"`
	Location  string     `json:"location" db:"location"`
	BirthDate *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	Picture   *string    `json:"picture,omitempty" db:"picture"` // relative storage path
	User      *User      `json:"user,omitempty"`
}

// Author is the public view of a user attached to comments and replies
type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
