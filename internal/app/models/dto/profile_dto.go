package dto

// UserInput is the nested user block of a profile write. Password is write-only.
type UserInput struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

// CreateProfileRequest creates a user and its profile together
type CreateProfileRequest struct {
	User      UserInput `json:"user" binding:"required"`
	Bio       string    `json:"bio"`
	Location  string    `json:"location" binding:"max=30"`
	BirthDate *string   `json:"birthDate" binding:"omitempty,datetime=2006-01-02" example:"1990-05-17"`
}

// UpdateProfileRequest is the full replacement body for PUT
type UpdateProfileRequest CreateProfileRequest

// PatchUserInput carries the user fields a PATCH may change
type PatchUserInput struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=150"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// PatchProfileRequest leaves nil fields untouched
type PatchProfileRequest struct {
	User      *PatchUserInput `json:"user"`
	Bio       *string         `json:"bio"`
	Location  *string         `json:"location" binding:"omitempty,max=30"`
	BirthDate *string         `json:"birthDate" binding:"omitempty,datetime=2006-01-02"`
}

// AsPatch converts a full update into the equivalent patch. An empty password keeps the current one.
func (r *UpdateProfileRequest) AsPatch() *PatchProfileRequest {
	user := &PatchUserInput{
		Username: &r.User.Username,
		Email:    &r.User.Email,
	}
	if r.User.Password != "" {
		user.Password = &r.User.Password
	}
	bio, location := r.Bio, r.Location
	patch := &PatchProfileRequest{
		User:     user,
		Bio:      &bio,
		Location: &location,
	}
	if r.BirthDate != nil {
		patch.BirthDate = r.BirthDate
	} else {
		empty := ""
		patch.BirthDate = &empty
	}
	return patch
}

// ProfileResponse is the public view of a profile
type ProfileResponse struct {
	ID        int64        `json:"id" example:"1"`
	User      UserResponse `json:"user"`
	Bio       string       `json:"bio"`
	Location  string       `json:"location"`
	BirthDate *string      `json:"birthDate" example:"1990-05-17"`
	Picture   *string      `json:"picture" example:"http://localhost:8080/uploads/profile-pictures/1.png"`
}

// ProfileListResponse is one page of profiles
type ProfileListResponse struct {
	Items      []ProfileResponse `json:"items"`
	Pagination PaginationInfo    `json:"pagination"`
}
