package dto

import "yamdb/internal/microservices/http-api/models"

// CreateUserRequest for POST /users
type CreateUserRequest struct {
	Email     string      `json:"email" binding:"required,email,max=75"`
	Username  string      `json:"username" binding:"required,max=150,username"`
	FirstName string      `json:"first_name" binding:"max=200"`
	LastName  string      `json:"last_name" binding:"max=200"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

// UpdateUserRequest for PATCH /users/{username} and /users/me. Role is
// ignored on the self-profile route.
type UpdateUserRequest struct {
	Email     *string      `json:"email" binding:"omitempty,email,max=75"`
	Username  *string      `json:"username" binding:"omitempty,max=150,username"`
	FirstName *string      `json:"first_name" binding:"omitempty,max=200"`
	LastName  *string      `json:"last_name" binding:"omitempty,max=200"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

type UserResponse struct {
	ID        string      `json:"id"`
	Username  *string     `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role"`
}

func (d CreateUserRequest) ToModel() models.User {
	username := d.Username
	return models.User{
		Email:     d.Email,
		Username:  &username,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Bio:       d.Bio,
		Role:      d.Role,
	}
}

// ApplyTo copies the set fields onto u. allowRole is false for self-service
// updates.
func (d UpdateUserRequest) ApplyTo(u *models.User, allowRole bool) {
	if d.Email != nil {
		u.Email = *d.Email
	}
	if d.Username != nil {
		username := *d.Username
		u.Username = &username
	}
	if d.FirstName != nil {
		u.FirstName = *d.FirstName
	}
	if d.LastName != nil {
		u.LastName = *d.LastName
	}
	if d.Bio != nil {
		u.Bio = *d.Bio
	}
	if allowRole && d.Role != nil {
		u.Role = *d.Role
	}
}

func FromModelToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}
