package user

import "github.com/google/uuid"

// CreateUserRequest represents the request payload for creating a new user.
// Every field is required; creation rejects missing or zero values.
type CreateUserRequest struct {
	Name      string   `validate:"required"`
	Age       int      `validate:"required,gt=0"`
	Gender    string   `validate:"required"`
	Email     string   `validate:"required,email"`
	City      string   `validate:"required"`
	Interests []string `validate:"required,min=1,dive,required"`
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID uuid.UUID
}

// ListUsersRequest represents the request payload for listing users.
// Skip/Limit follow the wire query parameters.
type ListUsersRequest struct {
	Skip  int
	Limit int
}

// UpdateUserRequest represents a partial update. Nil fields are left
// untouched on the stored record.
type UpdateUserRequest struct {
	ID        uuid.UUID `validate:"required"`
	Name      *string   `validate:"omitempty,min=1"`
	Age       *int      `validate:"omitempty,gt=0"`
	Gender    *string   `validate:"omitempty,min=1"`
	Email     *string   `validate:"omitempty,email"`
	City      *string   `validate:"omitempty,min=1"`
	Interests *[]string `validate:"omitempty,min=1,dive,required"`
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID uuid.UUID
}

// MatchUsersRequest represents the match criteria payload. Absent fields
// impose no constraint.
type MatchUsersRequest struct {
	Gender    string
	City      string
	Interests []string
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID        uuid.UUID
	Name      string
	Age       int
	Gender    string
	Email     string
	City      string
	Interests []string
}
