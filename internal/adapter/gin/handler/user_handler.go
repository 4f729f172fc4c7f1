package handler

import (
	"errors"
	"net/http"
	"strconv"

	usecase "user-match-service/internal/usecase/user"
	pkgerrors "user-match-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  usecase.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc usecase.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Name      string   `json:"name" binding:"required"`
	Age       int      `json:"age" binding:"required,gt=0"`
	Gender    string   `json:"gender" binding:"required"`
	Email     string   `json:"email" binding:"required,email"`
	City      string   `json:"city" binding:"required"`
	Interests []string `json:"interests" binding:"required,min=1,dive,required"`
}

// UpdateUserRequest represents the HTTP request body for a partial update.
// Absent fields leave the stored values untouched.
type UpdateUserRequest struct {
	Name      *string   `json:"name" binding:"omitempty,min=1"`
	Age       *int      `json:"age" binding:"omitempty,gt=0"`
	Gender    *string   `json:"gender" binding:"omitempty,min=1"`
	Email     *string   `json:"email" binding:"omitempty,email"`
	City      *string   `json:"city" binding:"omitempty,min=1"`
	Interests *[]string `json:"interests" binding:"omitempty,min=1,dive,required"`
}

// MatchRequest represents the HTTP request body for matching users
type MatchRequest struct {
	Gender    string   `json:"gender"`
	City      string   `json:"city"`
	Interests []string `json:"interests"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
	Email     string   `json:"email"`
	City      string   `json:"city"`
	Interests []string `json:"interests"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CreateUser handles POST /users/
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), usecase.CreateUserRequest{
		Name:      req.Name,
		Age:       req.Age,
		Gender:    req.Gender,
		Email:     req.Email,
		City:      req.City,
		Interests: req.Interests,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(resp))
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), usecase.GetUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(resp))
}

// ListUsers handles GET /users/?skip=&limit=
func (h *UserHandler) ListUsers(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	resp, err := h.uc.ListUsers(c.Request.Context(), usecase.ListUsersRequest{
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponses(resp))
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), usecase.UpdateUserRequest{
		ID:        id,
		Name:      req.Name,
		Age:       req.Age,
		Gender:    req.Gender,
		Email:     req.Email,
		City:      req.City,
		Interests: req.Interests,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(resp))
}

// DeleteUser handles DELETE /users/:id and returns the deleted record.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.DeleteUser(c.Request.Context(), usecase.DeleteUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(resp))
}

// MatchUsers handles POST /users/matches. An empty match list is a
// valid 200 response.
func (h *UserHandler) MatchUsers(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid match request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.MatchUsers(c.Request.Context(), usecase.MatchUsersRequest{
		Gender:    req.Gender,
		City:      req.City,
		Interests: req.Interests,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponses(resp))
}

// parseID parses the :id path parameter, rejecting malformed values.
func (h *UserHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.log.Warn("invalid user id", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "User ID must be a valid UUID",
		})
		return uuid.Nil, false
	}
	return id, true
}

// handleError converts usecase errors to HTTP responses.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	h.log.Warn("request failed", zap.Error(err))

	var (
		notFound   *pkgerrors.NotFoundError
		conflict   *pkgerrors.ConflictError
		validation *pkgerrors.ValidationError
	)

	code := "internal_error"
	message := "An internal error occurred"
	switch {
	case errors.As(err, &notFound):
		code = "not_found"
		message = err.Error()
	case errors.As(err, &conflict):
		code = "conflict"
		message = err.Error()
	case errors.As(err, &validation):
		code = "validation_error"
		message = err.Error()
	}

	c.JSON(pkgerrors.StatusOf(err), ErrorResponse{
		Error:   code,
		Message: message,
	})
}

func toUserResponse(u *usecase.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Age:       u.Age,
		Gender:    u.Gender,
		Email:     u.Email,
		City:      u.City,
		Interests: u.Interests,
	}
}

func toUserResponses(users []usecase.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}
