package user

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "user-match-service/internal/domain/user"
	pkgerrors "user-match-service/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer; the store owns identity generation and
// the email uniqueness constraint.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)             // Insert with a fresh id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)              // Retrieve user by ID
	GetByEmail(ctx context.Context, email string) (*domain.User, error)           // nil, nil when absent
	List(ctx context.Context, skip, limit int) ([]domain.User, error)             // Paginated, insertion order
	Update(ctx context.Context, u *domain.User) (*domain.User, error)             // Save a merged record
	Delete(ctx context.Context, id uuid.UUID) (*domain.User, error)               // Remove and return the record
	Match(ctx context.Context, c domain.MatchCriteria) ([]domain.User, error)     // Filter users, possibly empty
}

// userUsecase implements the business logic for user management and matching.
type userUsecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new user Usecase backed by the given repository.
func New(r Repository, log *zap.Logger) Usecase {
	return &userUsecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error message.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
			case "gt":
				messages = append(messages, fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param()))
			case "min":
				messages = append(messages, fmt.Sprintf("%s must have at least %s entries", e.Field(), e.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

// CreateUser creates a new user after validating the request and checking
// email uniqueness. Nothing is persisted when validation fails.
func (uc *userUsecase) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	uc.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		uc.log.Warn("email already in use", zap.String("email", in.Email))
		return nil, pkgerrors.NewConflictError("user", "Email already in use")
	}

	created, err := uc.repo.Create(ctx, &domain.User{
		Name:      in.Name,
		Age:       in.Age,
		Gender:    in.Gender,
		Email:     in.Email,
		City:      in.City,
		Interests: in.Interests,
	})
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return toUser(created), nil
}

// GetUser retrieves a user by ID.
func (uc *userUsecase) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	if in.ID == uuid.Nil {
		uc.log.Warn("get user validation failed", zap.String("reason", "nil id"))
		return nil, pkgerrors.NewValidationError("id", "invalid user id")
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to get user", zap.String("id", in.ID.String()), zap.Error(err))
		return nil, err
	}
	return toUser(u), nil
}

// ListUsers retrieves a page of users in insertion order. An empty page
// surfaces the store's not-found error.
func (uc *userUsecase) ListUsers(ctx context.Context, in ListUsersRequest) ([]User, error) {
	if in.Skip < 0 {
		in.Skip = 0
	}
	if in.Limit <= 0 {
		in.Limit = 10
	}
	if in.Limit > 100 {
		in.Limit = 100
	}

	uc.log.Info("listing users", zap.Int("skip", in.Skip), zap.Int("limit", in.Limit))

	users, err := uc.repo.List(ctx, in.Skip, in.Limit)
	if err != nil {
		uc.log.Warn("failed to list users", zap.Int("skip", in.Skip), zap.Int("limit", in.Limit), zap.Error(err))
		return nil, err
	}
	return toUsers(users), nil
}

// UpdateUser applies a partial update: only fields present in the request
// replace the stored values. A changed email must remain unique.
func (uc *userUsecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	uc.log.Info("updating user", zap.String("id", in.ID.String()))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	current, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Warn("user to update not found", zap.String("id", in.ID.String()), zap.Error(err))
		return nil, err
	}

	if in.Email != nil && *in.Email != current.Email {
		existing, err := uc.repo.GetByEmail(ctx, *in.Email)
		if err != nil {
			uc.log.Error("failed to check existing email", zap.String("email", *in.Email), zap.Error(err))
			return nil, pkgerrors.NewInternalError("failed to validate email uniqueness", err)
		}
		if existing != nil && existing.ID != in.ID {
			uc.log.Warn("email already in use", zap.String("email", *in.Email))
			return nil, pkgerrors.NewConflictError("user", "Email already in use")
		}
	}

	merged := *current
	if in.Name != nil {
		merged.Name = *in.Name
	}
	if in.Age != nil {
		merged.Age = *in.Age
	}
	if in.Gender != nil {
		merged.Gender = *in.Gender
	}
	if in.Email != nil {
		merged.Email = *in.Email
	}
	if in.City != nil {
		merged.City = *in.City
	}
	if in.Interests != nil {
		merged.Interests = *in.Interests
	}

	updated, err := uc.repo.Update(ctx, &merged)
	if err != nil {
		uc.log.Error("failed to update user", zap.String("id", in.ID.String()), zap.Error(err))
		return nil, err
	}
	return toUser(updated), nil
}

// DeleteUser removes a user and returns the deleted record.
func (uc *userUsecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*User, error) {
	uc.log.Info("deleting user", zap.String("id", in.ID.String()))

	if in.ID == uuid.Nil {
		uc.log.Warn("delete user validation failed", zap.String("reason", "nil id"))
		return nil, pkgerrors.NewValidationError("id", "invalid user id")
	}

	deleted, err := uc.repo.Delete(ctx, in.ID)
	if err != nil {
		uc.log.Warn("failed to delete user", zap.String("id", in.ID.String()), zap.Error(err))
		return nil, err
	}
	return toUser(deleted), nil
}

// MatchUsers applies the match criteria. An empty result is a valid
// response, unlike ListUsers.
func (uc *userUsecase) MatchUsers(ctx context.Context, in MatchUsersRequest) ([]User, error) {
	uc.log.Info("matching users",
		zap.String("gender", in.Gender),
		zap.String("city", in.City),
		zap.Strings("interests", in.Interests),
	)

	matched, err := uc.repo.Match(ctx, domain.MatchCriteria{
		Gender:    in.Gender,
		City:      in.City,
		Interests: in.Interests,
	})
	if err != nil {
		uc.log.Error("failed to match users", zap.Error(err))
		return nil, err
	}
	return toUsers(matched), nil
}

func toUser(d *domain.User) *User {
	return &User{
		ID:        d.ID,
		Name:      d.Name,
		Age:       d.Age,
		Gender:    d.Gender,
		Email:     d.Email,
		City:      d.City,
		Interests: d.Interests,
	}
}

func toUsers(ds []domain.User) []User {
	users := make([]User, len(ds))
	for i := range ds {
		users[i] = *toUser(&ds[i])
	}
	return users
}
