package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "user-match-service/internal/domain/user"
	pkgerrors "user-match-service/pkg/errors"

	"github.com/google/uuid"
)

// UserRepoPG implements the user Repository interface using GORM.
type UserRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
// Interests are stored as a JSON column; CreatedAt keeps insertion order
// for listing.
type UserSchema struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Age       int       `gorm:"not null"`
	Gender    string    `gorm:"not null"`
	Email     string    `gorm:"not null;uniqueIndex"`
	City      string    `gorm:"not null"`
	Interests []string  `gorm:"serializer:json"`
	CreatedAt int64     `gorm:"autoCreateTime:nano;index"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (m *UserSchema) toDomain() *domain.User {
	return &domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Age:       m.Age,
		Gender:    m.Gender,
		Email:     m.Email,
		City:      m.City,
		Interests: m.Interests,
	}
}

func fromDomain(u *domain.User) *UserSchema {
	return &UserSchema{
		ID:        u.ID,
		Name:      u.Name,
		Age:       u.Age,
		Gender:    u.Gender,
		Email:     u.Email,
		City:      u.City,
		Interests: u.Interests,
	}
}

// isDuplicateKey recognizes unique-constraint violations across the
// postgres and sqlite drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// likePattern builds a lower-cased substring pattern for LIKE with
// wildcards escaped. Case folding is done here, not by storage-engine
// specific operators.
func likePattern(v string) string {
	v = strings.ToLower(v)
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, "%", `\%`)
	v = strings.ReplaceAll(v, "_", `\_`)
	return "%" + v + "%"
}

// Create assigns a fresh unique id and inserts the user. A taken email
// yields a ConflictError; the unique index is the backstop for
// concurrent inserts.
func (r *UserRepoPG) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := fromDomain(u)
	model.ID = uuid.New()

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			r.log.Warn("duplicate email on insert", zap.String("email", u.Email))
			return nil, pkgerrors.NewConflictError("user", "Email already in use")
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.String("id", model.ID.String()))
	return model.toDomain(), nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.String("id", id.String()))
			return nil, pkgerrors.NewNotFoundError("user", "User not found")
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return model.toDomain(), nil
}

// GetByEmail retrieves a user by email address. Returns nil, nil when
// no user holds the address.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return model.toDomain(), nil
}

// List retrieves up to limit users starting at skip, in insertion order.
// An empty page is reported as not found, a deliberate store policy.
func (r *UserRepoPG) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	var models []UserSchema
	err := r.db.WithContext(ctx).
		Order("created_at").
		Offset(skip).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list users from db", zap.Error(err), zap.Int("skip", skip), zap.Int("limit", limit))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	if len(models) == 0 {
		r.log.Warn("empty user page", zap.Int("skip", skip), zap.Int("limit", limit))
		return nil, pkgerrors.NewNotFoundError("users", "No users found")
	}

	return toDomainSlice(models), nil
}

// Update saves an already merged record. The record must exist.
func (r *UserRepoPG) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	var current UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", u.ID).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user to update not found", zap.String("id", u.ID.String()))
			return nil, pkgerrors.NewNotFoundError("user", "User not found")
		}
		r.log.Error("failed to load user for update", zap.Error(err), zap.String("id", u.ID.String()))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	model := fromDomain(u)
	model.CreatedAt = current.CreatedAt
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicateKey(err) {
			r.log.Warn("duplicate email on update", zap.String("email", u.Email))
			return nil, pkgerrors.NewConflictError("user", "Email already in use")
		}
		r.log.Error("failed to update user in db", zap.Error(err), zap.String("id", u.ID.String()))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	r.log.Info("user updated in db", zap.String("id", model.ID.String()))
	return model.toDomain(), nil
}

// Delete removes a user by ID and returns the removed record.
func (r *UserRepoPG) Delete(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user to delete not found", zap.String("id", id.String()))
			return nil, pkgerrors.NewNotFoundError("user", "User not found")
		}
		r.log.Error("failed to load user for delete", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	if err := r.db.WithContext(ctx).Delete(&UserSchema{}, "id = ?", id).Error; err != nil {
		r.log.Error("failed to delete user in db", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Info("user deleted in db", zap.String("id", id.String()))
	return model.toDomain(), nil
}

// Match filters users by the given criteria, combined with AND. Gender
// and city are compared lower-cased as substring matches in SQL; the
// interests check runs in Go because the column is serialized JSON.
// An empty result is valid.
func (r *UserRepoPG) Match(ctx context.Context, c domain.MatchCriteria) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Order("created_at")
	if c.Gender != "" {
		q = q.Where(`LOWER(gender) LIKE ? ESCAPE '\'`, likePattern(c.Gender))
	}
	if c.City != "" {
		q = q.Where(`LOWER(city) LIKE ? ESCAPE '\'`, likePattern(c.City))
	}

	var models []UserSchema
	if err := q.Find(&models).Error; err != nil {
		r.log.Error("failed to match users in db", zap.Error(err))
		return nil, fmt.Errorf("failed to match users: %w", err)
	}

	users := make([]domain.User, 0, len(models))
	for i := range models {
		u := models[i].toDomain()
		if len(c.Interests) > 0 && !u.HasAnyInterest(c.Interests) {
			continue
		}
		users = append(users, *u)
	}

	return users, nil
}

func toDomainSlice(models []UserSchema) []domain.User {
	users := make([]domain.User, len(models))
	for i := range models {
		users[i] = *models[i].toDomain()
	}
	return users
}
