package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	domain "user-match-service/internal/domain/user"
	pkgerrors "user-match-service/pkg/errors"
)

func setupTestRepo(t *testing.T) *UserRepoPG {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&UserSchema{})
	require.NoError(t, err)

	return NewUserRepoPG(db, zaptest.NewLogger(t))
}

func testUser(i int) *domain.User {
	return &domain.User{
		Name:      fmt.Sprintf("User %d", i),
		Age:       20 + i,
		Gender:    "F",
		Email:     fmt.Sprintf("user%d@example.com", i),
		City:      "Austin",
		Interests: []string{"hiking", "reading"},
	}
}

func mustCreate(t *testing.T, repo *UserRepoPG, u *domain.User) *domain.User {
	created, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	return created
}

func TestUserRepoPG_Create(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	a := mustCreate(t, repo, testUser(1))
	b := mustCreate(t, repo, testUser(2))

	assert.NotEqual(t, a.ID, b.ID)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "User 1", got.Name)
	assert.Equal(t, 21, got.Age)
	assert.Equal(t, "user1@example.com", got.Email)
	assert.Equal(t, []string{"hiking", "reading"}, got.Interests)
}

func TestUserRepoPG_Create_DuplicateEmail(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, testUser(1))

	dup := testUser(2)
	dup.Email = "user1@example.com"
	_, err := repo.Create(ctx, dup)
	require.Error(t, err)

	var conflict *pkgerrors.ConflictError
	assert.ErrorAs(t, err, &conflict)

	// No duplicate record persisted
	users, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRepoPG_GetByID_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)

	var notFound *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUserRepoPG_GetByEmail(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, testUser(1))

	got, err := repo.GetByEmail(ctx, "user1@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	// Absent email is nil, nil rather than an error
	got, err = repo.GetByEmail(ctx, "absent@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepoPG_List(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 1; i <= 5; i++ {
		ids = append(ids, mustCreate(t, repo, testUser(i)).ID)
	}

	t.Run("insertion order with window", func(t *testing.T) {
		users, err := repo.List(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, ids[1], users[0].ID)
		assert.Equal(t, ids[2], users[1].ID)
	})

	t.Run("limit caps the page", func(t *testing.T) {
		users, err := repo.List(ctx, 0, 10)
		require.NoError(t, err)
		assert.Len(t, users, 5)
	})

	t.Run("offset beyond total is not found", func(t *testing.T) {
		_, err := repo.List(ctx, 100, 10)
		require.Error(t, err)

		var notFound *pkgerrors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestUserRepoPG_List_EmptyTable(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.List(context.Background(), 0, 10)
	require.Error(t, err)

	var notFound *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUserRepoPG_Update(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, testUser(1))

	merged := *created
	merged.City = "Denver"
	merged.Interests = []string{"climbing"}

	updated, err := repo.Update(ctx, &merged)
	require.NoError(t, err)
	assert.Equal(t, "Denver", updated.City)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Denver", got.City)
	assert.Equal(t, []string{"climbing"}, got.Interests)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Email, got.Email)
}

func TestUserRepoPG_Update_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	ghost := testUser(1)
	ghost.ID = uuid.New()
	_, err := repo.Update(context.Background(), ghost)
	require.Error(t, err)

	var notFound *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUserRepoPG_Update_PreservesListOrder(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first := mustCreate(t, repo, testUser(1))
	second := mustCreate(t, repo, testUser(2))

	merged := *first
	merged.Name = "Renamed"
	_, err := repo.Update(ctx, &merged)
	require.NoError(t, err)

	users, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, first.ID, users[0].ID)
	assert.Equal(t, second.ID, users[1].ID)
}

func TestUserRepoPG_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, testUser(1))

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, created.Email, deleted.Email)

	_, err = repo.GetByID(ctx, created.ID)
	var notFound *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	// Deleting twice is not found the second time
	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorAs(t, err, &notFound)
}

func TestUserRepoPG_Match(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	ann := mustCreate(t, repo, &domain.User{
		Name: "Ann", Age: 30, Gender: "F", Email: "ann@example.com",
		City: "AUSTIN", Interests: []string{"Hiking"},
	})
	bob := mustCreate(t, repo, &domain.User{
		Name: "Bob", Age: 28, Gender: "M", Email: "bob@example.com",
		City: "austin", Interests: []string{"cycling"},
	})
	cat := mustCreate(t, repo, &domain.User{
		Name: "Cat", Age: 35, Gender: "f", Email: "cat@example.com",
		City: "Denver", Interests: []string{"hiking", "skiing"},
	})

	tests := []struct {
		name     string
		criteria domain.MatchCriteria
		want     []uuid.UUID
	}{
		{
			name:     "no criteria returns all users",
			criteria: domain.MatchCriteria{},
			want:     []uuid.UUID{ann.ID, bob.ID, cat.ID},
		},
		{
			name:     "city is case-insensitive",
			criteria: domain.MatchCriteria{City: "austin"},
			want:     []uuid.UUID{ann.ID, bob.ID},
		},
		{
			name:     "city substring matches",
			criteria: domain.MatchCriteria{City: "aust"},
			want:     []uuid.UUID{ann.ID, bob.ID},
		},
		{
			name:     "gender is case-insensitive",
			criteria: domain.MatchCriteria{Gender: "F"},
			want:     []uuid.UUID{ann.ID, cat.ID},
		},
		{
			name:     "interests match any, lower-cased",
			criteria: domain.MatchCriteria{Interests: []string{"HIKING", "surfing"}},
			want:     []uuid.UUID{ann.ID, cat.ID},
		},
		{
			name:     "criteria combine with AND",
			criteria: domain.MatchCriteria{City: "Austin", Interests: []string{"hiking"}},
			want:     []uuid.UUID{ann.ID},
		},
		{
			name:     "no match is an empty result, not an error",
			criteria: domain.MatchCriteria{City: "Tokyo"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := repo.Match(ctx, tt.criteria)
			require.NoError(t, err)

			got := make([]uuid.UUID, 0, len(users))
			for _, u := range users {
				got = append(got, u.ID)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestUserRepoPG_Match_WildcardEscaping(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	weird := mustCreate(t, repo, &domain.User{
		Name: "Pat", Age: 40, Gender: "M", Email: "pat@example.com",
		City: "100% Sun City", Interests: []string{"golf"},
	})
	mustCreate(t, repo, &domain.User{
		Name: "Sam", Age: 41, Gender: "M", Email: "sam@example.com",
		City: "Sun City", Interests: []string{"golf"},
	})

	users, err := repo.Match(ctx, domain.MatchCriteria{City: "100%"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, weird.ID, users[0].ID)
}
