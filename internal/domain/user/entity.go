package user

import (
	"strings"

	"github.com/google/uuid"
)

// User represents a user profile in the system.
type User struct {
	ID        uuid.UUID // ID is the unique identifier, assigned by the store at creation
	Name      string    // Name is the full name of the user
	Age       int       // Age in years, positive
	Gender    string    // Gender, matched case-insensitively by filters
	Email     string    // Email is unique across all users
	City      string    // City, matched case-insensitively by filters
	Interests []string  // Interests is an ordered list of text tags
}

// MatchCriteria selects a subset of users. Zero-valued fields impose no
// constraint; provided fields are combined with AND.
type MatchCriteria struct {
	Gender    string
	City      string
	Interests []string
}

// IsZero reports whether no criteria were provided.
func (c MatchCriteria) IsZero() bool {
	return c.Gender == "" && c.City == "" && len(c.Interests) == 0
}

// HasAnyInterest reports whether the user holds at least one of the
// given interests, compared lower-cased.
func (u *User) HasAnyInterest(wanted []string) bool {
	for _, w := range wanted {
		w = strings.ToLower(w)
		for _, have := range u.Interests {
			if strings.ToLower(have) == w {
				return true
			}
		}
	}
	return false
}
