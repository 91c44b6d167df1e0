package users

import (
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/pagination"
	"github.com/angelmondragon/catalog-api/pkg/types"
)

const Resource = "User"

var ErrNotFound = errors.New("user not found")

// Duplicate errors surface as 400 with these messages.
var (
	ErrUsernameTaken = pkgerrors.New(pkgerrors.CodeConflict, "Username already exists")
	ErrEmailTaken    = pkgerrors.New(pkgerrors.CodeConflict, "Email already exists")
)

// User is the stored record. PasswordHash never leaves the package boundary;
// handlers serialize UserDTO.
type User struct {
	ID           int64
	Email        string
	Username     string
	FullName     *string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FullName  *string    `json:"full_name"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func FromModel(u User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  cloneString(u.FullName),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CreateUserInput is a validated registration payload with the plaintext password.
type CreateUserInput struct {
	Email    string
	Username string
	FullName *string
	Password string
}

// NewUser is what repositories persist: the password is already hashed.
type NewUser struct {
	Email        string
	Username     string
	FullName     *string
	PasswordHash string
}

func (n NewUser) build(id int64, now time.Time) User {
	return User{
		ID:           id,
		Email:        n.Email,
		Username:     n.Username,
		FullName:     cloneString(n.FullName),
		PasswordHash: n.PasswordHash,
		IsActive:     true,
		CreatedAt:    now,
	}
}

// conflictWith reports the first field of existing that collides with n,
// username before email.
func (n NewUser) conflictWith(existing User) error {
	if existing.Username == n.Username {
		return ErrUsernameTaken
	}
	if existing.Email == n.Email {
		return ErrEmailTaken
	}
	return nil
}

// UpdateUserInput holds the fields present in an update payload.
type UpdateUserInput struct {
	Email    *string
	FullName types.Nullable[string]
	Password *string
}

// UserChanges is UpdateUserInput after the password has been hashed.
type UserChanges struct {
	Email        *string
	FullName     types.Nullable[string]
	PasswordHash *string
}

func (c UserChanges) Apply(u *User, now time.Time) {
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.FullName.Valid {
		u.FullName = cloneString(c.FullName.Value)
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	stamp := now
	u.UpdatedAt = &stamp
}

type ListUsersInput struct {
	pagination.Params
}

type UserPage struct {
	Users    []UserDTO `json:"users"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// NormalizeEmail lowercases the domain part of an address. The local part is
// kept as sent since mail servers may treat it case-sensitively.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
