package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO, sourceAddress string) (*AuthResult, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserWithPermissions(userID int64) (*User, error)
	HashPassword(password string) (string, error)
}

type RepositoryAPI interface {
	// FindByIdentifier matches the identifier against the stored username OR
	// email, case-sensitive.
	FindByIdentifier(identifier string) (*Account, error)
	// RecordFailedAttempt increments the failed-attempt counter and, when the
	// post-increment count reaches the threshold, sets the lockout expiry.
	// The whole operation is a single atomic statement at the datastore.
	RecordFailedAttempt(userID int64, threshold int, lockout time.Duration) (attempts int, lockedUntil *time.Time, err error)
	// ResetLockout clears the counter and lockout expiry together and stamps
	// the last successful login.
	ResetLockout(userID int64, lastLogin time.Time) error
	GetRolePermissions(roleID int64) ([]Permission, error)
	GetUserPermissions(userID int64) ([]Permission, error)
	AppendAuditEvent(event *AuditEvent) error
	GetUserWithPermissions(userID int64) (*User, error)
}

type TokenGeneratorAPI interface {
	GenerateToken(userID int64, username, role string) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Account is the full credential record read for an authentication attempt.
// It never leaves the auth package.
type Account struct {
	ID                  int64
	Username            string
	Email               string
	Name                string
	PasswordHash        string
	RoleID              int64
	RoleName            string
	HierarchyLevel      int
	IsActive            bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
}

// User is the profile exposed to callers, without the password hash.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	HierarchyLevel int        `json:"hierarchy_level"`
	Permissions    []string   `json:"permissions,omitempty"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
}

func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (u *User) HasAnyPermission(permissions []string) bool {
	for _, userPerm := range u.Permissions {
		for _, requiredPerm := range permissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

// Permission is a (resource, action) capability pair.
type Permission struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// CanonicalName is the resource:action composite used in token consumers and
// permission checks.
func (p Permission) CanonicalName() string {
	return p.Resource + ":" + p.Action
}

// AuditEvent is an immutable record of one login outcome.
type AuditEvent struct {
	ID        string
	UserID    *int64
	Username  string
	Event     string
	IPAddress string
	Detail    string
	CreatedAt time.Time
}

// AuthResult is returned on successful authentication.
type AuthResult struct {
	User        *User     `json:"user"`
	Permissions []string  `json:"permissions"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Claims embeds the identity held by the user at issuance time. Later role
// changes never affect an already-issued token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

var (
	// ErrInvalidCredentials covers both an unknown identifier and a wrong
	// password; the two must stay textually indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
	// ErrAccountLocked carries no unlock time.
	ErrAccountLocked   = errors.New("account is temporarily locked")
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
)

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
