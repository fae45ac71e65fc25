package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wkusuma/customs-case-management/internal/core/datamodel/audit"
	"github.com/wkusuma/customs-case-management/internal/core/events"
)

// Service is the authentication service with its dependencies.
type Service struct {
	repo              RepositoryAPI
	tokenGenerator    TokenGeneratorAPI
	bus               *events.EventBus
	logger            *slog.Logger
	bcryptCost        int
	maxFailedAttempts int
	lockoutDuration   time.Duration
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bus *events.EventBus, logger *slog.Logger, bcryptCost, maxFailedAttempts int, lockoutDuration time.Duration) *Service {
	if bcryptCost < bcrypt.DefaultCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:              repo,
		tokenGenerator:    tokenGen,
		bus:               bus,
		logger:            logger,
		bcryptCost:        bcryptCost,
		maxFailedAttempts: maxFailedAttempts,
		lockoutDuration:   lockoutDuration,
	}
}

func NewJWTTokenGenerator(secret string, tokenTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: tokenTTL,
	}
}

// Authenticate validates credentials against the user record, enforces the
// failed-attempt lockout policy, and on success issues a session token and
// appends an audit event.
//
// Checks run in a fixed order, each short-circuiting: input validation (no
// datastore access before it passes), account lookup, deactivation, lockout,
// password. The lookup miss and the password mismatch share one error so a
// caller cannot tell them apart.
func (s *Service) Authenticate(dto LoginDTO, sourceAddress string) (*AuthResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.repo.FindByIdentifier(dto.Username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			if auditErr := s.recordFailure(nil, dto.Username, sourceAddress, "unknown identifier"); auditErr != nil {
				return nil, auditErr
			}
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("account lookup failed", "error", err)
		return nil, fmt.Errorf("account lookup: %w", err)
	}

	if !account.IsActive {
		// Deactivation precedes password verification; the counter is not
		// touched for attempts against a deactivated account.
		if auditErr := s.recordFailure(&account.ID, account.Username, sourceAddress, "account deactivated"); auditErr != nil {
			return nil, auditErr
		}
		return nil, ErrAccountDeactivated
	}

	locked := account.LockedUntil != nil && account.LockedUntil.After(time.Now())
	passwordErr := VerifyPassword(account.PasswordHash, dto.Password)

	if locked {
		// The outcome is decided before password verification, but a wrong
		// password submitted during the lockout window still counts against
		// the account.
		if passwordErr != nil {
			if _, _, err := s.repo.RecordFailedAttempt(account.ID, s.maxFailedAttempts, s.lockoutDuration); err != nil {
				s.logger.Error("failed-attempt update failed", "error", err, "user_id", account.ID)
				return nil, fmt.Errorf("failed-attempt update: %w", err)
			}
		}
		if auditErr := s.recordFailure(&account.ID, account.Username, sourceAddress, "account locked"); auditErr != nil {
			return nil, auditErr
		}
		return nil, ErrAccountLocked
	}

	if passwordErr != nil {
		attempts, lockedUntil, err := s.repo.RecordFailedAttempt(account.ID, s.maxFailedAttempts, s.lockoutDuration)
		if err != nil {
			s.logger.Error("failed-attempt update failed", "error", err, "user_id", account.ID)
			return nil, fmt.Errorf("failed-attempt update: %w", err)
		}
		if lockedUntil != nil {
			s.logger.Warn("account locked after repeated failures",
				"user_id", account.ID,
				"attempts", attempts)
			s.publish(events.NewAccountLockedEvent(account.ID, account.Username, *lockedUntil))
		}
		if auditErr := s.recordFailure(&account.ID, account.Username, sourceAddress, "wrong password"); auditErr != nil {
			return nil, auditErr
		}
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.ResetLockout(account.ID, now); err != nil {
		s.logger.Error("lockout reset failed", "error", err, "user_id", account.ID)
		return nil, fmt.Errorf("lockout reset: %w", err)
	}

	permissions, err := s.resolvePermissions(account)
	if err != nil {
		s.logger.Error("permission resolution failed", "error", err, "user_id", account.ID)
		return nil, fmt.Errorf("permission resolution: %w", err)
	}

	token, expiresAt, err := s.tokenGenerator.GenerateToken(account.ID, account.Username, account.RoleName)
	if err != nil {
		s.logger.Error("token generation failed", "error", err, "user_id", account.ID)
		return nil, fmt.Errorf("token generation: %w", err)
	}

	if err := s.repo.AppendAuditEvent(&AuditEvent{
		ID:        uuid.New().String(),
		UserID:    &account.ID,
		Username:  account.Username,
		Event:     audit.EventLoginSuccess,
		IPAddress: sourceAddress,
		CreatedAt: now,
	}); err != nil {
		s.logger.Error("audit append failed", "error", err, "user_id", account.ID)
		return nil, fmt.Errorf("audit append: %w", err)
	}

	s.publish(events.NewLoginSucceededEvent(account.ID, account.Username, sourceAddress))

	return &AuthResult{
		User: &User{
			ID:             account.ID,
			Username:       account.Username,
			Email:          account.Email,
			Name:           account.Name,
			Role:           account.RoleName,
			HierarchyLevel: account.HierarchyLevel,
			Permissions:    permissions,
			LastLoginAt:    &now,
		},
		Permissions: permissions,
		Token:       token,
		ExpiresAt:   expiresAt,
	}, nil
}

// resolvePermissions unions role-granted and directly-granted permissions,
// deduplicated by (resource, action). Two independent lookups keep the SQL
// simple and portable.
func (s *Service) resolvePermissions(account *Account) ([]string, error) {
	rolePerms, err := s.repo.GetRolePermissions(account.RoleID)
	if err != nil {
		return nil, err
	}
	userPerms, err := s.repo.GetUserPermissions(account.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rolePerms)+len(userPerms))
	var names []string
	for _, p := range append(rolePerms, userPerms...) {
		name := p.CanonicalName()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

func (s *Service) recordFailure(userID *int64, username, sourceAddress, detail string) error {
	err := s.repo.AppendAuditEvent(&AuditEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Event:     audit.EventLoginFailed,
		IPAddress: sourceAddress,
		Detail:    detail,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("audit append failed", "error", err, "username", username)
		return fmt.Errorf("audit append: %w", err)
	}
	s.publish(events.NewLoginFailedEvent(username, sourceAddress, detail))
	return nil
}

func (s *Service) publish(event events.Event) {
	if s.bus != nil {
		s.bus.Publish(context.Background(), event)
	}
}

// ValidateAccessToken validates a session token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GetUserWithPermissions loads an active user's profile plus effective
// permissions, used by the request middleware.
func (s *Service) GetUserWithPermissions(userID int64) (*User, error) {
	return s.repo.GetUserWithPermissions(userID)
}

// HashPassword creates a bcrypt hash of the password.
func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

// GenerateToken creates a signed session token with a fixed expiry from
// issuance. Tokens are stateless and never revoked before expiry.
func (j *JWTTokenGenerator) GenerateToken(userID int64, username, role string) (string, time.Time, error) {
	expiresAt := time.Now().Add(j.TokenTTL)

	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken parses and verifies a session token.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
