package auth

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/wkusuma/customs-case-management/internal/core/datamodel/audit"
	"github.com/wkusuma/customs-case-management/internal/core/events"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

// Mock repository mirroring the datastore contract, including the atomic
// increment-and-conditionally-lock semantics of RecordFailedAttempt.
type mockRepository struct {
	accounts    map[string]*Account // keyed by username
	rolePerms   map[int64][]Permission
	userPerms   map[int64][]Permission
	auditEvents []*AuditEvent

	lookupCalls   int
	returnError   bool
	errorToReturn error
	failAudit     bool
}

func newMockRepository() *mockRepository {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)

	return &mockRepository{
		accounts: map[string]*Account{
			"officer1": {
				ID: 1, Username: "officer1", Email: "officer1@customs.example",
				Name: "Officer One", PasswordHash: string(hashed),
				RoleID: 10, RoleName: "Officer", HierarchyLevel: 1, IsActive: true,
			},
			"director1": {
				ID: 2, Username: "director1", Email: "director1@customs.example",
				Name: "Director One", PasswordHash: string(hashed),
				RoleID: 40, RoleName: "Director", HierarchyLevel: 4, IsActive: true,
			},
			"retired1": {
				ID: 3, Username: "retired1", Email: "retired1@customs.example",
				Name: "Retired One", PasswordHash: string(hashed),
				RoleID: 10, RoleName: "Officer", HierarchyLevel: 1, IsActive: false,
			},
		},
		rolePerms: map[int64][]Permission{
			10: {{Resource: "cases", Action: "view"}, {Resource: "cases", Action: "create"}},
			40: {{Resource: "cases", Action: "view"}, {Resource: "cases", Action: "assign"}},
		},
		userPerms: map[int64][]Permission{
			1: {{Resource: "cases", Action: "view"}, {Resource: "templates", Action: "manage"}},
		},
	}
}

func (m *mockRepository) FindByIdentifier(identifier string) (*Account, error) {
	m.lookupCalls++
	if m.returnError {
		return nil, m.errorToReturn
	}
	for _, acct := range m.accounts {
		if acct.Username == identifier || acct.Email == identifier {
			copied := *acct
			return &copied, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *mockRepository) RecordFailedAttempt(userID int64, threshold int, lockout time.Duration) (int, *time.Time, error) {
	if m.returnError {
		return 0, nil, m.errorToReturn
	}
	for _, acct := range m.accounts {
		if acct.ID == userID {
			acct.FailedLoginAttempts++
			if acct.FailedLoginAttempts >= threshold {
				until := time.Now().Add(lockout)
				acct.LockedUntil = &until
			}
			return acct.FailedLoginAttempts, acct.LockedUntil, nil
		}
	}
	return 0, nil, ErrAccountNotFound
}

func (m *mockRepository) ResetLockout(userID int64, lastLogin time.Time) error {
	if m.returnError {
		return m.errorToReturn
	}
	for _, acct := range m.accounts {
		if acct.ID == userID {
			acct.FailedLoginAttempts = 0
			acct.LockedUntil = nil
			acct.LastLoginAt = &lastLogin
			return nil
		}
	}
	return ErrAccountNotFound
}

func (m *mockRepository) GetRolePermissions(roleID int64) ([]Permission, error) {
	return m.rolePerms[roleID], nil
}

func (m *mockRepository) GetUserPermissions(userID int64) ([]Permission, error) {
	return m.userPerms[userID], nil
}

func (m *mockRepository) AppendAuditEvent(event *AuditEvent) error {
	if m.failAudit {
		return errors.New("audit insert failed")
	}
	m.auditEvents = append(m.auditEvents, event)
	return nil
}

func (m *mockRepository) GetUserWithPermissions(userID int64) (*User, error) {
	for _, acct := range m.accounts {
		if acct.ID == userID && acct.IsActive {
			return &User{
				ID: acct.ID, Username: acct.Username, Email: acct.Email,
				Name: acct.Name, Role: acct.RoleName, HierarchyLevel: acct.HierarchyLevel,
			}, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *mockRepository) account(username string) *Account {
	return m.accounts[username]
}

var _ = Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockRepository
		tokenGen *JWTTokenGenerator
		bus      *events.EventBus

		secret   = "test-secret-key-that-is-long-enough"
		tokenTTL = 24 * time.Hour
		source   = "1.2.3.4"
	)

	BeforeEach(func() {
		mockRepo = newMockRepository()
		tokenGen = NewJWTTokenGenerator(secret, tokenTTL)
		bus = events.NewEventBus(slog.Default())
		service = NewService(mockRepo, tokenGen, bus, slog.Default(), bcrypt.DefaultCost, 5, 30*time.Minute)
	})

	login := func(username, password string) (*AuthResult, error) {
		return service.Authenticate(LoginDTO{Username: username, Password: password}, source)
	}

	Describe("Authenticate", func() {
		Context("when credentials are valid", func() {
			It("should return a token, profile and permissions", func() {
				result, err := login("officer1", "correct_password")

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Token).ToNot(BeEmpty())
				Expect(result.User.Username).To(Equal("officer1"))
				Expect(result.User.Role).To(Equal("Officer"))
				Expect(result.User.HierarchyLevel).To(Equal(1))
			})

			It("should accept the email as identifier", func() {
				result, err := login("officer1@customs.example", "correct_password")

				Expect(err).ToNot(HaveOccurred())
				Expect(result.User.ID).To(Equal(int64(1)))
			})

			It("should union role and direct permissions without duplicates", func() {
				result, err := login("officer1", "correct_password")

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Permissions).To(ConsistOf(
					"cases:view", "cases:create", "templates:manage"))
			})

			It("should stamp the last login time", func() {
				_, err := login("officer1", "correct_password")

				Expect(err).ToNot(HaveOccurred())
				Expect(mockRepo.account("officer1").LastLoginAt).ToNot(BeNil())
			})

			It("should append a login_success audit event with the source address", func() {
				_, err := login("officer1", "correct_password")

				Expect(err).ToNot(HaveOccurred())
				Expect(mockRepo.auditEvents).To(HaveLen(1))
				Expect(mockRepo.auditEvents[0].Event).To(Equal(audit.EventLoginSuccess))
				Expect(mockRepo.auditEvents[0].IPAddress).To(Equal(source))
			})
		})

		Context("when input validation fails", func() {
			It("should reject an empty username before any datastore access", func() {
				_, err := login("", "password")

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("username is required"))
				Expect(mockRepo.lookupCalls).To(BeZero())
			})

			It("should reject an empty password before any datastore access", func() {
				_, err := login("officer1", "")

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("password is required"))
				Expect(mockRepo.lookupCalls).To(BeZero())
			})
		})

		Context("when credentials are invalid", func() {
			It("should return textually identical errors for unknown user and wrong password", func() {
				_, unknownErr := login("nonexistent_user", "anything")
				_, wrongErr := login("officer1", "wrong_password")

				Expect(unknownErr).To(HaveOccurred())
				Expect(wrongErr).To(HaveOccurred())
				Expect(unknownErr.Error()).To(Equal(wrongErr.Error()))
			})

			It("should append a login_failed audit event", func() {
				_, err := login("officer1", "wrong_password")

				Expect(err).To(Equal(ErrInvalidCredentials))
				Expect(mockRepo.auditEvents).To(HaveLen(1))
				Expect(mockRepo.auditEvents[0].Event).To(Equal(audit.EventLoginFailed))
			})
		})

		Context("lockout policy", func() {
			It("should leave the account unlocked after four wrong attempts", func() {
				for i := 0; i < 4; i++ {
					_, err := login("officer1", "wrong_password")
					Expect(err).To(Equal(ErrInvalidCredentials))
				}

				acct := mockRepo.account("officer1")
				Expect(acct.FailedLoginAttempts).To(Equal(4))
				Expect(acct.LockedUntil).To(BeNil())
			})

			It("should lock for thirty minutes on the fifth wrong attempt", func() {
				for i := 0; i < 5; i++ {
					_, _ = login("officer1", "wrong_password")
				}

				acct := mockRepo.account("officer1")
				Expect(acct.LockedUntil).ToNot(BeNil())
				Expect(*acct.LockedUntil).To(BeTemporally("~", time.Now().Add(30*time.Minute), 5*time.Second))
			})

			It("should reject the sixth attempt even with the correct password", func() {
				for i := 0; i < 5; i++ {
					_, _ = login("officer1", "wrong_password")
				}

				_, err := login("officer1", "correct_password")
				Expect(err).To(Equal(ErrAccountLocked))
			})

			It("should still increment the counter for a wrong password while locked", func() {
				for i := 0; i < 5; i++ {
					_, _ = login("officer1", "wrong_password")
				}

				_, err := login("officer1", "wrong_password")
				Expect(err).To(Equal(ErrAccountLocked))
				Expect(mockRepo.account("officer1").FailedLoginAttempts).To(Equal(6))
			})

			It("should not increment the counter for a correct password while locked", func() {
				for i := 0; i < 5; i++ {
					_, _ = login("officer1", "wrong_password")
				}

				_, err := login("officer1", "correct_password")
				Expect(err).To(Equal(ErrAccountLocked))
				Expect(mockRepo.account("officer1").FailedLoginAttempts).To(Equal(5))
			})

			It("should allow login again once the lockout window has elapsed", func() {
				acct := mockRepo.account("officer1")
				acct.FailedLoginAttempts = 5
				expired := time.Now().Add(-time.Minute)
				acct.LockedUntil = &expired

				result, err := login("officer1", "correct_password")
				Expect(err).ToNot(HaveOccurred())
				Expect(result.Token).ToNot(BeEmpty())
			})

			It("should reset the counter and clear the lockout on success, regardless of prior value", func() {
				acct := mockRepo.account("officer1")
				acct.FailedLoginAttempts = 4

				_, err := login("officer1", "correct_password")
				Expect(err).ToNot(HaveOccurred())
				Expect(acct.FailedLoginAttempts).To(BeZero())
				Expect(acct.LockedUntil).To(BeNil())
			})
		})

		Context("when the account is deactivated", func() {
			It("should fail even with the correct password", func() {
				_, err := login("retired1", "correct_password")

				Expect(err).To(Equal(ErrAccountDeactivated))
			})

			It("should not touch the failed-attempt counter", func() {
				_, _ = login("retired1", "wrong_password")

				Expect(mockRepo.account("retired1").FailedLoginAttempts).To(BeZero())
			})
		})

		Context("when a datastore write fails", func() {
			It("should surface an internal error instead of invalid credentials", func() {
				mockRepo.failAudit = true

				_, err := login("officer1", "wrong_password")

				Expect(err).To(HaveOccurred())
				Expect(err).ToNot(Equal(ErrInvalidCredentials))
			})
		})

		Context("when the repository read fails", func() {
			It("should not map the failure to invalid credentials", func() {
				mockRepo.returnError = true
				mockRepo.errorToReturn = errors.New("connection refused")

				_, err := login("officer1", "correct_password")

				Expect(err).To(HaveOccurred())
				Expect(err).ToNot(Equal(ErrInvalidCredentials))
			})
		})
	})

	Describe("Session tokens", func() {
		It("should round-trip the identity held at issuance time", func() {
			result, err := login("director1", "correct_password")
			Expect(err).ToNot(HaveOccurred())

			// A later role change must not affect the already-issued token.
			mockRepo.account("director1").RoleName = "Officer"

			claims, err := service.ValidateAccessToken(result.Token)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(2)))
			Expect(claims.Username).To(Equal("director1"))
			Expect(claims.Role).To(Equal("Director"))
		})

		It("should expire tokens after the configured duration", func() {
			shortGen := NewJWTTokenGenerator(secret, -time.Minute)
			token, _, err := shortGen.GenerateToken(1, "officer1", "Officer")
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(Equal(ErrTokenExpired))
		})

		It("should reject a token signed with a different secret", func() {
			otherGen := NewJWTTokenGenerator("another-secret-key-that-is-long-enough", tokenTTL)
			token, _, err := otherGen.GenerateToken(1, "officer1", "Officer")
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(Equal(ErrInvalidToken))
		})

		It("should carry the expiry alongside the token", func() {
			result, err := login("officer1", "correct_password")

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ExpiresAt).To(BeTemporally("~", time.Now().Add(tokenTTL), 5*time.Second))
		})
	})
})
