package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AdminStore interface {
	FindAdminByEmail(ctx context.Context, email string) (*Admin, error)
}

// TokenSigner issues a signed session token for an authenticated admin.
type TokenSigner func(adminID int64, email string, ttl time.Duration) (string, error)

type AuthService struct {
	store     AdminStore
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token string
	Name  string
	Email string
}

func NewAuthService(store AdminStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		signToken: signer,
		tokenTTL:  24 * time.Hour,
	}
}

// Login verifies admin credentials and returns a signed session token.
// Missing users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	admin, err := s.store.FindAdminByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(admin.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(admin.ID, admin.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Name: admin.Name, Email: admin.Email}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
