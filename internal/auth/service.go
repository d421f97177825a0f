package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/leadhub/leadhub/internal/team"
)

// ErrInvalidCredentials is returned when login fails. Unknown email and
// wrong password are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrWrongPassword is returned when a password change supplies an
// incorrect current password.
var ErrWrongPassword = errors.New("current password is incorrect")

// Service provides registration, login, and password management.
type Service struct {
	repo       Repository
	tokens     *TokenService
	bcryptCost int
}

// NewService creates a new auth Service.
func NewService(repo Repository, tokens *TokenService, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register provisions a new team and its first user atomically. When
// teamName is empty it defaults to "<name>'s Team". Returns
// ErrEmailTaken if the email is already registered; on any failure no
// partial state persists.
func (s *Service) Register(ctx context.Context, email, password, name, teamName string) (*User, *team.Team, error) {
	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	if teamName == "" {
		teamName = fmt.Sprintf("%s's Team", name)
	}

	t := &team.Team{Name: teamName}
	u := &User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}

	if err := s.repo.CreateAccount(ctx, t, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("creating account: %w", err)
	}

	return u, t, nil
}

// Login verifies the credentials and issues a token carrying the
// user's identity claims. Returns ErrInvalidCredentials on unknown
// email or wrong password; no token is issued on failure.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("fetching user for login: %w", err)
	}

	if !VerifyPassword(password, u.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.TeamID)
	if err != nil {
		return "", nil, fmt.Errorf("issuing token: %w", err)
	}

	return token, u, nil
}

// ChangePassword verifies the user's current password and replaces the
// stored hash with one derived from the new password.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetching user: %w", err)
	}

	if !VerifyPassword(current, u.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing new password: %w", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	return nil
}
