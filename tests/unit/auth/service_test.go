package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadhub/leadhub/internal/auth"
	"github.com/leadhub/leadhub/internal/team"
)

// --- In-memory Repository ---

type memoryRepo struct {
	teams []team.Team
	users map[string]*auth.User // keyed by email
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*auth.User)}
}

func (m *memoryRepo) CreateAccount(_ context.Context, t *team.Team, u *auth.User) error {
	if _, exists := m.users[u.Email]; exists {
		return auth.ErrEmailTaken
	}

	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	m.teams = append(m.teams, *t)

	u.ID = uuid.New()
	u.TeamID = t.ID
	u.TeamName = t.Name
	u.CreatedAt = time.Now().UTC()
	stored := *u
	m.users[u.Email] = &stored

	return nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (m *memoryRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	for _, u := range m.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return auth.ErrUserNotFound
}

func newService(repo auth.Repository) *auth.Service {
	return auth.NewService(repo, newTokenService(), testBcryptCost)
}

// --- Register ---

func TestRegister_CreatesUserAndTeam(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	svc := newService(repo)

	u, tm, err := svc.Register(context.Background(), "a@x.com", "pw", "Ann", "Acme")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.NotEqual(t, uuid.Nil, tm.ID)
	assert.Equal(t, "Acme", tm.Name)
	assert.Equal(t, tm.ID, u.TeamID)
	assert.NotEqual(t, "pw", u.PasswordHash)
	assert.True(t, auth.VerifyPassword("pw", u.PasswordHash))
}

func TestRegister_DefaultTeamName(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	svc := newService(repo)

	_, tm, err := svc.Register(context.Background(), "b@x.com", "pw", "Bob", "")
	require.NoError(t, err)

	assert.Equal(t, "Bob's Team", tm.Name)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	svc := newService(repo)

	_, _, err := svc.Register(context.Background(), "dup@x.com", "pw", "First", "One")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "dup@x.com", "pw2", "Second", "Two")
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	// The failed registration must not leave a second team behind.
	assert.Len(t, repo.teams, 1)
	assert.Len(t, repo.users, 1)
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	svc := newService(repo)

	u, tm, err := svc.Register(context.Background(), "login@x.com", "pw", "Lin", "Acme")
	require.NoError(t, err)

	token, loggedIn, err := svc.Login(context.Background(), "login@x.com", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, u.ID, loggedIn.ID)
	assert.Equal(t, "Acme", loggedIn.TeamName)

	// The token's claims carry the registered user's identity.
	identity, err := newTokenService().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.UserID)
	assert.Equal(t, tm.ID, identity.TeamID)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	svc := newService(repo)

	_, _, err := svc.Register(context.Background(), "wp@x.com", "right", "Wendy", "")
	require.NoError(t, err)

	token, _, err := svc.Login(context.Background(), "wp@x.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc := newService(newMemoryRepo())

	token, _, err := svc.Login(context.Background(), "nobody@x.com", "pw")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Empty(t, token)
}

// --- ChangePassword ---

func TestChangePassword_Success(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	svc := newService(repo)

	u, _, err := svc.Register(context.Background(), "cp@x.com", "old", "Cam", "")
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), u.ID, "old", "new")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "cp@x.com", "old")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "cp@x.com", "new")
	assert.NoError(t, err)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	svc := newService(repo)

	u, _, err := svc.Register(context.Background(), "wc@x.com", "old", "Will", "")
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), u.ID, "not-old", "new")
	assert.ErrorIs(t, err, auth.ErrWrongPassword)
}
