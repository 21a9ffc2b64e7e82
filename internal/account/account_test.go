package account

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lastday/internal/dao"
)

type memAccounts struct {
	mu     sync.Mutex
	byName map[string]*dao.Account
	nextID uint
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byName: make(map[string]*dao.Account)}
}

func (m *memAccounts) CreateAccount(_ context.Context, a *dao.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.byName[a.Username] = &cp
	return nil
}

func (m *memAccounts) AccountByName(_ context.Context, username string) (*dao.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byName[username]
	if !ok {
		return nil, dao.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

type memSessions struct {
	tickets map[string]dao.Session
	ttl     time.Duration
}

func (m *memSessions) CreateSession(_ context.Context, token string, s dao.Session, ttl time.Duration) error {
	if m.tickets == nil {
		m.tickets = make(map[string]dao.Session)
	}
	m.tickets[token] = s
	m.ttl = ttl
	return nil
}

func newTestService(sessions Sessions) *Service {
	s := NewService(newMemAccounts(), sessions, "test-secret", time.Hour)
	s.cost = bcrypt.MinCost
	return s
}

func TestRegisterAndLogin(t *testing.T) {
	sessions := &memSessions{}
	s := newTestService(sessions)
	ctx := context.Background()

	uid, err := s.Register(ctx, "tee", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), uid)

	res, err := s.Login(ctx, "tee", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, uid, res.UserID)
	assert.Equal(t, "tee", res.Username)
	require.NotEmpty(t, res.Ticket)
	assert.Equal(t, dao.Session{UserID: uid, Name: "tee"}, sessions.tickets[res.Ticket])
	assert.Equal(t, time.Hour, sessions.ttl)

	claims, err := s.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, uid, claims.UserID)
	assert.Equal(t, "tee", claims.Username)
}

func TestRegisterRejects(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()

	_, err := s.Register(ctx, "ab", "pw")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = s.Register(ctx, "tee", "pw")
	require.NoError(t, err)
	_, err = s.Register(ctx, "tee", "other")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestLoginRejects(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()
	_, err := s.Register(ctx, "tee", "hunter2")
	require.NoError(t, err)

	_, err = s.Login(ctx, "tee", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = s.Login(ctx, "nobody", "hunter2")
	assert.ErrorIs(t, err, ErrBadCredentials)

	res, err := s.Login(ctx, "tee", "hunter2")
	require.NoError(t, err)
	assert.Empty(t, res.Ticket, "no ticket without a session store")
}

type brokenAccounts struct{ memAccounts }

func (*brokenAccounts) AccountByName(context.Context, string) (*dao.Account, error) {
	return nil, gorm.ErrInvalidDB
}

func TestStoreErrorsAreNotCredentialErrors(t *testing.T) {
	s := NewService(&brokenAccounts{}, nil, "x", time.Hour)

	_, err := s.Login(context.Background(), "tee", "pw")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrBadCredentials))
	assert.ErrorIs(t, err, gorm.ErrInvalidDB)
}

func TestParseTokenRejects(t *testing.T) {
	s := newTestService(nil)
	other := NewService(newMemAccounts(), nil, "other-secret", time.Hour)

	foreign, err := other.GenerateToken(1, "tee")
	require.NoError(t, err)
	_, err = s.ParseToken(foreign)
	assert.ErrorIs(t, err, ErrBadToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = s.ParseToken(signed)
	assert.ErrorIs(t, err, ErrBadToken)

	_, err = s.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestPasswordHash(t *testing.T) {
	s := newTestService(nil)
	h, err := s.HashPassword("pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", h)
	assert.True(t, CheckPasswordHash("pw", h))
	assert.False(t, CheckPasswordHash("pw2", h))
}
