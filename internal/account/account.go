package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lastday/internal/dao"
)

var (
	ErrAccountExists  = errors.New("account: username already taken")
	ErrBadCredentials = errors.New("account: wrong username or password")
	ErrInvalidName    = errors.New("account: username must be 3 to 32 characters")
	ErrBadToken       = errors.New("account: invalid token")
)

// Store is the account persistence the service needs.
type Store interface {
	CreateAccount(ctx context.Context, a *dao.Account) error
	AccountByName(ctx context.Context, username string) (*dao.Account, error)
}

// Sessions hands out websocket join tickets.
type Sessions interface {
	CreateSession(ctx context.Context, token string, s dao.Session, ttl time.Duration) error
}

type Service struct {
	store    Store
	sessions Sessions
	secret   []byte
	ttl      time.Duration
	cost     int
}

// NewService builds the account service. A nil sessions skips ticket
// issuing.
func NewService(store Store, sessions Sessions, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Service{
		store:    store,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
	}
}

// HashPassword 加密
func (s *Service) HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	return string(b), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func validName(name string) bool {
	n := len(strings.TrimSpace(name))
	return n >= 3 && n <= 32
}

func (s *Service) Register(ctx context.Context, username, password string) (int64, error) {
	if !validName(username) {
		return 0, ErrInvalidName
	}
	if _, err := s.store.AccountByName(ctx, username); err == nil {
		return 0, ErrAccountExists
	} else if !errors.Is(err, dao.ErrNotFound) {
		return 0, fmt.Errorf("lookup %q: %w", username, err)
	}

	hashed, err := s.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	a := &dao.Account{Username: username, Password: hashed, Level: 1}
	if err := s.store.CreateAccount(ctx, a); err != nil {
		return 0, fmt.Errorf("create account %q: %w", username, err)
	}
	return int64(a.ID), nil
}

// LoginResult is what a successful login returns to the client.
type LoginResult struct {
	UserID   int64
	Username string
	Token    string
	// Ticket is the one-time websocket join ticket.
	Ticket string
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	a, err := s.store.AccountByName(ctx, username)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", username, err)
	}
	if !CheckPasswordHash(password, a.Password) {
		return nil, ErrBadCredentials
	}

	token, err := s.GenerateToken(int64(a.ID), a.Username)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	res := &LoginResult{UserID: int64(a.ID), Username: a.Username, Token: token}
	if s.sessions != nil {
		res.Ticket = uuid.NewString()
		if err := s.sessions.CreateSession(ctx, res.Ticket, dao.Session{UserID: res.UserID, Name: a.Username}, s.ttl); err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
	}
	return res, nil
}

// Claims are the JWT claims of a session token.
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken 生成 JWT
func (s *Service) GenerateToken(uid int64, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   uid,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken verifies a session token and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrBadToken
	}
	return claims, nil
}

// RedisSessions issues tickets through the dao redis client.
type RedisSessions struct{}

func (RedisSessions) CreateSession(ctx context.Context, token string, s dao.Session, ttl time.Duration) error {
	return dao.CreateSession(ctx, token, s, ttl)
}
