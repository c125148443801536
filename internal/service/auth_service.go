package service

import (
	"context"
	"encoding/json"
	"errors"
	"fitnote/planner/internal/config"
	"fitnote/planner/internal/domain"
	"fitnote/planner/internal/repository"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrAuthenticationFailed = errors.New("authentication failed: invalid passphrase")
	ErrTokenGeneration      = errors.New("failed to generate session token")
	ErrNoSession            = errors.New("not signed in")
)

// TokenIssuer is the JWT issuer claim.
const TokenIssuer = "fitnote"

// AuthService is the stub sign-in. It signs in the single configured local user;
// without a configured passphrase hash every attempt succeeds.
type AuthService interface {
	SignIn(ctx context.Context, passphrase string) (token string, session *domain.Session, err error)
	CurrentSession(ctx context.Context) (*domain.Session, error)
	SignOut(ctx context.Context) error
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	kv            repository.KeyValueStore
	user          config.AuthConfig
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(kv repository.KeyValueStore, user config.AuthConfig, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	return &authService{
		kv:            kv,
		user:          user,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

// SignIn checks the passphrase (if one is configured), persists the session and
// returns a signed token for it.
func (s *authService) SignIn(ctx context.Context, passphrase string) (token string, session *domain.Session, err error) {
	// 1. Check the passphrase, if the deployment set one
	if s.user.PassphraseHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(s.user.PassphraseHash), []byte(passphrase)) != nil {
			return "", nil, ErrAuthenticationFailed
		}
	}

	// 2. Persist the session so it survives restarts
	session = &domain.Session{
		UserID:     s.user.UserID,
		Email:      s.user.Email,
		Name:       s.user.Name,
		SignedInAt: s.now().UTC().Truncate(time.Second),
	}
	data, err := json.Marshal(session)
	if err != nil {
		return "", nil, err
	}
	if err = s.kv.Put(ctx, repository.SessionKey, data); err != nil {
		return "", nil, err
	}

	// 3. Sign a token bound to the session's user
	token, err = s.generateJWT(session)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return token, session, nil
}

// CurrentSession returns the persisted session, surviving restarts.
func (s *authService) CurrentSession(ctx context.Context) (*domain.Session, error) {
	data, err := s.kv.Get(ctx, repository.SessionKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil || session.UserID == "" {
		// Same as signed out; the next sign-in overwrites it.
		return nil, ErrNoSession
	}
	return &session, nil
}

// SignOut forgets the session. Outstanding tokens stop working because the
// middleware requires a matching persisted session.
func (s *authService) SignOut(ctx context.Context) error {
	return s.kv.Delete(ctx, repository.SessionKey)
}

// --- JWT Helper ---

// SessionClaims is the JWT payload.
type SessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(session *domain.Session) (string, error) {
	now := s.now()
	claims := &SessionClaims{
		UserID: session.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
