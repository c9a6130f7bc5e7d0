package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("missing or expired session")
)

const sessionKeyPrefix = "session:"

// PartnerDirectory is the fixed two-partner roster, served by the backend.
type PartnerDirectory interface {
	LoadPartners(ctx context.Context) ([]*model.Partner, error)
}

// SessionCache keeps sessions in the durable cache so a signed-in partner
// survives API restarts.
type SessionCache interface {
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
	Del(key string) error
	Expire(key string, ttl time.Duration) error
}

type AuthService struct {
	directory PartnerDirectory
	sessions  SessionCache
	ttl       time.Duration
}

func NewAuthService(directory PartnerDirectory, sessions SessionCache, ttl time.Duration) *AuthService {
	return &AuthService{
		directory: directory,
		sessions:  sessions,
		ttl:       ttl,
	}
}

// Login checks the credentials against the partner roster and mints a
// session token. Unknown email and wrong password are indistinguishable to
// the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	partners, err := s.directory.LoadPartners(ctx)
	if err != nil {
		return nil, err
	}

	var partner *model.Partner
	for _, p := range partners {
		if strings.EqualFold(p.Email, email) {
			partner = p
			break
		}
	}
	if partner == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(partner.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session := &model.Session{
		Token:       uuid.NewString(),
		PartnerID:   partner.ID,
		PartnerName: partner.Name,
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Set(sessionKeyPrefix+session.Token, raw, s.ttl); err != nil {
		return nil, err
	}

	return session, nil
}

// Authenticate resolves a token to its session and slides the expiry.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	raw, err := s.sessions.Get(sessionKeyPrefix + token)
	if err != nil || len(raw) == 0 {
		return nil, ErrUnauthorized
	}

	var session model.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, ErrUnauthorized
	}

	_ = s.sessions.Expire(sessionKeyPrefix+token, s.ttl)

	return &session, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Del(sessionKeyPrefix + token)
}
