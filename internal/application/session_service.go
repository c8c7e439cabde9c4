package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/domain/repository"
	"github.com/soundvault/vinylstore/pkg/stream"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// SessionService is the single source of truth for the active identity. It
// publishes every change on a replay-latest stream so late-joining consumers
// (the cart manager, page guards) see current state without a fetch.
type SessionService struct {
	Repo   repository.UserRepository
	Creds  CredentialCodec
	Logger *logrus.Logger

	active *stream.Value[*entity.User]
}

func NewSessionService(repo repository.UserRepository, creds CredentialCodec, logger *logrus.Logger) *SessionService {
	return &SessionService{
		Repo:   repo,
		Creds:  creds,
		Logger: logger,
		active: stream.New[*entity.User](nil),
	}
}

// Login authenticates by exact email match and credential comparison. A
// store failure is indistinguishable from a wrong password to the caller;
// the distinction is only logged.
func (s *SessionService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", email).Warn("user lookup failed")
		}
		s.active.Set(nil)
		return nil, ErrInvalidCredentials
	}
	if !s.Creds.Compare(u.Password, password) {
		s.active.Set(nil)
		return nil, ErrInvalidCredentials
	}
	s.active.Set(u)
	return u, nil
}

// Logout clears the active session. Idempotent.
func (s *SessionService) Logout() {
	s.active.Set(nil)
}

// CurrentUser returns a synchronous snapshot of the active session, or nil.
func (s *SessionService) CurrentUser() *entity.User {
	return s.active.Get()
}

// Subscribe returns a replay-latest subscription to session changes.
func (s *SessionService) Subscribe() (<-chan *entity.User, func()) {
	return s.active.Subscribe()
}
