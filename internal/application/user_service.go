package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/domain/repository"
	"github.com/soundvault/vinylstore/pkg/helpers"
)

var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrAdminNotDeletable = errors.New("admin accounts cannot be deleted")
	ErrWrongPassword     = errors.New("current password does not match")
)

// UserService covers registration, profile editing, password change, photo
// upload, and the admin user-management surface.
type UserService struct {
	Repo      repository.UserRepository
	Creds     CredentialCodec
	Logger    *logrus.Logger
	GCS       *storage.Client
	GCSBucket string
}

func NewUserService(repo repository.UserRepository, creds CredentialCodec, logger *logrus.Logger, gcs *storage.Client, gcsBucket string) *UserService {
	return &UserService{Repo: repo, Creds: creds, Logger: logger, GCS: gcs, GCSBucket: gcsBucket}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Address   string
}

// Register creates a new account in the user role. Email uniqueness is
// enforced here and by the store constraint.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if existing, err := s.Repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	stored, err := s.Creds.Encode(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  stored,
		Phone:     in.Phone,
		Role:      entity.RoleUser,
		Address:   in.Address,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
}

// UpdateProfile mutates the editable fields only; email is immutable.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if in.FirstName != "" {
		u.FirstName = in.FirstName
	}
	if in.LastName != "" {
		u.LastName = in.LastName
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if in.Address != "" {
		u.Address = in.Address
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the current credential before storing the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}
	if !s.Creds.Compare(u.Password, current) {
		return ErrWrongPassword
	}
	stored, err := s.Creds.Encode(next)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, userID, stored)
}

// UploadPhoto stores the profile photo in object storage and records the
// resulting URL on the user row.
func (s *UserService) UploadPhoto(ctx context.Context, userID int64, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return "", ErrUserNotFound
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("object storage not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("photos", strconv.FormatInt(userID, 10), uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.Photo = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	return url, nil
}

// ListUsers returns all accounts for the admin surface.
func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.Repo.List(ctx)
}

// DeleteUser removes a non-admin account. Admins are never hard-deleted.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}
	if u.IsAdmin() {
		return ErrAdminNotDeletable
	}
	return s.Repo.Delete(ctx, userID)
}

// ResetPassword stores a new credential without checking the old one; it
// backs the token-gated password-reset flow.
func (s *UserService) ResetPassword(ctx context.Context, userID int64, next string) error {
	stored, err := s.Creds.Encode(next)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, userID, stored)
}
