package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inventory-tracker/internal/apperrors"
	"inventory-tracker/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minUsernameLen = 4
	maxUsernameLen = 80
	minPasswordLen = 6
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	maxPasswordLen = 72
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log}
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if n := len([]rune(in.Username)); n < minUsernameLen || n > maxUsernameLen {
		return nil, apperrors.Validation("username", "username must be between %d and %d characters", minUsernameLen, maxUsernameLen)
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, apperrors.Validation("email", "a valid email is required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperrors.Validation("password", "password must be at least %d characters", minPasswordLen)
	}
	if len(in.Password) > maxPasswordLen {
		return nil, apperrors.Validation("password", "password must be at most %d bytes", maxPasswordLen)
	}
	if in.Password != in.PasswordConfirm {
		return nil, apperrors.Validation("password_confirm", "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureFree(tx, "username", in.Username); err != nil {
			return err
		}
		if err := ensureFree(tx, "email", in.Email); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return &user, nil
}

func ensureFree(tx *gorm.DB, column, value string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where(column+" = ?", value).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Duplicate("user", column, value)
	}
	return nil
}

func translate(err error) error {
	key, ok := apperrors.UniqueViolation(err)
	if !ok {
		return err
	}
	switch key {
	case "uq_users_username", "users.username":
		return apperrors.Duplicate("user", "username", "")
	case "uq_users_email", "users.email":
		return apperrors.Duplicate("user", "email", "")
	}
	return err
}

// Authenticate checks the credentials and returns the user.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

func (s *Service) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureAdmin creates the default admin account unless a user with that name exists.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.log.Info("created default admin user", zap.String("username", username))
	return nil
}
