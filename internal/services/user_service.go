package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/internal/repositories"
	"github.com/mroshb/sweatcheck/internal/security"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"github.com/mroshb/sweatcheck/pkg/logger"
	"github.com/mroshb/sweatcheck/pkg/utils"
)

const invalidCredentials = "Invalid email or password."

type UserService struct {
	users     *repositories.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewUserService(users *repositories.UserRepository, jwtSecret string, jwtTTL time.Duration) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

func validateNick(nick string) error {
	n := utf8.RuneCountInString(nick)
	if n < models.MinNickLength {
		return errors.New(errors.ErrCodeValidation, "Nick must be at least 2 characters.")
	}
	if n > models.MaxNickLength {
		return errors.New(errors.ErrCodeValidation, "Nick is too long.")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < models.MinPasswordLength {
		return errors.New(errors.ErrCodeValidation, "Password must be at least 8 characters.")
	}
	return nil
}

// Register creates an account with a bcrypt-hashed password
func (s *UserService) Register(ctx context.Context, nick, email, password string) (*models.User, error) {
	nick = security.SanitizeText(nick)
	email = utils.NormalizeEmail(email)

	if err := validateNick(nick); err != nil {
		return nil, err
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New(errors.ErrCodeValidation, "Enter a valid email address.")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	taken, err := s.users.NickTaken(ctx, nick, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.New(errors.ErrCodeAlreadyExists, "This nick is already taken.")
	}
	taken, err = s.users.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.New(errors.ErrCodeAlreadyExists, "An account with this email already exists.")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
	}

	user := &models.User{
		Nick:         nick,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User registered", "user_id", user.ID)
	return user, nil
}

// Authenticate checks credentials without issuing a token. Unknown emails and
// wrong passwords get the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.ResolveByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, errors.New(errors.ErrCodeUnauthorized, invalidCredentials)
		}
		return nil, err
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		return nil, errors.New(errors.ErrCodeUnauthorized, invalidCredentials)
	}
	return user, nil
}

// Login authenticates and issues a session token
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := security.GenerateJWT(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue token")
	}
	return user, token, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

func (s *UserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	return s.users.GetUserByTelegramID(ctx, telegramID)
}

// UpdateNick renames the user when the new nick is free
func (s *UserService) UpdateNick(ctx context.Context, userID uint, nick string) error {
	nick = security.SanitizeText(nick)
	if err := validateNick(nick); err != nil {
		return err
	}

	taken, err := s.users.NickTaken(ctx, nick, userID)
	if err != nil {
		return err
	}
	if taken {
		return errors.New(errors.ErrCodeAlreadyExists, "This nick is already taken.")
	}
	return s.users.UpdateNick(ctx, userID, nick)
}

// ChangePassword replaces the password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !security.CheckPassword(user.PasswordHash, oldPassword) {
		return errors.New(errors.ErrCodeUnauthorized, "Current password is incorrect.")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
	}
	return s.users.UpdatePasswordHash(ctx, userID, hash)
}

// SetRole changes a user's role. Accepts any letter case.
func (s *UserService) SetRole(ctx context.Context, userID uint, role string) error {
	role = strings.ToUpper(strings.TrimSpace(role))
	if !models.ValidRole(role) {
		return errors.New(errors.ErrCodeValidation, "Invalid role.")
	}
	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return err
	}
	logger.Info("Role changed", "user_id", userID, "role", role)
	return nil
}

// UpdateAvatar stores the object key of a freshly uploaded avatar
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, objectKey string) error {
	if objectKey == "" {
		return errors.New(errors.ErrCodeValidation, "Avatar is required.")
	}
	return s.users.UpdateAvatar(ctx, userID, objectKey)
}

// LinkTelegram ties a Telegram account to the user owning the credentials.
func (s *UserService) LinkTelegram(ctx context.Context, telegramID int64, email, password string) (*models.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.users.LinkTelegram(ctx, user.ID, telegramID); err != nil {
		return nil, err
	}
	logger.Info("Telegram account linked", "user_id", user.ID)
	return user, nil
}
