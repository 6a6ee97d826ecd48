package repositories

import (
	"context"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// ResolveByEmail looks a user up by normalized email.
func (r *UserRepository) ResolveByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "no user with that email")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to resolve email")
	}

	return &user, nil
}

// GetUserByTelegramID retrieves the account linked to a Telegram chat user
func (r *UserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetNickname returns the nick of a user, ok is false when the user is gone.
func (r *UserRepository) GetNickname(ctx context.Context, id uint) (nick string, ok bool, err error) {
	var users []models.User
	result := r.db.WithContext(ctx).Select("id", "nick").Where("id = ?", id).Limit(1).Find(&users)
	if result.Error != nil {
		return "", false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get nickname")
	}
	if len(users) == 0 {
		return "", false, nil
	}
	return users[0].Nick, true, nil
}

// Nicknames resolves many ids at once. Ids that no longer exist are absent from the map.
func (r *UserRepository) Nicknames(ctx context.Context, ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Select("id", "nick").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get nicknames")
	}
	for _, u := range users {
		out[u.ID] = u.Nick
	}
	return out, nil
}

// NickTaken reports whether another user already uses nick.
func (r *UserRepository) NickTaken(ctx context.Context, nick string, exceptID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("nick = ? AND id <> ?", nick, exceptID).
		Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check nick")
	}
	return count > 0, nil
}

// EmailTaken reports whether an account already uses email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check email")
	}
	return count > 0, nil
}

// updateColumn writes one column without running the model hooks, which would
// validate the otherwise empty model.
func (r *UserRepository) updateColumn(ctx context.Context, userID uint, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).UpdateColumn(column, value)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update "+column)
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return nil
}

// UpdateNick sets a new nick
func (r *UserRepository) UpdateNick(ctx context.Context, userID uint, nick string) error {
	return r.updateColumn(ctx, userID, "nick", nick)
}

// UpdatePasswordHash replaces the stored bcrypt hash
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID uint, hash string) error {
	return r.updateColumn(ctx, userID, "password_hash", hash)
}

// UpdateRole sets the role
func (r *UserRepository) UpdateRole(ctx context.Context, userID uint, role string) error {
	return r.updateColumn(ctx, userID, "role", role)
}

// UpdateAvatar stores the object key of the user's avatar
func (r *UserRepository) UpdateAvatar(ctx context.Context, userID uint, objectKey string) error {
	return r.updateColumn(ctx, userID, "avatar_path", objectKey)
}

// LinkTelegram attaches a Telegram account, detaching it from any previous owner first.
func (r *UserRepository) LinkTelegram(ctx context.Context, userID uint, telegramID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("telegram_id = ? AND id <> ?", telegramID, userID).
			UpdateColumn("telegram_id", nil).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to detach telegram account")
		}
		return (&UserRepository{db: tx}).updateColumn(ctx, userID, "telegram_id", telegramID)
	})
}

// DeleteUser removes a user; friendships, requests and notifications cascade.
func (r *UserRepository) DeleteUser(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, userID)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return nil
}
