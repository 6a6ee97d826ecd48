package repositories

import (
	"context"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRepository stores friendships as mirrored directional rows.
type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *FriendRepository) WithTx(tx *gorm.DB) *FriendRepository {
	return &FriendRepository{db: tx}
}

// AddMutual ensures both (a,b) and (b,a) exist. Existing rows are left alone.
func (r *FriendRepository) AddMutual(ctx context.Context, a, b uint) error {
	rows := []models.Friendship{
		{UserID: a, FriendID: b},
		{UserID: b, FriendID: a},
	}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add friendship")
	}
	return nil
}

// RemoveMutual deletes both directions of a friendship. Missing rows are not an error.
func (r *FriendRepository) RemoveMutual(ctx context.Context, a, b uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		Delete(&models.Friendship{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove friend")
	}
	return result.RowsAffected, nil
}

// ListFriends retrieves a user's friends ordered by nick
func (r *FriendRepository) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var friends []models.User

	err := r.db.WithContext(ctx).Table("users").
		Select("users.*").
		Joins("JOIN friends ON friends.friend_id = users.id").
		Where("friends.user_id = ?", userID).
		Order("users.nick ASC").
		Find(&friends).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friends")
	}

	return friends, nil
}

// FriendIDs returns the ids of a user's friends.
func (r *FriendRepository) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id = ?", userID).
		Pluck("friend_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friend ids")
	}
	return ids, nil
}

// AreFriends checks whether a lists b as a friend
func (r *FriendRepository) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", a, b).
		Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check friendship")
	}
	return count > 0, nil
}
