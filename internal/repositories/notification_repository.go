package repositories

import (
	"context"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository is the per-recipient notification log.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

// Create appends a notification for userID
func (r *NotificationRepository) Create(ctx context.Context, userID uint, notifType string, payload models.NotificationPayload) (*models.Notification, error) {
	if payload == nil {
		payload = models.NotificationPayload{}
	}
	n := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Payload: payload,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create notification")
	}
	return n, nil
}

// ListForUser returns the newest notifications first, at most limit rows.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	var items []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list notifications")
	}
	return items, nil
}

// CountUnread counts notifications the user has not read yet
func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count notifications")
	}
	return count, nil
}

// MarkAllRead flips every unread notification and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to mark notifications read")
	}
	return result.RowsAffected, nil
}

// MarkRead flips one notification. Missing and foreign rows both answer NotFound.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to mark notification read")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "notification not found")
	}
	return nil
}

// Delete removes one notification. Missing and foreign rows both answer NotFound.
func (r *NotificationRepository) Delete(ctx context.Context, userID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete notification")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "notification not found")
	}
	return nil
}

// Broadcast writes the same notification to every user in a single
// INSERT ... SELECT and returns the number of rows written.
func (r *NotificationRepository) Broadcast(ctx context.Context, notifType string, payload models.NotificationPayload) (int64, error) {
	raw, err := payload.Value()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode notification payload")
	}

	result := r.db.WithContext(ctx).Exec(
		"INSERT INTO notifications (user_id, type, payload, is_read, created_at) SELECT id, ?, ?, ?, ? FROM users",
		notifType, raw, false, r.db.NowFunc(),
	)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to broadcast notification")
	}
	return result.RowsAffected, nil
}
