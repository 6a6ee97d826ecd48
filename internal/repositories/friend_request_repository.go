package repositories

import (
	"context"
	"time"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FriendRequestRepository struct {
	db *gorm.DB
}

func NewFriendRequestRepository(db *gorm.DB) *FriendRequestRepository {
	return &FriendRequestRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *FriendRequestRepository) WithTx(tx *gorm.DB) *FriendRequestRepository {
	return &FriendRequestRepository{db: tx}
}

// GetForUpdate loads a request and locks its row for the rest of the transaction.
func (r *FriendRequestRepository) GetForUpdate(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "friend request not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get friend request")
	}
	return &req, nil
}

// GetByPair returns the request for the ordered pair, or nil when there is none.
func (r *FriendRequestRepository) GetByPair(ctx context.Context, requesterID, addresseeID uint) (*models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("requester_id = ? AND addressee_id = ?", requesterID, addresseeID).
		Limit(1).
		Find(&reqs).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friend request")
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	return &reqs[0], nil
}

// PutPending makes the pair's request pending again, inserting it if needed.
// Reused rows get a fresh created_at and lose their responded_at.
func (r *FriendRequestRepository) PutPending(ctx context.Context, requesterID, addresseeID uint, now time.Time) (*models.FriendRequest, error) {
	existing, err := r.GetByPair(ctx, requesterID, addresseeID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		err := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"status":       models.FriendRequestPending,
				"created_at":   now,
				"responded_at": nil,
			}).Error
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to reset friend request")
		}
		existing.Status = models.FriendRequestPending
		existing.CreatedAt = now
		existing.RespondedAt = nil
		return existing, nil
	}

	req := &models.FriendRequest{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.FriendRequestPending,
		CreatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friend request")
	}
	return req, nil
}

// Respond moves a request out of pending and stamps responded_at.
func (r *FriendRequestRepository) Respond(ctx context.Context, id uint, status models.FriendRequestStatus, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("id = ? AND status = ?", id, models.FriendRequestPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": at,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update friend request")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeInvalidState, "friend request is no longer pending")
	}
	return nil
}

// ListIncoming returns pending requests addressed to userID, newest first.
func (r *FriendRequestRepository) ListIncoming(ctx context.Context, userID uint) ([]models.PendingRequest, error) {
	return r.listPending(ctx, "friend_requests.requester_id", "friend_requests.addressee_id", userID)
}

// ListOutgoing returns pending requests sent by userID, newest first.
func (r *FriendRequestRepository) ListOutgoing(ctx context.Context, userID uint) ([]models.PendingRequest, error) {
	return r.listPending(ctx, "friend_requests.addressee_id", "friend_requests.requester_id", userID)
}

func (r *FriendRequestRepository) listPending(ctx context.Context, otherCol, selfCol string, userID uint) ([]models.PendingRequest, error) {
	var rows []models.PendingRequest
	err := r.db.WithContext(ctx).Table("friend_requests").
		Select("friend_requests.id, friend_requests.created_at, users.id AS user_id, users.nick, users.email, users.avatar_path").
		Joins("JOIN users ON users.id = "+otherCol).
		Where(selfCol+" = ? AND friend_requests.status = ?", userID, models.FriendRequestPending).
		Order("friend_requests.created_at DESC, friend_requests.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list friend requests")
	}
	return rows, nil
}
