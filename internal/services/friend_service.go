package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/internal/repositories"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"github.com/mroshb/sweatcheck/pkg/utils"
	"gorm.io/gorm"
)

// FriendService runs the friend request lifecycle. Every mutation touches the
// relationship tables and the notification log inside a single transaction.
type FriendService struct {
	db            *gorm.DB
	users         *repositories.UserRepository
	friends       *repositories.FriendRepository
	requests      *repositories.FriendRequestRepository
	notifications *repositories.NotificationRepository
	now           func() time.Time
}

func NewFriendService(
	db *gorm.DB,
	users *repositories.UserRepository,
	friends *repositories.FriendRepository,
	requests *repositories.FriendRequestRepository,
	notifications *repositories.NotificationRepository,
) *FriendService {
	return &FriendService{
		db:            db,
		users:         users,
		friends:       friends,
		requests:      requests,
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SendRequest invites the owner of addresseeEmail. A previous request for the same
// pair is reset to pending rather than duplicated.
func (s *FriendService) SendRequest(ctx context.Context, requesterID uint, addresseeEmail string) (Outcome, error) {
	email := utils.NormalizeEmail(addresseeEmail)

	return inTx(ctx, s.db, "send friend request", func(tx *gorm.DB) (string, error) {
		if email == "" {
			return "", errors.New(errors.ErrCodeValidation, "Enter an email address.")
		}

		addressee, err := s.users.WithTx(tx).ResolveByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, errors.ErrCodeNotFound) {
				return "", errors.New(errors.ErrCodeNotFound, "No user with that email.")
			}
			return "", err
		}

		if addressee.ID == requesterID {
			return "", errors.New(errors.ErrCodeInvalidTarget, "You cannot invite yourself.")
		}

		already, err := s.friends.WithTx(tx).AreFriends(ctx, requesterID, addressee.ID)
		if err != nil {
			return "", err
		}
		if already {
			return "", errors.New(errors.ErrCodeAlreadyFriends, "You are already friends.")
		}

		if _, err := s.requests.WithTx(tx).PutPending(ctx, requesterID, addressee.ID, s.now()); err != nil {
			return "", err
		}

		_, err = s.notifications.WithTx(tx).Create(ctx, addressee.ID, models.NotificationFriendRequest, models.NotificationPayload{
			models.PayloadFromUserID: requesterID,
		})
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("Friend request sent to %s.", addressee.Nick), nil
	}, "user_id", requesterID)
}

func requestLookupError(err error) error {
	if errors.Is(err, errors.ErrCodeNotFound) {
		return errors.New(errors.ErrCodeNotFound, "Friend request not found.")
	}
	return err
}

// respondable loads a pending request addressed to actorID.
func (s *FriendService) respondable(ctx context.Context, tx *gorm.DB, actorID, requestID uint) (*models.FriendRequest, error) {
	req, err := s.requests.WithTx(tx).GetForUpdate(ctx, requestID)
	if err != nil {
		return nil, requestLookupError(err)
	}
	if req.AddresseeID != actorID {
		return nil, errors.New(errors.ErrCodeForbidden, "This request is not addressed to you.")
	}
	if !req.IsPending() {
		return nil, errors.New(errors.ErrCodeInvalidState, "This request is no longer active.")
	}
	return req, nil
}

// Accept makes the addressee and requester friends and tells the requester.
func (s *FriendService) Accept(ctx context.Context, actorID, requestID uint) (Outcome, error) {
	return inTx(ctx, s.db, "accept friend request", func(tx *gorm.DB) (string, error) {
		req, err := s.respondable(ctx, tx, actorID, requestID)
		if err != nil {
			return "", err
		}

		if err := s.requests.WithTx(tx).Respond(ctx, req.ID, models.FriendRequestAccepted, s.now()); err != nil {
			return "", err
		}
		if err := s.friends.WithTx(tx).AddMutual(ctx, req.AddresseeID, req.RequesterID); err != nil {
			return "", err
		}

		_, err = s.notifications.WithTx(tx).Create(ctx, req.RequesterID, models.NotificationFriendAccept, models.NotificationPayload{
			models.PayloadByUserID: req.AddresseeID,
		})
		if err != nil {
			return "", err
		}

		return "Friend request accepted.", nil
	}, "user_id", actorID, "request_id", requestID)
}

// Decline rejects a request and tells the requester. Friendships are untouched.
func (s *FriendService) Decline(ctx context.Context, actorID, requestID uint) (Outcome, error) {
	return inTx(ctx, s.db, "decline friend request", func(tx *gorm.DB) (string, error) {
		req, err := s.respondable(ctx, tx, actorID, requestID)
		if err != nil {
			return "", err
		}

		if err := s.requests.WithTx(tx).Respond(ctx, req.ID, models.FriendRequestDeclined, s.now()); err != nil {
			return "", err
		}

		_, err = s.notifications.WithTx(tx).Create(ctx, req.RequesterID, models.NotificationFriendDecline, models.NotificationPayload{
			models.PayloadByUserID: req.AddresseeID,
		})
		if err != nil {
			return "", err
		}

		return "Friend request declined.", nil
	}, "user_id", actorID, "request_id", requestID)
}

// Cancel lets the requester withdraw a pending request. Nobody is notified.
func (s *FriendService) Cancel(ctx context.Context, actorID, requestID uint) (Outcome, error) {
	return inTx(ctx, s.db, "cancel friend request", func(tx *gorm.DB) (string, error) {
		req, err := s.requests.WithTx(tx).GetForUpdate(ctx, requestID)
		if err != nil {
			return "", requestLookupError(err)
		}
		if req.RequesterID != actorID {
			return "", errors.New(errors.ErrCodeForbidden, "This request was not sent by you.")
		}
		if !req.IsPending() {
			return "", errors.New(errors.ErrCodeInvalidState, "This request is no longer active.")
		}

		if err := s.requests.WithTx(tx).Respond(ctx, req.ID, models.FriendRequestCancelled, s.now()); err != nil {
			return "", err
		}
		return "Friend request cancelled.", nil
	}, "user_id", actorID, "request_id", requestID)
}

// RemoveFriend deletes both directions of a friendship. It succeeds even when the
// two users were not friends, and leaves old request rows as they are.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, otherID uint) (Outcome, error) {
	return inTx(ctx, s.db, "remove friend", func(tx *gorm.DB) (string, error) {
		if _, err := s.friends.WithTx(tx).RemoveMutual(ctx, userID, otherID); err != nil {
			return "", err
		}
		return "Removed from friends.", nil
	}, "user_id", userID, "friend_id", otherID)
}

// ListFriends returns the user's friends ordered by nick
func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friends.ListFriends(ctx, userID)
}

// AreFriends reports whether a lists b as a friend
func (s *FriendService) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	return s.friends.AreFriends(ctx, a, b)
}

// ListIncoming returns pending requests addressed to the user
func (s *FriendService) ListIncoming(ctx context.Context, userID uint) ([]models.PendingRequest, error) {
	return s.requests.ListIncoming(ctx, userID)
}

// ListOutgoing returns pending requests the user sent
func (s *FriendService) ListOutgoing(ctx context.Context, userID uint) ([]models.PendingRequest, error) {
	return s.requests.ListOutgoing(ctx, userID)
}
