package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/internal/repositories"
	"github.com/mroshb/sweatcheck/internal/security"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"github.com/mroshb/sweatcheck/pkg/logger"
)

const TimestampLayout = "2006-01-02 15:04"

// Notification type labels
const (
	LabelFriendRequest  = "Friend request"
	LabelFriendAccept   = "Request accepted"
	LabelFriendDecline  = "Request declined"
	LabelAdminBroadcast = "Announcement"
	LabelUnknown        = "Notification"
)

const UnknownNotificationMessage = "Unknown notification type"

// RenderedNotification is a notification ready for display.
type RenderedNotification struct {
	ID            uint      `json:"id"`
	Type          string    `json:"type"`
	TypeLabel     string    `json:"type_label"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedAtText string    `json:"created_at_text"`
}

// NotificationService reads and maintains a user's notification log. Render
// never changes stored rows.
type NotificationService struct {
	notifications *repositories.NotificationRepository
	users         *repositories.UserRepository
	listLimit     int
}

func NewNotificationService(notifications *repositories.NotificationRepository, users *repositories.UserRepository, listLimit int) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		listLimit:     listLimit,
	}
}

// Render returns the user's newest notifications with messages resolved, in the
// order they were fetched.
func (s *NotificationService) Render(ctx context.Context, userID uint) ([]RenderedNotification, error) {
	items, err := s.notifications.ListForUser(ctx, userID, s.listLimit)
	if err != nil {
		return nil, err
	}

	nicks, err := s.users.Nicknames(ctx, referencedUsers(items))
	if err != nil {
		return nil, err
	}

	out := make([]RenderedNotification, 0, len(items))
	for i := range items {
		out = append(out, renderNotification(&items[i], nicks))
	}
	return out, nil
}

func referencedUsers(items []models.Notification) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, n := range items {
		var key string
		switch n.Type {
		case models.NotificationFriendRequest:
			key = models.PayloadFromUserID
		case models.NotificationFriendAccept, models.NotificationFriendDecline:
			key = models.PayloadByUserID
		default:
			continue
		}
		if id, ok := n.Payload.UserID(key); ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// nickFor resolves the user referenced under key, ok is false when the payload
// has no usable id or the user no longer exists.
func nickFor(payload models.NotificationPayload, key string, nicks map[uint]string) (string, bool) {
	id, ok := payload.UserID(key)
	if !ok {
		return "", false
	}
	nick, ok := nicks[id]
	return nick, ok
}

func renderNotification(n *models.Notification, nicks map[uint]string) RenderedNotification {
	r := RenderedNotification{
		ID:        n.ID,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if !n.CreatedAt.IsZero() {
		r.CreatedAtText = n.CreatedAt.Format(TimestampLayout)
	}

	switch n.Type {
	case models.NotificationFriendRequest:
		r.TypeLabel = LabelFriendRequest
		if nick, ok := nickFor(n.Payload, models.PayloadFromUserID, nicks); ok {
			r.Message = fmt.Sprintf("New request from %s", nick)
		} else {
			r.Message = "New friend request"
		}
	case models.NotificationFriendAccept:
		r.TypeLabel = LabelFriendAccept
		if nick, ok := nickFor(n.Payload, models.PayloadByUserID, nicks); ok {
			r.Message = fmt.Sprintf("%s accepted your friend request", nick)
		} else {
			r.Message = "Someone accepted your friend request"
		}
	case models.NotificationFriendDecline:
		r.TypeLabel = LabelFriendDecline
		if nick, ok := nickFor(n.Payload, models.PayloadByUserID, nicks); ok {
			r.Message = fmt.Sprintf("%s declined your friend request", nick)
		} else {
			r.Message = "Someone declined your friend request"
		}
	case models.NotificationAdminBroadcast:
		r.TypeLabel = LabelAdminBroadcast
		r.Message, _ = n.Payload.String(models.PayloadMessage)
	default:
		r.TypeLabel = LabelUnknown
		r.Message = UnknownNotificationMessage
	}
	return r
}

// CountUnread backs the unread badge
func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}

// MarkAllRead flips every unread notification of the user
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (Outcome, error) {
	changed, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return settle("mark notifications read", err, "", "user_id", userID)
	}
	return succeeded(fmt.Sprintf("Marked %d notifications as read.", changed)), nil
}

// MarkRead flips a single notification owned by the user
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) (Outcome, error) {
	err := s.notifications.MarkRead(ctx, userID, id)
	return settle("mark notification read", notFoundAsMissing(err), "Marked as read.", "user_id", userID, "notification_id", id)
}

// Delete removes a notification owned by the user
func (s *NotificationService) Delete(ctx context.Context, userID, id uint) (Outcome, error) {
	err := s.notifications.Delete(ctx, userID, id)
	return settle("delete notification", notFoundAsMissing(err), "Notification deleted.", "user_id", userID, "notification_id", id)
}

// notFoundAsMissing gives missing and foreign notifications the same wording.
func notFoundAsMissing(err error) error {
	if errors.Is(err, errors.ErrCodeNotFound) {
		return errors.New(errors.ErrCodeNotFound, "Notification not found.")
	}
	return err
}

// Broadcast sends the same message to every user. An empty type falls back to
// admin_broadcast.
func (s *NotificationService) Broadcast(ctx context.Context, notifType, message string) (Outcome, error) {
	notifType = strings.TrimSpace(notifType)
	if notifType == "" {
		notifType = models.NotificationAdminBroadcast
	}
	message = security.SanitizeText(message)
	if message == "" {
		return failed(errors.New(errors.ErrCodeValidation, "Enter the notification text.")), nil
	}

	written, err := s.notifications.Broadcast(ctx, notifType, models.NotificationPayload{
		models.PayloadMessage: message,
	})
	if err != nil {
		return settle("broadcast notification", err, "", "type", notifType)
	}

	logger.Info("Broadcast notification", "type", notifType, "recipients", written)
	return succeeded(fmt.Sprintf("Notification sent to %d users.", written)), nil
}
