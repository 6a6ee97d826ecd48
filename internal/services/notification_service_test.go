package services

import (
	"context"
	"testing"
	"time"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/internal/repositories"
	"github.com/mroshb/sweatcheck/internal/testutil"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNotification(t *testing.T) {
	created := time.Date(2024, 5, 3, 18, 7, 42, 0, time.UTC)
	nicks := map[uint]string{1: "alice", 2: "bob"}

	tests := []struct {
		name      string
		n         models.Notification
		wantLabel string
		wantMsg   string
	}{
		{
			name:      "Friend request",
			n:         models.Notification{Type: models.NotificationFriendRequest, Payload: models.NotificationPayload{"from_user_id": float64(1)}},
			wantLabel: LabelFriendRequest,
			wantMsg:   "New request from alice",
		},
		{
			name:      "Friend request from deleted user",
			n:         models.Notification{Type: models.NotificationFriendRequest, Payload: models.NotificationPayload{"from_user_id": float64(9)}},
			wantLabel: LabelFriendRequest,
			wantMsg:   "New friend request",
		},
		{
			name:      "Friend request without payload",
			n:         models.Notification{Type: models.NotificationFriendRequest},
			wantLabel: LabelFriendRequest,
			wantMsg:   "New friend request",
		},
		{
			name:      "Accept",
			n:         models.Notification{Type: models.NotificationFriendAccept, Payload: models.NotificationPayload{"by_user_id": float64(2)}},
			wantLabel: LabelFriendAccept,
			wantMsg:   "bob accepted your friend request",
		},
		{
			name:      "Accept by deleted user",
			n:         models.Notification{Type: models.NotificationFriendAccept, Payload: models.NotificationPayload{"by_user_id": "x"}},
			wantLabel: LabelFriendAccept,
			wantMsg:   "Someone accepted your friend request",
		},
		{
			name:      "Decline",
			n:         models.Notification{Type: models.NotificationFriendDecline, Payload: models.NotificationPayload{"by_user_id": float64(2)}},
			wantLabel: LabelFriendDecline,
			wantMsg:   "bob declined your friend request",
		},
		{
			name:      "Decline by deleted user",
			n:         models.Notification{Type: models.NotificationFriendDecline, Payload: models.NotificationPayload{"by_user_id": float64(77)}},
			wantLabel: LabelFriendDecline,
			wantMsg:   "Someone declined your friend request",
		},
		{
			name:      "Broadcast is verbatim",
			n:         models.Notification{Type: models.NotificationAdminBroadcast, Payload: models.NotificationPayload{"message": "Gym closed **Monday**"}},
			wantLabel: LabelAdminBroadcast,
			wantMsg:   "Gym closed **Monday**",
		},
		{
			name:      "Unknown type",
			n:         models.Notification{Type: "streak_reminder", Payload: models.NotificationPayload{"days": float64(3)}},
			wantLabel: LabelUnknown,
			wantMsg:   UnknownNotificationMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.n
			n.ID = 5
			n.CreatedAt = created

			got := renderNotification(&n, nicks)
			if got.TypeLabel != tt.wantLabel {
				t.Errorf("TypeLabel = %q, want %q", got.TypeLabel, tt.wantLabel)
			}
			if got.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMsg)
			}
			if got.CreatedAtText != "2024-05-03 18:07" {
				t.Errorf("CreatedAtText = %q, want %q", got.CreatedAtText, "2024-05-03 18:07")
			}
			if got.ID != 5 || got.Type != tt.n.Type {
				t.Errorf("identity not carried over: %+v", got)
			}
		})
	}
}

func newNotificationService(t *testing.T) (*NotificationService, *repositories.NotificationRepository, *repositories.UserRepository) {
	t.Helper()
	db := testutil.NewDB(t)
	notifications := repositories.NewNotificationRepository(db)
	users := repositories.NewUserRepository(db)
	return NewNotificationService(notifications, users, 30), notifications, users
}

func TestNotificationService_RenderFromStore(t *testing.T) {
	svc, notifications, users := newNotificationService(t)
	ctx := context.Background()

	alice := &models.User{Nick: "alice", Email: "a@example.com", PasswordHash: "x"}
	bob := &models.User{Nick: "bob", Email: "b@example.com", PasswordHash: "x"}
	require.NoError(t, users.CreateUser(ctx, alice))
	require.NoError(t, users.CreateUser(ctx, bob))

	_, err := notifications.Create(ctx, bob.ID, models.NotificationFriendRequest, models.NotificationPayload{
		models.PayloadFromUserID: alice.ID,
	})
	require.NoError(t, err)
	_, err = notifications.Create(ctx, bob.ID, models.NotificationAdminBroadcast, models.NotificationPayload{
		models.PayloadMessage: "hello",
	})
	require.NoError(t, err)

	// The sender disappears; rendering falls back instead of failing.
	require.NoError(t, users.DeleteUser(ctx, alice.ID))

	rendered, err := svc.Render(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, rendered, 2)
	assert.Equal(t, "hello", rendered[0].Message)
	assert.Equal(t, "New friend request", rendered[1].Message)

	// Rendering does not mark anything read.
	unread, err := svc.CountUnread(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)
}

func TestNotificationService_MarkAndDelete(t *testing.T) {
	svc, notifications, users := newNotificationService(t)
	ctx := context.Background()

	owner := &models.User{Nick: "alice", Email: "a@example.com", PasswordHash: "x"}
	other := &models.User{Nick: "bob", Email: "b@example.com", PasswordHash: "x"}
	require.NoError(t, users.CreateUser(ctx, owner))
	require.NoError(t, users.CreateUser(ctx, other))

	n, err := notifications.Create(ctx, owner.ID, models.NotificationAdminBroadcast, models.NotificationPayload{"message": "hi"})
	require.NoError(t, err)

	foreign, err := svc.Delete(ctx, other.ID, n.ID)
	require.NoError(t, err)
	missing, err := svc.Delete(ctx, other.ID, n.ID+50)
	require.NoError(t, err)
	assert.False(t, foreign.OK)
	assert.Equal(t, missing, foreign)

	out, err := svc.MarkRead(ctx, other.ID, n.ID)
	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.Equal(t, errors.ErrCodeNotFound, out.Code)

	out, err = svc.MarkAllRead(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Contains(t, out.Message, "1")

	out, err = svc.Delete(ctx, owner.ID, n.ID)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestNotificationService_Broadcast(t *testing.T) {
	svc, notifications, users := newNotificationService(t)
	ctx := context.Background()

	alice := &models.User{Nick: "alice", Email: "a@example.com", PasswordHash: "x"}
	bob := &models.User{Nick: "bob", Email: "b@example.com", PasswordHash: "x"}
	require.NoError(t, users.CreateUser(ctx, alice))
	require.NoError(t, users.CreateUser(ctx, bob))

	out, err := svc.Broadcast(ctx, "", "   ")
	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.Equal(t, errors.ErrCodeValidation, out.Code)

	out, err = svc.Broadcast(ctx, "  ", "<b>New</b> classes from June")
	require.NoError(t, err)
	require.True(t, out.OK, out.Message)

	for _, u := range []*models.User{alice, bob} {
		items, err := notifications.ListForUser(ctx, u.ID, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, models.NotificationAdminBroadcast, items[0].Type)

		rendered, err := svc.Render(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, rendered, 1)
		assert.Equal(t, "New classes from June", rendered[0].Message)
		assert.Equal(t, LabelAdminBroadcast, rendered[0].TypeLabel)
	}

	// Entity-escaped markup is stripped, not decoded back into tags.
	out, err = svc.Broadcast(ctx, "", "Tom & Jerry &lt;b&gt;hi&lt;/b&gt;")
	require.NoError(t, err)
	require.True(t, out.OK, out.Message)

	items, err := notifications.ListForUser(ctx, alice.ID, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	msg, _ := items[0].Payload.String(models.PayloadMessage)
	assert.Equal(t, "Tom & Jerry hi", msg)
}
