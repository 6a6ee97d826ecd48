package models

import (
	"time"
)

// Friendship is one direction of a mutual friendship: UserID considers FriendID a
// friend. Rows are always written and deleted in mirrored pairs.
type Friendship struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	FriendID  uint      `gorm:"primaryKey;autoIncrement:false;index"`
	Friend    User      `gorm:"foreignKey:FriendID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Friendship) TableName() string {
	return "friends"
}

type FriendRequestStatus string

// Friend request status constants
const (
	FriendRequestPending   FriendRequestStatus = "pending"
	FriendRequestAccepted  FriendRequestStatus = "accepted"
	FriendRequestDeclined  FriendRequestStatus = "declined"
	FriendRequestCancelled FriendRequestStatus = "cancelled"
)

// FriendRequest is keyed by the ordered (requester, addressee) pair. A new request
// for a pair that already has a row resets that row to pending.
type FriendRequest struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	RequesterID uint                `gorm:"not null;uniqueIndex:idx_friend_request_pair" json:"requester_id"`
	Requester   User                `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"-"`
	AddresseeID uint                `gorm:"not null;uniqueIndex:idx_friend_request_pair;index" json:"addressee_id"`
	Addressee   User                `gorm:"foreignKey:AddresseeID;constraint:OnDelete:CASCADE" json:"-"`
	Status      FriendRequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	RespondedAt *time.Time          `json:"responded_at,omitempty"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// IsPending reports whether the addressee can still act on the request.
func (r *FriendRequest) IsPending() bool {
	return r.Status == FriendRequestPending
}

// PendingRequest is a pending request joined with the user on the other side.
type PendingRequest struct {
	ID         uint      `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UserID     uint      `json:"user_id"`
	Nick       string    `json:"nick"`
	Email      string    `json:"email"`
	AvatarPath *string   `json:"avatar_path,omitempty"`
}
