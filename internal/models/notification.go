package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Notification types
const (
	NotificationFriendRequest  = "friend_request"
	NotificationFriendAccept   = "friend_accept"
	NotificationFriendDecline  = "friend_decline"
	NotificationAdminBroadcast = "admin_broadcast"
)

// Payload keys
const (
	PayloadFromUserID = "from_user_id"
	PayloadByUserID   = "by_user_id"
	PayloadMessage    = "message"
)

// NotificationPayload holds the type-specific fields of a notification. Each type
// defines which keys it carries.
type NotificationPayload map[string]any

// Value implements driver.Valuer.
func (p NotificationPayload) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (p *NotificationPayload) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*p = NotificationPayload{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported payload type %T", value)
	}

	out := NotificationPayload{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
	}
	*p = out
	return nil
}

// UserID reads a user id stored under key. It accepts the numeric shapes JSON
// decoding produces as well as decimal strings.
func (p NotificationPayload) UserID(key string) (uint, bool) {
	switch v := p[key].(type) {
	case float64:
		if v <= 0 || v != float64(uint(v)) {
			return 0, false
		}
		return uint(v), true
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil || n == 0 {
			return 0, false
		}
		return uint(n), true
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint(v), true
	case uint:
		return v, v > 0
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n == 0 {
			return 0, false
		}
		return uint(n), true
	}
	return 0, false
}

// String reads a string stored under key.
func (p NotificationPayload) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

type Notification struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	UserID    uint                `gorm:"not null;index:idx_notifications_user_created,priority:1" json:"user_id"`
	User      User                `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Type      string              `gorm:"type:varchar(50);not null" json:"type"`
	Payload   NotificationPayload `gorm:"type:jsonb;not null;default:'{}'" json:"payload"`
	IsRead    bool                `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time           `gorm:"autoCreateTime;index:idx_notifications_user_created,priority:2" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
