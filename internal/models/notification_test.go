package models

import (
	"encoding/json"
	"testing"
)

func TestNotificationPayload_UserID(t *testing.T) {
	tests := []struct {
		name    string
		payload NotificationPayload
		wantID  uint
		wantOK  bool
	}{
		{name: "Decoded JSON number", payload: NotificationPayload{"from_user_id": float64(7)}, wantID: 7, wantOK: true},
		{name: "json.Number", payload: NotificationPayload{"from_user_id": json.Number("12")}, wantID: 12, wantOK: true},
		{name: "Plain int", payload: NotificationPayload{"from_user_id": 3}, wantID: 3, wantOK: true},
		{name: "Decimal string", payload: NotificationPayload{"from_user_id": "42"}, wantID: 42, wantOK: true},
		{name: "Missing key", payload: NotificationPayload{}, wantID: 0, wantOK: false},
		{name: "Fractional", payload: NotificationPayload{"from_user_id": 1.5}, wantID: 0, wantOK: false},
		{name: "Zero", payload: NotificationPayload{"from_user_id": float64(0)}, wantID: 0, wantOK: false},
		{name: "Garbage string", payload: NotificationPayload{"from_user_id": "abc"}, wantID: 0, wantOK: false},
		{name: "Wrong type", payload: NotificationPayload{"from_user_id": true}, wantID: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := tt.payload.UserID(PayloadFromUserID)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("UserID() = (%d, %v), want (%d, %v)", id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestNotificationPayload_Scan(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantLen int
		wantErr bool
	}{
		{name: "Bytes", value: []byte(`{"by_user_id":2}`), wantLen: 1},
		{name: "String", value: `{"message":"hi","extra":1}`, wantLen: 2},
		{name: "Nil", value: nil, wantLen: 0},
		{name: "Empty bytes", value: []byte{}, wantLen: 0},
		{name: "Invalid JSON", value: `{"broken"`, wantErr: true},
		{name: "Unsupported", value: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p NotificationPayload
			err := p.Scan(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(p) != tt.wantLen {
				t.Errorf("len(payload) = %d, want %d", len(p), tt.wantLen)
			}
		})
	}
}

func TestNotificationPayload_Value(t *testing.T) {
	v, err := NotificationPayload(nil).Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != "{}" {
		t.Errorf("Value() of nil payload = %v, want {}", v)
	}

	v, err = NotificationPayload{PayloadByUserID: uint(2)}.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != `{"by_user_id":2}` {
		t.Errorf("Value() = %v, want {\"by_user_id\":2}", v)
	}
}
