package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "Without cause",
			err:  New(ErrCodeNotFound, "request not found"),
			want: "NOT_FOUND: request not found",
		},
		{
			name: "With cause",
			err:  Wrap(stderrors.New("connection refused"), ErrCodeInternalError, "failed to load request"),
			want: "INTERNAL_ERROR: failed to load request (connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeOf_WrappedChain(t *testing.T) {
	inner := New(ErrCodeForbidden, "not your request")
	outer := fmt.Errorf("accept: %w", inner)

	if got := CodeOf(outer); got != ErrCodeForbidden {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeForbidden)
	}
	if !Is(outer, ErrCodeForbidden) {
		t.Error("Is() = false, want true")
	}
	if CodeOf(stderrors.New("plain")) != "" {
		t.Error("CodeOf() on plain error should be empty")
	}
}

func TestIsBusiness(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "Not found", err: New(ErrCodeNotFound, "x"), want: true},
		{name: "Invalid state", err: New(ErrCodeInvalidState, "x"), want: true},
		{name: "Already friends", err: New(ErrCodeAlreadyFriends, "x"), want: true},
		{name: "Internal", err: Wrap(stderrors.New("db down"), ErrCodeInternalError, "x"), want: false},
		{name: "Plain error", err: stderrors.New("boom"), want: false},
		{name: "Nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBusiness(tt.err); got != tt.want {
				t.Errorf("IsBusiness() = %v, want %v", got, tt.want)
			}
		})
	}
}
