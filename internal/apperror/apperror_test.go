package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("sport item", "42"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("name", "name is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "DuplicateAccount wraps ErrDuplicateAccount",
			err:       DuplicateAccount(),
			target:    ErrDuplicateAccount,
			wantMatch: true,
		},
		{
			name:      "InvalidCredentials wraps ErrInvalidCredentials",
			err:       InvalidCredentials(),
			target:    ErrInvalidCredentials,
			wantMatch: true,
		},
		{
			name:      "NotAuthenticated wraps ErrNotAuthenticated",
			err:       NotAuthenticated(),
			target:    ErrNotAuthenticated,
			wantMatch: true,
		},
		{
			name:      "RemoteService wraps ErrRemoteService",
			err:       RemoteService("login", cause),
			target:    ErrRemoteService,
			wantMatch: true,
		},
		{
			name:      "RemoteService also matches its cause",
			err:       RemoteService("login", cause),
			target:    cause,
			wantMatch: true,
		},
		{
			name:      "Storage wraps ErrStorage",
			err:       Storage("user", cause),
			target:    ErrStorage,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("sport item", "42"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "InvalidCredentials does NOT match ErrNotAuthenticated",
			err:       InvalidCredentials(),
			target:    ErrNotAuthenticated,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("sport item", "42"),
			wantMessage: "sport item not found with id 42",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("name", "name is required"),
			wantMessage: "name is required",
		},
		{
			name:        "InvalidCredentials message",
			err:         InvalidCredentials(),
			wantMessage: "Invalid credentials",
		},
		{
			name:        "Storage message names the key and the cause",
			err:         Storage("favourites_guest", errors.New("disk full")),
			wantMessage: `storage access for key "favourites_guest" failed: disk full`,
		},
		{
			name:        "RemoteService message includes the cause",
			err:         RemoteService("login", errors.New("connection refused")),
			wantMessage: "remote directory login failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("sport item", "42")
	unwrapped := err.Unwrap()

	if len(unwrapped) != 1 || unwrapped[0] != ErrNotFound {
		t.Errorf("Unwrap() = %v, want [%v]", unwrapped, ErrNotFound)
	}
}

func TestFieldIsSet(t *testing.T) {
	if err := ValidationFailed("email", "invalid email format"); err.Field != "email" {
		t.Errorf("ValidationFailed Field = %q, want %q", err.Field, "email")
	}
	if err := DuplicateAccount(); err.Field != "email" {
		t.Errorf("DuplicateAccount Field = %q, want %q", err.Field, "email")
	}
}

func TestErrorsAs(t *testing.T) {
	var wrapped error = InvalidCredentials()

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As() should extract *AppError")
	}
	if appErr.Message != "Invalid credentials" {
		t.Errorf("Message = %q, want %q", appErr.Message, "Invalid credentials")
	}
}
