package httpx

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without internal err",
			err:  NewAppError(http.StatusBadRequest, CodeParamMissing, "param missing", nil),
			want: "code=2001, message=param missing",
		},
		{
			name: "error with internal err",
			err:  NewAppError(http.StatusInternalServerError, CodeInternalError, "internal error", errors.New("db connection failed")),
			want: "code=5001, message=internal error, err=db connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
		wantCode   int
	}{
		{"unauthorized", ErrUnauthorized(""), http.StatusUnauthorized, CodeUnauthorized},
		{"invalid token", ErrInvalidToken(""), http.StatusUnauthorized, CodeInvalidToken},
		{"token expired", ErrTokenExpired(""), http.StatusUnauthorized, CodeTokenExpired},
		{"forbidden", ErrForbidden(""), http.StatusForbidden, CodeForbidden},
		{"rate limited", ErrRateLimited(""), http.StatusTooManyRequests, CodeRateLimited},
		{"param missing", ErrParamMissing(""), http.StatusBadRequest, CodeParamMissing},
		{"param invalid", ErrParamInvalid(""), http.StatusBadRequest, CodeParamInvalid},
		{"not found", ErrNotFound(""), http.StatusNotFound, CodeNotFound},
		{"already exists", ErrAlreadyExists(""), http.StatusBadRequest, CodeAlreadyExists},
		{"state conflict", ErrStateConflict(""), http.StatusBadRequest, CodeStateConflict},
		{"internal", ErrInternalError("", nil), http.StatusInternalServerError, CodeInternalError},
		{"database", ErrDatabaseError("", nil), http.StatusInternalServerError, CodeDatabaseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("HTTPStatus = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message == "" {
				t.Error("expected a default message")
			}
		})
	}
}

func TestWithData(t *testing.T) {
	err := ErrStateConflict("already checked in today").WithData(map[string]any{"date": "2025-06-02"})
	if err.Data == nil {
		t.Error("expected data to be attached")
	}
}
