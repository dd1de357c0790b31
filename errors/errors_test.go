package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestChannelNotFound(t *testing.T) {
	err := ChannelNotFound("updates")

	if err.Code != ErrCodeChannelNotFound {
		t.Errorf("expected %s, got %s", ErrCodeChannelNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if !IsChannelNotFound(err) {
		t.Error("expected IsChannelNotFound to match")
	}
	if IsChannelNotFound(Internal(nil)) {
		t.Error("expected IsChannelNotFound to reject other codes")
	}
	if IsChannelNotFound(fmt.Errorf("plain")) {
		t.Error("expected IsChannelNotFound to reject plain errors")
	}
}

func TestAppError_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := InvalidToken().WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(Unauthorized(""))
	if !ok || appErr.Code != ErrCodeUnauthorized {
		t.Errorf("expected unauthorized AppError, got %v", appErr)
	}

	wrapped := fmt.Errorf("wrapped: %w", MissingField("data"))
	appErr, ok = AsAppError(wrapped)
	if !ok || appErr.Code != ErrCodeMissingField {
		t.Errorf("expected AppError through wrapping, got %v", appErr)
	}

	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("expected plain error not to convert")
	}
}

func TestToResponse(t *testing.T) {
	err := MissingField("data")
	resp := err.ToResponse()

	if resp.Error.Code != ErrCodeMissingField {
		t.Errorf("expected %s, got %s", ErrCodeMissingField, resp.Error.Code)
	}
	if resp.Error.Message == "" {
		t.Error("expected message in response body")
	}
}

func TestRetryableCodes(t *testing.T) {
	if !IsRetryableCode(ErrCodeServiceUnavailable) {
		t.Error("expected service unavailable to be retryable")
	}
	if IsRetryableCode(ErrCodeChannelNotFound) {
		t.Error("expected channel not found to be non-retryable")
	}
}

func TestWithDetail(t *testing.T) {
	err := Validation("bad").WithDetail("field", "x")
	if err.Details["field"] != "x" {
		t.Errorf("expected detail to be set, got %v", err.Details)
	}
}
