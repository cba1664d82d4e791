package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := New(ErrorTypeStorage, "save", cause)

	want := "storage error during save: permission denied"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestErrorMessageWithoutCause(t *testing.T) {
	err := New(ErrorTypeCorrupt, "restore", nil)

	want := "corrupt error during restore"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := New(ErrorTypeStorage, "save", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected wrapped error to match errors.Is")
	}
}

func TestIsRecoverable(t *testing.T) {
	for _, errorType := range []ErrorType{
		ErrorTypeCorrupt, ErrorTypeStorage, ErrorTypeEncode, ErrorTypeProvider,
	} {
		if !IsRecoverable(errorType) {
			t.Errorf("Expected %s to be recoverable", errorType)
		}
	}

	if IsRecoverable(ErrorType("unknown")) {
		t.Error("Expected unknown error type to not be recoverable")
	}
}
