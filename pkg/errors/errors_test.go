package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeUnknownNode, "connection references unknown node %q", "db"),
			want: `UNKNOWN_NODE: connection references unknown node "db"`,
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeCacheBackend, fmt.Errorf("connection refused"), "redis get %s", "layout:abc"),
			want: "CACHE_BACKEND: redis get layout:abc: connection refused",
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

func TestIs(t *testing.T) {
	err := New(ErrCodeUnknownContainer, "container %q not defined", "backend")

	if !Is(err, ErrCodeUnknownContainer) {
		t.Error("Is() = false for matching code")
	}
	if Is(err, ErrCodeUnknownNode) {
		t.Error("Is() = true for non-matching code")
	}
	if Is(stderrors.New("plain"), ErrCodeUnknownContainer) {
		t.Error("Is() = true for plain error")
	}
}

func TestIsUnwrapsChain(t *testing.T) {
	inner := New(ErrCodeSceneNotFound, "scene %s missing", "abc")
	outer := fmt.Errorf("load scene: %w", inner)

	if !Is(outer, ErrCodeSceneNotFound) {
		t.Error("Is() should unwrap wrapped errors")
	}
	if got := GetCode(outer); got != ErrCodeSceneNotFound {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeSceneNotFound)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidTimeline, "phase 2 has negative duration")
	if got := UserMessage(err); got != "phase 2 has negative duration" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeInternal, cause, "resolve geometry")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find wrapped cause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}
