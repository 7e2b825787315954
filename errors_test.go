package sdk

import (
	"errors"
	"strings"
	"testing"
)

func TestSDKError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *SDKError
		want []string
	}{
		{
			name: "with underlying error",
			err: &SDKError{
				Op:   "Explorer.Run",
				Kind: KindExecution,
				Err:  ErrExecutionFailed,
			},
			want: []string{"sdk:", "Explorer.Run", KindExecution, "execution failed"},
		},
		{
			name: "without underlying error",
			err: &SDKError{
				Op:   "NewExplorer",
				Kind: KindValidation,
			},
			want: []string{"sdk:", "NewExplorer", KindValidation},
		},
		{
			name: "with context",
			err: &SDKError{
				Op:      "Explorer.Run",
				Kind:    KindExecution,
				Err:     ErrExecutionFailed,
				Context: map[string]any{"scenario": "demo-5x5"},
			},
			want: []string{"context", "demo-5x5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, substr := range tt.want {
				if !strings.Contains(msg, substr) {
					t.Errorf("Error() = %q, want substring %q", msg, substr)
				}
			}
		})
	}
}

func TestSDKError_Unwrap(t *testing.T) {
	err := NewExecutionError("Explorer.Run", ErrExecutionFailed)
	if !errors.Is(err, ErrExecutionFailed) {
		t.Error("errors.Is should match the wrapped sentinel")
	}
	if errors.Is(err, ErrInvalidConfig) {
		t.Error("errors.Is should not match an unrelated sentinel")
	}
}

func TestSDKError_Is(t *testing.T) {
	err := NewValidationError("NewExplorer", ErrScenarioInvalid)

	// Kind-only match.
	if !errors.Is(err, &SDKError{Kind: KindValidation}) {
		t.Error("should match on kind alone")
	}
	// Kind and op match.
	if !errors.Is(err, &SDKError{Op: "NewExplorer", Kind: KindValidation}) {
		t.Error("should match on kind and op")
	}
	// Op mismatch.
	if errors.Is(err, &SDKError{Op: "Explorer.Run", Kind: KindValidation}) {
		t.Error("should not match a different op")
	}
	// Kind mismatch.
	if errors.Is(err, &SDKError{Kind: KindNetwork}) {
		t.Error("should not match a different kind")
	}
}

func TestSDKError_WithContext(t *testing.T) {
	base := NewExecutionError("Explorer.Run", ErrExecutionFailed)
	withCtx := base.WithContext(map[string]any{"run_id": "abc"})

	if base.Context != nil {
		t.Error("WithContext should not mutate the original error")
	}
	if withCtx.Context["run_id"] != "abc" {
		t.Errorf("Context = %v", withCtx.Context)
	}
}

func TestErrorConstructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  *SDKError
		kind string
	}{
		{"not found", NewNotFoundError("op", cause), KindNotFound},
		{"validation", NewValidationError("op", cause), KindValidation},
		{"execution", NewExecutionError("op", cause), KindExecution},
		{"configuration", NewConfigurationError("op", cause), KindConfiguration},
		{"network", NewNetworkError("op", cause), KindNetwork},
		{"internal", NewInternalError("op", cause), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", tt.err.Kind, tt.kind)
			}
			if !errors.Is(tt.err, cause) {
				t.Error("should wrap the cause")
			}
		})
	}
}
