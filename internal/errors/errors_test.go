package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestBuildError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BuildError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestBuildError_WithContext(t *testing.T) {
	err := StructureParse(fmt.Errorf("no list")).
		WithContext("page", "Contents")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}
	if err.Context["page"] != "Contents" {
		t.Errorf("Context[page] = %v, want Contents", err.Context["page"])
	}
}

func TestBuildError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := TransclusionFetch("Example page", cause)

	if !stdErrors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	netErr := TransientHTTP("https://wiki.example.org/w/api.php", 503)
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"config error matches config category", configErr, CategoryConfig, true},
		{"config error doesn't match network category", configErr, CategoryNetwork, false},
		{"transient http matches network category", netErr, CategoryNetwork, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCategory(test.err, test.category)
			if result != test.expected {
				t.Errorf("IsCategory() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(TransientHTTP("https://wiki.example.org", 500)) {
		t.Error("transient http should be retryable")
	}
	if IsRetryable(ConversionFailed("mediawiki", "latex", fmt.Errorf("pandoc exited 64"))) {
		t.Error("conversion failures are not retryable")
	}
	if IsRetryable(fmt.Errorf("plain")) {
		t.Error("plain errors are not retryable")
	}
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationFailed("wiki.base_url", "empty"), 2},
		{"auth", LoginFailed("Reader", fmt.Errorf("bad password")), 5},
		{"config", ConfigNotFound("config.yaml"), 7},
		{"network", RequestFailed("https://wiki.example.org", fmt.Errorf("timeout")), 8},
		{"parse", StructureParse(fmt.Errorf("no list")), 11},
		{"render", DuplicateChapterFile("A_B", "A B", "A-B"), 11},
		{"internal", InternalError("unexpected", fmt.Errorf("boom")), 10},
		{"plain", fmt.Errorf("plain"), 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(test.err); got != test.code {
				t.Errorf("ExitCodeFor() = %d, want %d", got, test.code)
			}
		})
	}
}
