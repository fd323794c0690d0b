package review

import (
	"testing"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityInfo, "info"},
		{SeveritySuggestion, "suggestion"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestSeverityLabel(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityInfo, "Info"},
		{SeveritySuggestion, "Suggestion"},
		{SeverityWarning, "Warning"},
		{SeverityError, "Error"},
		{Severity(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.sev.Label(); got != tt.want {
			t.Errorf("Severity(%d).Label() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestRoleString(t *testing.T) {
	if got := RoleUser.String(); got != "user" {
		t.Errorf("RoleUser.String() = %q, want %q", got, "user")
	}
	if got := RoleAssistant.String(); got != "assistant" {
		t.Errorf("RoleAssistant.String() = %q, want %q", got, "assistant")
	}
}

func TestIDSource(t *testing.T) {
	ids := NewIDSource()
	if got := ids.Next(); got != 1 {
		t.Errorf("first Next() = %d, want 1", got)
	}
	if got := ids.Next(); got != 2 {
		t.Errorf("second Next() = %d, want 2", got)
	}
}
