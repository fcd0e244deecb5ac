package logger

import "testing"

func TestSetGlobalLevel(t *testing.T) {
	defer SetGlobalLevel("info")

	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"error", LogLevelError},
		{"WARN", LogLevelWarn},
		{"invalid", LogLevelInfo},
		{"", LogLevelInfo},
	}
	for _, tt := range tests {
		SetGlobalLevel(tt.input)
		if GlobalLogLevel != tt.want {
			t.Errorf("SetGlobalLevel(%q) = %v, want %v", tt.input, GlobalLogLevel, tt.want)
		}
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	parent := New()
	child := parent.WithField("request_id", "abc")

	if len(parent.fields) != 0 {
		t.Errorf("parent fields mutated: %v", parent.fields)
	}
	if child.fields["request_id"] != "abc" {
		t.Errorf("child missing field: %v", child.fields)
	}

	grandchild := child.WithField("attempt", 2)
	if len(child.fields) != 1 {
		t.Errorf("child fields mutated by grandchild: %v", child.fields)
	}
	if len(grandchild.fields) != 2 {
		t.Errorf("grandchild should carry both fields: %v", grandchild.fields)
	}
}
