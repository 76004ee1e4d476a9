package domain

import "testing"

func TestFormField_DisplayLabel(t *testing.T) {
	if got := (FormField{Name: "email", Label: "Email Address *"}).DisplayLabel(); got != "Email Address" {
		t.Errorf("unexpected label %q", got)
	}
	if got := (FormField{Name: "email", Label: " * "}).DisplayLabel(); got != "email" {
		t.Errorf("expected name fallback, got %q", got)
	}
}

func TestForm_Value(t *testing.T) {
	f := Form{Fields: []FormField{{Name: "email", Value: "a@b.co"}}}
	if f.Value("email") != "a@b.co" || f.Value("phone") != "" {
		t.Error("unexpected form values")
	}
}

func TestParseNotificationType(t *testing.T) {
	if ParseNotificationType("error") != NotificationError {
		t.Error("expected error type")
	}
	if got := ParseNotificationType("loud"); got != NotificationInfo || got.Color() != "#2563eb" {
		t.Errorf("unknown type should be info, got %s", got)
	}
}
