package validate

import (
	"strings"
	"testing"
)

func TestTitle(t *testing.T) {
	if msg := Title("Fix bug"); msg != "" {
		t.Fatalf("expected valid title, got %q", msg)
	}
	for _, blank := range []string{"", "   ", "\t\n"} {
		if msg := Title(blank); msg != "Please enter a valid title!" {
			t.Fatalf("title %q: unexpected message %q", blank, msg)
		}
	}
	if msg := Title(strings.Repeat("x", 5000)); msg != "" {
		t.Fatalf("long titles are accepted, got %q", msg)
	}
}

type sample struct {
	Name string `validate:"required"`
	Port int    `validate:"gt=0"`
}

func TestStruct_HumanizesErrors(t *testing.T) {
	err := Struct(sample{})
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "sample.name is required") || !strings.Contains(msg, "sample.port must be greater than 0") {
		t.Fatalf("unexpected message: %s", msg)
	}
	if err := Struct(sample{Name: "x", Port: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
