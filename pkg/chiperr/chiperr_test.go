package chiperr

import (
	"strings"
	"testing"
)

func TestIsKind(t *testing.T) {
	err := New(AddressOverflow, 3, "lane address wrapped past 2^32")
	if !IsKind(err, AddressOverflow) {
		t.Error("IsKind should match the constructed Kind")
	}
	if IsKind(err, TimestampMismatch) {
		t.Error("IsKind should not match a different Kind")
	}
}

func TestErrorMessageIncludesContext(t *testing.T) {
	err := NewMismatch(TimestampMismatch, 5, uint32(6), uint32(7), "timestamp mismatch").WithAddress(0x1000)
	msg := err.Error()
	if msg == "" {
		t.Fatal("expected non-empty error message")
	}
	for _, want := range []string{"row=5", "address=0x1000", "want 6, got 7"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q lacks %q", msg, want)
		}
	}
}
