package logging

import "testing"

func TestGlobalReturnsNoopWhenUnset(t *testing.T) {
	SetGlobal(nil)

	a := Global()
	b := Global()

	if a == nil || b == nil {
		t.Fatal("expected non-nil noop logger")
	}
}

func TestSetGlobalReturnsConfiguredLogger(t *testing.T) {
	l := New("fog")
	SetGlobal(l)
	defer SetGlobal(nil)

	if Global() != l {
		t.Fatal("expected Global to return the logger set via SetGlobal")
	}
}
