package logger

import "testing"

func TestSanitizeRedactsSecrets(t *testing.T) {
	got := sanitize([]interface{}{"user_id", 7, "jwt_token", "abc", "Password", "hunter2", "dangling"})
	want := []interface{}{"user_id", 7, "jwt_token", "[REDACTED]", "Password", "[REDACTED]", "dangling"}
	if len(got) != len(want) {
		t.Fatalf("len: got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got=%v want=%v", i, got[i], want[i])
		}
	}
}

func TestNopDoesNotPanic(t *testing.T) {
	l := Nop().With("component", "test")
	l.Info("hello", "k", "v")
	l.Sync()
}
