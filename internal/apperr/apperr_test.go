package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := map[*Error]int{
		Validation("bad", nil):            http.StatusBadRequest,
		Conflict("dup"):                   http.StatusBadRequest,
		Unauthorized("who"):               http.StatusUnauthorized,
		Forbidden("no"):                   http.StatusForbidden,
		NotFound("gone"):                  http.StatusNotFound,
		Unavailable("later"):              http.StatusServiceUnavailable,
		Internal("boom", errors.New("x")): http.StatusInternalServerError,
	}
	for e, want := range tests {
		if got := e.Status(); got != want {
			t.Fatalf("%s: got=%d want=%d", e.Message, got, want)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("saving: %w", Internal("save logo", cause))
	if KindOf(err) != KindInternal {
		t.Fatalf("kind: got=%v", KindOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable through chain")
	}

	err = fmt.Errorf("lookup: %w", NotFound("Invoice not found"))
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind: got=%v", KindOf(err))
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Fatalf("plain errors are internal")
	}
	if got := Internal("save logo", cause).Error(); got != "save logo: disk full" {
		t.Fatalf("message: %q", got)
	}
}
