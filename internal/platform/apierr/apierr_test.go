package apierr

import (
	"fmt"
	"net/http"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "wrapped not found", err: fmt.Errorf("load entity: %w", ErrNotFound), status: http.StatusNotFound, code: "not_found"},
		{name: "invalid", err: fmt.Errorf("kind: %w", ErrInvalidArgument), status: http.StatusBadRequest, code: "invalid_argument"},
		{name: "explicit", err: New(http.StatusConflict, "busy", fmt.Errorf("x")), status: http.StatusConflict, code: "busy"},
		{name: "unknown", err: fmt.Errorf("boom"), status: http.StatusInternalServerError, code: "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := Classify(tc.err)
			if status != tc.status || code != tc.code {
				t.Fatalf("expected %d/%s got %d/%s", tc.status, tc.code, status, code)
			}
		})
	}
}
