package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"bad request", BadRequest("nope"), KindBadRequest},
		{"unauthorized", Unauthorized("nope"), KindUnauthorized},
		{"not found", NotFound("nope"), KindNotFound},
		{"conflict", Conflict("nope"), KindConflict},
		{"internal", Internal("boom", errors.New("cause")), KindInternal},
		{"plain error is internal", errors.New("anything"), KindInternal},
		{"wrapped keeps its kind", fmt.Errorf("context: %w", NotFound("gone")), KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "task not found", MessageOf(NotFound("task not found")))
	assert.Equal(t, "already running", MessageOf(Conflict("already running")))

	// Internal causes never leak to the client.
	assert.Equal(t, "internal server error", MessageOf(Internal("db exploded", errors.New("secret detail"))))
	assert.Equal(t, "internal server error", MessageOf(errors.New("raw failure")))
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("root cause")
	err := Internal("wrapper", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "root cause")
}
