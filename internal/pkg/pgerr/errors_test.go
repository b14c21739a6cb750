package pgerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImmutable(t *testing.T) {
	e := New(400, "INVALID_REQUEST", "invalid request: some or all request parameters are invalid")
	changed := e.Msg("%s", "changed")
	assert.NotEqual(t, "changed", e.Message)
	assert.Equal(t, "changed", changed.Message)
}

func TestWithExtras(t *testing.T) {
	e := ErrNotFound.WithExtras(Extras{"round": 7})
	assert.Nil(t, ErrNotFound.Extras)
	assert.Equal(t, 7, (*e.Extras)["round"])
	assert.Equal(t, 404, e.StatusCode)
}

func TestNewInvalidViolations(t *testing.T) {
	e := NewInvalidViolations([]string{"limit"})
	assert.Equal(t, CodeInvalidRequest, e.ErrorCode)
	assert.Nil(t, ErrInvalidReq.Extras)
	assert.Equal(t, []string{"limit"}, (*e.Extras)["violations"])
}
