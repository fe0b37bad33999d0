package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	ErrBase := New("base error")
	assert.Equal(t, "base error", ErrBase.Error())
	assert.Equal(t, "derived", ErrBase.New("derived").Error())
	assert.ErrorIs(t, ErrBase, ErrBase)

	ErrDerived := ErrBase.New("derived")
	assert.Equal(t, "derived", ErrDerived.Error())
	assert.ErrorIs(t, ErrDerived, ErrBase)

	ErrOther := New("other error")
	ErrOtherMsg := ErrOther.Msg("other error msg")
	wrapped := ErrDerived.Err(ErrOtherMsg)
	assert.Equal(t, "derived", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrBase)
	assert.ErrorIs(t, wrapped, ErrDerived)
	assert.ErrorIs(t, wrapped, ErrOther)
	assert.ErrorIs(t, wrapped, ErrOtherMsg)

	plain := errors.New("plain error")
	wrapped = ErrDerived.Err(plain)
	assert.Equal(t, "derived", wrapped.Error())
	assert.ErrorIs(t, wrapped, plain)

	wrapped = ErrDerived.MsgErr("with context", plain)
	assert.Equal(t, "with context", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrBase)
	assert.ErrorIs(t, wrapped, plain)

	goErrA := fmt.Errorf("go error a")
	goErrB := fmt.Errorf("go error b")
	wrapped = ErrDerived.Err(goErrA, goErrB)
	assert.ErrorIs(t, wrapped, goErrA)
	assert.ErrorIs(t, wrapped, goErrB)
}

func TestErrorStatusCode(t *testing.T) {
	ErrNotFound := New("not found").SetStatusCode(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, ErrNotFound.StatusCode())

	// derived errors inherit the status code
	derived := ErrNotFound.New("corpus does not exist")
	assert.Equal(t, http.StatusNotFound, derived.StatusCode())
	assert.ErrorIs(t, derived, ErrNotFound)

	// messages keep the code too
	withMsg := ErrNotFound.Msg("no such layer")
	assert.Equal(t, http.StatusNotFound, withMsg.StatusCode())

	// SetStatusCode does not mutate the original
	changed := ErrNotFound.SetStatusCode(http.StatusGone)
	assert.Equal(t, http.StatusGone, changed.StatusCode())
	assert.Equal(t, http.StatusNotFound, ErrNotFound.StatusCode())

	assert.Equal(t, 0, New("no code").StatusCode())
}
