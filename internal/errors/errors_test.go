package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkedErrorsMatchSentinels(t *testing.T) {
	err := NewError("no destination price mapping for price_src_1").
		WithHint("Add the missing entry to the mappings document").
		Mark(ErrMissingPriceMapping)

	assert.True(t, Is(err, ErrMissingPriceMapping))
	assert.Equal(t, ErrCodeMissingPriceMapping, Code(err))
	assert.True(t, IsMissingMapping(err))
	assert.False(t, IsDownstreamAPI(err))
}

func TestWrappedErrorKeepsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := WithError(cause).
		WithHint("destination account api call failed").
		Mark(ErrDownstreamAPI)

	assert.True(t, Is(err, ErrDownstreamAPI))
	assert.ErrorContains(t, err, "connection reset")
	assert.Equal(t, ErrCodeDownstreamAPI, Code(err))
}

func TestCodeDefaultsToSystemError(t *testing.T) {
	assert.Equal(t, ErrCodeSystemError, Code(stderrors.New("plain")))
}

func TestHintAppearsInMessage(t *testing.T) {
	err := NewErrorf("no %s mapping for %s", "customer", "cus_1").
		WithHint("Add the missing entry").
		Mark(ErrMissingCustomerMapping)

	assert.ErrorContains(t, err, "no customer mapping for cus_1")
}
