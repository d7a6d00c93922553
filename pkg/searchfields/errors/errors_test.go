package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	err := BadArgument("storage_mapping", "mapping rejected", stderrors.New("mapper_parsing_exception"))
	assert.Equal(t, "bad_argument: mapping rejected (field=storage_mapping): mapper_parsing_exception", err.Error())
	assert.Equal(t, "index_not_found: no such index: socorro202402", IndexNotFound("socorro202402").Error())
}

func TestIsCodeThroughWrapping(t *testing.T) {
	inner := IndexNotFound("x")
	wrapped := fmt.Errorf("scan: %w", inner)

	assert.True(t, IsCode(wrapped, ErrIndexNotFound))
	assert.False(t, IsCode(wrapped, ErrBadArgument))
	assert.Equal(t, ErrIndexNotFound, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(stderrors.New("plain")))
	assert.False(t, IsCode(nil, ErrIndexNotFound))
}

func TestOuterCodeWins(t *testing.T) {
	err := BadArgument("storage_mapping", "rejected", Wrap(ErrBackendUnavailable, "inner", nil))
	assert.Equal(t, ErrBadArgument, CodeOf(err))
	assert.True(t, IsCode(err, ErrBadArgument))
	assert.False(t, IsCode(err, ErrBackendUnavailable))
	assert.ErrorIs(t, err, err.Cause)
}
