package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneStillMatchesSentinel(t *testing.T) {
	err := Clone(ErrNotFound, "Schedule not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromErrorFindsWrappedTypedError(t *testing.T) {
	inner := Wrap(errors.New("token expired"), ErrOAuthExchange.Code, ErrOAuthExchange.Status, "exchange failed")
	got := FromError(fmt.Errorf("callback: %w", inner))
	assert.Same(t, inner, got)
	assert.Equal(t, http.StatusBadGateway, got.Status)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("disk full"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, "internal server error: disk full", got.Error())
	assert.Nil(t, FromError(nil))
}
