package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "No image provided.", PublicMessage(New(CodeInvalidParam, "No image provided.")))
	assert.Equal(t, "generation failed: EOF", PublicMessage(Wrap(io.EOF, CodeLLMProviderError, "generation failed")))
	assert.Equal(t, "plain", PublicMessage(fmt.Errorf("plain")))
	assert.Equal(t, "", PublicMessage(nil))
}

func TestAsAppErrorFindsWrapped(t *testing.T) {
	inner := New(CodeInvalidParam, "bad")
	wrapped := fmt.Errorf("outer: %w", inner)

	assert.True(t, IsAppError(wrapped))
	assert.Same(t, inner, AsAppError(wrapped))
	assert.True(t, HasCode(wrapped, CodeInvalidParam))
	assert.False(t, HasCode(wrapped, CodeStorageError))

	unknown := AsAppError(io.EOF)
	assert.Equal(t, CodeUnknown, unknown.Code)
	assert.ErrorIs(t, unknown, io.EOF)
}

func TestCodeToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, New(CodeInvalidParam, "x").HTTPStatus)
	assert.Equal(t, http.StatusTooManyRequests, ErrTooManyRequests.HTTPStatus)
	assert.Equal(t, http.StatusBadGateway, New(CodeLLMProviderError, "x").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, New(CodeStorageError, "x").HTTPStatus)
}
