package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, New(ErrCodeUnauthenticated, "x").HTTPStatus)
	assert.Equal(t, http.StatusForbidden, New(ErrCodeForbiddenRole, "x").HTTPStatus)
	assert.Equal(t, http.StatusNotFound, New(ErrCodeNotFound, "x").HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, New(ErrCodeInvalidTransition, "x").HTTPStatus)
	assert.Equal(t, http.StatusPaymentRequired, New(ErrCodeInsufficientFunds, "x").HTTPStatus)
	assert.Equal(t, http.StatusConflict, New(ErrCodeDuplicateApplication, "x").HTTPStatus)
	assert.Equal(t, http.StatusBadGateway, New(ErrCodeGatewayError, "x").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, New(ErrCodeInternal, "x").HTTPStatus)
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, ErrCodeGatewayError, "шлюз недоступен")

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "шлюз недоступен")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, CodeOf(ErrJobNotFound))
	assert.Equal(t, ErrCodeNotFound, CodeOf(fmt.Errorf("обёртка: %w", ErrJobNotFound)))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("прочая ошибка")))
}

func TestIs_MatchesByCode(t *testing.T) {
	assert.True(t, errors.Is(New(ErrCodeInsufficientFunds, "своё сообщение"), ErrInsufficientFunds))
	assert.False(t, errors.Is(New(ErrCodeNotFound, "x"), ErrInsufficientFunds))
}

func TestHTTPStatusOf_Unknown(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusOf(errors.New("boom")))
}
