package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeUnauthenticated      ErrorCode = "UNAUTHENTICATED"
	ErrCodeForbiddenRole        ErrorCode = "FORBIDDEN_ROLE"
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeInvalidTransition    ErrorCode = "INVALID_TRANSITION"
	ErrCodeInsufficientFunds    ErrorCode = "INSUFFICIENT_FUNDS"
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeInvalidTransaction   ErrorCode = "INVALID_TRANSACTION"
	ErrCodeGatewayError         ErrorCode = "GATEWAY_ERROR"
	ErrCodeBadRequest           ErrorCode = "BAD_REQUEST"
	ErrCodeConflict             ErrorCode = "CONFLICT"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is позволяет сравнивать AppError по коду через errors.Is.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeForbiddenRole:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidTransition, ErrCodeBadRequest, ErrCodeInvalidTransaction:
		return http.StatusBadRequest
	case ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case ErrCodeDuplicateApplication, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeGatewayError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code возвращает код AppError или ErrCodeInternal для прочих ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HTTPStatusOf возвращает HTTP статус для ошибки.
func HTTPStatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsInsufficientFunds(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeInsufficientFunds
}

var (
	ErrUnauthenticated      = New(ErrCodeUnauthenticated, "требуется авторизация")
	ErrForbidden            = New(ErrCodeForbidden, "недостаточно прав")
	ErrUserNotFound         = New(ErrCodeNotFound, "пользователь не найден")
	ErrJobNotFound          = New(ErrCodeNotFound, "вакансия не найдена")
	ErrApplicationNotFound  = New(ErrCodeNotFound, "отклик не найден")
	ErrTransactionNotFound  = New(ErrCodeNotFound, "транзакция не найдена")
	ErrConversationNotFound = New(ErrCodeNotFound, "диалог не найден")
	ErrInsufficientFunds    = New(ErrCodeInsufficientFunds, "недостаточно средств на балансе")
	ErrDuplicateApplication = New(ErrCodeDuplicateApplication, "вы уже откликнулись на эту вакансию")
	ErrInvalidTransaction   = New(ErrCodeInvalidTransaction, "некорректная транзакция")
)
