package repository

import "errors"

// Ошибки уровня хранилища. Сервисный слой оборачивает их в apperror.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrJobNotFound          = errors.New("job not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMediaNotFound        = errors.New("media not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrReviewExists         = errors.New("review already exists")
	ErrSessionNotFound      = errors.New("session not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrDuplicateApplication = errors.New("duplicate application")
	ErrAlreadyReleased      = errors.New("escrow already released")
)
