package errors

import (
	stderrors "errors"
	"fmt"
)

// AperoError представляет ошибку приложения с кодом и контекстом
type AperoError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Err     error       `json:"-"`
	Context interface{} `json:"context,omitempty"`
}

// Error реализует интерфейс error
func (e *AperoError) Error() string {
	msg := e.Message
	if e.Context != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Context)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap позволяет использовать errors.Is и errors.As
func (e *AperoError) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по коду, чтобы производные ошибки совпадали с предопределенными
func (e *AperoError) Is(target error) bool {
	t, ok := target.(*AperoError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithContext добавляет контекст к ошибке
func (e *AperoError) WithContext(ctx interface{}) *AperoError {
	return &AperoError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Context: ctx,
	}
}

// WithError добавляет underlying ошибку
func (e *AperoError) WithError(err error) *AperoError {
	return &AperoError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
		Context: e.Context,
	}
}

// Коды ошибок
const (
	CodeNoAperoZone          = "NO_APERO_ZONE"
	CodeDocumentUnreadable   = "DOCUMENT_UNREADABLE"
	CodePathNotFound         = "PATH_NOT_FOUND"
	CodeConfigurationInvalid = "CONFIGURATION_INVALID"
	CodeHistoryStorage       = "HISTORY_STORAGE"
	CodeNotifier             = "NOTIFIER"
)

// Предопределенные ошибки
var (
	// Ошибки поиска
	ErrNoAperoZone        = NewAperoError(CodeNoAperoZone, "no apéro zone found")
	ErrDocumentUnreadable = NewAperoError(CodeDocumentUnreadable, "info document unreadable")
	ErrPathNotFound       = NewAperoError(CodePathNotFound, "timezone not in info document")

	// Системные ошибки
	ErrConfigurationInvalid = NewAperoError(CodeConfigurationInvalid, "invalid configuration")
	ErrHistoryStorage       = NewAperoError(CodeHistoryStorage, "history storage failure")
	ErrNotifier             = NewAperoError(CodeNotifier, "notification failure")
)

// NewAperoError создает новую ошибку
func NewAperoError(code, message string) *AperoError {
	return &AperoError{
		Code:    code,
		Message: message,
	}
}

// GetAperoError извлекает AperoError из цепочки ошибок
func GetAperoError(err error) (*AperoError, bool) {
	var aerr *AperoError
	if stderrors.As(err, &aerr) {
		return aerr, true
	}
	return nil, false
}
