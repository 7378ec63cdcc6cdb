package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Note-related errors
	ErrNoteContentRequired = errors.New("content is required")
	ErrInvalidNoteID       = errors.New("invalid note id")

	// Export errors
	ErrExportTooLarge = errors.New("too many notes to export")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsNoteContentRequired(err error) bool {
	return errors.Is(err, ErrNoteContentRequired)
}

func IsExportTooLarge(err error) bool {
	return errors.Is(err, ErrExportTooLarge)
}

func IsInvalidNoteID(err error) bool {
	return errors.Is(err, ErrInvalidNoteID)
}
