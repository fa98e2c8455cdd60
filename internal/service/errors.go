package service

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/jhong93/multilang-captions/internal/caption"
	"github.com/jhong93/multilang-captions/internal/dictionary"
	"github.com/jhong93/multilang-captions/internal/tokenizer"
	"github.com/jhong93/multilang-captions/internal/translator"
)

type ErrorType int

const (
	ErrFormat ErrorType = iota
	ErrUnsupportedLanguage
	ErrMissingDictionary
	ErrUnsupportedPartOfSpeech
	ErrNotFound
	ErrService
	ErrValidation
	ErrUnknown
)

func (t ErrorType) String() string {
	switch t {
	case ErrFormat:
		return "Format"
	case ErrUnsupportedLanguage:
		return "UnsupportedLanguage"
	case ErrMissingDictionary:
		return "MissingDictionary"
	case ErrUnsupportedPartOfSpeech:
		return "UnsupportedPartOfSpeech"
	case ErrNotFound:
		return "NotFound"
	case ErrService:
		return "Service"
	case ErrValidation:
		return "Validation"
	default:
		return "Unknown"
	}
}

// CaptionError tags an error with its place in the taxonomy so transports
// can map it to a status without inspecting package internals.
type CaptionError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func NewError(errorType ErrorType, message string) *CaptionError {
	return &CaptionError{Type: errorType, Message: message}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *CaptionError {
	return &CaptionError{Type: errorType, Message: message, Cause: cause}
}

func WrapError(err error, errorType ErrorType, message string) *CaptionError {
	return NewErrorWithCause(errorType, message, err)
}

func (e *CaptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type.String(), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
}

func (e *CaptionError) Unwrap() error {
	return e.Cause
}

func IsErrorType(err error, errorType ErrorType) bool {
	return Classify(err) == errorType
}

// Classify maps any error to its taxonomy type, looking through wrapping.
func Classify(err error) ErrorType {
	var captionErr *CaptionError
	if errors.As(err, &captionErr) {
		return captionErr.Type
	}

	var formatErr *caption.FormatError
	if errors.As(err, &formatErr) {
		return ErrFormat
	}
	var langErr *tokenizer.UnsupportedLanguageError
	if errors.As(err, &langErr) {
		return ErrUnsupportedLanguage
	}
	var dictErr *dictionary.MissingDictionaryError
	if errors.As(err, &dictErr) {
		return ErrMissingDictionary
	}
	var posErr *translator.UnsupportedPartOfSpeechError
	if errors.As(err, &posErr) {
		return ErrUnsupportedPartOfSpeech
	}
	if errors.Is(err, translator.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return ErrUnknown
}

// HTTPStatus maps an error to the response status the API layer should
// serve for it.
func HTTPStatus(err error) int {
	switch Classify(err) {
	case ErrValidation, ErrUnsupportedLanguage, ErrUnsupportedPartOfSpeech:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
