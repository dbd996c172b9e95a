package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInputNotFound          = errors.New("input not found")
	ErrUnsupportedMedia       = errors.New("unsupported or corrupt media")
	ErrRecognitionUnavailable = errors.New("recognition unavailable")
	ErrCleanup                = errors.New("temp resource cleanup failed")
	ErrPrecondition           = errors.New("precondition failed")
	ErrConfiguration          = errors.New("configuration error")
	ErrExternalTool           = errors.New("external tool error")

	// ErrExtractionFailed and ErrDecodeFailed refine ErrUnsupportedMedia; both
	// match it with errors.Is.
	ErrExtractionFailed = fmt.Errorf("%w: extraction failed", ErrUnsupportedMedia)
	ErrDecodeFailed     = fmt.Errorf("%w: decode failed", ErrUnsupportedMedia)
)

var markers = []error{
	ErrInputNotFound, ErrUnsupportedMedia, ErrRecognitionUnavailable, ErrCleanup,
	ErrPrecondition, ErrConfiguration, ErrExternalTool, ErrExtractionFailed, ErrDecodeFailed,
}

// Kind is the caller-facing failure category.
type Kind int

const (
	KindNone Kind = iota
	KindInputNotFound
	KindUnsupportedMedia
	KindRecognitionUnavailable
	KindPrecondition
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInputNotFound:
		return "InputNotFound"
	case KindUnsupportedMedia:
		return "UnsupportedOrCorruptMedia"
	case KindRecognitionUnavailable:
		return "RecognitionUnavailable"
	case KindPrecondition:
		return "PreconditionFailed"
	default:
		return "Fatal"
	}
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf maps any error onto the taxonomy. Cleanup failures never reach callers,
// so they have no kind of their own and classify as fatal if one leaks.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInputNotFound):
		return KindInputNotFound
	case errors.Is(err, ErrUnsupportedMedia):
		return KindUnsupportedMedia
	case errors.Is(err, ErrRecognitionUnavailable):
		return KindRecognitionUnavailable
	case errors.Is(err, ErrPrecondition), errors.Is(err, ErrConfiguration):
		return KindPrecondition
	default:
		return KindFatal
	}
}

// ExitCode maps an outcome to the process exit status. A reported backend
// failure exits zero like success; every other failure exits one.
func ExitCode(err error) int {
	switch KindOf(err) {
	case KindNone, KindRecognitionUnavailable:
		return 0
	default:
		return 1
	}
}

// Detail returns the innermost error text, which is the raw tool, library or
// backend message preserved for diagnostics.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	if isMarker(err) {
		return err.Error()
	}
	for {
		next := unwrapLast(err)
		if next == nil {
			return strings.TrimSpace(err.Error())
		}
		if isMarker(next) {
			// Wrap without a cause: the detail is everything after the marker.
			return strings.TrimSpace(strings.TrimPrefix(err.Error(), next.Error()+": "))
		}
		err = next
	}
}

func isMarker(err error) bool {
	for _, marker := range markers {
		if err == marker {
			return true
		}
	}
	return false
}

func unwrapLast(err error) error {
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		errs := e.Unwrap()
		if len(errs) == 0 {
			return nil
		}
		return errs[len(errs)-1]
	case interface{ Unwrap() error }:
		return e.Unwrap()
	default:
		return nil
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
