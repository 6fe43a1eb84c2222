package fill

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a fill failure
type Kind int

const (
	// TemplateUnavailable means no template bytes could be obtained
	TemplateUnavailable Kind = iota + 1
	// LoadFailure means the template bytes are not a loadable document
	LoadFailure
	// DecodeFailure means a page's content stream could not be decoded
	DecodeFailure
	// RenderFailure means the toolkit rejected a draw call
	RenderFailure
	// SaveFailure means the filled document could not be written
	SaveFailure
)

func (k Kind) String() string {
	switch k {
	case TemplateUnavailable:
		return "template unavailable"
	case LoadFailure:
		return "load failure"
	case DecodeFailure:
		return "decode failure"
	case RenderFailure:
		return "render failure"
	case SaveFailure:
		return "save failure"
	default:
		return "unknown failure"
	}
}

// Error is returned by every fill operation. Page is 1-based and zero
// when the failure is not tied to a page.
type Error struct {
	Kind Kind
	Page int
	Err  error
}

func (e *Error) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s on page %d: %v", e.Kind, e.Page, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError wraps err with a kind and page
func newError(kind Kind, page int, err error) *Error {
	return &Error{Kind: kind, Page: page, Err: err}
}

// IsKind reports whether err is, or wraps, an *Error of the given kind
func IsKind(err error, kind Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or zero
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
