package bf

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrBounds       = errors.New("bounds error")
	ErrSyntax       = errors.New("syntax error")
	ErrResource     = errors.New("resource error")
	ErrIO           = errors.New("io error")
	ErrPrecondition = errors.New("precondition error")
)

type Error struct {
	Kind   error
	Op     byte // instruction being executed, 0 if none
	Reason string
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	if e.Op != 0 {
		sb.WriteString(" (at ")
		sb.WriteString(strconv.QuoteRune(rune(e.Op)))
		sb.WriteString(")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fail(kind error, op byte, reason string) error {
	return &Error{
		Kind:   kind,
		Op:     op,
		Reason: reason,
	}
}

func failWith(kind error, op byte, reason string, err error) error {
	return &Error{
		Kind:   kind,
		Op:     op,
		Reason: reason,
		Err:    err,
	}
}
