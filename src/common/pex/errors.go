package pex

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord  = errors.New("malformed record")
	ErrUnexpectedPrefix = errors.New("unexpected prefix")
	ErrRunStructure     = errors.New("invalid run structure")
)

// MalformedRecordError reports a record with the wrong field count or an unparseable field.
type MalformedRecordError struct {
	Line   int
	Kind   string
	Text   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("invalid %s entry %q at line %d: %s", e.Kind, e.Text, e.Line, e.Reason)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// UnexpectedPrefixError reports a record inside a movement run that is neither TSP nor TMV.
type UnexpectedPrefixError struct {
	Line   int
	Prefix string
}

func (e *UnexpectedPrefixError) Error() string {
	return fmt.Sprintf("unknown movement prefix %q inside run at line %d", e.Prefix, e.Line)
}

func (e *UnexpectedPrefixError) Is(target error) bool {
	return target == ErrUnexpectedPrefix
}

type RunStructureError struct {
	Line   int
	Reason string
}

func (e *RunStructureError) Error() string {
	return fmt.Sprintf("run at line %d %s", e.Line, e.Reason)
}

func (e *RunStructureError) Is(target error) bool {
	return target == ErrRunStructure
}

// ErrorLine returns the line number carried by a structured parse error, or 0.
func ErrorLine(err error) int {
	var malformed *MalformedRecordError
	var prefix *UnexpectedPrefixError
	var structure *RunStructureError

	switch {
	case errors.As(err, &malformed):
		return malformed.Line
	case errors.As(err, &prefix):
		return prefix.Line
	case errors.As(err, &structure):
		return structure.Line
	}
	return 0
}
