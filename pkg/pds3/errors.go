package pds3

import (
	"fmt"

	pdserrors "github.com/pdssp/pds-crawler/pkg/errors"
)

// ParseError reports a grammar violation with enough context to locate it
// in the source file: the file name, the 1-indexed line and column, and
// the offending token.
type ParseError struct {
	File   string
	Line   int
	Column int
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s (token %q)", e.File, e.Line, e.Column, e.Reason, e.Token)
}

// AsError wraps a ParseError as a tagged *errors.Error with ErrCodeParse,
// for uniform handling by the ETL driver's report writer.
func (e *ParseError) AsError() error {
	return pdserrors.Wrap(pdserrors.ErrCodeParse, e, "%s", e.Reason)
}

// MissingSubObject builds the ParseError for an invariant violation: a
// required sub-object absent from the parsed tree. Per spec, this is
// surfaced as a parse error of the same class as a grammar rejection.
func MissingSubObject(file string, line int, kind, missing string) *ParseError {
	return &ParseError{
		File:   file,
		Line:   line,
		Token:  kind,
		Reason: fmt.Sprintf("missing required %s", missing),
	}
}
