package analyzer

import "fmt"

// ErrorKind is the closed taxonomy of recoverable failures the engine
// can surface. Every kind maps to one of the four classes in the
// error-handling design: I/O, resource, configuration, input.
type ErrorKind string

const (
	ErrFileNotFound       ErrorKind = "FileNotFound"
	ErrPermissionDenied   ErrorKind = "PermissionDenied"
	ErrIO                 ErrorKind = "IOError"
	ErrOutOfMemory        ErrorKind = "OutOfMemory"
	ErrMaxDepthExceeded   ErrorKind = "MaxDepthExceeded"
	ErrEmptyPatternName   ErrorKind = "EmptyPatternName"
	ErrEmptyPattern       ErrorKind = "EmptyPattern"
	ErrDuplicatePattern   ErrorKind = "DuplicatePatternName"
	ErrInvalidSeverity    ErrorKind = "InvalidSeverityLevel"
	ErrInvalidLogLevel    ErrorKind = "InvalidLogLevel"
	ErrParse              ErrorKind = "ParseError"
)

// AnalysisError is the error type every exported facade function, and
// the driver's single-file and in-memory wrappers, return on failure
// (Driver.CheckProject returns a plain error). It is never used to signal a partial
// result: on error the caller gets (AnalysisResult{}, err), never a
// half-populated result.
type AnalysisError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

func newError(kind ErrorKind, path string, err error) *AnalysisError {
	return &AnalysisError{Kind: kind, Path: path, Err: err}
}

// Is allows errors.Is(err, &analyzer.AnalysisError{Kind: analyzer.ErrMaxDepthExceeded})
// style checks: when the target is itself an *AnalysisError, only the
// Kind fields are compared (Path and Err are ignored).
func (e *AnalysisError) Is(target error) bool {
	other, ok := target.(*AnalysisError)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}
