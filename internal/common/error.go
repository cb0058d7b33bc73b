package common

import "fmt"

var (
	ErrFileNotFound        = fmt.Errorf("file not found")
	ErrEmptyObjectID       = fmt.Errorf("object id is empty")
	ErrInvalidStyle        = fmt.Errorf("invalid style")
	ErrInvalidBundle       = fmt.Errorf("invalid bundle strategy")
	ErrInvalidReadingOrder = fmt.Errorf("invalid reading order")
	ErrInvalidInput        = fmt.Errorf("invalid input")
	ErrNoEmbeddedMetadata  = fmt.Errorf("no embedded metadata")
)

// InputValidationError is reported before any output is produced. Value names
// the offending path or option value.
type InputValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *InputValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Err)
	}

	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Err)
}

func (e *InputValidationError) Unwrap() error {
	return e.Err
}

func NewInputValidationError(field, value string, err error) error {
	return &InputValidationError{Field: field, Value: value, Err: err}
}

// ClassificationError reports a failure to classify one specific file.
type ClassificationError struct {
	Path string
	Err  error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("cannot classify file %s: %s", e.Path, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

func NewClassificationError(path string, err error) error {
	return &ClassificationError{Path: path, Err: err}
}
