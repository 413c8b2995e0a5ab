package menu

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLabel     = errors.New("menu: empty label")
	ErrUnknownVariant = errors.New("menu: unknown variant")
	ErrInvalidVariant = errors.New("menu: invalid variant")
	ErrFontFailed     = errors.New("menu: font failed to load")
	ErrNoLabels       = errors.New("menu: no labels")
)

// LabelError reports a label that could not be built.
type LabelError struct {
	Label string
	Index int
	Err   error
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("menu: label %d (%q): %v", e.Index, e.Label, e.Err)
}

func (e *LabelError) Unwrap() error {
	return e.Err
}
