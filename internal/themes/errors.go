package themes

import "errors"

var (
	// ErrIndexOutOfRange is returned when a row index falls outside the
	// current theme list.
	ErrIndexOutOfRange = errors.New("theme index out of range")
	// ErrThemeNotFound is returned when no theme with the requested name
	// exists in the current list.
	ErrThemeNotFound = errors.New("theme not found")
)
