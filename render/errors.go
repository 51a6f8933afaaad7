package render

import "errors"

var (
	// ErrUnknownTemplate is returned when rendering a key with no template.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrInvalidTemplate is returned when a configured template does not parse.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrInvalidLanguage is returned when the configured language tag is malformed.
	ErrInvalidLanguage = errors.New("invalid language tag")
)
