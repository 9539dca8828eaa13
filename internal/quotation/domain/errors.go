package domain

import "errors"

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidVariant = errors.New("invalid_variant")
	ErrNotFound       = errors.New("not_found")
	ErrUnknownField   = errors.New("unknown_field")
	ErrInvalidValue   = errors.New("invalid_value")
	ErrItemIndex      = errors.New("item_index_out_of_range")
)

// ValidationError is raised locally before any network call and blocks a save.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
