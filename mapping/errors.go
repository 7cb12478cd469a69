package mapping

import "errors"

var (
	// ErrInvalidTable is returned when a mapping table fails validation.
	ErrInvalidTable = errors.New("invalid mapping table")

	// ErrEmptyIDColumn is returned when a table does not name an identifier column.
	ErrEmptyIDColumn = errors.New("identifier column required")
)
