package dataset

import "errors"

var (
	// ErrInvalidSchema is returned when the header does not match the survey export layout
	ErrInvalidSchema = errors.New("dataset: invalid schema")

	// ErrEmptyData indicates that the source has no header row
	ErrEmptyData = errors.New("dataset: empty data source")

	// ErrUnsupportedFormat indicates an extension we cannot read
	ErrUnsupportedFormat = errors.New("dataset: unsupported file format")
)
