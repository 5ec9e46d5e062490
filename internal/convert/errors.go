package convert

import "errors"

var (
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrNotRegularFile       = errors.New("path is not a regular file")
)
