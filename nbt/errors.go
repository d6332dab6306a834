package nbt

import "errors"

var (
	ErrStillCompressed     = errors.New("the data still carries the gzip magic prefix, decompress it before parsing")
	ErrInvalidRoot         = errors.New("the root tag of a document must be a compound")
	ErrUnexpectedEndOfData = errors.New("a read would pass the end of the data")
	ErrMalformedData       = errors.New("the data does not follow the nbt grammar")
	ErrDepthExceeded       = errors.New("tag nesting exceeds the configured depth limit")
	ErrDecompressionFailed = errors.New("the gzip envelope could not be inflated")
)

var (
	ErrTagTypeMismatch = errors.New("the tag does not hold the requested type")
	ErrTagNotFound     = errors.New("no tag with the requested name in the compound")
)
