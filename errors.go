package grib

import "errors"

var (
	// ErrUnresolvedReference indicates that a field parameter names a field that does not
	// precede it in the message. The accessor tree cannot be built.
	ErrUnresolvedReference = errors.New("grib: unresolved field reference")

	// ErrKeyNotFound indicates that no accessor in the message matches the requested key.
	ErrKeyNotFound = errors.New("grib: key not found")

	// ErrUnsupportedOperation indicates that a kind neither implements nor inherits the
	// requested operation.
	ErrUnsupportedOperation = errors.New("grib: operation not supported by kind")

	// ErrTypeCoercion indicates that a value cannot be converted to or from the native
	// type of the field (e.g. text that does not parse as an integer).
	ErrTypeCoercion = errors.New("grib: type coercion failed")

	// ErrBufferCapacityExceeded indicates that a resize would grow the message past its
	// capacity, or an array past its declared maximum element count.
	ErrBufferCapacityExceeded = errors.New("grib: buffer capacity exceeded")

	// ErrUnknownKind indicates a field kind that has not been registered.
	ErrUnknownKind = errors.New("grib: unknown field kind")

	// ErrKindExists indicates a second registration for the same kind tag.
	ErrKindExists = errors.New("grib: kind already registered")

	// ErrInvalidDefinition indicates a field specification with missing or malformed parameters.
	ErrInvalidDefinition = errors.New("grib: invalid field definition")

	// ErrValueOutOfRange indicates a value that does not fit the encoded width of a field.
	ErrValueOutOfRange = errors.New("grib: value out of range")

	// ErrReadOnly indicates a write to a field that cannot be set by callers.
	ErrReadOnly = errors.New("grib: field is read-only")

	// ErrArraySizeMismatch indicates that the number of values supplied or requested does not
	// match the number of values held by the key.
	ErrArraySizeMismatch = errors.New("grib: array size mismatch")

	// ErrInvalidKey indicates a key that cannot be parsed.
	ErrInvalidKey = errors.New("grib: invalid key")

	// ErrTruncatedData indicates that the definition describes more bytes than the message holds.
	ErrTruncatedData = errors.New("grib: truncated data")

	// ErrTrailingData indicates bytes left over after the last field of the definition.
	ErrTrailingData = errors.New("grib: trailing data after last field")

	// ErrClosed indicates use of a message after Close.
	ErrClosed = errors.New("grib: message is closed")

	// ErrRebuildLoop indicates that rebuilding stale subtrees did not converge.
	ErrRebuildLoop = errors.New("grib: stale subtree rebuild did not converge")
)
