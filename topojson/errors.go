package topojson

import "errors"

// A list of errors returned from package
var (
	ErrKeyNotFound      = errors.New("Object key not found in topology")
	ErrTypeMismatch     = errors.New("Object is not a GeometryCollection")
	ErrAlreadyQuantized = errors.New("Already quantized")
	ErrBadQuantizeN     = errors.New("Quantize n must be 2 or larger")
	ErrNonPolygonArea   = errors.New("Cannot compute the area of a non-polygon ring")
)
