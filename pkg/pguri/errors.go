package pguri

import "github.com/zeebo/errs"

// Parse failure classes. Any failure aborts the whole parse with no
// partial result.
var (
	// ErrInvalidURI -- the input is not syntactically decomposable as a URI.
	ErrInvalidURI = errs.Class("invalid uri")

	// ErrUnsupportedScheme -- the URI scheme is present but not "postgresql".
	ErrUnsupportedScheme = errs.Class("unsupported scheme")

	// ErrInvalidPort -- a port value is not a valid integer.
	ErrInvalidPort = errs.Class("invalid port")

	// ErrInvalidTimeout -- a connect_timeout value is not a valid integer.
	ErrInvalidTimeout = errs.Class("invalid timeout")
)
