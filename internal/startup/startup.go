// Package startup toggles launching the app at OS login.
package startup

import "errors"

// ErrUnsupported is returned on platforms without an autostart backend.
var ErrUnsupported = errors.New("startup: not supported on this platform")
