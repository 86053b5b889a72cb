package client

import "errors"

// ErrNotSignedIn is returned by calls that need a session before one exists.
var ErrNotSignedIn = errors.New("not signed in")
