package identity

import "errors"

// ErrConfigUnavailable wraps every failure to fetch or decode the identity
// config. Callers treat it as fatal: the gateway has no fallback identity
// source, so a request that needs config and cannot get it becomes a server
// error rather than a login redirect.
var ErrConfigUnavailable = errors.New("identity config unavailable")
