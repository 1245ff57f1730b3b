package apperr

import "errors"

// Invalid is returned when input fails client-side validation; no request
// is sent to a remote service.
var Invalid = errors.New("invalid input")

// AuthFailed indicates that the auth service rejected the credentials or
// QR token. The session is left unchanged.
var AuthFailed = errors.New("authentication failed")

// NotFound indicates that the requested resource does not exist.
var NotFound = errors.New("not found")

// Conflict indicates a uniqueness or state conflict (HTTP 409).
var Conflict = errors.New("conflict")

// Unavailable indicates a transport failure or a malformed response from a
// remote service.
var Unavailable = errors.New("service unavailable")
