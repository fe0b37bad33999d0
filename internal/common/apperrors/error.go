// Package apperrors provides chainable error values that carry an HTTP status
// code alongside the message. Errors derived from a template keep an errors.Is
// relationship with it, so callers can classify failures with the standard
// errors package while still reading the status code the server returned.
package apperrors

// Error is the interface implemented by all application errors. It extends the
// standard error interface with status-code access and template-style
// derivation. All derivation methods return Error to support chaining.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // derives a fresh error from the current one
	Msg(msg string) Error                  // new message, wraps the original
	MsgErr(msg string, err ...error) Error // new message, wraps additional errors
	Err(err ...error) Error                // attaches additional errors
	SetStatusCode(int) Error               // sets the HTTP status code
	StatusCode() int                       // returns the HTTP status code, 0 if unset
	UnwrapAll() []error                    // returns all wrapped errors
}
