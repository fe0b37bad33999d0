package camomile

import (
	"errors"
	"net/http"

	"github.com/camomile-project/camomile-go/internal/common/apperrors"
	"github.com/camomile-project/camomile-go/internal/common/httpclient"
)

// Error kinds returned by the client. Match with errors.Is.
var (
	// ErrTransport indicates the request never produced an HTTP response:
	// connection refused, timeout, DNS failure, or a cancelled context.
	ErrTransport error = httpclient.ErrTransport

	// ErrAuthentication indicates a failed login or a request the server
	// rejected for lack of or invalid credentials.
	ErrAuthentication error = httpclient.ErrAuthorization

	// ErrRequest indicates any other non-2xx response: not found, validation
	// failure, conflict, server error. The message is the server's, which may
	// be empty when the response carried no body.
	ErrRequest error = httpclient.ErrRequestFailed

	// ErrSerialization indicates the server claimed a JSON response whose
	// body did not decode. Distinct from a legitimate empty body, which is
	// never an error.
	ErrSerialization = apperrors.New("malformed server response")

	// ErrInvalidOptions indicates the call was rejected locally before any
	// request was issued, because the supplied options failed validation.
	ErrInvalidOptions = apperrors.New("invalid options").SetStatusCode(http.StatusBadRequest)
)

// StatusCode returns the HTTP status code carried by err, or 0 when err holds
// none (transport failures, nil).
func StatusCode(err error) int {
	var coded interface{ StatusCode() int }
	if errors.As(err, &coded) {
		return coded.StatusCode()
	}
	return 0
}
