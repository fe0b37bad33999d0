// Package camomile is a client for the Camomile annotation-management REST
// API. It wraps the server's endpoint surface with one method per route:
// authentication, CRUD on corpora, media, layers, annotations, users, groups
// and queues, permission management, metadata, history, count routes, and
// server-sent-event subscriptions.
//
// A Client holds the server base URL and the session credentials obtained by
// Login. Construction performs no network activity:
//
//	client, err := camomile.New("http://localhost:3000")
//	if err != nil {
//		...
//	}
//	if _, err := client.Login(ctx, "alice", "secret"); err != nil {
//		...
//	}
//	corpora, err := client.GetCorpora(ctx)
//
// Every call issues exactly one HTTP round trip and blocks until it completes
// or fails. The client performs no retry, no caching, and no local permission
// checks; all errors propagate to the caller. Failures are classified by the
// sentinel errors in this package (ErrTransport, ErrAuthentication,
// ErrRequest, ErrSerialization, ErrInvalidOptions) and carry the HTTP status
// code where one was received; see StatusCode.
//
// A Client is not safe for concurrent use while Login or Logout is in flight;
// callers sharing one instance across goroutines must serialize access.
// Independent Client instances are fully isolated.
package camomile
