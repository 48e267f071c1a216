package search

import "context"

// DeeplinkBuilder signs the URL a partner embeds in its own product. The URL
// encodes the session ID and partner ID with an expiry; redeeming it is the
// main Outfit application's job, which restores the search from the session.
type DeeplinkBuilder interface {
	// Build returns the signed deeplink URL for the session
	Build(ctx context.Context, session *SearchSession) (string, error)
}
