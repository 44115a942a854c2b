// Package sessions persists API session tokens in SQLite. Tokens are created
// out of band (CLI) and presented by browsers via the session cookie.
package sessions
