package domain

import "time"

// Token is a signed, self-contained access token. Validity is exactly the
// signature plus the expiry; there is no server-side revocation list.
type Token struct {
	Value     string
	UID       string
	IsAdmin   bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// LoginResult is the composed outcome of one successful login. It is built
// once per request and never persisted.
type LoginResult struct {
	UID       string
	Email     string
	WorkerID  string
	FullName  string
	IsAdmin   bool
	Token     *Token
	SessionID string
}
