package domain

// SessionCookieName is the cookie carrying the service layer session
// identifier back to the browser.
const SessionCookieName = "B1SESSION"

// ServiceSession is the opaque session handle returned by the legacy
// service layer. Its lifetime is owned entirely by that service; the bridge
// only relays the identifier to the client.
type ServiceSession struct {
	SessionID string
}
