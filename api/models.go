package api

import "time"

// LoginRequest is the login body. Credentials are transient: never
// persisted, never logged.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the successful login body. The session identifier is
// additionally set as a cookie.
type LoginResponse struct {
	Message     string `json:"message"`
	UID         string `json:"uid"`
	Email       string `json:"email"`
	WorkerID    string `json:"workerId"`
	FullName    string `json:"fullName"`
	IsAdmin     bool   `json:"isAdmin"`
	CustomToken string `json:"customToken"`
	SessionID   string `json:"sessionId"`
}

// ErrorResponse carries a safe, generic message. Raw downstream error text
// stays in server-side logs.
type ErrorResponse struct {
	Message string `json:"message"`
}

// SessionResponse describes the authenticated caller of a bearer-protected
// request.
type SessionResponse struct {
	UID       string    `json:"uid"`
	IsAdmin   bool      `json:"isAdmin"`
	ExpiresAt time.Time `json:"expiresAt"`
}
