package domain

import "errors"

var (
	// ErrInvalidCredentials covers every identity provider rejection: bad
	// password, unknown account, or provider outage. Callers must not be
	// able to tell these apart.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound means no authorization record exists for the email.
	ErrUserNotFound = errors.New("user not found")

	// ErrAmbiguousUser means more than one record matched the email. Email
	// is unique by business rule, so this is a data integrity failure.
	ErrAmbiguousUser = errors.New("multiple user records match email")

	// ErrIdentityMismatch means the identity provider uid and the stored
	// record uid disagree.
	ErrIdentityMismatch = errors.New("uid does not match user record")

	// ErrNotAdmin means the record exists and is consistent but the user
	// is not an administrator.
	ErrNotAdmin = errors.New("access denied: admins only")

	// ErrServiceLayer means the legacy service layer was unreachable or
	// rejected the service login.
	ErrServiceLayer = errors.New("service layer login failed")
)
