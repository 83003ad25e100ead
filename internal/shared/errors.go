package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountExpired indicates the dealer package validity has lapsed.
	ErrAccountExpired = errors.New("account expired")
	// ErrAccountPending indicates the dealer is awaiting admin approval.
	ErrAccountPending = errors.New("account pending approval")
	// ErrAccountBlocked indicates the dealer has been disabled by an admin.
	ErrAccountBlocked = errors.New("account blocked")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
