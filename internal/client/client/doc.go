// Package client talks to the authkeeper HTTP API.
//
// HTTPClient wraps the four public endpoints (signup, login, logout and me)
// and maps transport failures and HTTP statuses onto the sentinel errors in
// errors.go so callers can branch with errors.Is.
package client
