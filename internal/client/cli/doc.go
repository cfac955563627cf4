// Package cli provides the authkeeper command-line client.
//
// Each invocation runs one command (signup, login, logout or me) against the
// HTTP API. Credentials are prompted for interactively, with the password read
// without echo. The access token issued by login is kept in a token file so
// later logout and me invocations can present it.
package cli
