// Package client wraps api.TodoKeeperClient for the CLI.
// It keeps the access token of the logged-in user, attaches it to every
// outgoing call and maps gRPC status codes to the package's sentinel errors.
package client
