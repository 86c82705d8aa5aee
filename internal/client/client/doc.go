// Package client holds the kodex client's connections: the local SQLite
// database (InitDatabase) and the optional sync server (GRPCClient).
//
// GRPCClient attaches the configured access token to every call and maps
// gRPC status codes to the sentinel errors in errors.go and common.
package client
