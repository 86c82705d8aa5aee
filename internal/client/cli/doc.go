// Package cli provides the interactive kodex command-line client.
//
// It wires configuration, the local history database, the QR services and an
// optional sync client, then runs a REPL. Generating a code walks a form for
// the chosen kind; scanning decodes an image file or accepts decoded text.
// When a server address is configured a background watcher pings it and the
// prompt shows whether the client is online.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
