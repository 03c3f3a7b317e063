// Package cli provides the interactive Ephemeral command-line client.
//
// It wires configuration, the local session database, the remote store and
// the journal services into an interactive REPL. Typical flow: restore a
// persisted session, greet the writer, and execute user commands until
// exit.
package cli
