// Package cli provides the interactive studydeck command-line client.
//
// It wires configuration, the local SQLite database, the remote store,
// the generation service and an interactive REPL that keeps working when
// the server is unreachable. Typical flow: restore or log into a session,
// start the background jobs (connectivity watcher and deck refresh) and
// execute user commands.
//
// Key features:
//   - Login / Logout (online with offline fallback)
//   - Create decks in the creator chat from a subject or a PDF
//   - Edit decks through their own chat
//   - Teaching sessions with audio explanations and evaluation
//   - Decks created offline are uploaded once the server is back
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
