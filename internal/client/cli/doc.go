// Package cli provides the interactive ele terminal client.
//
// It wires configuration, the local keychain, the gRPC client and the
// profile services into a REPL. Typical flow: sign in (password, saved
// credentials behind a biometric-style prompt, or a Google/Apple token),
// review the profile, edit fields, pick a photo and save.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// A background watcher pings the server and reports online/offline changes.
package cli
