// Package cli provides the interactive Oculog command-line client.
//
// It wires configuration, the sealed token store, the API client and the
// session, data, location and weather layers behind a REPL. Typical flow:
// restore the stored session, load the first page of logs, then execute
// user commands until "exit".
//
// Key features:
//   - Signup / Login / Logout with automatic token refresh
//   - List, page, sort and filter daily condition logs
//   - Add / Edit / Delete entries, with a pointer to the existing entry when
//     a date is already taken
//   - Current weather for the IP-derived location
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
