// Package cli is an interactive client for the leads backend built on the
// session package.
//
// It wires configuration, the SQLite credentials store, logging and metrics
// into a session.Client and serves a small REPL. On start the persisted
// session is checked once; afterwards every data command goes through the
// client's refresh-then-call contract.
//
// Commands:
//   - login, register, logout, forgot, reset, whoami
//   - get <endpoint> [k=v ...], post <endpoint>, delete <endpoint>
//   - upload <endpoint> <file>, profile, groups [userID], file <path>
//
// App.Run blocks until the user exits.
package cli
