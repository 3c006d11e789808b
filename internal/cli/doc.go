// Package cli defines the savor command tree.
//
// # Overview
//
// The root command's PersistentPreRunE loads configuration, builds the
// API client and the output formatter, and stores them on a shared app
// value that every subcommand reads. Commands stay thin: validate
// arguments, call one client method, hand the result to the formatter.
//
// # Error handling
//
// Commands return errors; Execute funnels them through a single
// diagnostic path that maps the client's typed errors to short
// messages and, where it helps, a recovery hint (connection failures
// suggest checking that the server is reachable, auth failures point
// at the auth_token setting). --debug raises the log level so the
// transport's retry warnings become visible.
//
// # Slow commands
//
// Discovery and generation commands wrap their request in a transient
// spinner. The spinner only appears for table output on a terminal;
// json and yaml output stay clean for piping.
package cli
