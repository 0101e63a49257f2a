// Package main hosts the venuebook CLI entrypoint and command graph.
//
// Commands resolve configuration once, open the SQLite store for the duration
// of a single invocation, and act as the user recorded in the session file.
// Commands that change data hold the operation lock so concurrent invocations
// cannot interleave their check-then-write sequences.
package main
