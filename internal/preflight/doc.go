// Package preflight provides readiness checks for the filesystem paths and
// database that venuebook depends on.
//
// The CLI "venuebook doctor" command runs RunAll and prints one line per
// check. Individual checks are exported so other commands can reuse them.
package preflight
