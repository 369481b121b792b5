// Package session owns the console's client-local session identifier.
//
// The identifier is generated on first use, written to a TOML file and
// reused by every later call and every later process until the file is
// cleared. It is an unauthenticated token that only partitions task lists.
package session
