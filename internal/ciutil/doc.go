// Package ciutil centralizes detection of CI environments and lookup of
// environment variables that have more than one accepted name, such as the
// test database URL.
package ciutil
