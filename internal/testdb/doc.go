// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database. Tests call IsIntegrationTestEnvironment to decide
// whether to skip, GetTestDBWithT to obtain a migrated connection and WithTx
// to run statements inside a transaction that is always rolled back.
package testdb
