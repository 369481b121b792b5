// Package config loads and validates configuration for the task service and
// the task console. Values come from defaults, an optional config.yaml, a
// .env file and TASKS_-prefixed environment variables, in increasing order
// of precedence.
package config
