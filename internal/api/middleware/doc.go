// Package middleware holds the HTTP middleware specific to the task API.
package middleware
