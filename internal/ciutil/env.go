package ciutil

import (
	"log/slog"
	"net/url"
	"os"
	"strings"
)

// Environment variable names read by this package.
const (
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"

	EnvTestDatabaseURL  = "TASKS_TEST_DB_URL"
	EnvDatabaseURL      = "DATABASE_URL"
	EnvTasksDatabaseURL = "TASKS_DATABASE_URL"
)

// IsCI reports whether any of the common CI provider variables is set.
func IsCI() bool {
	for _, name := range []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvCircleCI} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// GetEnvWithFallbacks returns the value of the first non-empty variable in
// envVars, or defaultValue when none is set. Using anything other than the
// first name is logged as a warning when logger is non-nil.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, envVar := range envVars {
		val := os.Getenv(envVar)
		if val == "" {
			continue
		}
		if i > 0 && logger != nil {
			logger.Warn("using fallback environment variable",
				"used_var", envVar,
				"preferred_var", envVars[0],
				"value", MaskSensitiveValue(val),
			)
		}
		return val
	}
	return defaultValue
}

// GetTestDatabaseURL returns the database URL integration tests should use,
// or "" when none is configured.
func GetTestDatabaseURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks(
		[]string{EnvTestDatabaseURL, EnvDatabaseURL, EnvTasksDatabaseURL},
		"",
		logger,
	)
}

// MaskSensitiveValue hides the password of connection URLs and the middle of
// values that look like keys or tokens.
func MaskSensitiveValue(value string) string {
	if strings.Contains(value, "://") {
		u, err := url.Parse(value)
		if err == nil && u.User != nil {
			if _, hasPassword := u.User.Password(); hasPassword {
				u.User = url.UserPassword(u.User.Username(), "xxxxx")
				return u.String()
			}
		}
		return value
	}

	lower := strings.ToLower(value)
	if len(value) > 8 && (strings.Contains(lower, "key") ||
		strings.Contains(lower, "token") ||
		strings.Contains(lower, "secret")) {
		return value[:4] + "****" + value[len(value)-4:]
	}

	return value
}
