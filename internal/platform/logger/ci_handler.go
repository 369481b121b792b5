package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ciEnvVars lists the CI environment variables copied onto every record.
var ciEnvVars = map[string]string{
	"GITHUB_RUN_ID":      "ci_run_id",
	"GITHUB_SHA":         "ci_commit",
	"GITHUB_REF_NAME":    "ci_branch",
	"GITHUB_WORKFLOW":    "ci_workflow",
	"CI_PIPELINE_ID":     "ci_run_id",
	"CI_COMMIT_SHA":      "ci_commit",
	"CI_COMMIT_REF_NAME": "ci_branch",
}

// CIHandler is a slog.Handler that adds CI environment metadata to log records.
type CIHandler struct {
	handler  slog.Handler
	metadata map[string]string
}

// NewCIHandler creates a CIHandler writing JSON to out.
func NewCIHandler(out io.Writer, opts *slog.HandlerOptions) *CIHandler {
	var handlerOpts slog.HandlerOptions
	if opts != nil {
		handlerOpts = *opts
	}

	return &CIHandler{
		handler:  slog.NewJSONHandler(out, &handlerOpts),
		metadata: getCIMetadata(),
	}
}

// getCIMetadata collects the CI variables that are set in the environment.
func getCIMetadata() map[string]string {
	metadata := map[string]string{"ci": "true"}
	for envVar, key := range ciEnvVars {
		if value := os.Getenv(envVar); value != "" {
			metadata[key] = value
		}
	}
	return metadata
}

// Enabled implements the slog.Handler interface.
func (h *CIHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface.
func (h *CIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CIHandler{
		handler:  h.handler.WithAttrs(attrs),
		metadata: h.metadata,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *CIHandler) WithGroup(name string) slog.Handler {
	return &CIHandler{
		handler:  h.handler.WithGroup(name),
		metadata: h.metadata,
	}
}

// Handle implements the slog.Handler interface.
func (h *CIHandler) Handle(ctx context.Context, record slog.Record) error {
	enhanced := record.Clone()
	for key, value := range h.metadata {
		enhanced.AddAttrs(slog.String(key, value))
	}
	return h.handler.Handle(ctx, enhanced)
}
