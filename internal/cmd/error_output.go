package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/codetree/internal/hierarchy"
	"github.com/salmonumbrella/codetree/internal/output"
	"github.com/salmonumbrella/codetree/internal/snapshot"
	"github.com/salmonumbrella/codetree/internal/viewer"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid --error-format %q (expected auto|text|json|yaml)", format)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(stderrFromContext(ctx))
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(stderrFromContext(ctx))
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(stderrFromContext(ctx), err)
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message":  err.Error(),
		"category": "system",
		"type":     "error",
	}

	var conflictErr *hierarchy.ConflictError
	var notFoundErr *viewer.NotFoundError
	var inputErr *snapshot.InputError
	switch {
	case errors.As(err, &conflictErr):
		errMap["type"] = "conflict"
		errMap["category"] = "user"
		errMap["path"] = conflictErr.Path
		errMap["existing"] = conflictErr.Existing.String()
	case errors.As(err, &notFoundErr):
		errMap["type"] = "not_found"
		errMap["category"] = "user"
		errMap["path"] = notFoundErr.Path
	case errors.Is(err, viewer.ErrNoSelection):
		errMap["type"] = "not_found"
		errMap["category"] = "user"
	case errors.As(err, &inputErr):
		errMap["type"] = "input"
		errMap["category"] = "user"
		if inputErr.Source != "" {
			errMap["source"] = inputErr.Source
		}
	}

	return map[string]interface{}{"error": errMap}
}

type errorFormatKey struct{}

// WithErrorFormat stores the --error-format value in the context.
func WithErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

// ErrorFormatFromContext retrieves the --error-format value from context.
func ErrorFormatFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(errorFormatKey{}).(string); ok {
		return v
	}
	return ""
}
